package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"mini-social/config"
)

// CloudinaryStore uploads images to Cloudinary and references them by secure URL.
type CloudinaryStore struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	maxBytes  int64
}

// NewCloudinaryStore initialise la connexion à Cloudinary et la vérifie
func NewCloudinaryStore(ctx context.Context, cfg config.StorageConfig) (*CloudinaryStore, error) {
	cl := cfg.Cloudinary
	if cl.CloudName == "" || cl.APIKey == "" || cl.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are not configured")
	}

	cld, err := cloudinary.NewFromParams(cl.CloudName, cl.APIKey, cl.APISecret)
	if err != nil {
		return nil, fmt.Errorf("initializing cloudinary: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := cld.Admin.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("checking cloudinary connection: %w", err)
	}

	LogSuccess("Cloudinary initialized")
	return &CloudinaryStore{cld: cld, cloudName: cl.CloudName, maxBytes: cfg.MaxUploadBytes}, nil
}

func boolPointer(b bool) *bool {
	return &b
}

func folderFor(prefix string) string {
	switch prefix {
	case "pfp":
		return "profile_pictures"
	case "post":
		return "post_pictures"
	default:
		return "uploads"
	}
}

func (s *CloudinaryStore) Save(ctx context.Context, prefix string, file *multipart.FileHeader) (string, error) {
	if err := validateUpload(file, s.maxBytes); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	name := blobName(prefix, file.Filename)
	params := uploader.UploadParams{
		Folder:         folderFor(prefix),
		PublicID:       strings.TrimSuffix(name, filepath.Ext(name)),
		UniqueFilename: boolPointer(false),
		Overwrite:      boolPointer(false),
		ResourceType:   "image",
	}

	result, err := s.cld.Upload.Upload(uploadCtx, src, params)
	if err != nil {
		return "", fmt.Errorf("uploading to cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}

	return uploadedURL(s.cloudName, result.SecureURL, result.PublicID)
}

// uploadedURL prefers the secure URL Cloudinary returns and otherwise builds it from the public id.
func uploadedURL(cloudName, secureURL, publicID string) (string, error) {
	if secureURL != "" {
		return secureURL, nil
	}
	if publicID == "" {
		return "", fmt.Errorf("empty secure URL in cloudinary response")
	}
	// URL construite à partir du PublicID
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s", cloudName, publicID), nil
}
