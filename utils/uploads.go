package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"mini-social/config"
)

// BlobStore persists uploaded images and returns the public reference stored on the row.
type BlobStore interface {
	Save(ctx context.Context, prefix string, file *multipart.FileHeader) (string, error)
}

// NewBlobStore builds the backend selected in cfg.
func NewBlobStore(ctx context.Context, cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Backend {
	case "cloudinary":
		return NewCloudinaryStore(ctx, cfg)
	default:
		return NewLocalStore(cfg)
	}
}

var validImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg"}

// Vérifie si l'extension du fichier est supportée
func isValidImageType(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, valid := range validImageExtensions {
		if ext == valid {
			return true
		}
	}
	return false
}

func validateUpload(file *multipart.FileHeader, maxBytes int64) error {
	if file == nil {
		return ValidationFailed("file is required")
	}
	if !isValidImageType(file.Filename) {
		return ValidationFailed("unsupported image format, use JPG, PNG, GIF, WEBP, BMP or SVG")
	}
	if maxBytes > 0 && file.Size > maxBytes {
		return ValidationFailed(fmt.Sprintf("image too large, maximum is %d MB", maxBytes/(1024*1024)))
	}
	return nil
}

// blobName builds a collision-resistant file name that keeps the upload's extension.
func blobName(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if prefix == "" {
		return uuid.NewString() + ext
	}
	return prefix + "_" + uuid.NewString() + ext
}

// LocalStore writes files under a directory served at PublicPrefix.
type LocalStore struct {
	dir          string
	publicPrefix string
	maxBytes     int64
}

func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &LocalStore{
		dir:          cfg.UploadDir,
		publicPrefix: cfg.PublicPrefix,
		maxBytes:     cfg.MaxUploadBytes,
	}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

// Save copies the upload to disk. A partially written file is removed on failure.
func (s *LocalStore) Save(ctx context.Context, prefix string, file *multipart.FileHeader) (string, error) {
	if err := validateUpload(file, s.maxBytes); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	name := blobName(prefix, file.Filename)
	target := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(target)
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("closing %s: %w", name, err)
	}

	return path.Join(s.publicPrefix, name), nil
}
