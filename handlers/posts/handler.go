package posts

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mini-social/middleware"
	"mini-social/models"
	"mini-social/store"
	"mini-social/utils"
)

type PostService interface {
	CreatePost(ctx context.Context, owner *models.User, title, imageRef string) (*models.Post, error)
	ListPosts(ctx context.Context, skip, limit int) ([]models.Post, error)
	GetPost(ctx context.Context, postID uint) (*models.Post, error)
}

type Handler struct {
	posts PostService
	blobs utils.BlobStore
}

func New(posts PostService, blobs utils.BlobStore) *Handler {
	return &Handler{posts: posts, blobs: blobs}
}

// ParseID reads a numeric path parameter.
func ParseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, utils.ValidationFailed("invalid " + name)
	}
	return uint(id), nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, exists := c.GetQuery(name)
	if !exists || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, utils.ValidationFailed(name + " must be a non-negative integer")
	}
	return v, nil
}

// @Summary Create a new post
// @Description Upload an image with a title
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Post title"
// @Param image formData file true "Post image"
// @Security BearerAuth
// @Success 201 {object} models.Post
// @Failure 401 {object} map[string]string "error: Could not validate credentials"
// @Failure 413 {object} map[string]string "error: Request body too large"
// @Failure 422 {object} map[string]string "error: Invalid input"
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.SendDomainError(c, utils.ErrUnauthenticated)
		return
	}

	// The file is read first: a body cut off by the upload limit must not look like a missing title.
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			utils.SendError(c, http.StatusUnprocessableEntity, "Image is required")
			return
		}
		utils.SendFormError(c, err)
		return
	}

	title := c.PostForm("title")
	if title == "" {
		utils.SendError(c, http.StatusUnprocessableEntity, "Title is required")
		return
	}

	// The image is stored before the row so a committed post always has its file.
	imageRef, err := h.blobs.Save(c.Request.Context(), "post", file)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	post, err := h.posts.CreatePost(c.Request.Context(), user, title, imageRef)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	utils.LogSuccessWithUser(user.ID, "Post created")
	c.JSON(http.StatusCreated, post)
}

// @Summary List posts
// @Description Newest first, with their authors
// @Tags posts
// @Produce json
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(100)
// @Success 200 {array} models.Post
// @Failure 422 {object} map[string]string "error: Invalid input"
// @Router /api/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", store.DefaultPostLimit)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	posts, err := h.posts.ListPosts(c.Request.Context(), skip, limit)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// @Summary Get a post by ID
// @Tags posts
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /api/posts/{postId} [get]
func (h *Handler) GetPost(c *gin.Context) {
	postID, err := ParseID(c, "postId")
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), postID)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}
