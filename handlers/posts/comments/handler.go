package comments

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mini-social/handlers/posts"
	"mini-social/middleware"
	"mini-social/models"
	"mini-social/utils"
)

type CommentService interface {
	CreateComment(ctx context.Context, owner *models.User, postID uint, text string) (*models.Comment, error)
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
}

type Handler struct {
	comments CommentService
}

func New(comments CommentService) *Handler {
	return &Handler{comments: comments}
}

// @Summary Create a new comment for a post
// @Tags comments
// @Accept json
// @Produce json
// @Param postId path int true "Post ID"
// @Param comment body models.CommentCreate true "Comment text"
// @Security BearerAuth
// @Success 200 {object} models.Comment
// @Failure 401 {object} map[string]string "error: Could not validate credentials"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Failure 422 {object} map[string]string "error: Invalid input"
// @Router /api/comments/{postId} [post]
func (h *Handler) CreateComment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.SendDomainError(c, utils.ErrUnauthenticated)
		return
	}

	postID, err := posts.ParseID(c, "postId")
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	var input models.CommentCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, http.StatusUnprocessableEntity, "Invalid comment data: "+err.Error())
		return
	}

	comment, err := h.comments.CreateComment(c.Request.Context(), user, postID, input.Text)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// @Summary List the comments of a post
// @Description Oldest first, with their authors
// @Tags comments
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {array} models.Comment
// @Router /api/comments/{postId} [get]
func (h *Handler) ListComments(c *gin.Context) {
	postID, err := posts.ParseID(c, "postId")
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	comments, err := h.comments.ListComments(c.Request.Context(), postID)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}
