package likes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mini-social/handlers/posts"
	"mini-social/middleware"
	"mini-social/models"
	"mini-social/utils"
)

type LikeService interface {
	ToggleLike(ctx context.Context, userID, postID uint) (models.LikeStatus, error)
	CountLikes(ctx context.Context, postID uint) (int64, error)
}

type Handler struct {
	likes LikeService
}

func New(likes LikeService) *Handler {
	return &Handler{likes: likes}
}

// @Summary Toggle like on a post
// @Description Add the like if absent, remove it otherwise, and return the new count
// @Tags likes
// @Produce json
// @Param postId path int true "Post ID"
// @Security BearerAuth
// @Success 200 {object} models.LikeStatus
// @Failure 401 {object} map[string]string "error: Could not validate credentials"
// @Failure 404 {object} map[string]string "error: Post not found"
// @Router /api/likes/{postId} [post]
func (h *Handler) ToggleLike(c *gin.Context) {
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

	status, err := h.likes.ToggleLike(c.Request.Context(), user.ID, postID)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// @Summary Like count of a post
// @Tags likes
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} map[string]int "count"
// @Router /api/likes/{postId}/count [get]
func (h *Handler) CountLikes(c *gin.Context) {
	postID, err := posts.ParseID(c, "postId")
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	count, err := h.likes.CountLikes(c.Request.Context(), postID)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
