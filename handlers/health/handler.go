package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mini-social/utils"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db Pinger
}

func New(db Pinger) *Handler {
	return &Handler{db: db}
}

// HandleHealth reports whether the database answers.
// @Summary Health check
// @Description Pings the database
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "status: ok"
// @Failure 503 {object} map[string]string "status: unavailable"
// @Router /health [get]
func (h *Handler) HandleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		utils.LogError(err, "Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
