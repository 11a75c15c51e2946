package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// multipartOverhead covers boundaries, headers and text fields around the file part.
const multipartOverhead = 1 << 20

// LimitUploadBody caps the request body of upload routes so oversized files are cut off
// while being read instead of being spooled to disk first. A non-positive size disables it.
func LimitUploadBody(maxUploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxUploadBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+multipartOverhead)
		}
		c.Next()
	}
}
