package api

import (
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger logs one line per request at debug level. The API serves
// a couple of LAN readers; anything heavier than this would outweigh the
// traffic.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.log.Debugw("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"dur", time.Since(start),
	)
}
