package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health answers liveness probes.
func (h *Handlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "Hello, world")
}
