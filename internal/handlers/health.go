package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health always reports ok: the endpoint is a liveness probe and must not
// depend on database or queue state.
func (h HandlerSet) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
