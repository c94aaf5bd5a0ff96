package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type analyticsSummaryResponse struct {
	TotalRequests      int64      `json:"total_requests"`
	InappropriateCount int64      `json:"inappropriate_count"`
	LastRequest        *time.Time `json:"last_request"`
}

// AnalyticsSummary aggregates the moderation trail, optionally filtered by
// submitter email via ?user=.
func (h HandlerSet) AnalyticsSummary(c *gin.Context) {
	user := c.Query("user")

	summary, err := h.analytics.Summary(c.Request.Context(), user)
	if err != nil {
		h.log.Error().Err(err).Str("user", user).Msg("analytics query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Analytics query failed"})
		return
	}

	c.JSON(http.StatusOK, analyticsSummaryResponse{
		TotalRequests:      summary.TotalRequests,
		InappropriateCount: summary.InappropriateCount,
		LastRequest:        summary.LastRequest,
	})
}
