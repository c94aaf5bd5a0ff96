package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"moderator/api/internal/classify"
	"moderator/api/internal/service"
)

type textModerationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Text  string `json:"text" binding:"required"`
}

type imageModerationRequest struct {
	Email     string `json:"email" binding:"required,email"`
	ImageData string `json:"image_data" binding:"required"`
}

type moderationResponse struct {
	Classification string          `json:"classification"`
	Confidence     float64         `json:"confidence"`
	Reasoning      string          `json:"reasoning"`
	LLMResponse    json.RawMessage `json:"llm_response"`
}

func toModerationResponse(result classify.Result) moderationResponse {
	return moderationResponse{
		Classification: string(result.Classification),
		Confidence:     result.Confidence,
		Reasoning:      result.Reasoning,
		LLMResponse:    result.RawResponse,
	}
}

func (h HandlerSet) ModerateText(c *gin.Context) {
	var req textModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.moderator.ModerateText(c.Request.Context(), service.TextInput{
		Email: req.Email,
		Text:  req.Text,
	})
	if err != nil {
		h.log.Error().Err(err).Str("email", req.Email).Msg("text moderation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Moderation failed"})
		return
	}

	c.JSON(http.StatusOK, toModerationResponse(result))
}

func (h HandlerSet) ModerateImage(c *gin.Context) {
	var req imageModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.moderator.ModerateImage(c.Request.Context(), service.ImageInput{
		Email:     req.Email,
		ImageData: req.ImageData,
	})
	if err != nil {
		h.log.Error().Err(err).Str("email", req.Email).Msg("image moderation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Image moderation failed"})
		return
	}

	c.JSON(http.StatusOK, toModerationResponse(result))
}
