package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meetnotes/internal/service/generate"
	"meetnotes/internal/service/organizer"
	"meetnotes/pkg/logger"
)

// statusFor 把服务层错误映射为 HTTP 状态码；未知错误返回 500
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, generate.ErrEmptyInput),
		errors.Is(err, organizer.ErrInvalidFolder),
		errors.Is(err, organizer.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, generate.ErrPayloadTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, organizer.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, organizer.ErrNothingToUndo), errors.Is(err, organizer.ErrNothingToRedo),
		errors.Is(err, organizer.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError 4xx 返回错误原文；5xx 只返回 fallback，细节写日志
func respondError(c *gin.Context, log *zap.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithTrace(c.Request.Context(), log).Error(fallback,
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON 解析请求体，失败时直接写响应并返回 false
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
