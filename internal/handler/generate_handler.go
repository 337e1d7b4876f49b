package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meetnotes/internal/service/generate"
)

const generationFailed = "generation failed"

type GenerateHandler struct {
	svc    *generate.Service
	logger *zap.Logger
}

func NewGenerateHandler(svc *generate.Service, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{svc: svc, logger: logger}
}

// Generate 生成摘要和行动项
// POST /api/generate
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req generate.Request
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, generationFailed)
		return
	}
	c.JSON(http.StatusOK, out)
}

// FollowUpEmail 基于高亮生成跟进邮件
// POST /api/follow-up-email
func (h *GenerateHandler) FollowUpEmail(c *gin.Context) {
	var req generate.FollowUpRequest
	if !bindJSON(c, &req) {
		return
	}
	email, err := h.svc.DraftFollowUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, generationFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": email})
}

// Analyze 返回结构化解析结果
// POST /api/analyze
func (h *GenerateHandler) Analyze(c *gin.Context) {
	var req generate.Request
	if !bindJSON(c, &req) {
		return
	}
	analysis, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, generationFailed)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
