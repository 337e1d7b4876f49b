package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meetnotes/internal/service/organizer"
)

// SessionHandler 检查点、会后流程、高亮和会话内生成
type SessionHandler struct {
	svc    *organizer.Service
	logger *zap.Logger
}

func NewSessionHandler(svc *organizer.Service, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, logger: logger}
}

// ListCheckpoints GET /api/sessions/:id/checkpoints
func (h *SessionHandler) ListCheckpoints(c *gin.Context) {
	hist, err := h.svc.ListCheckpoints(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusOK, hist)
}

type saveCheckpointRequest struct {
	Label string `json:"label"`
}

// SaveCheckpoint 请求体可以为空
// POST /api/sessions/:id/checkpoints
func (h *SessionHandler) SaveCheckpoint(c *gin.Context) {
	var req saveCheckpointRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	cp, err := h.svc.SaveCheckpoint(c.Request.Context(), c.Param("id"), req.Label)
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusCreated, cp)
}

// Undo POST /api/sessions/:id/checkpoints/undo
func (h *SessionHandler) Undo(c *gin.Context) {
	s, err := h.svc.Undo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Redo POST /api/sessions/:id/checkpoints/redo
func (h *SessionHandler) Redo(c *gin.Context) {
	s, err := h.svc.Redo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusOK, s)
}

type markPastRequest struct {
	MeetingResult string `json:"meetingResult"`
}

// MarkPast POST /api/sessions/:id/past
func (h *SessionHandler) MarkPast(c *gin.Context) {
	var req markPastRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	s, err := h.svc.MarkPast(c.Request.Context(), c.Param("id"), req.MeetingResult)
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Reopen POST /api/sessions/:id/reopen
func (h *SessionHandler) Reopen(c *gin.Context) {
	s, err := h.svc.Reopen(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusOK, s)
}

// SetPostMeeting PUT /api/sessions/:id/post-meeting
func (h *SessionHandler) SetPostMeeting(c *gin.Context) {
	var req organizer.PostMeeting
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.svc.SetPostMeeting(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusOK, s)
}

type highlightRequest struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
}

// AddHighlight POST /api/sessions/:id/highlights
func (h *SessionHandler) AddHighlight(c *gin.Context) {
	var req highlightRequest
	if !bindJSON(c, &req) {
		return
	}
	hl, err := h.svc.AddHighlight(c.Request.Context(), c.Param("id"), req.Text, req.Tag)
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusCreated, hl)
}

type promoteRequest struct {
	Item int    `json:"item"`
	Tag  string `json:"tag"`
}

// PromoteActionItem item 是行动项序号（从 1 开始）
// POST /api/sessions/:id/highlights/promote
func (h *SessionHandler) PromoteActionItem(c *gin.Context) {
	var req promoteRequest
	if !bindJSON(c, &req) {
		return
	}
	hl, err := h.svc.PromoteActionItem(c.Request.Context(), c.Param("id"), req.Item, req.Tag)
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusCreated, hl)
}

type retagRequest struct {
	Tag string `json:"tag"`
}

// RetagHighlight PATCH /api/sessions/:id/highlights/:hid
func (h *SessionHandler) RetagHighlight(c *gin.Context) {
	var req retagRequest
	if !bindJSON(c, &req) {
		return
	}
	hl, err := h.svc.RetagHighlight(c.Request.Context(), c.Param("id"), c.Param("hid"), req.Tag)
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusOK, hl)
}

// RemoveHighlight DELETE /api/sessions/:id/highlights/:hid
func (h *SessionHandler) RemoveHighlight(c *gin.Context) {
	if err := h.svc.RemoveHighlight(c.Request.Context(), c.Param("id"), c.Param("hid")); err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.Status(http.StatusNoContent)
}

// Generate 生成并保存摘要和行动项
// POST /api/sessions/:id/generate
func (h *SessionHandler) Generate(c *gin.Context) {
	s, err := h.svc.GenerateForSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, generationFailed)
		return
	}
	c.JSON(http.StatusOK, s)
}

// FollowUpEmail 用会话的高亮生成并保存跟进邮件
// POST /api/sessions/:id/follow-up-email
func (h *SessionHandler) FollowUpEmail(c *gin.Context) {
	var req organizer.FollowUpPrompts
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	s, err := h.svc.DraftFollowUpForSession(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err, generationFailed)
		return
	}
	c.JSON(http.StatusOK, s)
}
