package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meetnotes/internal/model"
	"meetnotes/internal/service/organizer"
)

const (
	workspaceFailed = "workspace operation failed"
	sessionFailed   = "session operation failed"
)

type WorkspaceHandler struct {
	svc    *organizer.Service
	logger *zap.Logger
}

func NewWorkspaceHandler(svc *organizer.Service, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc, logger: logger}
}

// GetWorkspace 返回全部文件夹和会话
// GET /api/workspace
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	ws, err := h.svc.ListWorkspace(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, workspaceFailed)
		return
	}
	c.JSON(http.StatusOK, ws)
}

type createFolderRequest struct {
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
}

// CreateFolder POST /api/folders
func (h *WorkspaceHandler) CreateFolder(c *gin.Context) {
	var req createFolderRequest
	if !bindJSON(c, &req) {
		return
	}
	f, err := h.svc.CreateFolder(c.Request.Context(), req.Name, req.ParentID)
	if err != nil {
		respondError(c, h.logger, err, workspaceFailed)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// parentId 为 null 或缺失时不移动，为 "" 时移到顶层
type updateFolderRequest struct {
	Name     *string `json:"name"`
	ParentID *string `json:"parentId"`
}

// UpdateFolder 重命名和/或移动文件夹
// PATCH /api/folders/:id
func (h *WorkspaceHandler) UpdateFolder(c *gin.Context) {
	var req updateFolderRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil && req.ParentID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name or parentId required"})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	var (
		f   *model.Folder
		err error
	)
	if req.Name != nil {
		if f, err = h.svc.RenameFolder(ctx, id, *req.Name); err != nil {
			respondError(c, h.logger, err, workspaceFailed)
			return
		}
	}
	if req.ParentID != nil {
		if f, err = h.svc.MoveFolder(ctx, id, *req.ParentID); err != nil {
			respondError(c, h.logger, err, workspaceFailed)
			return
		}
	}
	c.JSON(http.StatusOK, f)
}

// DeleteFolder 子文件夹和会话上移一级
// DELETE /api/folders/:id
func (h *WorkspaceHandler) DeleteFolder(c *gin.Context) {
	if err := h.svc.DeleteFolder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, workspaceFailed)
		return
	}
	c.Status(http.StatusNoContent)
}

type createSessionRequest struct {
	Title    string `json:"title"`
	FolderID string `json:"folderId"`
}

// CreateSession POST /api/sessions
func (h *WorkspaceHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.svc.CreateSession(c.Request.Context(), req.Title, req.FolderID)
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// GetSession GET /api/sessions/:id
func (h *WorkspaceHandler) GetSession(c *gin.Context) {
	s, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusOK, s)
}

type renameSessionRequest struct {
	Title string `json:"title"`
}

// RenameSession PATCH /api/sessions/:id
func (h *WorkspaceHandler) RenameSession(c *gin.Context) {
	var req renameSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.svc.RenameSession(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusOK, s)
}

// DeleteSession DELETE /api/sessions/:id
func (h *WorkspaceHandler) DeleteSession(c *gin.Context) {
	if err := h.svc.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateNotesRequest struct {
	RawNotes string `json:"rawNotes"`
}

// UpdateNotes PUT /api/sessions/:id/notes
func (h *WorkspaceHandler) UpdateNotes(c *gin.Context) {
	var req updateNotesRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.svc.UpdateNotes(c.Request.Context(), c.Param("id"), req.RawNotes)
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusOK, s)
}

type moveSessionRequest struct {
	FolderID string `json:"folderId"`
}

// MoveSession folderId 为空时移到顶层
// POST /api/sessions/:id/move
func (h *WorkspaceHandler) MoveSession(c *gin.Context) {
	var req moveSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.svc.MoveSession(c.Request.Context(), c.Param("id"), req.FolderID)
	if err != nil {
		respondError(c, h.logger, err, sessionFailed)
		return
	}
	c.JSON(http.StatusOK, s)
}
