package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"meetnotes/internal/handler"
)

// ReadyCheck 就绪检查，返回 nil 表示依赖可用
type ReadyCheck func(ctx context.Context) error

type Handlers struct {
	Generate  *handler.GenerateHandler
	Workspace *handler.WorkspaceHandler
	Session   *handler.SessionHandler
}

type Options struct {
	MaxBodyBytes int64
	// ReadyChecks key 是依赖名，出现在 /readyz 的响应里
	ReadyChecks map[string]ReadyCheck
}

func NewRouter(h Handlers, logger *zap.Logger, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(LoggingMiddleware(logger))

	// Health endpoints
	health := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }
	headOK := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/healthz", health)
	r.HEAD("/healthz", headOK)
	r.GET("/health", health)
	r.HEAD("/health", headOK)

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		for name, check := range opts.ReadyChecks {
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": name + "_not_ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(BodyLimitMiddleware(opts.MaxBodyBytes))
	{
		api.POST("/generate", h.Generate.Generate)
		api.POST("/follow-up-email", h.Generate.FollowUpEmail)
		api.POST("/analyze", h.Generate.Analyze)

		api.GET("/workspace", h.Workspace.GetWorkspace)
		api.POST("/folders", h.Workspace.CreateFolder)
		api.PATCH("/folders/:id", h.Workspace.UpdateFolder)
		api.DELETE("/folders/:id", h.Workspace.DeleteFolder)

		api.POST("/sessions", h.Workspace.CreateSession)
		api.GET("/sessions/:id", h.Workspace.GetSession)
		api.PATCH("/sessions/:id", h.Workspace.RenameSession)
		api.DELETE("/sessions/:id", h.Workspace.DeleteSession)
		api.PUT("/sessions/:id/notes", h.Workspace.UpdateNotes)
		api.POST("/sessions/:id/move", h.Workspace.MoveSession)

		api.POST("/sessions/:id/generate", h.Session.Generate)
		api.POST("/sessions/:id/follow-up-email", h.Session.FollowUpEmail)

		api.GET("/sessions/:id/checkpoints", h.Session.ListCheckpoints)
		api.POST("/sessions/:id/checkpoints", h.Session.SaveCheckpoint)
		api.POST("/sessions/:id/checkpoints/undo", h.Session.Undo)
		api.POST("/sessions/:id/checkpoints/redo", h.Session.Redo)

		api.POST("/sessions/:id/past", h.Session.MarkPast)
		api.POST("/sessions/:id/reopen", h.Session.Reopen)
		api.PUT("/sessions/:id/post-meeting", h.Session.SetPostMeeting)

		api.POST("/sessions/:id/highlights", h.Session.AddHighlight)
		api.POST("/sessions/:id/highlights/promote", h.Session.PromoteActionItem)
		api.PATCH("/sessions/:id/highlights/:hid", h.Session.RetagHighlight)
		api.DELETE("/sessions/:id/highlights/:hid", h.Session.RemoveHighlight)
	}
	return r
}
