package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/minhtq/vodsync/internal/query"
	"github.com/minhtq/vodsync/internal/reconcile"
)

// Reconciler runs one inbound event through the reconciliation pipeline.
type Reconciler interface {
	Reconcile(ctx context.Context, raw []byte, principal string) (reconcile.Outcome, error)
}

// Publisher hands a raw event to the message queue for asynchronous
// reconciliation by the worker service.
type Publisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Cleaner deletes all videos owned by one user.
type Cleaner interface {
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger     *slog.Logger
	Reconciler Reconciler
	Publisher  Publisher
	Query      *query.Service
	Cleaner    Cleaner
}

// VideoHandler handles event ingestion and video read/cleanup requests
type VideoHandler struct {
	logger     *slog.Logger
	reconciler Reconciler
	publisher  Publisher
	query      *query.Service
	cleaner    Cleaner
}

// NewVideoHandler creates a new VideoHandler instance
func NewVideoHandler(deps *Dependencies) *VideoHandler {
	return &VideoHandler{
		logger:     deps.Logger,
		reconciler: deps.Reconciler,
		publisher:  deps.Publisher,
		query:      deps.Query,
		cleaner:    deps.Cleaner,
	}
}

// userID returns the principal the router middleware resolved from the
// X-User-ID header, or "" when the caller is anonymous.
func userID(c *gin.Context) string {
	return c.GetString("user_id")
}
