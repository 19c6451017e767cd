package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhtq/vodsync/internal/api/dto"
	"github.com/minhtq/vodsync/internal/domain"
)

// maxEventBody caps inbound webhook bodies.
const maxEventBody = 1 << 20

// IngestEvent handles POST /api/v1/events
// Accepts a provider webhook, validates the envelope, and enqueues the raw
// payload for asynchronous reconciliation. Returns 202 so the provider's
// delivery succeeds even while the store is briefly unavailable.
func (h *VideoHandler) IngestEvent(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &env); err != nil || env.Type == "" {
		h.logger.Warn("Rejecting unreadable event envelope",
			slog.Int("body_size", len(body)),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event must be a JSON object with a type field"})
		return
	}

	if err := h.publisher.PublishWithRetry(c.Request.Context(), body, "application/json"); err != nil {
		h.logger.Error("Failed to enqueue event",
			slog.String("event_type", env.Type),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to enqueue event"})
		return
	}

	h.logger.Info("Event enqueued",
		slog.String("event_type", env.Type),
	)
	c.JSON(http.StatusAccepted, dto.EventResponse{Result: "accepted"})
}

// ReconcileEventSync handles POST /api/v1/events/sync
// Runs the reconciliation engine inline and reports the outcome. Used for
// manual replays of events the queue path dropped or an operator captured.
func (h *VideoHandler) ReconcileEventSync(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	outcome, err := h.reconciler.Reconcile(c.Request.Context(), body, userID(c))
	if err != nil {
		h.respondReconcileError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EventResponse{
		Result:  string(outcome.Result),
		VideoID: outcome.VideoID,
		Reason:  outcome.Reason,
	})
}

// HandleUploadSuccess handles POST /api/v1/uploads
// Client-initiated creation: records that a direct upload finished and
// creates the uploading video owned by the caller.
func (h *VideoHandler) HandleUploadSuccess(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UploadSuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid upload success body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	raw, err := json.Marshal(map[string]interface{}{
		"type": "upload.success",
		"data": map[string]string{
			"extractedId": req.ExtractedID,
			"endpoint":    req.Endpoint,
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode event"})
		return
	}

	outcome, err := h.reconciler.Reconcile(c.Request.Context(), raw, user)
	if err != nil {
		h.respondReconcileError(c, err)
		return
	}

	h.logger.Info("Upload success recorded",
		slog.String("video_id", outcome.VideoID),
		slog.String("user_id", user),
	)
	c.JSON(http.StatusOK, dto.EventResponse{
		Result:  string(outcome.Result),
		VideoID: outcome.VideoID,
	})
}

func (h *VideoHandler) respondReconcileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrMalformedEvent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflictingCorrelation):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Reconciliation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
	}
}
