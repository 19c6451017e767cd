package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhtq/vodsync/internal/api/dto"
	"github.com/minhtq/vodsync/internal/domain"
	"github.com/minhtq/vodsync/internal/query"
)

// ListVideos handles GET /api/v1/videos
// Returns the caller's videos newest first plus the processing flag the
// polling client uses as its stop condition.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	videos, err := h.query.ListVideos(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("Failed to list videos",
			slog.String("user_id", user),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list videos"})
		return
	}

	out := make([]dto.VideoDTO, len(videos))
	for i := range videos {
		out[i] = toVideoDTO(&videos[i])
	}

	c.JSON(http.StatusOK, dto.ListVideosResponse{
		Videos:     out,
		Processing: query.AnyProcessing(videos),
	})
}

// CleanupVideos handles DELETE /api/v1/videos
// Deletes every video owned by the caller and reports how many went away.
func (h *VideoHandler) CleanupVideos(c *gin.Context) {
	user := userID(c)
	if user == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	deleted, err := h.cleaner.DeleteByUser(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("Failed to delete videos",
			slog.String("user_id", user),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete videos"})
		return
	}

	c.JSON(http.StatusOK, dto.CleanupResponse{DeletedCount: deleted})
}

func toVideoDTO(v *domain.Video) dto.VideoDTO {
	return dto.VideoDTO{
		VideoID:             v.ID,
		UploadID:            v.UploadID,
		AssetID:             v.AssetID,
		Status:              v.Status,
		PlaybackID:          v.PlaybackID,
		Duration:            v.Duration,
		AspectRatio:         v.AspectRatio,
		VideoQuality:        v.VideoQuality,
		EncodingTier:        v.EncodingTier,
		MaxStoredResolution: v.MaxStoredResolution,
		MaxStoredFrameRate:  v.MaxStoredFrameRate,
		MasterAccess:        v.MasterAccess,
		PlaybackPolicy:      v.PlaybackPolicy,
		FileSize:            v.FileSize,
		AudioOnly:           v.AudioOnly,
		ErrorType:           v.ErrorType,
		ErrorMessage:        v.ErrorMessage,
		CreatedAt:           v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           v.UpdatedAt.Format(time.RFC3339),
	}
}
