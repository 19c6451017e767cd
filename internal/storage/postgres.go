package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/minhtq/vodsync/internal/domain"
	"github.com/minhtq/vodsync/shared/postgresql"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

const videoColumns = `
	video_id, user_id, upload_id, asset_id, status,
	playback_id, duration, aspect_ratio, video_quality, encoding_tier,
	max_stored_resolution, max_stored_frame_rate, master_access,
	playback_policy, file_size, audio_only,
	error_type, error_message,
	provider_created_at, provider_updated_at,
	created_at, updated_at
`

// Postgres is the durable video store backed by PostgreSQL.
type Postgres struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgres creates a Postgres store on top of the shared client.
func NewPostgres(pg *postgresql.Client, logger *slog.Logger) *Postgres {
	return &Postgres{
		db:     pg.GetDB(),
		logger: logger,
	}
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*domain.Video, error) {
	return s.findBy(ctx, "video_id", id)
}

func (s *Postgres) FindByUploadID(ctx context.Context, uploadID string) (*domain.Video, error) {
	return s.findBy(ctx, "upload_id", uploadID)
}

func (s *Postgres) FindByAssetID(ctx context.Context, assetID string) (*domain.Video, error) {
	return s.findBy(ctx, "asset_id", assetID)
}

func (s *Postgres) findBy(ctx context.Context, column, value string) (*domain.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM videos WHERE %s = $1`, videoColumns, column)

	var v domain.Video
	err := s.db.GetContext(ctx, &v, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to find video by %s: %w", column, err)
	}

	return &v, nil
}

func (s *Postgres) Create(ctx context.Context, v *domain.Video) error {
	query := `
		INSERT INTO videos (` + videoColumns + `) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13,
			$14, $15, $16,
			$17, $18,
			$19, $20,
			$21, $22
		)
	`

	_, err := s.db.ExecContext(ctx, query, createArgs(v)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %v", domain.ErrDuplicateUploadID, err)
		}
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

func (s *Postgres) Update(ctx context.Context, v *domain.Video) error {
	query := `
		UPDATE videos SET
			upload_id = $2,
			asset_id = $3,
			status = $4,
			playback_id = $5,
			duration = $6,
			aspect_ratio = $7,
			video_quality = $8,
			encoding_tier = $9,
			max_stored_resolution = $10,
			max_stored_frame_rate = $11,
			master_access = $12,
			playback_policy = $13,
			file_size = $14,
			audio_only = $15,
			error_type = $16,
			error_message = $17,
			provider_created_at = $18,
			provider_updated_at = $19,
			updated_at = $20
		WHERE video_id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		v.ID, v.UploadID, v.AssetID, v.Status,
		v.PlaybackID, v.Duration, v.AspectRatio, v.VideoQuality, v.EncodingTier,
		v.MaxStoredResolution, v.MaxStoredFrameRate, v.MasterAccess,
		v.PlaybackPolicy, v.FileSize, v.AudioOnly,
		v.ErrorType, v.ErrorMessage,
		v.ProviderCreatedAt, v.ProviderUpdatedAt,
		v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return domain.ErrVideoNotFound
	}

	return nil
}

// UpsertByAssetID inserts the record or, when a row for the same asset id
// already exists, folds the new values into it without reverting anything
// the row already knows. COALESCE keeps existing non-null columns so the
// operation stays idempotent under concurrent delivery.
func (s *Postgres) UpsertByAssetID(ctx context.Context, v *domain.Video) error {
	if v.AssetID == nil {
		return fmt.Errorf("upsert requires an asset id")
	}

	query := `
		INSERT INTO videos (` + videoColumns + `) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13,
			$14, $15, $16,
			$17, $18,
			$19, $20,
			$21, $22
		)
		ON CONFLICT (asset_id) WHERE asset_id IS NOT NULL DO UPDATE SET
			upload_id = COALESCE(videos.upload_id, EXCLUDED.upload_id),
			status = EXCLUDED.status,
			playback_id = COALESCE(videos.playback_id, EXCLUDED.playback_id),
			duration = COALESCE(videos.duration, EXCLUDED.duration),
			aspect_ratio = COALESCE(videos.aspect_ratio, EXCLUDED.aspect_ratio),
			video_quality = COALESCE(videos.video_quality, EXCLUDED.video_quality),
			encoding_tier = COALESCE(videos.encoding_tier, EXCLUDED.encoding_tier),
			max_stored_resolution = COALESCE(videos.max_stored_resolution, EXCLUDED.max_stored_resolution),
			max_stored_frame_rate = COALESCE(videos.max_stored_frame_rate, EXCLUDED.max_stored_frame_rate),
			master_access = COALESCE(videos.master_access, EXCLUDED.master_access),
			playback_policy = COALESCE(videos.playback_policy, EXCLUDED.playback_policy),
			file_size = COALESCE(videos.file_size, EXCLUDED.file_size),
			audio_only = videos.audio_only OR EXCLUDED.audio_only,
			error_type = COALESCE(videos.error_type, EXCLUDED.error_type),
			error_message = COALESCE(videos.error_message, EXCLUDED.error_message),
			provider_created_at = COALESCE(videos.provider_created_at, EXCLUDED.provider_created_at),
			provider_updated_at = GREATEST(videos.provider_updated_at, EXCLUDED.provider_updated_at),
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, createArgs(v)...)
	if err != nil {
		return fmt.Errorf("failed to upsert video by asset id: %w", err)
	}

	return nil
}

// ListByUser returns a user's videos, newest created first.
func (s *Postgres) ListByUser(ctx context.Context, userID string) ([]domain.Video, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM videos
		WHERE user_id = $1
		ORDER BY created_at DESC, video_id DESC
	`, videoColumns)

	var videos []domain.Video
	if err := s.db.SelectContext(ctx, &videos, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	return videos, nil
}

// DeleteByUser removes all of a user's videos and returns how many were
// deleted.
func (s *Postgres) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete videos: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	s.logger.Info("Deleted user videos",
		slog.String("user_id", userID),
		slog.Int64("count", deleted),
	)
	return deleted, nil
}

func createArgs(v *domain.Video) []interface{} {
	return []interface{}{
		v.ID, v.UserID, v.UploadID, v.AssetID, v.Status,
		v.PlaybackID, v.Duration, v.AspectRatio, v.VideoQuality, v.EncodingTier,
		v.MaxStoredResolution, v.MaxStoredFrameRate, v.MasterAccess,
		v.PlaybackPolicy, v.FileSize, v.AudioOnly,
		v.ErrorType, v.ErrorMessage,
		v.ProviderCreatedAt, v.ProviderUpdatedAt,
		v.CreatedAt, v.UpdatedAt,
	}
}
