package reconcile

import (
	"context"

	"github.com/minhtq/vodsync/internal/domain"
)

// Store is the record-store contract the engine reconciles against. Lookups
// return domain.ErrVideoNotFound when no record matches; every method is
// atomic per key. Both the Postgres adapter and the in-memory test double
// satisfy it.
type Store interface {
	FindByID(ctx context.Context, id string) (*domain.Video, error)
	FindByUploadID(ctx context.Context, uploadID string) (*domain.Video, error)
	FindByAssetID(ctx context.Context, assetID string) (*domain.Video, error)
	Create(ctx context.Context, v *domain.Video) error
	Update(ctx context.Context, v *domain.Video) error
	// UpsertByAssetID atomically creates the record or updates the one
	// already holding v's asset id.
	UpsertByAssetID(ctx context.Context, v *domain.Video) error
}
