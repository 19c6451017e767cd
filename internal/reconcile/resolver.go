package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/minhtq/vodsync/internal/domain"
	"github.com/minhtq/vodsync/internal/event"
)

// Resolution is the outcome of correlating an event to a record: either an
// existing target video, or a creation intent (Video nil) carrying the owner
// the new record should get.
type Resolution struct {
	Video *domain.Video
	Owner string
}

// Resolve finds the video an event belongs to. Asset id wins over upload id;
// if both are present and point at different existing records the event is
// rejected with domain.ErrConflictingCorrelation rather than merged into
// either. When nothing matches, a creation intent is returned for every
// kind, so no event is dropped for arriving before its record (events with
// no known owner fall back to the "system" user).
func Resolve(ctx context.Context, store Store, ev *event.Event, principal string) (*Resolution, error) {
	owner := principal
	if owner == "" {
		owner = domain.SystemUser
	}

	var byAsset *domain.Video
	if ev.AssetID != "" {
		v, err := store.FindByAssetID(ctx, ev.AssetID)
		if err != nil && !errors.Is(err, domain.ErrVideoNotFound) {
			return nil, err
		}
		byAsset = v
	}

	var byUpload *domain.Video
	if ev.UploadID != "" {
		v, err := store.FindByUploadID(ctx, ev.UploadID)
		if err != nil && !errors.Is(err, domain.ErrVideoNotFound) {
			return nil, err
		}
		byUpload = v
	}

	if byAsset != nil && byUpload != nil && byAsset.ID != byUpload.ID {
		return nil, fmt.Errorf("%w: asset %s belongs to video %s but upload %s belongs to video %s",
			domain.ErrConflictingCorrelation, ev.AssetID, byAsset.ID, ev.UploadID, byUpload.ID)
	}

	if byAsset != nil {
		return &Resolution{Video: byAsset}, nil
	}
	if byUpload != nil {
		return &Resolution{Video: byUpload}, nil
	}
	return &Resolution{Owner: owner}, nil
}
