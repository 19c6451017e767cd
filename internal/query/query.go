package query

import (
	"context"
	"fmt"

	"github.com/minhtq/vodsync/internal/domain"
)

// Store is the read-side contract the query service needs.
type Store interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Video, error)
}

// Service is the read path polling clients use to observe video progress.
// It has no side effects.
type Service struct {
	store Store
}

// NewService creates a query service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListVideos returns the user's videos, newest created first.
func (s *Service) ListVideos(ctx context.Context, userID string) ([]domain.Video, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	videos, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list videos for %s: %w", userID, err)
	}
	return videos, nil
}

// AnyProcessing reports whether any video is still uploading or preparing,
// which is the polling client's continue condition.
func AnyProcessing(videos []domain.Video) bool {
	for i := range videos {
		if !videos[i].IsTerminal() {
			return true
		}
	}
	return false
}
