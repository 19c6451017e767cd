package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/minhtq/vodsync/internal/domain"
)

// Memory is an in-memory video store with the same contract as Postgres.
// It backs engine and handler tests and keeps the record-store semantics
// (per-key atomicity, unique correlation ids) without a database.
type Memory struct {
	mu     sync.Mutex
	videos map[string]*domain.Video
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{videos: make(map[string]*domain.Video)}
}

func (m *Memory) FindByID(_ context.Context, id string) (*domain.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.videos[id]
	if !ok {
		return nil, domain.ErrVideoNotFound
	}
	return v.Clone(), nil
}

func (m *Memory) FindByUploadID(_ context.Context, uploadID string) (*domain.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v := m.findLocked(func(v *domain.Video) bool {
		return v.UploadID != nil && *v.UploadID == uploadID
	}); v != nil {
		return v.Clone(), nil
	}
	return nil, domain.ErrVideoNotFound
}

func (m *Memory) FindByAssetID(_ context.Context, assetID string) (*domain.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v := m.findLocked(func(v *domain.Video) bool {
		return v.AssetID != nil && *v.AssetID == assetID
	}); v != nil {
		return v.Clone(), nil
	}
	return nil, domain.ErrVideoNotFound
}

func (m *Memory) Create(_ context.Context, v *domain.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v.UploadID != nil {
		if dup := m.findLocked(func(o *domain.Video) bool {
			return o.UploadID != nil && *o.UploadID == *v.UploadID
		}); dup != nil {
			return domain.ErrDuplicateUploadID
		}
	}
	if _, exists := m.videos[v.ID]; exists {
		return fmt.Errorf("video %s already exists", v.ID)
	}

	m.videos[v.ID] = v.Clone()
	return nil
}

func (m *Memory) Update(_ context.Context, v *domain.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.videos[v.ID]; !ok {
		return domain.ErrVideoNotFound
	}
	m.videos[v.ID] = v.Clone()
	return nil
}

func (m *Memory) UpsertByAssetID(_ context.Context, v *domain.Video) error {
	if v.AssetID == nil {
		return fmt.Errorf("upsert requires an asset id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.findLocked(func(o *domain.Video) bool {
		return o.AssetID != nil && *o.AssetID == *v.AssetID
	})
	if existing == nil {
		m.videos[v.ID] = v.Clone()
		return nil
	}

	next := v.Clone()
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	if next.UploadID == nil {
		next.UploadID = existing.UploadID
	}
	m.videos[existing.ID] = next
	return nil
}

// ListByUser returns a user's videos, newest created first.
func (m *Memory) ListByUser(_ context.Context, userID string) ([]domain.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Video
	for _, v := range m.videos {
		if v.UserID == userID {
			out = append(out, *v.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// DeleteByUser removes all of a user's videos and returns the count.
func (m *Memory) DeleteByUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for id, v := range m.videos {
		if v.UserID == userID {
			delete(m.videos, id)
			deleted++
		}
	}
	return deleted, nil
}

// Len reports how many videos the store holds.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.videos)
}

func (m *Memory) findLocked(match func(*domain.Video) bool) *domain.Video {
	for _, v := range m.videos {
		if match(v) {
			return v
		}
	}
	return nil
}
