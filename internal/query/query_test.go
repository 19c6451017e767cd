package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtq/vodsync/internal/domain"
)

type stubStore struct {
	videos []domain.Video
	err    error
}

func (s *stubStore) ListByUser(context.Context, string) ([]domain.Video, error) {
	return s.videos, s.err
}

func TestListVideos(t *testing.T) {
	videos := []domain.Video{
		{ID: "v2", UserID: "user-1", Status: domain.StatusReady},
		{ID: "v1", UserID: "user-1", Status: domain.StatusPreparing},
	}
	svc := NewService(&stubStore{videos: videos})

	got, err := svc.ListVideos(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, videos, got)
}

func TestListVideos_NoPrincipal(t *testing.T) {
	svc := NewService(&stubStore{})

	_, err := svc.ListVideos(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListVideos_StoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := NewService(&stubStore{err: storeErr})

	_, err := svc.ListVideos(context.Background(), "user-1")
	assert.ErrorIs(t, err, storeErr)
}

func TestAnyProcessing(t *testing.T) {
	tests := []struct {
		name   string
		videos []domain.Video
		want   bool
	}{
		{name: "empty list", videos: nil, want: false},
		{
			name: "all terminal",
			videos: []domain.Video{
				{Status: domain.StatusReady},
				{Status: domain.StatusErrored},
			},
			want: false,
		},
		{
			name: "one still preparing",
			videos: []domain.Video{
				{Status: domain.StatusReady},
				{Status: domain.StatusPreparing},
			},
			want: true,
		},
		{
			name:   "uploading",
			videos: []domain.Video{{Status: domain.StatusUploading}},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnyProcessing(tt.videos))
		})
	}
}
