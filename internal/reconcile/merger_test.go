package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtq/vodsync/internal/domain"
	"github.com/minhtq/vodsync/internal/event"
)

var mergeNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func i64Ptr(i int64) *int64     { return &i }

func newVideo(status string) *domain.Video {
	return &domain.Video{
		ID:        "v1",
		UserID:    "user-1",
		Status:    status,
		CreatedAt: mergeNow.Add(-time.Hour),
		UpdatedAt: mergeNow.Add(-time.Hour),
	}
}

func TestMerge_Idempotent(t *testing.T) {
	ev := &event.Event{
		Kind:    event.KindAssetReady,
		AssetID: "a1",
		Fields: event.Fields{
			Duration:          f64Ptr(120.5),
			AspectRatio:       strPtr("16:9"),
			ProviderUpdatedAt: i64Ptr(1700000100),
		},
	}

	v := newVideo(domain.StatusPreparing)
	once, changed := Merge(v, ev, mergeNow)
	require.True(t, changed)

	twice, changedAgain := Merge(once, ev, mergeNow)
	assert.False(t, changedAgain)
	assert.Equal(t, once, twice)
}

func TestMerge_StatusNeverRegresses(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		ev         *event.Event
		wantStatus string
	}{
		{
			name:       "created event cannot demote ready",
			current:    domain.StatusReady,
			ev:         &event.Event{Kind: event.KindAssetCreated, AssetID: "a1", Fields: event.Fields{Status: strPtr(domain.StatusPreparing)}},
			wantStatus: domain.StatusReady,
		},
		{
			name:       "updated event cannot demote ready",
			current:    domain.StatusReady,
			ev:         &event.Event{Kind: event.KindAssetUpdated, AssetID: "a1", Fields: event.Fields{Status: strPtr(domain.StatusUploading)}},
			wantStatus: domain.StatusReady,
		},
		{
			name:       "errored supersedes preparing",
			current:    domain.StatusPreparing,
			ev:         &event.Event{Kind: event.KindAssetErrored, AssetID: "a1", Fields: event.Fields{ErrorType: strPtr("invalid_input"), ErrorMessage: strPtr("bad codec")}},
			wantStatus: domain.StatusErrored,
		},
		{
			name:       "errored supersedes ready",
			current:    domain.StatusReady,
			ev:         &event.Event{Kind: event.KindAssetErrored, AssetID: "a1", Fields: event.Fields{ErrorType: strPtr("deleted"), ErrorMessage: strPtr("asset deleted")}},
			wantStatus: domain.StatusErrored,
		},
		{
			name:       "nothing leaves errored",
			current:    domain.StatusErrored,
			ev:         &event.Event{Kind: event.KindAssetReady, AssetID: "a1"},
			wantStatus: domain.StatusErrored,
		},
		{
			name:       "created advances uploading",
			current:    domain.StatusUploading,
			ev:         &event.Event{Kind: event.KindAssetCreated, AssetID: "a1"},
			wantStatus: domain.StatusPreparing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, _ := Merge(newVideo(tt.current), tt.ev, mergeNow)
			assert.Equal(t, tt.wantStatus, merged.Status)
		})
	}
}

func TestMerge_MonotonicFields(t *testing.T) {
	v := newVideo(domain.StatusPreparing)
	v.Duration = f64Ptr(120.5)
	v.AspectRatio = strPtr("16:9")

	// An event without those attributes leaves them alone.
	merged, _ := Merge(v, &event.Event{Kind: event.KindAssetUpdated, AssetID: "a1"}, mergeNow)
	require.NotNil(t, merged.Duration)
	assert.Equal(t, 120.5, *merged.Duration)
	require.NotNil(t, merged.AspectRatio)
	assert.Equal(t, "16:9", *merged.AspectRatio)

	// An event carrying different values does not overwrite known ones.
	merged, _ = Merge(v, &event.Event{
		Kind:    event.KindAssetUpdated,
		AssetID: "a1",
		Fields:  event.Fields{Duration: f64Ptr(999), AspectRatio: strPtr("4:3")},
	}, mergeNow)
	assert.Equal(t, 120.5, *merged.Duration)
	assert.Equal(t, "16:9", *merged.AspectRatio)
}

func TestMerge_ErroredKeepsLearnedAttributes(t *testing.T) {
	v := newVideo(domain.StatusPreparing)
	v.Duration = f64Ptr(42)
	v.PlaybackID = strPtr("pb-1")

	merged, changed := Merge(v, &event.Event{
		Kind:    event.KindAssetErrored,
		AssetID: "a1",
		Fields:  event.Fields{ErrorType: strPtr("invalid_input"), ErrorMessage: strPtr("bad file")},
	}, mergeNow)

	require.True(t, changed)
	assert.Equal(t, domain.StatusErrored, merged.Status)
	require.NotNil(t, merged.Duration)
	assert.Equal(t, float64(42), *merged.Duration)
	require.NotNil(t, merged.PlaybackID)
	assert.Equal(t, "pb-1", *merged.PlaybackID)
	require.NotNil(t, merged.ErrorType)
	assert.Equal(t, "invalid_input", *merged.ErrorType)
}

func TestMerge_CorrelationIDsImmutable(t *testing.T) {
	v := newVideo(domain.StatusPreparing)
	v.UploadID = strPtr("u1")
	v.AssetID = strPtr("a1")

	merged, _ := Merge(v, &event.Event{
		Kind:     event.KindAssetCreated,
		AssetID:  "a-other",
		UploadID: "u-other",
	}, mergeNow)

	assert.Equal(t, "u1", *merged.UploadID)
	assert.Equal(t, "a1", *merged.AssetID)
}

func TestMerge_ProviderUpdatedAtNeverRegresses(t *testing.T) {
	v := newVideo(domain.StatusPreparing)
	v.ProviderUpdatedAt = i64Ptr(1700000200)

	// Stale event: timestamp stays, new field is still adopted.
	merged, _ := Merge(v, &event.Event{
		Kind:    event.KindAssetUpdated,
		AssetID: "a1",
		Fields: event.Fields{
			Duration:          f64Ptr(55),
			ProviderUpdatedAt: i64Ptr(1700000100),
		},
	}, mergeNow)

	assert.Equal(t, int64(1700000200), *merged.ProviderUpdatedAt)
	require.NotNil(t, merged.Duration)
	assert.Equal(t, float64(55), *merged.Duration)

	// Newer event moves it forward.
	merged, _ = Merge(merged, &event.Event{
		Kind:    event.KindAssetUpdated,
		AssetID: "a1",
		Fields:  event.Fields{ProviderUpdatedAt: i64Ptr(1700000300)},
	}, mergeNow)
	assert.Equal(t, int64(1700000300), *merged.ProviderUpdatedAt)
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	v := newVideo(domain.StatusUploading)

	_, _ = Merge(v, &event.Event{
		Kind:    event.KindAssetReady,
		AssetID: "a1",
		Fields:  event.Fields{Duration: f64Ptr(10)},
	}, mergeNow)

	assert.Equal(t, domain.StatusUploading, v.Status)
	assert.Nil(t, v.Duration)
	assert.Nil(t, v.AssetID)
}

func TestMerge_FirstEventInitialStatus(t *testing.T) {
	tests := []struct {
		name string
		ev   *event.Event
		want string
	}{
		{name: "upload accepted", ev: &event.Event{Kind: event.KindUploadAccepted, UploadID: "u1"}, want: domain.StatusUploading},
		{name: "asset created default", ev: &event.Event{Kind: event.KindAssetCreated, AssetID: "a1"}, want: domain.StatusPreparing},
		{name: "asset created with status", ev: &event.Event{Kind: event.KindAssetCreated, AssetID: "a1", Fields: event.Fields{Status: strPtr(domain.StatusReady)}}, want: domain.StatusReady},
		{name: "asset ready", ev: &event.Event{Kind: event.KindAssetReady, AssetID: "a1"}, want: domain.StatusReady},
		{name: "asset errored", ev: &event.Event{Kind: event.KindAssetErrored, AssetID: "a1"}, want: domain.StatusErrored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fresh := &domain.Video{ID: "v1", UserID: domain.SystemUser, CreatedAt: mergeNow, UpdatedAt: mergeNow}
			merged, changed := Merge(fresh, tt.ev, mergeNow)
			require.True(t, changed)
			assert.Equal(t, tt.want, merged.Status)
		})
	}
}
