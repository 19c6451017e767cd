package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtq/vodsync/internal/domain"
)

func TestNormalize_UploadSuccess(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantErr      bool
		wantUploadID string
	}{
		{
			name:         "extracted id preferred",
			raw:          `{"type":"upload.success","data":{"extractedId":"u-123","endpoint":"https://cdn.example.com/upload/other?x=1"}}`,
			wantUploadID: "u-123",
		},
		{
			name:         "upload id parsed from endpoint",
			raw:          `{"type":"upload.success","data":{"endpoint":"https://cdn.example.com/upload/u-456?signature=abc"}}`,
			wantUploadID: "u-456",
		},
		{
			name:    "no id extractable",
			raw:     `{"type":"upload.success","data":{"endpoint":"https://cdn.example.com/other/path"}}`,
			wantErr: true,
		},
		{
			name:    "empty data",
			raw:     `{"type":"upload.success","data":{}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Normalize([]byte(tt.raw))

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrMalformedEvent)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, KindUploadAccepted, ev.Kind)
			assert.Equal(t, tt.wantUploadID, ev.UploadID)
			assert.Empty(t, ev.AssetID)
		})
	}
}

func TestNormalize_AssetCreated(t *testing.T) {
	raw := `{"type":"video.asset.created","data":{"id":"a1","upload_id":"u1","status":"preparing","created_at":1700000000,"updated_at":"1700000005"}}`

	ev, err := Normalize([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, KindAssetCreated, ev.Kind)
	assert.Equal(t, "a1", ev.AssetID)
	assert.Equal(t, "u1", ev.UploadID)
	require.NotNil(t, ev.Fields.Status)
	assert.Equal(t, "preparing", *ev.Fields.Status)
	require.NotNil(t, ev.Fields.ProviderCreatedAt)
	assert.Equal(t, int64(1700000000), *ev.Fields.ProviderCreatedAt)
	require.NotNil(t, ev.Fields.ProviderUpdatedAt)
	assert.Equal(t, int64(1700000005), *ev.Fields.ProviderUpdatedAt)
}

func TestNormalize_AssetCreated_MissingAssetID(t *testing.T) {
	_, err := Normalize([]byte(`{"type":"video.asset.created","data":{"upload_id":"u1"}}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestNormalize_AssetReady(t *testing.T) {
	raw := `{
		"type": "video.asset.ready",
		"data": {
			"id": "a1",
			"duration": 120.5,
			"aspect_ratio": "16:9",
			"video_quality": "basic",
			"max_stored_resolution": "HD",
			"max_stored_frame_rate": 29.97,
			"master_access": "none",
			"playback_policies": ["public"],
			"playback_ids": [{"id": "pb-1"}],
			"audio_only": false,
			"input_info": [{"file": {"size": 10485760}}],
			"updated_at": 1700000100
		}
	}`

	ev, err := Normalize([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, KindAssetReady, ev.Kind)
	assert.Equal(t, "a1", ev.AssetID)
	require.NotNil(t, ev.Fields.Duration)
	assert.Equal(t, 120.5, *ev.Fields.Duration)
	require.NotNil(t, ev.Fields.AspectRatio)
	assert.Equal(t, "16:9", *ev.Fields.AspectRatio)
	require.NotNil(t, ev.Fields.PlaybackID)
	assert.Equal(t, "pb-1", *ev.Fields.PlaybackID)
	require.NotNil(t, ev.Fields.FileSize)
	assert.Equal(t, int64(10485760), *ev.Fields.FileSize)
	assert.Equal(t, []string{"public"}, ev.Fields.PlaybackPolicy)
	// Status is driven by the kind, not a payload field.
	assert.Nil(t, ev.Fields.Status)
}

func TestNormalize_AssetReady_SparsePayload(t *testing.T) {
	ev, err := Normalize([]byte(`{"type":"video.asset.ready","data":{"id":"a2"}}`))
	require.NoError(t, err)

	assert.Equal(t, KindAssetReady, ev.Kind)
	assert.Nil(t, ev.Fields.Duration)
	assert.Nil(t, ev.Fields.PlaybackID)
	assert.Nil(t, ev.Fields.FileSize)
}

func TestNormalize_AssetErrored(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType string
		wantMsg  string
	}{
		{
			name:     "full error detail",
			raw:      `{"type":"video.asset.errored","data":{"id":"a1","errors":[{"type":"invalid_input","messages":["codec unsupported","container unsupported"]}]}}`,
			wantType: "invalid_input",
			wantMsg:  "codec unsupported, container unsupported",
		},
		{
			name:     "missing error detail falls back",
			raw:      `{"type":"video.asset.errored","data":{"id":"a1"}}`,
			wantType: "unknown",
			wantMsg:  "Unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Normalize([]byte(tt.raw))
			require.NoError(t, err)

			assert.Equal(t, KindAssetErrored, ev.Kind)
			require.NotNil(t, ev.Fields.ErrorType)
			assert.Equal(t, tt.wantType, *ev.Fields.ErrorType)
			require.NotNil(t, ev.Fields.ErrorMessage)
			assert.Equal(t, tt.wantMsg, *ev.Fields.ErrorMessage)
		})
	}
}

func TestNormalize_UnrecognizedKind(t *testing.T) {
	ev, err := Normalize([]byte(`{"type":"video.asset.unknown_future_event","data":{"id":"a1"}}`))
	require.NoError(t, err)

	assert.Equal(t, KindUnrecognized, ev.Kind)
	assert.Equal(t, "video.asset.unknown_future_event", ev.WireType)
}

func TestNormalize_MalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `not json at all`},
		{name: "missing type", raw: `{"data":{"id":"a1"}}`},
		{name: "bad data object", raw: `{"type":"video.asset.created","data":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedEvent)
		})
	}
}
