package domain

import (
	"time"

	"github.com/lib/pq"
)

// SystemUser is the sentinel owner assigned to videos created from a
// provider event that arrived before (or without) a client-initiated record.
const SystemUser = "system"

// Video is the reconciled record for one externally-encoded upload.
// Optional columns are pointers so an unset attribute is distinguishable
// from a zero value and is never written back as empty.
type Video struct {
	ID       string  `db:"video_id"`
	UserID   string  `db:"user_id"`
	UploadID *string `db:"upload_id"`
	AssetID  *string `db:"asset_id"`
	Status   string  `db:"status"`

	PlaybackID          *string        `db:"playback_id"`
	Duration            *float64       `db:"duration"`
	AspectRatio         *string        `db:"aspect_ratio"`
	VideoQuality        *string        `db:"video_quality"`
	EncodingTier        *string        `db:"encoding_tier"`
	MaxStoredResolution *string        `db:"max_stored_resolution"`
	MaxStoredFrameRate  *float64       `db:"max_stored_frame_rate"`
	MasterAccess        *string        `db:"master_access"`
	PlaybackPolicy      pq.StringArray `db:"playback_policy"`
	FileSize            *int64         `db:"file_size"`
	AudioOnly           bool           `db:"audio_only"`

	ErrorType    *string `db:"error_type"`
	ErrorMessage *string `db:"error_message"`

	// Provider-side timestamps, epoch seconds as reported by the encoder.
	ProviderCreatedAt *int64 `db:"provider_created_at"`
	ProviderUpdatedAt *int64 `db:"provider_updated_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsTerminal reports whether the video has reached a state the encoder
// will no longer advance, which is the polling client's stop condition.
func (v *Video) IsTerminal() bool {
	return v.Status == StatusReady || v.Status == StatusErrored
}

// Clone returns a deep copy so mergers can build the next state without
// mutating the stored record.
func (v *Video) Clone() *Video {
	out := *v
	out.UploadID = clonePtr(v.UploadID)
	out.AssetID = clonePtr(v.AssetID)
	out.PlaybackID = clonePtr(v.PlaybackID)
	out.Duration = clonePtr(v.Duration)
	out.AspectRatio = clonePtr(v.AspectRatio)
	out.VideoQuality = clonePtr(v.VideoQuality)
	out.EncodingTier = clonePtr(v.EncodingTier)
	out.MaxStoredResolution = clonePtr(v.MaxStoredResolution)
	out.MaxStoredFrameRate = clonePtr(v.MaxStoredFrameRate)
	out.MasterAccess = clonePtr(v.MasterAccess)
	out.FileSize = clonePtr(v.FileSize)
	out.ErrorType = clonePtr(v.ErrorType)
	out.ErrorMessage = clonePtr(v.ErrorMessage)
	out.ProviderCreatedAt = clonePtr(v.ProviderCreatedAt)
	out.ProviderUpdatedAt = clonePtr(v.ProviderUpdatedAt)
	if v.PlaybackPolicy != nil {
		out.PlaybackPolicy = append(pq.StringArray(nil), v.PlaybackPolicy...)
	}
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
