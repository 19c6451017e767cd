package dto

// UploadSuccessRequest is the client notification that a direct upload to
// the provider finished. Either the pre-extracted upload id or the endpoint
// URL must be present; the endpoint's upload path segment is the fallback.
type UploadSuccessRequest struct {
	ExtractedID string `json:"extractedId"`
	Endpoint    string `json:"endpoint"`
}

// EventResponse reports how an event submission was handled.
type EventResponse struct {
	Result  string `json:"result"`
	VideoID string `json:"video_id,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// VideoDTO is the wire form of a reconciled video record.
type VideoDTO struct {
	VideoID             string   `json:"video_id"`
	UploadID            *string  `json:"upload_id,omitempty"`
	AssetID             *string  `json:"asset_id,omitempty"`
	Status              string   `json:"status"`
	PlaybackID          *string  `json:"playback_id,omitempty"`
	Duration            *float64 `json:"duration,omitempty"`
	AspectRatio         *string  `json:"aspect_ratio,omitempty"`
	VideoQuality        *string  `json:"video_quality,omitempty"`
	EncodingTier        *string  `json:"encoding_tier,omitempty"`
	MaxStoredResolution *string  `json:"max_stored_resolution,omitempty"`
	MaxStoredFrameRate  *float64 `json:"max_stored_frame_rate,omitempty"`
	MasterAccess        *string  `json:"master_access,omitempty"`
	PlaybackPolicy      []string `json:"playback_policy,omitempty"`
	FileSize            *int64   `json:"file_size,omitempty"`
	AudioOnly           bool     `json:"audio_only"`
	ErrorType           *string  `json:"error_type,omitempty"`
	ErrorMessage        *string  `json:"error_message,omitempty"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

// ListVideosResponse is the polling read-path payload. Processing tells the
// client whether to keep polling.
type ListVideosResponse struct {
	Videos     []VideoDTO `json:"videos"`
	Processing bool       `json:"processing"`
}

// CleanupResponse reports an owner-scoped cleanup.
type CleanupResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}
