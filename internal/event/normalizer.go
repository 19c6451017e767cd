package event

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/minhtq/vodsync/internal/domain"
)

// uploadPathPattern extracts the upload correlation id from a direct-upload
// endpoint URL, e.g. "https://storage.example.com/upload/abc123?sig=x".
var uploadPathPattern = regexp.MustCompile(`upload/([^?]+)`)

// envelope is the outer shape every provider notification shares.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// payload covers every data field any known event kind may carry. Per-kind
// extraction below reads only the paths that kind is allowed to contribute,
// so payload-shape uncertainty stays inside this package.
type payload struct {
	ID          string  `json:"id"`
	UploadID    string  `json:"upload_id"`
	Status      string  `json:"status"`
	Endpoint    string  `json:"endpoint"`
	ExtractedID string  `json:"extractedId"`
	PlaybackIDs []struct {
		ID string `json:"id"`
	} `json:"playback_ids"`
	Duration            *float64 `json:"duration"`
	AspectRatio         string   `json:"aspect_ratio"`
	VideoQuality        string   `json:"video_quality"`
	EncodingTier        string   `json:"encoding_tier"`
	MaxStoredResolution string   `json:"max_stored_resolution"`
	MaxStoredFrameRate  *float64 `json:"max_stored_frame_rate"`
	MasterAccess        string   `json:"master_access"`
	PlaybackPolicies    []string `json:"playback_policies"`
	AudioOnly           *bool    `json:"audio_only"`
	InputInfo           []struct {
		File struct {
			Size json.Number `json:"size"`
		} `json:"file"`
	} `json:"input_info"`
	Errors []struct {
		Type     string   `json:"type"`
		Messages []string `json:"messages"`
	} `json:"errors"`
	CreatedAt epochSeconds `json:"created_at"`
	UpdatedAt epochSeconds `json:"updated_at"`
}

// epochSeconds tolerates the provider sending timestamps as either a JSON
// number or a decimal string.
type epochSeconds struct {
	Value *int64
}

func (e *epochSeconds) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	// Some payloads carry fractional seconds; keep whole seconds.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid epoch timestamp %q: %w", s, err)
	}
	v := int64(f)
	e.Value = &v
	return nil
}

// Normalize converts a raw inbound payload into a typed Event. Unknown type
// strings yield KindUnrecognized rather than an error; a missing required
// correlation key yields domain.ErrMalformedEvent.
func Normalize(raw []byte) (*Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing event type", domain.ErrMalformedEvent)
	}

	var p payload
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("%w: bad data object: %v", domain.ErrMalformedEvent, err)
		}
	}

	switch env.Type {
	case WireUploadSuccess:
		return normalizeUploadSuccess(&p)
	case WireAssetCreated:
		return normalizeAssetCreated(&p)
	case WireAssetReady:
		return normalizeAssetReady(&p)
	case WireAssetErrored:
		return normalizeAssetErrored(&p)
	case WireAssetUpdated:
		return normalizeAssetUpdated(&p)
	default:
		return &Event{Kind: KindUnrecognized, WireType: env.Type}, nil
	}
}

func normalizeUploadSuccess(p *payload) (*Event, error) {
	uploadID := p.ExtractedID
	if uploadID == "" && p.Endpoint != "" {
		if m := uploadPathPattern.FindStringSubmatch(p.Endpoint); m != nil {
			uploadID = m[1]
		}
	}
	if uploadID == "" {
		return nil, fmt.Errorf("%w: no upload id extractable from upload success", domain.ErrMalformedEvent)
	}
	return &Event{
		Kind:     KindUploadAccepted,
		WireType: WireUploadSuccess,
		UploadID: uploadID,
	}, nil
}

func normalizeAssetCreated(p *payload) (*Event, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("%w: no asset id in asset created event", domain.ErrMalformedEvent)
	}
	ev := &Event{
		Kind:     KindAssetCreated,
		WireType: WireAssetCreated,
		AssetID:  p.ID,
		UploadID: p.UploadID,
		Fields: Fields{
			Status:            optString(p.Status),
			ProviderCreatedAt: p.CreatedAt.Value,
			ProviderUpdatedAt: p.UpdatedAt.Value,
		},
	}
	return ev, nil
}

func normalizeAssetReady(p *payload) (*Event, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("%w: no asset id in asset ready event", domain.ErrMalformedEvent)
	}
	f := Fields{
		Duration:            p.Duration,
		AspectRatio:         optString(p.AspectRatio),
		VideoQuality:        optString(p.VideoQuality),
		EncodingTier:        optString(p.EncodingTier),
		MaxStoredResolution: optString(p.MaxStoredResolution),
		MaxStoredFrameRate:  p.MaxStoredFrameRate,
		MasterAccess:        optString(p.MasterAccess),
		PlaybackPolicy:      p.PlaybackPolicies,
		AudioOnly:           p.AudioOnly,
		ProviderUpdatedAt:   p.UpdatedAt.Value,
	}
	if len(p.PlaybackIDs) > 0 && p.PlaybackIDs[0].ID != "" {
		f.PlaybackID = optString(p.PlaybackIDs[0].ID)
	}
	if len(p.InputInfo) > 0 {
		if size, err := p.InputInfo[0].File.Size.Int64(); err == nil && size > 0 {
			f.FileSize = &size
		}
	}
	return &Event{
		Kind:     KindAssetReady,
		WireType: WireAssetReady,
		AssetID:  p.ID,
		Fields:   f,
	}, nil
}

func normalizeAssetErrored(p *payload) (*Event, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("%w: no asset id in asset errored event", domain.ErrMalformedEvent)
	}
	errType := "unknown"
	errMsg := "Unknown error"
	if len(p.Errors) > 0 {
		if p.Errors[0].Type != "" {
			errType = p.Errors[0].Type
		}
		if len(p.Errors[0].Messages) > 0 {
			errMsg = strings.Join(p.Errors[0].Messages, ", ")
		}
	}
	return &Event{
		Kind:     KindAssetErrored,
		WireType: WireAssetErrored,
		AssetID:  p.ID,
		Fields: Fields{
			ErrorType:         &errType,
			ErrorMessage:      &errMsg,
			ProviderUpdatedAt: p.UpdatedAt.Value,
		},
	}, nil
}

func normalizeAssetUpdated(p *payload) (*Event, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("%w: no asset id in asset updated event", domain.ErrMalformedEvent)
	}
	f := Fields{
		Status:            optString(p.Status),
		Duration:          p.Duration,
		AspectRatio:       optString(p.AspectRatio),
		ProviderUpdatedAt: p.UpdatedAt.Value,
	}
	if len(p.PlaybackIDs) > 0 && p.PlaybackIDs[0].ID != "" {
		f.PlaybackID = optString(p.PlaybackIDs[0].ID)
	}
	return &Event{
		Kind:     KindAssetUpdated,
		WireType: WireAssetUpdated,
		AssetID:  p.ID,
		Fields:   f,
	}, nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
