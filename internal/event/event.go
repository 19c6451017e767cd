package event

// Kind identifies the normalized class of an inbound provider event.
type Kind string

const (
	KindUploadAccepted Kind = "upload_accepted"
	KindAssetCreated   Kind = "asset_created"
	KindAssetReady     Kind = "asset_ready"
	KindAssetErrored   Kind = "asset_errored"
	KindAssetUpdated   Kind = "asset_updated"
	KindUnrecognized   Kind = "unrecognized"
)

// Wire-level type strings emitted by the encoding provider.
const (
	WireUploadSuccess = "upload.success"
	WireAssetCreated  = "video.asset.created"
	WireAssetReady    = "video.asset.ready"
	WireAssetErrored  = "video.asset.errored"
	WireAssetUpdated  = "video.asset.updated"
)

// Event is the typed form of an inbound payload. Correlation ids are empty
// strings when the payload did not carry them; Fields holds only attributes
// actually present (absence means "do not touch").
type Event struct {
	Kind     Kind
	WireType string
	UploadID string
	AssetID  string
	Fields   Fields
}

// Fields is the partial attribute set carried by one event. Pointer-typed so
// a missing attribute never overwrites a known value during merge.
type Fields struct {
	Status              *string
	PlaybackID          *string
	Duration            *float64
	AspectRatio         *string
	VideoQuality        *string
	EncodingTier        *string
	MaxStoredResolution *string
	MaxStoredFrameRate  *float64
	MasterAccess        *string
	PlaybackPolicy      []string
	FileSize            *int64
	AudioOnly           *bool
	ErrorType           *string
	ErrorMessage        *string
	ProviderCreatedAt   *int64
	ProviderUpdatedAt   *int64
}

// MayOriginate reports whether this event kind is allowed to create the
// video record it refers to. The remaining kinds still fall back to a
// system-owned record rather than dropping the event.
func (k Kind) MayOriginate() bool {
	return k == KindUploadAccepted || k == KindAssetCreated
}
