package reconcile

import (
	"time"

	"github.com/lib/pq"
	"github.com/minhtq/vodsync/internal/domain"
	"github.com/minhtq/vodsync/internal/event"
)

// Merge applies one normalized event onto a video and returns the next state
// plus whether anything changed. It never mutates its input and is
// idempotent: replaying the same event against the merged result is a no-op.
//
// Merge rules: correlation ids are set once and never overwritten; media
// attributes are adopted only while unknown; status only moves forward
// (errored is provider-authoritative and may supersede any prior state);
// provider timestamps never regress.
func Merge(current *domain.Video, ev *event.Event, now time.Time) (*domain.Video, bool) {
	v := current.Clone()
	changed := false

	if v.Status == "" {
		v.Status = initialStatus(ev)
		changed = true
	}

	if ev.UploadID != "" && v.UploadID == nil {
		id := ev.UploadID
		v.UploadID = &id
		changed = true
	}
	if ev.AssetID != "" && v.AssetID == nil {
		id := ev.AssetID
		v.AssetID = &id
		changed = true
	}

	switch ev.Kind {
	case event.KindUploadAccepted:
		// Creation or confirmation only; asset fields are untouched.

	case event.KindAssetCreated:
		target := domain.StatusPreparing
		if ev.Fields.Status != nil && domain.KnownStatus(*ev.Fields.Status) {
			target = *ev.Fields.Status
		}
		changed = advanceStatus(v, target) || changed
		changed = mergeTimestamps(v, &ev.Fields) || changed

	case event.KindAssetReady:
		changed = advanceStatus(v, domain.StatusReady) || changed
		changed = mergeAttributes(v, &ev.Fields) || changed
		changed = mergeTimestamps(v, &ev.Fields) || changed

	case event.KindAssetErrored:
		changed = advanceStatus(v, domain.StatusErrored) || changed
		changed = setString(&v.ErrorType, ev.Fields.ErrorType) || changed
		changed = setString(&v.ErrorMessage, ev.Fields.ErrorMessage) || changed
		changed = mergeTimestamps(v, &ev.Fields) || changed

	case event.KindAssetUpdated:
		if ev.Fields.Status != nil && domain.KnownStatus(*ev.Fields.Status) {
			changed = advanceStatus(v, *ev.Fields.Status) || changed
		}
		changed = mergeAttributes(v, &ev.Fields) || changed
		changed = mergeTimestamps(v, &ev.Fields) || changed
	}

	if changed {
		v.UpdatedAt = now
	}
	return v, changed
}

// initialStatus picks the starting status for a record created by its first
// event, when the client-initiated creation never happened or has not
// arrived yet.
func initialStatus(ev *event.Event) string {
	switch ev.Kind {
	case event.KindUploadAccepted:
		return domain.StatusUploading
	case event.KindAssetReady:
		return domain.StatusReady
	case event.KindAssetErrored:
		return domain.StatusErrored
	default:
		if ev.Fields.Status != nil && domain.KnownStatus(*ev.Fields.Status) {
			return *ev.Fields.Status
		}
		return domain.StatusPreparing
	}
}

func advanceStatus(v *domain.Video, target string) bool {
	if !domain.StatusAdvances(v.Status, target) {
		return false
	}
	v.Status = target
	return true
}

// mergeAttributes adopts media attributes the record does not know yet.
// Known values are never reverted, so replays and stale events are harmless.
func mergeAttributes(v *domain.Video, f *event.Fields) bool {
	changed := false
	changed = setString(&v.PlaybackID, f.PlaybackID) || changed
	changed = setFloat(&v.Duration, f.Duration) || changed
	changed = setString(&v.AspectRatio, f.AspectRatio) || changed
	changed = setString(&v.VideoQuality, f.VideoQuality) || changed
	changed = setString(&v.EncodingTier, f.EncodingTier) || changed
	changed = setString(&v.MaxStoredResolution, f.MaxStoredResolution) || changed
	changed = setFloat(&v.MaxStoredFrameRate, f.MaxStoredFrameRate) || changed
	changed = setString(&v.MasterAccess, f.MasterAccess) || changed
	changed = setInt(&v.FileSize, f.FileSize) || changed
	if len(f.PlaybackPolicy) > 0 && len(v.PlaybackPolicy) == 0 {
		v.PlaybackPolicy = append(pq.StringArray(nil), f.PlaybackPolicy...)
		changed = true
	}
	if f.AudioOnly != nil && *f.AudioOnly && !v.AudioOnly {
		v.AudioOnly = true
		changed = true
	}
	return changed
}

// mergeTimestamps keeps provider timestamps monotonically non-decreasing.
func mergeTimestamps(v *domain.Video, f *event.Fields) bool {
	changed := false
	if f.ProviderCreatedAt != nil && v.ProviderCreatedAt == nil {
		t := *f.ProviderCreatedAt
		v.ProviderCreatedAt = &t
		changed = true
	}
	if f.ProviderUpdatedAt != nil &&
		(v.ProviderUpdatedAt == nil || *f.ProviderUpdatedAt > *v.ProviderUpdatedAt) {
		t := *f.ProviderUpdatedAt
		v.ProviderUpdatedAt = &t
		changed = true
	}
	return changed
}

func setString(dst **string, src *string) bool {
	if src == nil || *dst != nil {
		return false
	}
	s := *src
	*dst = &s
	return true
}

func setFloat(dst **float64, src *float64) bool {
	if src == nil || *dst != nil {
		return false
	}
	f := *src
	*dst = &f
	return true
}

func setInt(dst **int64, src *int64) bool {
	if src == nil || *dst != nil {
		return false
	}
	i := *src
	*dst = &i
	return true
}
