package domain

// Video status constants
const (
	StatusUploading = "uploading"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusErrored   = "errored"
)

// statusRank orders the forward-only progression. Errored sits outside the
// rank ordering: it may supersede any state when the provider reports it.
var statusRank = map[string]int{
	StatusUploading: 0,
	StatusPreparing: 1,
	StatusReady:     2,
}

// KnownStatus reports whether s is one of the defined video statuses.
func KnownStatus(s string) bool {
	_, ok := statusRank[s]
	return ok || s == StatusErrored
}

// StatusAdvances reports whether moving from current to next is a legal
// forward transition. Equal states are not an advance (duplicate events
// leave the record alone); errored always advances because the provider is
// authoritative about failures.
func StatusAdvances(current, next string) bool {
	if next == StatusErrored {
		return current != StatusErrored
	}
	if current == StatusErrored {
		return false
	}
	return statusRank[next] > statusRank[current]
}
