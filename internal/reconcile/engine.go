package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/minhtq/vodsync/internal/domain"
	"github.com/minhtq/vodsync/internal/event"
)

// Result classifies how an event was handled.
type Result string

const (
	ResultApplied Result = "applied"
	ResultIgnored Result = "ignored"
)

// Outcome is the per-event reconciliation result. VideoID is set for
// applied events; Reason explains ignored ones.
type Outcome struct {
	Result  Result
	VideoID string
	Reason  string
}

// Engine runs the normalize -> resolve -> merge -> persist pipeline, one
// inbound event at a time. Events resolving to the same correlation key are
// serialized in-process; the monotonic merge rules make the final state
// independent of which serial order wins.
type Engine struct {
	store  Store
	logger *slog.Logger
	locks  *keyMutex
	now    func() time.Time
}

// NewEngine creates a reconciliation engine on top of the given store.
func NewEngine(store Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
		locks:  newKeyMutex(),
		now:    time.Now,
	}
}

// Reconcile processes one raw inbound event for the given principal
// (empty when the transport carries no caller identity). Malformed events
// and correlation conflicts are returned as-is; store failures come back
// wrapped in domain.RetryableError because replaying an event is safe.
func (e *Engine) Reconcile(ctx context.Context, raw []byte, principal string) (Outcome, error) {
	ev, err := event.Normalize(raw)
	if err != nil {
		return Outcome{}, err
	}

	if ev.Kind == event.KindUnrecognized {
		e.logger.Info("Ignoring unrecognized event kind",
			slog.String("wire_type", ev.WireType),
		)
		return Outcome{Result: ResultIgnored, Reason: "unrecognized event kind: " + ev.WireType}, nil
	}

	unlock := e.locks.Lock(lockKey(ev))
	defer unlock()

	res, err := Resolve(ctx, e.store, ev, principal)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingCorrelation) {
			return Outcome{}, err
		}
		return Outcome{}, domain.NewRetryableError(fmt.Errorf("resolve failed: %w", err))
	}

	if res.Video == nil {
		return e.createFromEvent(ctx, ev, res.Owner)
	}
	return e.mergeInto(ctx, res.Video, ev)
}

func (e *Engine) createFromEvent(ctx context.Context, ev *event.Event, owner string) (Outcome, error) {
	now := e.now()
	fresh := &domain.Video{
		ID:        uuid.New().String(),
		UserID:    owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	merged, _ := Merge(fresh, ev, now)

	// Asset-keyed creation goes through the store's atomic upsert so a
	// racing create from another process lands on the same record.
	var err error
	if merged.AssetID != nil {
		err = e.store.UpsertByAssetID(ctx, merged)
	} else {
		err = e.store.Create(ctx, merged)
	}
	if err != nil {
		return Outcome{}, domain.NewRetryableError(fmt.Errorf("persist new video: %w", err))
	}

	e.logger.Info("Created video from event",
		slog.String("video_id", merged.ID),
		slog.String("kind", string(ev.Kind)),
		slog.String("status", merged.Status),
		slog.String("user_id", merged.UserID),
	)
	return Outcome{Result: ResultApplied, VideoID: merged.ID}, nil
}

func (e *Engine) mergeInto(ctx context.Context, current *domain.Video, ev *event.Event) (Outcome, error) {
	merged, changed := Merge(current, ev, e.now())
	if !changed {
		e.logger.Debug("Event produced no change",
			slog.String("video_id", current.ID),
			slog.String("kind", string(ev.Kind)),
		)
		return Outcome{Result: ResultApplied, VideoID: current.ID}, nil
	}

	if err := e.store.Update(ctx, merged); err != nil {
		return Outcome{}, domain.NewRetryableError(fmt.Errorf("persist merged video: %w", err))
	}

	e.logger.Info("Merged event into video",
		slog.String("video_id", merged.ID),
		slog.String("kind", string(ev.Kind)),
		slog.String("status", merged.Status),
	)
	return Outcome{Result: ResultApplied, VideoID: merged.ID}, nil
}

// lockKey picks the correlation key reconciliation serializes on. Asset id
// wins when present so created/ready/errored events for one asset share a
// lock even before the upload link is known.
func lockKey(ev *event.Event) string {
	if ev.AssetID != "" {
		return "asset:" + ev.AssetID
	}
	return "upload:" + ev.UploadID
}
