package worker

import (
	"context"
	"log/slog"

	"github.com/minhtq/vodsync/internal/reconcile"
)

// processEvent runs one queued event through the reconciliation engine.
// The queue transport carries no caller identity, so the principal is empty
// and records created here fall back to the system owner.
func (w *Worker) processEvent(ctx context.Context, msg *EventMessage) error {
	outcome, err := w.reconciler.Reconcile(ctx, msg.Body, "")
	if err != nil {
		return err
	}

	switch outcome.Result {
	case reconcile.ResultIgnored:
		w.logger.Info("Event ignored",
			slog.String("reason", outcome.Reason),
		)
	default:
		w.logger.Info("Event reconciled",
			slog.String("video_id", outcome.VideoID),
		)
	}

	return nil
}
