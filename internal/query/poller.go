package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// MinPollInterval is the floor for polling frequency so a misconfigured
// client cannot busy-poll the read path.
const MinPollInterval = 1 * time.Second

// DefaultPollInterval matches the original dashboard's refresh cadence.
const DefaultPollInterval = 3 * time.Second

// FetchFunc performs one poll and reports whether any video is still
// processing. Implementations typically call Service.ListVideos (or the
// HTTP list endpoint) and feed the result through AnyProcessing.
type FetchFunc func(ctx context.Context) (processing bool, err error)

// Poller repeatedly runs a fetch until no video is non-terminal or its
// context is cancelled. It owns no ambient timers: each Run call is a
// self-contained, cancellable loop.
type Poller struct {
	fetch    FetchFunc
	interval time.Duration
	logger   *slog.Logger
}

// NewPoller creates a poller. Intervals below MinPollInterval are raised to
// it; a zero interval selects DefaultPollInterval.
func NewPoller(fetch FetchFunc, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if interval < MinPollInterval {
		interval = MinPollInterval
	}
	return &Poller{
		fetch:    fetch,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until every video is terminal, the context is cancelled, or a
// fetch fails. The terminality check happens after every fetch, so the loop
// stops on the first poll that finds nothing processing.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		processing, err := p.fetch(ctx)
		if err != nil {
			return fmt.Errorf("poll fetch failed: %w", err)
		}
		if !processing {
			p.logger.Info("All videos terminal, polling stopped")
			return nil
		}

		p.logger.Debug("Videos still processing, polling continues",
			slog.Duration("interval", p.interval),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
