package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/minhtq/vodsync/internal/reconcile"
	"github.com/minhtq/vodsync/shared/rabbitmq"
)

// Reconciler processes one raw event; satisfied by reconcile.Engine.
type Reconciler interface {
	Reconcile(ctx context.Context, raw []byte, principal string) (reconcile.Outcome, error)
}

// EventMessage is one queued provider event awaiting reconciliation.
type EventMessage struct {
	Body        []byte
	DeliveryTag uint64
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	Reconciler    Reconciler
	Concurrency   int
	PrefetchCount int
	QueueName     string
}

// Worker consumes provider events from RabbitMQ and feeds them through the
// reconciliation engine.
type Worker struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	reconciler    Reconciler
	concurrency   int
	prefetchCount int
	queueName     string
	workerID      string
	eventsChan    chan *EventMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		reconciler:    cfg.Reconciler,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		queueName:     cfg.QueueName,
		workerID:      "vodsync-worker-" + uuid.New().String()[:8],
		eventsChan:    make(chan *EventMessage),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming and reconciling events. It blocks until the
// context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
	)

	deliveries, err := w.setupConsumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
