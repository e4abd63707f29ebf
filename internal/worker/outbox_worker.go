package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/notify"
	"hotel-booking/pkg/clock"

	"go.uber.org/zap"
)

var ErrAlreadyRunning = errors.New("outbox worker already running")

type OutboxConfig struct {
	PollInterval    time.Duration
	RetryInterval   time.Duration
	CleanupInterval time.Duration
	BatchSize       int
	RetentionDays   int
}

func DefaultOutboxConfig() OutboxConfig {
	return OutboxConfig{
		PollInterval:    time.Second,
		RetryInterval:   10 * time.Second,
		CleanupInterval: time.Hour,
		BatchSize:       50,
		RetentionDays:   7,
	}
}

// OutboxWorker relays notification rows written by the booking and payment
// transactions to a Publisher.
type OutboxWorker struct {
	outbox    repository.OutboxRepository
	publisher notify.Publisher
	config    OutboxConfig
	clock     clock.Clock
	log       *zap.Logger

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

func NewOutboxWorker(outbox repository.OutboxRepository, publisher notify.Publisher, config OutboxConfig, clk clock.Clock, log *zap.Logger) *OutboxWorker {
	def := DefaultOutboxConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = def.RetryInterval
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}
	if config.RetentionDays <= 0 {
		config.RetentionDays = def.RetentionDays
	}
	if clk == nil {
		clk = clock.Real()
	}

	return &OutboxWorker{
		outbox:    outbox,
		publisher: publisher,
		config:    config,
		clock:     clk,
		log:       log.With(zap.String("worker", "outbox")),
		stopCh:    make(chan struct{}),
	}
}

func (w *OutboxWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrAlreadyRunning
	}
	w.running = true

	w.log.Info("Starting outbox worker",
		zap.Duration("poll_interval", w.config.PollInterval),
		zap.Int("batch_size", w.config.BatchSize))

	w.wg.Add(3)
	go w.loop(ctx, w.config.PollInterval, w.processPending)
	go w.loop(ctx, w.config.RetryInterval, w.processFailed)
	go w.loop(ctx, w.config.CleanupInterval, w.cleanup)

	return nil
}

// Stop waits for in-flight batches to finish.
func (w *OutboxWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("Outbox worker stopped")
}

func (w *OutboxWorker) loop(ctx context.Context, every time.Duration, fn func(context.Context)) {
	defer w.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

func (w *OutboxWorker) processPending(ctx context.Context) {
	messages, err := w.outbox.FetchPending(ctx, w.config.BatchSize)
	if err != nil {
		w.log.Error("Failed to fetch pending messages", zap.Error(err))
		return
	}
	for _, msg := range messages {
		w.deliver(ctx, msg)
	}
}

func (w *OutboxWorker) processFailed(ctx context.Context) {
	messages, err := w.outbox.FetchRetryable(ctx, w.config.BatchSize)
	if err != nil {
		w.log.Error("Failed to fetch failed messages", zap.Error(err))
		return
	}
	for _, msg := range messages {
		w.deliver(ctx, msg)
	}
}

func (w *OutboxWorker) deliver(ctx context.Context, msg *entity.OutboxMessage) {
	if err := w.publisher.Publish(ctx, msg); err != nil {
		w.log.Warn("Failed to publish message",
			zap.Error(err),
			zap.String("message_id", msg.ID.String()),
			zap.String("event_type", msg.EventType),
			zap.Int("attempt", msg.RetryCount+1),
			zap.Int("max_retries", msg.MaxRetries))
		if markErr := w.outbox.MarkFailed(ctx, msg.ID, err.Error()); markErr != nil {
			w.log.Error("Failed to mark message failed", zap.Error(markErr), zap.String("message_id", msg.ID.String()))
		}
		return
	}

	if err := w.outbox.MarkPublished(ctx, msg.ID, w.clock.Now()); err != nil {
		w.log.Error("Failed to mark message published", zap.Error(err), zap.String("message_id", msg.ID.String()))
		return
	}

	w.log.Debug("Message published",
		zap.String("message_id", msg.ID.String()),
		zap.String("event_type", msg.EventType))
}

func (w *OutboxWorker) cleanup(ctx context.Context) {
	cutoff := w.clock.Now().AddDate(0, 0, -w.config.RetentionDays)

	deleted, err := w.outbox.DeletePublishedBefore(ctx, cutoff)
	if err != nil {
		w.log.Error("Failed to clean up published messages", zap.Error(err))
		return
	}
	if deleted > 0 {
		w.log.Info("Cleaned up published messages", zap.Int64("deleted", deleted))
	}
}
