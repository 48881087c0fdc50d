package history

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const recordAttempts = 3

// Recorder applies history increments on a detached goroutine so that a slow
// or briefly unavailable database never blocks or fails the request that
// created the order. Each increment gets its own retry envelope; a loss after
// the final attempt is logged for manual reconciliation.
type Recorder struct {
	svc       *Service
	logger    *slog.Logger
	baseDelay time.Duration
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewRecorder(svc *Service, logger *slog.Logger) *Recorder {
	return &Recorder{
		svc:       svc,
		logger:    logger,
		baseDelay: 200 * time.Millisecond,
		timeout:   5 * time.Second,
	}
}

// Record schedules the increment and returns immediately.
func (r *Recorder) Record(date time.Time, profit int64) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		r.record(date, profit)
	}()
}

func (r *Recorder) record(date time.Time, profit int64) {
	delay := r.baseDelay

	var err error

	for attempt := 1; attempt <= recordAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(delay)
			delay *= 2
		}

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		err = r.svc.RecordOrder(ctx, date, profit)
		cancel()

		if err == nil {
			return
		}

		r.logger.Warn("business history update failed",
			"date", date.UTC().Format("2006-01-02"),
			"attempt", attempt,
			"error", err,
		)
	}

	r.logger.Error("business history update dropped, reconcile manually",
		"date", date.UTC().Format("2006-01-02"),
		"profit", profit,
		"error", err,
	)
}

// Wait blocks until all scheduled increments have finished. Called on
// shutdown so in-flight updates are not lost to process exit.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
