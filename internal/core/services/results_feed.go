package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/domain"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/ports"
)

// ResultsFeed polls the tally on an interval and pushes each snapshot to
// every subscriber. A failed poll is logged and retried after retryInterval.
type ResultsFeed struct {
	results       ports.ResultService
	interval      time.Duration
	retryInterval time.Duration
	logger        *zap.Logger

	mu          sync.Mutex
	subscribers map[chan domain.Results]struct{}
	last        *domain.Results
	stopped     bool
}

func NewResultsFeed(results ports.ResultService, interval, retryInterval time.Duration, logger *zap.Logger) *ResultsFeed {
	return &ResultsFeed{
		results:       results,
		interval:      interval,
		retryInterval: retryInterval,
		logger:        logger,
		subscribers:   make(map[chan domain.Results]struct{}),
	}
}

// Run blocks until ctx is done. On return every subscriber channel is
// closed, so streams end and the HTTP server can drain.
func (f *ResultsFeed) Run(ctx context.Context) {
	defer f.stop()

	for {
		wait := f.interval
		if err := f.refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			f.logger.Error("failed to refresh results", zap.Error(err), zap.Duration("retry_in", f.retryInterval))
			wait = f.retryInterval
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (f *ResultsFeed) refresh(ctx context.Context) error {
	results, err := f.results.GetResults(ctx)
	if err != nil {
		return err
	}
	f.publish(results)
	return nil
}

func (f *ResultsFeed) publish(results domain.Results) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.last = &results
	for ch := range f.subscribers {
		// Subscribers only care about the latest snapshot.
		select {
		case <-ch:
		default:
		}
		ch <- results
	}
}

// Subscribe returns a channel carrying the latest snapshot (if any) followed
// by every new one, and a func that unsubscribes and closes the channel. Once
// the feed has stopped the channel comes back already closed.
func (f *ResultsFeed) Subscribe() (<-chan domain.Results, func()) {
	ch := make(chan domain.Results, 1)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped {
		close(ch)
		return ch, func() {}
	}

	f.subscribers[ch] = struct{}{}
	if f.last != nil {
		ch <- *f.last
	}

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
	}
}

func (f *ResultsFeed) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stopped = true
	for ch := range f.subscribers {
		delete(f.subscribers, ch)
		close(ch)
	}
}
