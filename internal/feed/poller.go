package feed

import (
	"context"
	"sync"
	"time"

	"qoyupos/internal/catalog"
	"qoyupos/internal/logging"
)

// FetchFunc fetches the full orders snapshot.
type FetchFunc func(ctx context.Context) (catalog.OrdersFeed, error)

// Poller re-fetches the orders feed on a fixed interval and pushes each
// successful snapshot to Updates. Fetch errors are logged and skipped; the
// page keeps showing the last good state.
type Poller struct {
	interval time.Duration
	fetch    FetchFunc
	updates  chan catalog.OrdersFeed

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewPoller creates a Poller. interval of zero defaults to one second.
func NewPoller(interval time.Duration, fetch FetchFunc) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		interval: interval,
		fetch:    fetch,
		updates:  make(chan catalog.OrdersFeed, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Updates delivers snapshots. The channel has a buffer of one; a slow
// consumer sees the newest snapshot, not a backlog.
func (p *Poller) Updates() <-chan catalog.OrdersFeed {
	return p.updates
}

// Start begins polling immediately, then on every tick. Non-blocking.
func (p *Poller) Start(ctx context.Context) {
	go p.run(ctx)
}

// Stop halts the poller and waits for the loop to exit. Idempotent.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	<-p.doneCh
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.doneCh)
	// Closing updates tells receivers the poller is gone.
	defer close(p.updates)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	snap, err := p.fetch(ctx)
	if err != nil {
		logging.FeedDebug("poll failed: %v", err)
		return
	}
	// Drop the stale buffered snapshot so the fresh one always lands.
	select {
	case <-p.updates:
	default:
	}
	select {
	case p.updates <- snap:
	case <-p.stopCh:
	case <-ctx.Done():
	}
}
