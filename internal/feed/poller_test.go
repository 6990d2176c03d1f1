package feed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"qoyupos/internal/catalog"
)

func TestPollerDeliversSnapshots(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int64
	p := NewPoller(10*time.Millisecond, func(ctx context.Context) (catalog.OrdersFeed, error) {
		n := calls.Add(1)
		return catalog.OrdersFeed{Active: orders(n)}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	select {
	case snap := <-p.Updates():
		require.Len(t, snap.Active, 1)
	case <-time.After(time.Second):
		t.Fatal("no snapshot arrived")
	}

	// Later snapshots keep flowing on the tick.
	select {
	case <-p.Updates():
	case <-time.After(time.Second):
		t.Fatal("no second snapshot")
	}
}

func TestPollerSkipsFailedFetches(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int64
	p := NewPoller(5*time.Millisecond, func(ctx context.Context) (catalog.OrdersFeed, error) {
		if calls.Add(1) < 3 {
			return catalog.OrdersFeed{}, errors.New("backend down")
		}
		return catalog.OrdersFeed{Active: orders(7)}, nil
	})

	ctx := context.Background()
	p.Start(ctx)
	defer p.Stop()

	select {
	case snap := <-p.Updates():
		assert.Equal(t, int64(7), snap.Active[0].ID)
	case <-time.After(time.Second):
		t.Fatal("snapshot never recovered")
	}
	assert.GreaterOrEqual(t, calls.Load(), int64(3))
}

func TestPollerStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPoller(time.Hour, func(ctx context.Context) (catalog.OrdersFeed, error) {
		return catalog.OrdersFeed{}, nil
	})
	p.Start(context.Background())
	p.Stop()
	p.Stop()
}

func TestPollerNewestSnapshotWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int64
	p := NewPoller(5*time.Millisecond, func(ctx context.Context) (catalog.OrdersFeed, error) {
		return catalog.OrdersFeed{Active: orders(calls.Add(1))}, nil
	})

	p.Start(context.Background())
	// Let several polls happen before reading.
	time.Sleep(60 * time.Millisecond)
	p.Stop()

	select {
	case snap := <-p.Updates():
		assert.Greater(t, snap.Active[0].ID, int64(1), "buffered snapshot should be a recent one")
	default:
		t.Fatal("expected a buffered snapshot")
	}
}
