package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"qoyupos/internal/catalog"
)

func orders(ids ...int64) []catalog.Order {
	out := make([]catalog.Order, len(ids))
	for i, id := range ids {
		out[i] = catalog.Order{ID: id}
	}
	return out
}

func TestDetectorFirstLoadIsSilent(t *testing.T) {
	d := NewDetector()
	assert.False(t, d.Observe(orders(1, 2, 3)), "priming snapshot must not ding")
}

func TestDetectorSpotsNewOrders(t *testing.T) {
	d := NewDetector()
	d.Observe(orders(1, 2))

	assert.False(t, d.Observe(orders(1, 2)), "unchanged set")
	assert.True(t, d.Observe(orders(1, 2, 3)), "order 3 is new")
	assert.False(t, d.Observe(orders(2, 3)), "removal only")
	assert.True(t, d.Observe(orders(2, 3, 1)), "1 left and came back")
}

func TestDetectorEmptySnapshots(t *testing.T) {
	d := NewDetector()
	assert.False(t, d.Observe(nil))
	assert.False(t, d.Observe(nil))
	assert.True(t, d.Observe(orders(5)))
}

func TestDetectorReset(t *testing.T) {
	d := NewDetector()
	d.Observe(orders(1))
	d.Reset()
	assert.False(t, d.Observe(orders(1, 2)), "reset means next snapshot primes again")
}
