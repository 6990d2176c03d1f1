package sound

import (
	"context"
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSink captures playbacks and signals each one.
type recordSink struct {
	mu     sync.Mutex
	played [][]byte
	ch     chan struct{}
}

func newRecordSink() *recordSink {
	return &recordSink{ch: make(chan struct{}, 16)}
}

func (r *recordSink) Play(ctx context.Context, wav []byte) error {
	r.mu.Lock()
	r.played = append(r.played, wav)
	r.mu.Unlock()
	r.ch <- struct{}{}
	return nil
}

func (r *recordSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.played)
}

func (r *recordSink) waitOne(t *testing.T) {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(time.Second):
		t.Fatal("expected a playback")
	}
}

func TestRenderProducesValidWAV(t *testing.T) {
	wav := render(chimeNotes)
	require.Greater(t, len(wav), 44)

	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, "data", string(wav[36:40]))

	riffLen := binary.LittleEndian.Uint32(wav[4:8])
	dataLen := binary.LittleEndian.Uint32(wav[40:44])
	assert.Equal(t, uint32(len(wav)-8), riffLen)
	assert.Equal(t, uint32(len(wav)-44), dataLen)
	assert.Zero(t, dataLen%2, "16-bit samples")

	// Roughly half a second of audio for the three-note chime.
	samples := int(dataLen) / 2
	assert.InDelta(t, sampleRate/2, samples, float64(sampleRate)/10)
}

func TestNotifierGating(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled never plays", func(t *testing.T) {
		sink := newRecordSink()
		n := NewNotifier(sink, false, 0)
		n.NewOrder(ctx)
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, 0, sink.count())
	})

	t.Run("enabled plays", func(t *testing.T) {
		sink := newRecordSink()
		n := NewNotifier(sink, true, 0)
		n.NewOrder(ctx)
		sink.waitOne(t)
		assert.Equal(t, 1, sink.count())
	})

	t.Run("min interval suppresses bursts", func(t *testing.T) {
		sink := newRecordSink()
		n := NewNotifier(sink, true, time.Hour)
		n.NewOrder(ctx)
		sink.waitOne(t)
		n.NewOrder(ctx)
		n.NewOrder(ctx)
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, 1, sink.count())
	})
}

func TestSetEnabledPlaysUnlockTone(t *testing.T) {
	ctx := context.Background()
	sink := newRecordSink()
	n := NewNotifier(sink, false, 0)

	n.SetEnabled(ctx, true)
	sink.waitOne(t)
	assert.True(t, n.Enabled())
	assert.Equal(t, 1, sink.count())

	// Re-enabling while already on stays quiet.
	n.SetEnabled(ctx, true)
	// Disabling stays quiet too.
	n.SetEnabled(ctx, false)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, sink.count())
	assert.False(t, n.Enabled())
}
