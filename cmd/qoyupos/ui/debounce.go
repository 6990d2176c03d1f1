package ui

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid events like window resizes.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer creates a debouncer with the specified settle duration.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce schedules fn after the settle duration; a newer call resets the
// timer and drops the older fn.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// ResizeDebouncer batches terminal resize events so pages re-layout once per
// drag instead of per cell.
type ResizeDebouncer struct {
	mu            sync.Mutex
	debouncer     *Debouncer
	lastWidth     int
	lastHeight    int
	pendingWidth  int
	pendingHeight int
}

// DefaultResizeDuration is the recommended settle time for resize events.
const DefaultResizeDuration = 300 * time.Millisecond

// NewResizeDebouncer creates a debouncer for resize events.
func NewResizeDebouncer(duration time.Duration) *ResizeDebouncer {
	return &ResizeDebouncer{debouncer: NewDebouncer(duration)}
}

// Resize records a size and calls handler once the events settle.
func (rd *ResizeDebouncer) Resize(width, height int, handler func(int, int)) {
	rd.mu.Lock()
	rd.pendingWidth = width
	rd.pendingHeight = height
	rd.mu.Unlock()

	rd.debouncer.Debounce(func() {
		rd.mu.Lock()
		w, h := rd.pendingWidth, rd.pendingHeight
		rd.lastWidth, rd.lastHeight = w, h
		rd.mu.Unlock()
		handler(w, h)
	})
}

// LastSize returns the last settled size.
func (rd *ResizeDebouncer) LastSize() (width, height int) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.lastWidth, rd.lastHeight
}

// Cancel drops any pending resize.
func (rd *ResizeDebouncer) Cancel() {
	rd.debouncer.Cancel()
}
