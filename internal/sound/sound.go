// Package sound synthesizes and plays the new-order chime. The tone is a
// short sine arpeggio rendered to an in-memory WAV and handed to the system
// audio player. Playback is fire-and-forget and gated behind a persisted
// user preference plus a minimum-interval guard.
package sound

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"qoyupos/internal/logging"
)

const sampleRate = 44100

// chimeNotes is an A-major arpeggio, two quick notes and a held third.
var chimeNotes = []note{
	{freq: 880.00, dur: 120 * time.Millisecond},
	{freq: 1108.73, dur: 120 * time.Millisecond},
	{freq: 1318.51, dur: 260 * time.Millisecond},
}

// unlockNote is a near-silent blip played when the user enables sound, so a
// broken audio setup shows up at grant time instead of on the first order.
var unlockNote = []note{{freq: 440, dur: 40 * time.Millisecond, quiet: true}}

type note struct {
	freq  float64
	dur   time.Duration
	quiet bool
}

// render produces a 16-bit mono PCM WAV of the note sequence. Each note gets
// a short linear fade-in/out to avoid clicks.
func render(notes []note) []byte {
	var samples []int16
	for _, n := range notes {
		count := int(float64(sampleRate) * n.dur.Seconds())
		fade := count / 10
		amp := 0.45
		if n.quiet {
			amp = 0.01
		}
		for i := 0; i < count; i++ {
			v := amp * math.Sin(2*math.Pi*n.freq*float64(i)/sampleRate)
			if i < fade {
				v *= float64(i) / float64(fade)
			} else if i > count-fade {
				v *= float64(count-i) / float64(fade)
			}
			samples = append(samples, int16(v*math.MaxInt16))
		}
	}
	return wavBytes(samples)
}

func wavBytes(samples []int16) []byte {
	dataLen := len(samples) * 2
	buf := make([]byte, 0, 44+dataLen)
	le := binary.LittleEndian

	u32 := func(v uint32) []byte { b := make([]byte, 4); le.PutUint32(b, v); return b }
	u16 := func(v uint16) []byte { b := make([]byte, 2); le.PutUint16(b, v); return b }

	buf = append(buf, "RIFF"...)
	buf = append(buf, u32(uint32(36+dataLen))...)
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = append(buf, u32(16)...)
	buf = append(buf, u16(1)...) // PCM
	buf = append(buf, u16(1)...) // mono
	buf = append(buf, u32(sampleRate)...)
	buf = append(buf, u32(sampleRate*2)...) // byte rate
	buf = append(buf, u16(2)...)            // block align
	buf = append(buf, u16(16)...)           // bits per sample
	buf = append(buf, "data"...)
	buf = append(buf, u32(uint32(dataLen))...)
	for _, s := range samples {
		buf = append(buf, u16(uint16(s))...)
	}
	return buf
}

// Sink plays rendered audio. Swapped for a recorder in tests.
type Sink interface {
	Play(ctx context.Context, wav []byte) error
}

// PlayerSink shells out to the platform audio player.
type PlayerSink struct{}

// Play writes the WAV to a temp file and runs the player. Hosts without any
// player fall back to the terminal bell.
func (PlayerSink) Play(ctx context.Context, wav []byte) error {
	f, err := os.CreateTemp("", "qoyupos-*.wav")
	if err != nil {
		return err
	}
	path := f.Name()
	defer os.Remove(path)
	if _, err := f.Write(wav); err != nil {
		f.Close()
		return err
	}
	f.Close()

	cmd := playerCommand(ctx, path)
	if cmd == nil {
		// No player installed; the terminal bell is better than silence.
		fmt.Fprint(os.Stderr, "\a")
		return nil
	}
	return cmd.Run()
}

func playerCommand(ctx context.Context, path string) *exec.Cmd {
	if runtime.GOOS == "darwin" {
		if p, err := exec.LookPath("afplay"); err == nil {
			return exec.CommandContext(ctx, p, path)
		}
		return nil
	}
	for _, name := range []string{"paplay", "aplay", "play"} {
		if p, err := exec.LookPath(name); err == nil {
			return exec.CommandContext(ctx, p, path)
		}
	}
	return nil
}

// Notifier owns the chime preference and rate limit. Safe for concurrent use.
type Notifier struct {
	mu          sync.Mutex
	sink        Sink
	enabled     bool
	minInterval time.Duration
	lastPlay    time.Time

	chime  []byte
	unlock []byte
}

// NewNotifier builds a Notifier with pre-rendered tones.
func NewNotifier(sink Sink, enabled bool, minInterval time.Duration) *Notifier {
	return &Notifier{
		sink:        sink,
		enabled:     enabled,
		minInterval: minInterval,
		chime:       render(chimeNotes),
		unlock:      render(unlockNote),
	}
}

// Enabled reports the current preference.
func (n *Notifier) Enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled
}

// SetEnabled flips the preference. Turning sound on plays the unlock blip.
func (n *Notifier) SetEnabled(ctx context.Context, on bool) {
	n.mu.Lock()
	turnedOn := on && !n.enabled
	n.enabled = on
	n.mu.Unlock()

	if turnedOn {
		go n.play(ctx, n.unlock)
	}
	logging.Sound("enabled=%v", on)
}

// NewOrder fires the chime if the preference allows and the guard interval
// has passed. Fire-and-forget.
func (n *Notifier) NewOrder(ctx context.Context) {
	n.mu.Lock()
	if !n.enabled || time.Since(n.lastPlay) < n.minInterval {
		n.mu.Unlock()
		return
	}
	n.lastPlay = time.Now()
	n.mu.Unlock()

	go n.play(ctx, n.chime)
}

func (n *Notifier) play(ctx context.Context, wav []byte) {
	if err := n.sink.Play(ctx, wav); err != nil {
		logging.Sound("playback failed: %v", err)
	}
}
