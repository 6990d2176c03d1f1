package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var upgrader = websocket.Upgrader{}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSocketDeliversValidFramesOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"orders","active":[]}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`not json at all`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"orders","active":[{"id":4}]}`))
		// Hold the connection open until the client leaves.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	s := NewSocket(wsURL(srv), nil, 50*time.Millisecond, time.Second)
	s.Start(context.Background())
	defer s.Stop()

	var frames []json.RawMessage
	deadline := time.After(2 * time.Second)
	for len(frames) < 2 {
		select {
		case raw := <-s.Messages():
			frames = append(frames, raw)
		case <-deadline:
			t.Fatalf("got %d frames, want 2", len(frames))
		}
	}

	msg, ok := DecodeOrders(frames[1])
	require.True(t, ok)
	require.Len(t, msg.Active, 1)
	require.Equal(t, int64(4), msg.Active[0].ID)
}

func TestSocketReconnectsAfterDrop(t *testing.T) {
	defer goleak.VerifyNone(t)

	var connects atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		n := connects.Add(1)
		if n == 1 {
			conn.Close() // drop immediately, client must come back
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"options","groups":[]}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	s := NewSocket(wsURL(srv), nil, 20*time.Millisecond, 100*time.Millisecond)
	s.Start(context.Background())
	defer s.Stop()

	select {
	case raw := <-s.Messages():
		_, ok := DecodeOptions(raw)
		require.True(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("never received a frame after reconnect")
	}
	require.GreaterOrEqual(t, connects.Load(), int64(2))
}

func TestSocketStopDuringBackoff(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Nothing is listening; the socket sits in its retry sleep.
	s := NewSocket("ws://127.0.0.1:1/orders/ws", nil, time.Hour, time.Hour)
	s.Start(context.Background())

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop hung during backoff")
	}
}

func TestSocketPushEvictsOldestWhenFull(t *testing.T) {
	s := NewSocket("ws://x/", nil, time.Second, time.Second)
	ctx := context.Background()

	for i := 0; i < cap(s.msgs); i++ {
		require.True(t, s.push(ctx, json.RawMessage(`{"seq":0}`)))
	}
	require.True(t, s.push(ctx, json.RawMessage(`{"seq":"newest"}`)))

	// The newest frame must still be queued; one stale frame was evicted.
	var last json.RawMessage
	for i := 0; i < cap(s.msgs); i++ {
		last = <-s.Messages()
	}
	require.JSONEq(t, `{"seq":"newest"}`, string(last))
}

func TestSocketBackoffDoublesToCeiling(t *testing.T) {
	s := NewSocket("ws://x/", nil, 1500*time.Millisecond, 15*time.Second)
	d := s.min
	seq := []time.Duration{d}
	for i := 0; i < 5; i++ {
		d = s.nextDelay(d)
		seq = append(seq, d)
	}
	require.Equal(t, []time.Duration{
		1500 * time.Millisecond,
		3 * time.Second,
		6 * time.Second,
		12 * time.Second,
		15 * time.Second,
		15 * time.Second,
	}, seq)
}
