package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"qoyupos/internal/logging"
)

// Socket subscribes to a backend websocket channel that pushes full-state
// JSON snapshots. It reconnects forever on closure with an exponential delay
// capped at max; a successful connect resets the delay. Frames that are not
// valid JSON are dropped without comment.
type Socket struct {
	url string
	jar http.CookieJar
	min time.Duration
	max time.Duration

	msgs chan json.RawMessage

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSocket creates a Socket for a ws:// or wss:// URL. The jar supplies the
// session cookie on dial. min/max bound the reconnect delay.
func NewSocket(url string, jar http.CookieJar, min, max time.Duration) *Socket {
	if min <= 0 {
		min = 1500 * time.Millisecond
	}
	if max < min {
		max = 15 * time.Second
	}
	return &Socket{
		url:    url,
		jar:    jar,
		min:    min,
		max:    max,
		msgs:   make(chan json.RawMessage, 8),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Messages delivers raw snapshot frames. Consumers decode per channel type.
func (s *Socket) Messages() <-chan json.RawMessage {
	return s.msgs
}

// Start begins the connect loop. Non-blocking.
func (s *Socket) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop tears the subscription down and waits for the loop. Idempotent.
func (s *Socket) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.doneCh
}

func (s *Socket) run(ctx context.Context) {
	defer close(s.doneCh)
	// Closing msgs tells receivers the subscription is gone.
	defer close(s.msgs)

	delay := s.min
	for {
		if s.stopped(ctx) {
			return
		}

		conn, err := s.dial(ctx)
		if err != nil {
			logging.FeedDebug("dial %s: %v (retry in %v)", s.url, err, delay)
			if !s.sleep(ctx, delay) {
				return
			}
			delay = s.nextDelay(delay)
			continue
		}

		logging.Feed("connected %s", s.url)
		delay = s.min
		s.readLoop(ctx, conn)
		conn.Close()

		if s.stopped(ctx) {
			return
		}
		logging.FeedDebug("connection %s dropped, retry in %v", s.url, delay)
		if !s.sleep(ctx, delay) {
			return
		}
		delay = s.nextDelay(delay)
	}
}

func (s *Socket) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		Jar:              s.jar,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	return conn, err
}

// readLoop pumps frames until the connection breaks or the socket stops.
// Stopping closes the connection, which unblocks the pending read; errors
// from ReadMessage are permanent in gorilla/websocket.
func (s *Socket) readLoop(ctx context.Context, conn *websocket.Conn) {
	closed := make(chan struct{})
	defer close(closed)
	go func() {
		select {
		case <-s.stopCh:
			conn.Close()
		case <-ctx.Done():
			conn.Close()
		case <-closed:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if !json.Valid(data) {
			continue // malformed frames are swallowed
		}
		if !s.push(ctx, json.RawMessage(data)) {
			return
		}
	}
}

// push queues a frame for the consumer. When the buffer is full the oldest
// queued frame gives way; newer snapshots supersede older ones. Returns false
// once the socket is stopping.
func (s *Socket) push(ctx context.Context, frame json.RawMessage) bool {
	select {
	case s.msgs <- frame:
		return true
	default:
	}
	select {
	case <-s.msgs:
	default:
	}
	select {
	case s.msgs <- frame:
		return true
	case <-s.stopCh:
		return false
	case <-ctx.Done():
		return false
	}
}

func (s *Socket) nextDelay(d time.Duration) time.Duration {
	d *= 2
	if d > s.max {
		d = s.max
	}
	return d
}

func (s *Socket) stopped(ctx context.Context) bool {
	select {
	case <-s.stopCh:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (s *Socket) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-s.stopCh:
		return false
	case <-ctx.Done():
		return false
	}
}
