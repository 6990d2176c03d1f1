// Package session tracks who is signed in. The gate starts in Loading,
// resolves by asking the backend who the cookie belongs to, and lands in
// either Authenticated or Anonymous. Resolution failures of any kind mean
// Anonymous; no error is surfaced for them.
package session

import (
	"context"
	"sync"

	"qoyupos/internal/api"
	"qoyupos/internal/catalog"
	"qoyupos/internal/logging"
)

// State of the auth gate.
type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "loading"
	}
}

// Snapshot is an immutable view of the gate. User is only meaningful when
// State is Authenticated.
type Snapshot struct {
	State State
	User  catalog.User
}

// IsAdmin reports whether the admin pages are reachable.
func (s Snapshot) IsAdmin() bool {
	return s.State == StateAuthenticated && s.User.IsAdmin()
}

// Gate owns the session state. Safe for concurrent use.
type Gate struct {
	mu     sync.RWMutex
	client *api.Client
	snap   Snapshot
}

// New returns a Gate in the Loading state.
func New(client *api.Client) *Gate {
	return &Gate{client: client, snap: Snapshot{State: StateLoading}}
}

// Snapshot returns the current state.
func (g *Gate) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snap
}

// Resolve asks the backend who the session cookie belongs to. Any failure,
// network or auth, transitions to Anonymous.
func (g *Gate) Resolve(ctx context.Context) Snapshot {
	user, err := g.client.Me(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		logging.Session("resolve -> anonymous (%v)", err)
		g.snap = Snapshot{State: StateAnonymous}
	} else {
		logging.Session("resolve -> authenticated as %s (%s)", user.Name, user.Role)
		g.snap = Snapshot{State: StateAuthenticated, User: user}
	}
	return g.snap
}

// Login signs in and re-resolves. The returned error is the login failure;
// the gate stays Anonymous then.
func (g *Gate) Login(ctx context.Context, phone, password string) (Snapshot, error) {
	if err := g.client.Login(ctx, phone, password); err != nil {
		g.mu.Lock()
		g.snap = Snapshot{State: StateAnonymous}
		g.mu.Unlock()
		return g.Snapshot(), err
	}
	return g.Resolve(ctx), nil
}

// Register creates an account, which also signs it in, then re-resolves.
func (g *Gate) Register(ctx context.Context, name, phone, password string) (Snapshot, error) {
	if err := g.client.Register(ctx, name, phone, password); err != nil {
		g.mu.Lock()
		g.snap = Snapshot{State: StateAnonymous}
		g.mu.Unlock()
		return g.Snapshot(), err
	}
	return g.Resolve(ctx), nil
}

// Logout clears the server session. The gate goes Anonymous even when the
// request fails; the cookie may already be gone.
func (g *Gate) Logout(ctx context.Context) Snapshot {
	if err := g.client.Logout(ctx); err != nil {
		logging.Session("logout request failed: %v", err)
	}
	g.mu.Lock()
	g.snap = Snapshot{State: StateAnonymous}
	g.mu.Unlock()
	return g.Snapshot()
}
