package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qoyupos/internal/api"
	"qoyupos/internal/catalog"
)

func gateAgainst(t *testing.T, handler http.Handler) *Gate {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(api.New(srv.URL, 5*time.Second))
}

func TestStartsLoading(t *testing.T) {
	g := New(api.New("http://localhost:1", time.Second))
	assert.Equal(t, StateLoading, g.Snapshot().State)
}

func TestResolveAuthenticated(t *testing.T) {
	g := gateAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(catalog.User{ID: 1, Name: "Дана", Role: catalog.RoleAdmin})
	}))

	snap := g.Resolve(context.Background())
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, "Дана", snap.User.Name)
	assert.True(t, snap.IsAdmin())
}

func TestResolveFailureIsSilentlyAnonymous(t *testing.T) {
	t.Run("auth error", func(t *testing.T) {
		g := gateAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "no session"})
		}))
		snap := g.Resolve(context.Background())
		assert.Equal(t, StateAnonymous, snap.State)
		assert.False(t, snap.IsAdmin())
	})

	t.Run("network error", func(t *testing.T) {
		g := New(api.New("http://127.0.0.1:1", 200*time.Millisecond))
		snap := g.Resolve(context.Background())
		assert.Equal(t, StateAnonymous, snap.State)
	})
}

func TestLoginFailureStaysAnonymous(t *testing.T) {
	g := gateAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
	}))

	snap, err := g.Login(context.Background(), "123", "bad")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", api.Message(err))
	assert.Equal(t, StateAnonymous, snap.State)
}

func TestLogoutGoesAnonymousEvenOnError(t *testing.T) {
	g := gateAgainst(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/me":
			json.NewEncoder(w).Encode(catalog.User{ID: 1, Name: "Дана", Role: catalog.RoleCashier})
		case "/auth/logout":
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"detail": "boom"})
		}
	}))

	g.Resolve(context.Background())
	snap := g.Logout(context.Background())
	assert.Equal(t, StateAnonymous, snap.State)
}
