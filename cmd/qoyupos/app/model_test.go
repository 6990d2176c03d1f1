package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qoyupos/internal/api"
	"qoyupos/internal/catalog"
	"qoyupos/internal/config"
	"qoyupos/internal/feed"
	"qoyupos/internal/pricing"
	"qoyupos/internal/prefs"
	"qoyupos/internal/session"
	"qoyupos/internal/sound"
)

type silentSink struct{}

func (silentSink) Play(ctx context.Context, wav []byte) error { return nil }

func newTestModel(t *testing.T, handler http.Handler) (Model, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Server.BaseURL = srv.URL

	store, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := api.New(srv.URL, 2*time.Second)
	m := NewModel(Options{
		Config:   cfg,
		Client:   client,
		Gate:     session.New(client),
		Notifier: sound.NewNotifier(silentSink{}, false, time.Second),
		Prefs:    store,
	})
	t.Cleanup(m.Shutdown)
	return m, srv
}

func meHandler(role catalog.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/me" {
			json.NewEncoder(w).Encode(catalog.User{ID: 1, Name: "Айгерим", Role: role})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestAdminPagesHiddenFromCashier(t *testing.T) {
	m, _ := newTestModel(t, meHandler(catalog.RoleCashier))
	m.gate.Resolve(context.Background())

	_, _, handled := m.handleGlobalKey(tea.KeyMsg{Type: tea.KeyF4})
	assert.False(t, handled, "cashier must not reach the dashboard")

	_, _, handled = m.handleGlobalKey(tea.KeyMsg{Type: tea.KeyF5})
	assert.False(t, handled)
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t, meHandler(catalog.RoleCashier))
	_, cmd, handled := m.handleGlobalKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, handled)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSoundToggleFlashesAndPersists(t *testing.T) {
	m, _ := newTestModel(t, meHandler(catalog.RoleCashier))

	model, _, handled := m.handleGlobalKey(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.True(t, handled)
	got := model.(Model)
	assert.True(t, got.notifier.Enabled())
	assert.NotEmpty(t, got.flash)
	assert.True(t, got.store.GetBool(prefs.KeySoundEnabled, false))
}

func TestDiscountCycles(t *testing.T) {
	m, _ := newTestModel(t, meHandler(catalog.RoleCashier))
	p := m.order
	p.loaded = true
	p.discountCats["Кофе"] = true

	for _, want := range []int{20, 30, 50, 0, 20} {
		p.key(&m, keyRune('d'))
		assert.Equal(t, want, p.discountPct)
	}
	// The pass through zero wiped the category marks.
	assert.Empty(t, p.discountCats)
}

func TestDiscountAppliesOnlyToMarkedCategories(t *testing.T) {
	m, _ := newTestModel(t, meHandler(catalog.RoleCashier))
	p := m.order
	p.setCatalog(map[string][]catalog.Product{
		"Кофе": {{ID: 7, Name: "Латте", Price: 1500}},
		"Чай":  {{ID: 8, Name: "Пуэр", Price: 1000}},
	})
	p.discountPct = 20

	// Mark the active category from the grid.
	p.catIdx = 0 // "Кофе" sorts first
	p.key(&m, keyRune('D'))
	require.True(t, p.discountCats["Кофе"])

	assert.Equal(t, 20, p.activePct("Кофе"))
	assert.Equal(t, 0, p.activePct("Чай"))

	// Products without option groups land in the cart straight away.
	p.openModal(&m, catalog.ProductInfo{ID: 7, Name: "Латте", BasePrice: 1500})
	p.openModal(&m, catalog.ProductInfo{ID: 8, Name: "Пуэр", BasePrice: 1000})

	lines := m.cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 20, lines[0].DiscountPct)
	assert.Equal(t, catalog.Money(1200), lines[0].UnitTotal)
	assert.Equal(t, 0, lines[1].DiscountPct)
	assert.Equal(t, catalog.Money(1000), lines[1].UnitTotal)

	// Unmarking restores the full price for the category.
	p.key(&m, keyRune('D'))
	assert.Equal(t, 0, p.activePct("Кофе"))
}

func TestAddToCartAppliesDiscountAndMerges(t *testing.T) {
	m, _ := newTestModel(t, meHandler(catalog.RoleCashier))
	p := m.order

	size := catalog.OptionGroup{
		ID: 1, Name: "Размер напитка", SelectType: catalog.SelectSingle, IsSize: true,
		Items: []catalog.OptionItem{{ID: 11, Name: "400 мл", Price: 300}},
	}
	syrup := catalog.OptionGroup{
		ID: 2, Name: "Сироп", SelectType: catalog.SelectMulti,
		Items: []catalog.OptionItem{{ID: 21, Name: "Карамель", Price: 100}},
	}
	info := catalog.ProductInfo{ID: 7, Name: "Латте", BasePrice: 1500, OptionGroupIDs: []int64{1, 2}}

	sel := pricing.NewSelection()
	sel.Toggle(size, 11)
	sel.Toggle(syrup, 21)

	p.addToCart(&m, info, []catalog.OptionGroup{size, syrup}, sel, 20)
	p.addToCart(&m, info, []catalog.OptionGroup{size, syrup}, sel, 20)

	lines := m.cart.Lines()
	require.Len(t, lines, 1, "identical configurations merge")
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, catalog.Money(1520), lines[0].UnitTotal)
	assert.Equal(t, catalog.Money(1120), lines[0].UnitBase)
	assert.Equal(t, catalog.Money(1900), lines[0].UnitOriginal, "pre-discount price rides along for display")
	assert.Equal(t, "Латте (400 мл, Карамель) [-20%]", lines[0].DisplayName())
}

func TestMenuPageRefreshesFromProductFrame(t *testing.T) {
	m, _ := newTestModel(t, meHandler(catalog.RoleAdmin))
	p := m.menu
	p.setEntries(map[string][]catalog.Product{
		"Кофе": {{ID: 7, Name: "Латте", Price: 1500}},
	})

	frame := json.RawMessage(`{"by_category":{"Кофе":[
		{"id":7,"name":"Латте","price":1500},
		{"id":9,"name":"Раф","price":1700}]}}`)
	p.update(&m, socketFrameMsg{channel: feed.PathProducts, raw: frame})

	require.Len(t, p.entries, 2)
	assert.Equal(t, "Раф", p.entries[1].product.Name)
}

func TestDisplayReadyWindowExpires(t *testing.T) {
	m, _ := newTestModel(t, meHandler(catalog.RoleCashier))
	p := m.display

	closed := []catalog.Order{{ID: 41}, {ID: 42}}
	p.apply(nil, closed)

	ready := p.ready(&m)
	require.Len(t, ready, 2)

	// Age one order past the pickup window.
	p.closedSeen[41] = time.Now().Add(-m.cfg.GetReadyWindow() - time.Minute)
	ready = p.ready(&m)
	require.Len(t, ready, 1)
	assert.Equal(t, int64(42), ready[0].ID)
}

func TestOrdersCloseIsOptimistic(t *testing.T) {
	m, _ := newTestModel(t, meHandler(catalog.RoleCashier))
	p := m.orders
	p.loaded = true
	p.snap = catalog.OrdersFeed{Active: []catalog.Order{{ID: 1}, {ID: 2}}}

	cmd := p.key(&m, "enter")
	require.NotNil(t, cmd, "closing fires a backend call")
	require.Len(t, p.snap.Active, 1)
	assert.Equal(t, int64(2), p.snap.Active[0].ID)
}
