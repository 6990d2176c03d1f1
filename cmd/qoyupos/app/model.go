// Package app is the interactive terminal application: order building for
// cashiers, live order and dashboard views, the customer-facing status
// screen, and the admin pages for the menu and option groups.
package app

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qoyupos/cmd/qoyupos/ui"
	"qoyupos/internal/api"
	"qoyupos/internal/cart"
	"qoyupos/internal/config"
	"qoyupos/internal/feed"
	"qoyupos/internal/i18n"
	"qoyupos/internal/logging"
	"qoyupos/internal/prefs"
	"qoyupos/internal/session"
	"qoyupos/internal/sound"
)

// Page identifies the active screen.
type Page int

const (
	PageLoading Page = iota
	PageLogin
	PageRegister
	PageOrder
	PageOrders
	PageDashboard
	PageDisplay
	PageMenu
	PageProductEdit
	PageGroups
	PageHelp
)

// Model is the bubbletea root model.
type Model struct {
	cfg    *config.Config
	styles ui.Styles
	tr     *i18n.Translator

	client   *api.Client
	gate     *session.Gate
	cart     *cart.Cart
	notifier *sound.Notifier
	store    *prefs.Store

	ctx            context.Context
	shutdownCancel context.CancelFunc
	shutdownOnce   *sync.Once

	page     Page
	lastPage Page // for returning from help and edit pages
	width    int
	height   int
	spinner  spinner.Model
	resize   *ui.ResizeDebouncer
	flash    string // one-line status under the header
	flashErr bool

	// Page state. Pointers so a value-receiver Update mutates in place.
	login     *loginPage
	order     *orderPage
	orders    *ordersPage
	dashboard *dashboardPage
	display   *displayPage
	menu      *menuPage
	edit      *productEditPage
	groups    *groupsPage
}

// Options carries the assembled dependencies into the model.
type Options struct {
	Config   *config.Config
	Client   *api.Client
	Gate     *session.Gate
	Notifier *sound.Notifier
	Prefs    *prefs.Store
	Start    Page // landing page after auth, PageOrder by default
}

// NewModel assembles the root model.
func NewModel(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	styles := ui.NewStyles(ui.ResolveTheme(opts.Config.UI.Theme))
	locale := i18n.ParseLocale(opts.Prefs.Get(prefs.KeyLocale, opts.Config.UI.Locale))
	tr := i18n.New(locale)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	// Default landing page for an authenticated user is the active queue.
	start := opts.Start
	if start == PageLoading {
		start = PageOrders
	}

	m := Model{
		cfg:            opts.Config,
		styles:         styles,
		tr:             tr,
		client:         opts.Client,
		gate:           opts.Gate,
		cart:           cart.New(),
		notifier:       opts.Notifier,
		store:          opts.Prefs,
		ctx:            ctx,
		shutdownCancel: cancel,
		shutdownOnce:   &sync.Once{},
		page:           PageLoading,
		lastPage:       start,
		spinner:        sp,
		resize:         ui.NewResizeDebouncer(ui.DefaultResizeDuration),
	}
	m.login = newLoginPage(&m)
	m.order = newOrderPage(&m)
	m.orders = newOrdersPage(&m)
	m.dashboard = newDashboardPage(&m)
	m.display = newDisplayPage(&m)
	m.menu = newMenuPage(&m)
	m.edit = newProductEditPage(&m)
	m.groups = newGroupsPage(&m)
	return m
}

// Init starts the spinner and resolves the session.
func (m Model) Init() tea.Cmd {
	logging.UI("app start")
	return tea.Batch(
		m.spinner.Tick,
		m.resolveSessionCmd(),
		clockTickCmd(),
	)
}

// Shutdown stops feeds and background work. Safe to call multiple times.
func (m Model) Shutdown() {
	m.shutdownOnce.Do(func() {
		m.shutdownCancel()
		m.orders.stopFeed()
		m.dashboard.stopFeed()
		m.display.stopFeed()
		m.order.stopFeed()
		m.menu.stopFeed()
		m.groups.stopFeed()
		m.resize.Cancel()
		logging.UI("app shutdown")
	})
}

// Update is the event loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		// Terminal drags emit a burst of sizes; log only the settled one.
		m.resize.Resize(msg.Width, msg.Height, func(w, h int) {
			logging.UI("resized to %dx%d", w, h)
		})
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clockTickMsg:
		// Keeps the display page's READY window fresh.
		return m, clockTickCmd()

	case tea.KeyMsg:
		if model, cmd, handled := m.handleGlobalKey(msg); handled {
			return model, cmd
		}

	case sessionResolvedMsg:
		return m.onSessionResolved(msg)

	case loggedOutMsg:
		m.cart.Clear()
		return m.switchPage(PageLogin)

	case configReloadedMsg:
		// Live-tunable settings only; feeds pick the new values up on the
		// next page entry.
		m.cfg = msg.cfg
		m.styles = ui.NewStyles(ui.ResolveTheme(msg.cfg.UI.Theme))
		logging.Boot("config reloaded")
		return m, nil

	case socketGoneMsg:
		return m, nil
	}

	return m.updatePage(msg)
}

// handleGlobalKey processes navigation and app-level shortcuts. Function and
// control keys only, so text fields never lose a character to navigation.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	snap := m.gate.Snapshot()
	switch msg.String() {
	case "ctrl+c":
		m.Shutdown()
		return m, tea.Quit, true
	case "f1":
		if m.page != PageHelp {
			m.lastPage = m.page
			model, cmd := m.switchPage(PageHelp)
			return model, cmd, true
		}
		model, cmd := m.switchPage(m.lastPage)
		return model, cmd, true
	case "f2":
		if snap.State == session.StateAuthenticated {
			model, cmd := m.switchPage(PageOrder)
			return model, cmd, true
		}
	case "f3":
		if snap.State == session.StateAuthenticated {
			model, cmd := m.switchPage(PageOrders)
			return model, cmd, true
		}
	case "f4":
		if snap.IsAdmin() {
			model, cmd := m.switchPage(PageDashboard)
			return model, cmd, true
		}
	case "f5":
		if snap.IsAdmin() {
			model, cmd := m.switchPage(PageMenu)
			return model, cmd, true
		}
	case "f6":
		if snap.IsAdmin() {
			model, cmd := m.switchPage(PageGroups)
			return model, cmd, true
		}
	case "f7":
		if snap.State == session.StateAuthenticated {
			model, cmd := m.switchPage(PageDisplay)
			return model, cmd, true
		}
	case "ctrl+s":
		on := !m.notifier.Enabled()
		m.notifier.SetEnabled(m.ctx, on)
		if err := m.store.SetBool(prefs.KeySoundEnabled, on); err != nil {
			logging.Get(logging.CategoryStore).Warn("persist sound flag: %v", err)
		}
		if on {
			m.flash, m.flashErr = m.tr.T("common.sound_on"), false
		} else {
			m.flash, m.flashErr = m.tr.T("common.sound_off"), false
		}
		return m, nil, true
	case "ctrl+l":
		if snap.State == session.StateAuthenticated {
			return m, m.logoutCmd(), true
		}
	}
	return m, nil, false
}

func (m Model) onSessionResolved(msg sessionResolvedMsg) (tea.Model, tea.Cmd) {
	switch msg.snap.State {
	case session.StateAuthenticated:
		logging.UI("session resolved, landing on page %d", m.lastPage)
		return m.switchPage(m.lastPage)
	default:
		return m.switchPage(PageLogin)
	}
}

// switchPage leaves the current page (stopping its feed) and enters the new
// one (starting its feed and initial fetch).
func (m Model) switchPage(p Page) (tea.Model, tea.Cmd) {
	cmd := m.gotoPage(p)
	return m, cmd
}

// gotoPage is the mutating form used by page handlers, which receive the
// model by pointer.
func (m *Model) gotoPage(p Page) tea.Cmd {
	if m.page == p {
		return nil
	}
	m.leavePage(m.page)
	m.page = p
	m.flash, m.flashErr = "", false
	logging.UI("page -> %d", p)
	return m.enterPage(p)
}

func (m *Model) leavePage(p Page) {
	switch p {
	case PageOrder:
		m.order.stopFeed()
	case PageOrders:
		m.orders.stopFeed()
	case PageDashboard:
		m.dashboard.stopFeed()
	case PageDisplay:
		m.display.stopFeed()
	case PageMenu, PageProductEdit:
		m.menu.stopFeed()
	case PageGroups:
		m.groups.stopFeed()
	}
}

func (m *Model) enterPage(p Page) tea.Cmd {
	switch p {
	case PageLogin, PageRegister:
		return m.login.enter(p == PageRegister)
	case PageOrder:
		return m.order.enter(m)
	case PageOrders:
		return m.orders.enter(m)
	case PageDashboard:
		return m.dashboard.enter(m)
	case PageDisplay:
		return m.display.enter(m)
	case PageMenu:
		return m.menu.enter(m)
	case PageGroups:
		return m.groups.enter(m)
	}
	return nil
}

// updatePage routes a message to the active page.
func (m Model) updatePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.page {
	case PageLogin, PageRegister:
		cmd = m.login.update(&m, msg)
	case PageOrder:
		cmd = m.order.update(&m, msg)
	case PageOrders:
		cmd = m.orders.update(&m, msg)
	case PageDashboard:
		cmd = m.dashboard.update(&m, msg)
	case PageDisplay:
		cmd = m.display.update(&m, msg)
	case PageMenu:
		cmd = m.menu.update(&m, msg)
	case PageProductEdit:
		// The edit form rides on the menu flow; keep its product
		// subscription serviced so the list is fresh on return.
		if f, ok := msg.(socketFrameMsg); ok && f.channel == feed.PathProducts {
			cmd = m.menu.update(&m, f)
			break
		}
		cmd = m.edit.update(&m, msg)
	case PageGroups:
		cmd = m.groups.update(&m, msg)
	}
	return m, cmd
}

// View renders the header, active page, and footer.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var body string
	switch m.page {
	case PageLoading:
		body = m.spinner.View() + " " + m.tr.T("common.loading")
	case PageLogin, PageRegister:
		body = m.login.view(&m)
	case PageOrder:
		body = m.order.view(&m)
	case PageOrders:
		body = m.orders.view(&m)
	case PageDashboard:
		body = m.dashboard.view(&m)
	case PageDisplay:
		// Full-screen customer view, no chrome.
		return m.display.view(&m)
	case PageMenu:
		body = m.menu.view(&m)
	case PageProductEdit:
		body = m.edit.view(&m)
	case PageGroups:
		body = m.groups.view(&m)
	case PageHelp:
		body = m.helpView()
	}

	sections := []string{m.headerView()}
	if m.flash != "" {
		style := m.styles.Success
		if m.flashErr {
			style = m.styles.Error
		}
		sections = append(sections, style.Render(" "+m.flash))
	}
	sections = append(sections, lipgloss.NewStyle().Padding(1, 2).Render(body), m.footerView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	snap := m.gate.Snapshot()
	title := m.styles.Header.Render(" " + m.tr.T("app.title") + " ")

	if snap.State != session.StateAuthenticated {
		return title
	}

	type tab struct {
		page  Page
		label string
	}
	tabs := []tab{
		{PageOrder, "F2 " + m.tr.T("nav.new_order")},
		{PageOrders, "F3 " + m.tr.T("nav.orders")},
	}
	if snap.IsAdmin() {
		tabs = append(tabs,
			tab{PageDashboard, "F4 " + m.tr.T("nav.dashboard")},
			tab{PageMenu, "F5 " + m.tr.T("nav.menu")},
			tab{PageGroups, "F6 " + m.tr.T("nav.options")},
		)
	}
	tabs = append(tabs, tab{PageDisplay, "F7 " + m.tr.T("nav.display")})

	parts := make([]string, 0, len(tabs)+1)
	parts = append(parts, title)
	for _, t := range tabs {
		style := m.styles.Tab
		if t.page == m.page || (m.page == PageProductEdit && t.page == PageMenu) {
			style = m.styles.TabOn
		}
		parts = append(parts, style.Render(t.label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) footerView() string {
	snap := m.gate.Snapshot()
	left := "F1 ?  ctrl+s ♪  ctrl+c quit"
	if snap.State == session.StateAuthenticated {
		left += "  ctrl+l " + m.tr.T("nav.logout")
		who := snap.User.Name
		if snap.IsAdmin() {
			who += " (admin)"
		}
		sndState := m.tr.T("common.sound_off")
		if m.notifier.Enabled() {
			sndState = m.tr.T("common.sound_on")
		}
		gap := m.width - lipgloss.Width(left) - lipgloss.Width(who) - lipgloss.Width(sndState) - 8
		if gap < 1 {
			gap = 1
		}
		return m.styles.Footer.Render(left + strings.Repeat(" ", gap) + sndState + "  " + who)
	}
	return m.styles.Footer.Render(left)
}

func (m Model) helpView() string {
	md := `# ` + m.tr.T("app.title") + `

| Key | Action |
|-----|--------|
| F2 | ` + m.tr.T("nav.new_order") + ` |
| F3 | ` + m.tr.T("nav.orders") + ` |
| F4 | ` + m.tr.T("nav.dashboard") + ` |
| F5 | ` + m.tr.T("nav.menu") + ` |
| F6 | ` + m.tr.T("nav.options") + ` |
| F7 | ` + m.tr.T("nav.display") + ` |
| ctrl+s | ♪ |
| ctrl+l | ` + m.tr.T("nav.logout") + ` |
| F1 | ` + m.tr.T("common.back") + ` |
`
	return ui.RenderMarkdown(md, m.width-4, m.styles.Theme)
}

// Run starts the interactive application. When configPath is non-empty the
// file is watched and edits are pushed into the running program.
func Run(opts Options, configPath string) error {
	model := NewModel(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())

	var watcher *config.Watcher
	if configPath != "" {
		w, err := config.NewWatcher(configPath, func(cfg *config.Config) {
			p.Send(configReloadedMsg{cfg: cfg})
		})
		if err != nil {
			logging.Boot("config watch unavailable: %v", err)
		} else if err := w.Start(model.ctx); err != nil {
			logging.Boot("config watch failed to start: %v", err)
		} else {
			watcher = w
		}
	}

	_, err := p.Run()
	if watcher != nil {
		watcher.Stop()
	}
	model.Shutdown()
	return err
}
