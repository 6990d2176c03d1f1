package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qoyupos/internal/catalog"
	"qoyupos/internal/feed"
)

// displayPage is the customer-facing status board: order numbers being
// prepared on one side, ready pickups on the other. Closed orders stay in
// the ready column for a limited window after they first appear closed.
type displayPage struct {
	active []catalog.Order
	closed []catalog.Order
	loaded bool

	// closedSeen records when an order first showed up closed; the ready
	// column drops it once the window elapses.
	closedSeen map[int64]time.Time

	socket *feed.Socket
}

func newDisplayPage(m *Model) *displayPage {
	return &displayPage{closedSeen: map[int64]time.Time{}}
}

func (p *displayPage) enter(m *Model) tea.Cmd {
	cmds := []tea.Cmd{p.fetchCmd(m)}
	if p.socket == nil {
		// The unattended board retries at a fixed short cadence instead of
		// backing off; min == max pins the delay.
		p.socket = feed.NewSocket(m.client.SocketURL(feed.PathOrders), m.client.Jar(),
			m.cfg.GetReconnectMin(), m.cfg.GetReconnectMin())
		p.socket.Start(m.ctx)
		cmds = append(cmds, awaitSocketCmd(feed.PathOrders, p.socket))
	}
	return tea.Batch(cmds...)
}

func (p *displayPage) stopFeed() {
	if p.socket != nil {
		p.socket.Stop()
		p.socket = nil
	}
}

// fetchCmd paints the board before the first socket frame arrives.
func (p *displayPage) fetchCmd(m *Model) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, m.cfg.GetRequestTimeout())
		defer cancel()
		snap, err := m.client.OrdersFeed(ctx, m.cfg.GetMaxReady())
		if err != nil {
			return nil
		}
		return ordersSnapshotMsg{snap: snap}
	}
}

func (p *displayPage) apply(active, closed []catalog.Order) {
	p.active = active
	p.closed = closed
	p.loaded = true
	now := time.Now()
	for _, o := range closed {
		if _, seen := p.closedSeen[o.ID]; !seen {
			p.closedSeen[o.ID] = now
		}
	}
	// Drop tracking for orders no longer in the feed.
	current := make(map[int64]struct{}, len(closed))
	for _, o := range closed {
		current[o.ID] = struct{}{}
	}
	for id := range p.closedSeen {
		if _, ok := current[id]; !ok {
			delete(p.closedSeen, id)
		}
	}
}

// ready returns closed orders still inside the pickup window, newest first,
// capped to the configured board size.
func (p *displayPage) ready(m *Model) []catalog.Order {
	window := m.cfg.GetReadyWindow()
	now := time.Now()
	var out []catalog.Order
	for _, o := range p.closed {
		seen, ok := p.closedSeen[o.ID]
		if !ok || now.Sub(seen) > window {
			continue
		}
		out = append(out, o)
		if len(out) >= m.cfg.GetMaxReady() {
			break
		}
	}
	return out
}

func (p *displayPage) update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ordersSnapshotMsg:
		p.apply(msg.snap.Active, msg.snap.RecentClosed)
		return nil

	case socketFrameMsg:
		if msg.channel != feed.PathOrders {
			return nil
		}
		if om, ok := feed.DecodeOrders(msg.raw); ok {
			if om.Type == "clear_closed" {
				p.closed = nil
				p.closedSeen = map[int64]time.Time{}
			} else {
				p.apply(om.Active, om.ClosedOrders())
			}
		}
		if p.socket == nil {
			return nil
		}
		return awaitSocketCmd(feed.PathOrders, p.socket)

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m.gotoPage(PageOrder)
		}
	}
	return nil
}

func (p *displayPage) view(m *Model) string {
	title := m.styles.Title.Render(m.tr.T("display.welcome"))
	clock := m.styles.Muted.Render(time.Now().Format("15:04:05"))

	colWidth := m.width/2 - 4
	if colWidth < 20 {
		colWidth = 20
	}

	ready := p.column(m, m.styles.Success, m.tr.T("display.ready"), p.ready(m), true)
	preparing := p.column(m, m.styles.Warning, m.tr.T("display.preparing"), p.active, false)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(colWidth).Render(ready),
		"    ",
		lipgloss.NewStyle().Width(colWidth).Render(preparing),
	)

	page := lipgloss.JoinVertical(lipgloss.Center, title, clock, "", body)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, page)
	}
	return page
}

func (p *displayPage) column(m *Model, style lipgloss.Style, title string, orders []catalog.Order, big bool) string {
	var b strings.Builder
	b.WriteString(style.Render(title) + "\n\n")
	for _, o := range orders {
		num := fmt.Sprintf(" %d ", o.ID)
		if big {
			b.WriteString(m.styles.BigBadge.Render(num))
		} else {
			b.WriteString(m.styles.Badge.Render(num))
		}
		if o.CustomerName != "" {
			b.WriteString(" " + o.CustomerName)
		}
		b.WriteString("\n")
	}
	return b.String()
}
