package app

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qoyupos/internal/api"
	"qoyupos/internal/catalog"
	"qoyupos/internal/feed"
	"qoyupos/internal/logging"
)

// ordersPage shows the live queue. Active orders refresh on a short poll so
// closes propagate even when the socket path is unavailable; a chime fires
// when a new order appears.
type ordersPage struct {
	snap       catalog.OrdersFeed
	loaded     bool
	showClosed bool
	cursor     int
	confirming bool // pending clear-closed confirmation
	errMsg     string

	poller   *feed.Poller
	detector *feed.Detector
}

func newOrdersPage(m *Model) *ordersPage {
	return &ordersPage{detector: feed.NewDetector()}
}

func (p *ordersPage) enter(m *Model) tea.Cmd {
	p.errMsg = ""
	p.confirming = false
	if p.poller != nil {
		return nil
	}
	p.detector.Reset()
	p.poller = feed.NewPoller(m.cfg.GetOrdersPollInterval(), func(ctx context.Context) (catalog.OrdersFeed, error) {
		return m.client.OrdersFeed(ctx, 10)
	})
	p.poller.Start(m.ctx)
	return awaitOrdersCmd(p.poller, p.detector)
}

func (p *ordersPage) stopFeed() {
	if p.poller != nil {
		p.poller.Stop()
		p.poller = nil
	}
}

func (p *ordersPage) visible() []catalog.Order {
	if p.showClosed {
		return p.snap.RecentClosed
	}
	return p.snap.Active
}

func (p *ordersPage) update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ordersSnapshotMsg:
		p.snap = msg.snap
		p.loaded = true
		p.errMsg = ""
		if p.cursor >= len(p.visible()) && p.cursor > 0 {
			p.cursor = len(p.visible()) - 1
			if p.cursor < 0 {
				p.cursor = 0
			}
		}
		if msg.fresh {
			logging.Feed("new order detected, %d active", len(msg.snap.Active))
			m.notifier.NewOrder(m.ctx)
		}
		if p.poller == nil {
			return nil
		}
		return awaitOrdersCmd(p.poller, p.detector)

	case orderClosedMsg:
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
		}
		return nil

	case closedClearedMsg:
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			return nil
		}
		p.snap.RecentClosed = nil
		return nil

	case tea.KeyMsg:
		return p.key(m, msg.String())
	}
	return nil
}

func (p *ordersPage) key(m *Model, key string) tea.Cmd {
	if p.confirming {
		switch key {
		case "y", "enter":
			p.confirming = false
			return m.clearClosedCmd()
		default:
			p.confirming = false
		}
		return nil
	}

	orders := p.visible()
	switch key {
	case "tab":
		p.showClosed = !p.showClosed
		p.cursor = 0
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(orders)-1 {
			p.cursor++
		}
	case "enter", "c":
		if !p.showClosed && p.cursor < len(orders) {
			id := orders[p.cursor].ID
			// Optimistic removal; the next poll reconciles.
			p.snap.Active = append(p.snap.Active[:p.cursor], p.snap.Active[p.cursor+1:]...)
			if p.cursor >= len(p.snap.Active) && p.cursor > 0 {
				p.cursor--
			}
			return m.closeOrderCmd(id)
		}
	case "x":
		if p.showClosed && len(p.snap.RecentClosed) > 0 {
			p.confirming = true
		}
	}
	return nil
}

func (p *ordersPage) view(m *Model) string {
	if !p.loaded {
		return m.spinner.View() + " " + m.tr.T("common.loading")
	}

	activeTab := m.styles.TabOn
	closedTab := m.styles.Tab
	if p.showClosed {
		activeTab, closedTab = closedTab, activeTab
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		activeTab.Render(fmt.Sprintf("%s (%d)", m.tr.T("orders.active"), len(p.snap.Active))),
		closedTab.Render(fmt.Sprintf("%s (%d)", m.tr.T("orders.closed"), len(p.snap.RecentClosed))),
	)

	var b strings.Builder
	b.WriteString(header + "\n\n")

	orders := p.visible()
	if len(orders) == 0 {
		b.WriteString(m.styles.Muted.Render(m.tr.T("orders.empty")) + "\n")
	}
	for i, o := range orders {
		b.WriteString(p.orderCard(m, o, i == p.cursor) + "\n")
	}

	if p.confirming {
		b.WriteString("\n" + m.styles.Warning.Render(
			m.tr.T("orders.closed")+"? "+m.tr.T("common.yes")+" (y) / "+m.tr.T("common.no")+" (n)"))
	} else if p.showClosed {
		b.WriteString("\n" + m.styles.Muted.Render("x "+m.tr.T("menu.delete")))
	} else {
		b.WriteString("\n" + m.styles.Muted.Render("enter "+m.tr.T("orders.close")))
	}
	if p.errMsg != "" {
		b.WriteString("\n" + m.styles.Error.Render(p.errMsg))
	}
	return b.String()
}

func (p *ordersPage) orderCard(m *Model, o catalog.Order, selected bool) string {
	title := fmt.Sprintf("#%d", o.ID)
	if o.CustomerName != "" {
		title += "  " + o.CustomerName
	}
	if o.TakeAway {
		title += "  " + m.styles.Chip.Render(m.tr.T("orders.takeaway"))
	}
	title += "  " + o.CreatedAt.Local().Format("15:04")

	var lines []string
	lines = append(lines, m.styles.Bold.Render(title))
	for _, item := range o.Items {
		base, labels := catalog.SplitInlineOptions(item.Name)
		row := fmt.Sprintf("%dx %s", item.Quantity, base)
		for _, label := range catalog.SortOptionLabels(labels) {
			row += " " + m.styles.Chip.Render(label)
		}
		lines = append(lines, row)
	}
	lines = append(lines, m.styles.Price.Render(o.Total.Format()+" "+m.tr.T("common.currency")))

	card := strings.Join(lines, "\n")
	if selected {
		return m.styles.Selected.Render(card)
	}
	return m.styles.Card.Render(card)
}
