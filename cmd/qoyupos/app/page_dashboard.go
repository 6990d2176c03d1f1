package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qoyupos/cmd/qoyupos/ui"
	"qoyupos/internal/api"
	"qoyupos/internal/feed"
)

// dashboardPage renders the admin KPIs. A one-shot fetch paints the first
// frame, then the dashboard socket pushes updates.
type dashboardPage struct {
	data   feed.DashboardMessage
	loaded bool
	errMsg string

	socket *feed.Socket
}

func newDashboardPage(m *Model) *dashboardPage {
	return &dashboardPage{}
}

func (p *dashboardPage) enter(m *Model) tea.Cmd {
	p.errMsg = ""
	cmds := []tea.Cmd{m.loadDashboardCmd()}
	if p.socket == nil {
		p.socket = feed.NewSocket(m.client.SocketURL(feed.PathDashboard), m.client.Jar(),
			m.cfg.GetReconnectMin(), m.cfg.GetReconnectMax())
		p.socket.Start(m.ctx)
		cmds = append(cmds, awaitSocketCmd(feed.PathDashboard, p.socket))
	}
	return tea.Batch(cmds...)
}

func (p *dashboardPage) stopFeed() {
	if p.socket != nil {
		p.socket.Stop()
		p.socket = nil
	}
}

func (p *dashboardPage) update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			return nil
		}
		p.data = msg.data
		p.loaded = true
		p.errMsg = ""
		return nil

	case socketFrameMsg:
		if msg.channel != feed.PathDashboard {
			return nil
		}
		if dm, ok := feed.DecodeDashboard(msg.raw); ok {
			p.data = dm
			p.loaded = true
		}
		if p.socket == nil {
			return nil
		}
		return awaitSocketCmd(feed.PathDashboard, p.socket)
	}
	return nil
}

func (p *dashboardPage) view(m *Model) string {
	if !p.loaded {
		if p.errMsg != "" {
			return m.styles.Error.Render(p.errMsg)
		}
		return m.spinner.View() + " " + m.tr.T("common.loading")
	}

	cur := " " + m.tr.T("common.currency")
	tiles := lipgloss.JoinHorizontal(lipgloss.Top,
		p.kpi(m, m.tr.T("dash.day_sales"), p.data.Stats.DaySales.Format()+cur),
		p.kpi(m, m.tr.T("dash.day_orders"), fmt.Sprintf("%d", p.data.Stats.DayOrders)),
		p.kpi(m, m.tr.T("dash.month_sales"), p.data.Stats.MonthSales.Format()+cur),
		p.kpi(m, m.tr.T("dash.month_orders"), fmt.Sprintf("%d", p.data.Stats.MonthOrders)),
	)

	chart := ui.NewBarChart(m.tr.T("dash.by_hour"))
	for _, hp := range p.data.Hourly {
		chart.Add(fmt.Sprintf("%02d", hp.Hour), hp.Orders)
	}

	recent := ui.NewSimpleTable(m.tr.T("dash.recent"), []string{"#", m.tr.T("order.customer_name"), m.tr.T("order.total"), ""})
	recent.AlignRight(2)
	for _, o := range p.data.Recent {
		recent.AddRow(fmt.Sprintf("%d", o.ID), o.CustomerName, o.Total.Format(), o.CreatedAt.Local().Format("15:04"))
	}

	var b strings.Builder
	b.WriteString(tiles + "\n\n")
	b.WriteString(chart.View(m.styles) + "\n\n")
	b.WriteString(recent.View(m.styles))
	if p.errMsg != "" {
		b.WriteString("\n" + m.styles.Error.Render(p.errMsg))
	}
	return b.String()
}

func (p *dashboardPage) kpi(m *Model, label, value string) string {
	return m.styles.KPI.Render(m.styles.Muted.Render(label) + "\n" + m.styles.Price.Render(value))
}
