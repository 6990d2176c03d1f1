package app

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"qoyupos/internal/api"
	"qoyupos/internal/catalog"
	"qoyupos/internal/feed"
)

// menuEntry is one selectable row of the admin product list.
type menuEntry struct {
	category string
	product  catalog.Product
}

// menuPage is the admin product list. Editing opens the product form page.
type menuPage struct {
	entries []menuEntry
	groups  []catalog.OptionGroup
	cursor  int
	loaded  bool
	errMsg  string

	confirming bool // pending delete confirmation for the selected row

	productsWS *feed.Socket
}

func newMenuPage(m *Model) *menuPage {
	return &menuPage{}
}

func (p *menuPage) enter(m *Model) tea.Cmd {
	p.errMsg = ""
	p.confirming = false
	cmds := []tea.Cmd{m.loadMenuCmd()}
	if p.productsWS == nil {
		p.productsWS = feed.NewSocket(m.client.SocketURL(feed.PathProducts), m.client.Jar(),
			m.cfg.GetReconnectMin(), m.cfg.GetReconnectMax())
		p.productsWS.Start(m.ctx)
		cmds = append(cmds, awaitSocketCmd(feed.PathProducts, p.productsWS))
	}
	return tea.Batch(cmds...)
}

func (p *menuPage) stopFeed() {
	if p.productsWS != nil {
		p.productsWS.Stop()
		p.productsWS = nil
	}
}

func (p *menuPage) setEntries(byCategory map[string][]catalog.Product) {
	p.entries = p.entries[:0]
	categories := make([]string, 0, len(byCategory))
	for name := range byCategory {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		for _, prod := range byCategory[cat] {
			p.entries = append(p.entries, menuEntry{category: cat, product: prod})
		}
	}
	if p.cursor >= len(p.entries) {
		p.cursor = 0
	}
	p.loaded = true
}

func (p *menuPage) update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case menuLoadedMsg:
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			return nil
		}
		p.setEntries(msg.byCategory)
		p.groups = msg.groups
		p.errMsg = ""
		return nil

	case productInfoMsg:
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			return nil
		}
		cmd := m.edit.prepare(msg.info, p.groups)
		m.page = PageProductEdit
		return cmd

	case productDeletedMsg:
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			return nil
		}
		return m.loadMenuCmd()

	case socketFrameMsg:
		if msg.channel != feed.PathProducts {
			return nil
		}
		if pm, ok := feed.DecodeProducts(msg.raw); ok {
			p.setEntries(pm.ByCategory)
		}
		if p.productsWS == nil {
			return nil
		}
		return awaitSocketCmd(feed.PathProducts, p.productsWS)

	case tea.KeyMsg:
		return p.key(m, msg.String())
	}
	return nil
}

func (p *menuPage) key(m *Model, key string) tea.Cmd {
	if p.confirming {
		p.confirming = false
		if key == "y" || key == "enter" {
			if p.cursor < len(p.entries) {
				return m.deleteProductCmd(p.entries[p.cursor].product.ID)
			}
		}
		return nil
	}

	switch key {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case "n":
		cmd := m.edit.prepare(catalog.ProductInfo{}, p.groups)
		m.page = PageProductEdit
		return cmd
	case "enter", "e":
		if p.cursor < len(p.entries) {
			return m.loadProductCmd(p.entries[p.cursor].product.ID)
		}
	case "d":
		if p.cursor < len(p.entries) {
			p.confirming = true
		}
	}
	return nil
}

func (p *menuPage) view(m *Model) string {
	if !p.loaded {
		if p.errMsg != "" {
			return m.styles.Error.Render(p.errMsg)
		}
		return m.spinner.View() + " " + m.tr.T("common.loading")
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.tr.T("menu.title")) + "\n\n")

	lastCategory := ""
	for i, e := range p.entries {
		if e.category != lastCategory {
			b.WriteString(m.styles.Subtitle.Render(e.category) + "\n")
			lastCategory = e.category
		}
		row := fmt.Sprintf("%-30s %8s %s", e.product.Name, e.product.Price.Format(), m.tr.T("common.currency"))
		if i == p.cursor {
			b.WriteString(m.styles.Selected.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	if p.confirming && p.cursor < len(p.entries) {
		b.WriteString("\n" + m.styles.Warning.Render(
			m.tr.Tf("menu.confirm_del", p.entries[p.cursor].product.Name)+
				" "+m.tr.T("common.yes")+" (y) / "+m.tr.T("common.no")+" (n)"))
	} else {
		b.WriteString("\n" + m.styles.Muted.Render(
			"n "+m.tr.T("menu.new_product")+"  enter "+m.tr.T("menu.edit")+"  d "+m.tr.T("menu.delete")))
	}
	if p.errMsg != "" {
		b.WriteString("\n" + m.styles.Error.Render(p.errMsg))
	}
	return b.String()
}
