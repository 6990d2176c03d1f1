package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qoyupos/internal/api"
	"qoyupos/internal/catalog"
	"qoyupos/internal/feed"
)

type groupsMode int

const (
	groupsBrowse groupsMode = iota
	groupsEditGroup
	groupsEditItem
)

// groupsPage administers option groups and their items in a two-pane
// layout. The options socket keeps the list fresh while another terminal
// edits the same data.
type groupsPage struct {
	groups   []catalog.OptionGroup
	loaded   bool
	errMsg   string
	pane     int // 0 groups, 1 items
	groupIdx int
	itemIdx  int

	mode         groupsMode
	editID       int64 // group or item under edit, 0 creates
	nameInput    textinput.Model
	priceInput   textinput.Model
	formFocus    int
	formSelect   catalog.SelectType
	formRequired bool
	formSize     bool

	confirming bool

	socket *feed.Socket
}

func newGroupsPage(m *Model) *groupsPage {
	name := textinput.New()
	name.Placeholder = m.tr.T("menu.name")
	name.CharLimit = 64
	price := textinput.New()
	price.Placeholder = "0"
	price.CharLimit = 9
	return &groupsPage{nameInput: name, priceInput: price}
}

func (p *groupsPage) enter(m *Model) tea.Cmd {
	p.errMsg = ""
	p.mode = groupsBrowse
	p.confirming = false
	cmds := []tea.Cmd{m.loadGroupsCmd()}
	if p.socket == nil {
		p.socket = feed.NewSocket(m.client.SocketURL(feed.PathOptions), m.client.Jar(),
			m.cfg.GetReconnectMin(), m.cfg.GetReconnectMax())
		p.socket.Start(m.ctx)
		cmds = append(cmds, awaitSocketCmd(feed.PathOptions, p.socket))
	}
	return tea.Batch(cmds...)
}

func (p *groupsPage) stopFeed() {
	if p.socket != nil {
		p.socket.Stop()
		p.socket = nil
	}
}

func (p *groupsPage) setGroups(groups []catalog.OptionGroup) {
	p.groups = groups
	if p.groupIdx >= len(groups) {
		p.groupIdx = 0
	}
	if p.itemIdx >= len(p.currentItems()) {
		p.itemIdx = 0
	}
	p.loaded = true
}

func (p *groupsPage) currentGroup() (catalog.OptionGroup, bool) {
	if p.groupIdx < len(p.groups) {
		return p.groups[p.groupIdx], true
	}
	return catalog.OptionGroup{}, false
}

func (p *groupsPage) currentItems() []catalog.OptionItem {
	if g, ok := p.currentGroup(); ok {
		return g.Items
	}
	return nil
}

func (p *groupsPage) update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case groupsLoadedMsg:
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			return nil
		}
		p.setGroups(msg.groups)
		p.errMsg = ""
		return nil

	case groupSavedMsg:
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			return nil
		}
		p.mode = groupsBrowse
		return m.loadGroupsCmd()

	case itemSavedMsg:
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			return nil
		}
		p.mode = groupsBrowse
		return m.loadGroupsCmd()

	case socketFrameMsg:
		if msg.channel != feed.PathOptions {
			return nil
		}
		if om, ok := feed.DecodeOptions(msg.raw); ok {
			p.setGroups(om.Groups)
		}
		if p.socket == nil {
			return nil
		}
		return awaitSocketCmd(feed.PathOptions, p.socket)

	case tea.KeyMsg:
		switch p.mode {
		case groupsEditGroup:
			return p.groupFormKey(m, msg)
		case groupsEditItem:
			return p.itemFormKey(m, msg)
		default:
			return p.browseKey(m, msg.String())
		}
	}
	return nil
}

func (p *groupsPage) browseKey(m *Model, key string) tea.Cmd {
	if p.confirming {
		p.confirming = false
		if key != "y" && key != "enter" {
			return nil
		}
		if p.pane == 0 {
			if g, ok := p.currentGroup(); ok {
				return m.deleteGroupCmd(g.ID)
			}
		} else if items := p.currentItems(); p.itemIdx < len(items) {
			return m.deleteItemCmd(items[p.itemIdx].ID)
		}
		return nil
	}

	switch key {
	case "tab", "left", "right":
		p.pane = 1 - p.pane
		p.itemIdx = 0
	case "up", "k":
		if p.pane == 0 && p.groupIdx > 0 {
			p.groupIdx--
			p.itemIdx = 0
		} else if p.pane == 1 && p.itemIdx > 0 {
			p.itemIdx--
		}
	case "down", "j":
		if p.pane == 0 && p.groupIdx < len(p.groups)-1 {
			p.groupIdx++
			p.itemIdx = 0
		} else if p.pane == 1 && p.itemIdx < len(p.currentItems())-1 {
			p.itemIdx++
		}
	case "n":
		if p.pane == 0 {
			return p.openGroupForm(catalog.OptionGroup{SelectType: catalog.SelectSingle})
		}
		if _, ok := p.currentGroup(); ok {
			return p.openItemForm(catalog.OptionItem{})
		}
	case "e", "enter":
		if p.pane == 0 {
			if g, ok := p.currentGroup(); ok {
				return p.openGroupForm(g)
			}
		} else if items := p.currentItems(); p.itemIdx < len(items) {
			return p.openItemForm(items[p.itemIdx])
		}
	case "d":
		if p.pane == 0 && len(p.groups) > 0 {
			p.confirming = true
		} else if p.pane == 1 && len(p.currentItems()) > 0 {
			p.confirming = true
		}
	}
	return nil
}

func (p *groupsPage) openGroupForm(g catalog.OptionGroup) tea.Cmd {
	p.mode = groupsEditGroup
	p.editID = g.ID
	p.nameInput.SetValue(g.Name)
	p.formSelect = g.SelectType
	p.formRequired = g.IsRequired
	p.formSize = g.IsSize
	p.formFocus = 0
	p.errMsg = ""
	return p.nameInput.Focus()
}

func (p *groupsPage) openItemForm(item catalog.OptionItem) tea.Cmd {
	p.mode = groupsEditItem
	p.editID = item.ID
	p.nameInput.SetValue(item.Name)
	if item.ID == 0 {
		p.priceInput.SetValue("")
	} else {
		p.priceInput.SetValue(strconv.FormatInt(int64(item.Price), 10))
	}
	p.priceInput.Blur()
	p.formFocus = 0
	p.errMsg = ""
	return p.nameInput.Focus()
}

func (p *groupsPage) groupFormKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.mode = groupsBrowse
		return nil
	case "tab":
		p.formFocus = 1 - p.formFocus
		if p.formFocus == 0 {
			return p.nameInput.Focus()
		}
		p.nameInput.Blur()
		return nil
	case "enter":
		name := strings.TrimSpace(p.nameInput.Value())
		if name == "" {
			p.errMsg = m.tr.T("common.error")
			return nil
		}
		up := api.GroupUpsert{
			Name:       name,
			SelectType: p.formSelect,
			IsRequired: p.formRequired,
			IsSize:     p.formSize,
		}
		return m.saveGroupCmd(p.editID, up)
	}
	if p.formFocus == 1 {
		switch msg.String() {
		case "s":
			if p.formSelect == catalog.SelectSingle {
				p.formSelect = catalog.SelectMulti
			} else {
				p.formSelect = catalog.SelectSingle
			}
		case "r":
			p.formRequired = !p.formRequired
		case "z":
			p.formSize = !p.formSize
		}
		return nil
	}
	var cmd tea.Cmd
	p.nameInput, cmd = p.nameInput.Update(msg)
	return cmd
}

func (p *groupsPage) itemFormKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.mode = groupsBrowse
		return nil
	case "tab", "down", "up":
		p.formFocus = 1 - p.formFocus
		if p.formFocus == 0 {
			p.priceInput.Blur()
			return p.nameInput.Focus()
		}
		p.nameInput.Blur()
		return p.priceInput.Focus()
	case "enter":
		name := strings.TrimSpace(p.nameInput.Value())
		priceRaw := strings.TrimSpace(p.priceInput.Value())
		if priceRaw == "" {
			priceRaw = "0"
		}
		price, err := strconv.ParseInt(priceRaw, 10, 64)
		if name == "" || err != nil {
			p.errMsg = m.tr.T("common.error")
			return nil
		}
		g, ok := p.currentGroup()
		if !ok {
			p.mode = groupsBrowse
			return nil
		}
		return m.saveItemCmd(g.ID, p.editID, name, catalog.Money(price))
	}
	var cmd tea.Cmd
	if p.formFocus == 0 {
		p.nameInput, cmd = p.nameInput.Update(msg)
	} else {
		p.priceInput, cmd = p.priceInput.Update(msg)
	}
	return cmd
}

func (p *groupsPage) view(m *Model) string {
	if !p.loaded {
		if p.errMsg != "" {
			return m.styles.Error.Render(p.errMsg)
		}
		return m.spinner.View() + " " + m.tr.T("common.loading")
	}
	switch p.mode {
	case groupsEditGroup:
		return p.groupFormView(m)
	case groupsEditItem:
		return p.itemFormView(m)
	}

	left := p.groupsPane(m)
	right := p.itemsPane(m)
	body := m.styles.Title.Render(m.tr.T("opts.title")) + "\n\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right)

	if p.confirming {
		body += "\n\n" + m.styles.Warning.Render(
			m.tr.T("menu.delete")+"? "+m.tr.T("common.yes")+" (y) / "+m.tr.T("common.no")+" (n)")
	} else {
		body += "\n\n" + m.styles.Muted.Render(
			"n "+m.tr.T("opts.new_group")+"/"+m.tr.T("opts.new_item")+
				"  e "+m.tr.T("menu.edit")+"  d "+m.tr.T("menu.delete")+"  tab ⇄")
	}
	if p.errMsg != "" {
		body += "\n" + m.styles.Error.Render(p.errMsg)
	}
	return body
}

func (p *groupsPage) groupsPane(m *Model) string {
	var b strings.Builder
	for i, g := range p.groups {
		label := g.Name
		if g.IsRequired {
			label += " *"
		}
		if g.IsSize {
			label += " " + m.styles.Chip.Render(m.tr.T("opts.size_group"))
		}
		mode := m.tr.T("opts.single")
		if g.SelectType == catalog.SelectMulti {
			mode = m.tr.T("opts.multi")
		}
		row := fmt.Sprintf("%-20s %s", label, m.styles.Muted.Render(mode))
		if i == p.groupIdx && p.pane == 0 {
			b.WriteString(m.styles.Selected.Render("> " + row))
		} else if i == p.groupIdx {
			b.WriteString(m.styles.Bold.Render("  " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}
	if len(p.groups) == 0 {
		b.WriteString(m.styles.Muted.Render("-"))
	}
	return b.String()
}

func (p *groupsPage) itemsPane(m *Model) string {
	var b strings.Builder
	for i, item := range p.currentItems() {
		price := item.Price.Format() + " " + m.tr.T("common.currency")
		if item.Price == 0 {
			price = m.tr.T("order.free")
		}
		row := fmt.Sprintf("%-20s %s", item.Name, price)
		if i == p.itemIdx && p.pane == 1 {
			b.WriteString(m.styles.Selected.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}
	if len(p.currentItems()) == 0 {
		b.WriteString(m.styles.Muted.Render("-"))
	}
	return b.String()
}

func (p *groupsPage) groupFormView(m *Model) string {
	var b strings.Builder
	title := m.tr.T("opts.new_group")
	if p.editID != 0 {
		title = m.tr.T("menu.edit") + ": " + p.nameInput.Value()
	}
	b.WriteString(m.styles.Title.Render(title) + "\n\n")
	b.WriteString(m.tr.T("menu.name") + "\n" + p.nameInput.View() + "\n\n")

	mode := m.tr.T("opts.single")
	if p.formSelect == catalog.SelectMulti {
		mode = m.tr.T("opts.multi")
	}
	toggles := fmt.Sprintf("s %s   r %s %s   z %s %s",
		m.styles.Chip.Render(mode),
		m.tr.T("opts.required"), checkbox(p.formRequired),
		m.tr.T("opts.size_group"), checkbox(p.formSize))
	if p.formFocus == 1 {
		b.WriteString(m.styles.Selected.Render(toggles))
	} else {
		b.WriteString(toggles)
	}

	b.WriteString("\n\n" + m.styles.Badge.Render(" enter ") + " " + m.tr.T("menu.save") +
		"  " + m.styles.Muted.Render("esc "+m.tr.T("menu.cancel")))
	if p.errMsg != "" {
		b.WriteString("\n" + m.styles.Error.Render(p.errMsg))
	}
	return m.styles.Card.Render(b.String())
}

func (p *groupsPage) itemFormView(m *Model) string {
	var b strings.Builder
	title := m.tr.T("opts.new_item")
	if p.editID != 0 {
		title = m.tr.T("menu.edit") + ": " + p.nameInput.Value()
	}
	if g, ok := p.currentGroup(); ok {
		title += "  " + m.styles.Muted.Render("("+g.Name+")")
	}
	b.WriteString(m.styles.Title.Render(title) + "\n\n")
	b.WriteString(m.tr.T("menu.name") + "\n" + p.nameInput.View() + "\n\n")
	b.WriteString(m.tr.T("menu.price") + " (" + m.tr.T("common.currency") + ")\n" + p.priceInput.View() + "\n\n")
	b.WriteString(m.styles.Badge.Render(" enter ") + " " + m.tr.T("menu.save") +
		"  " + m.styles.Muted.Render("esc "+m.tr.T("menu.cancel")))
	if p.errMsg != "" {
		b.WriteString("\n" + m.styles.Error.Render(p.errMsg))
	}
	return m.styles.Card.Render(b.String())
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
