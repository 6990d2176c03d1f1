package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"qoyupos/internal/api"
	"qoyupos/internal/catalog"
)

// productEditPage is the create/edit form for a product, including which
// option groups it participates in.
type productEditPage struct {
	productID int64
	name      textinput.Model
	price     textinput.Model
	category  textinput.Model
	desc      textinput.Model

	allGroups   []catalog.OptionGroup
	chosen      map[int64]bool
	groupCursor int

	// focus: 0..3 are the text fields, 4 is the group list
	focus  int
	saving bool
	errMsg string
}

func newProductEditPage(m *Model) *productEditPage {
	name := textinput.New()
	name.Placeholder = m.tr.T("menu.name")
	name.CharLimit = 64
	price := textinput.New()
	price.Placeholder = "0"
	price.CharLimit = 9
	category := textinput.New()
	category.Placeholder = m.tr.T("menu.category")
	category.CharLimit = 40
	desc := textinput.New()
	desc.CharLimit = 200
	return &productEditPage{name: name, price: price, category: category, desc: desc, chosen: map[int64]bool{}}
}

// prepare fills the form from an existing product, or clears it for a new
// one when info is zero.
func (p *productEditPage) prepare(info catalog.ProductInfo, groups []catalog.OptionGroup) tea.Cmd {
	p.productID = info.ID
	p.name.SetValue(info.Name)
	if info.ID == 0 {
		p.price.SetValue("")
	} else {
		p.price.SetValue(strconv.FormatInt(int64(info.BasePrice), 10))
	}
	p.category.SetValue(info.CategoryName)
	p.desc.SetValue(info.Description)
	p.allGroups = groups
	p.chosen = make(map[int64]bool, len(info.OptionGroupIDs))
	for _, id := range info.OptionGroupIDs {
		p.chosen[id] = true
	}
	p.groupCursor = 0
	p.focus = 0
	p.saving = false
	p.errMsg = ""
	return p.applyFocus()
}

func (p *productEditPage) fields() []*textinput.Model {
	return []*textinput.Model{&p.name, &p.price, &p.category, &p.desc}
}

func (p *productEditPage) applyFocus() tea.Cmd {
	var cmd tea.Cmd
	for i, f := range p.fields() {
		if i == p.focus {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	return cmd
}

func (p *productEditPage) update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case productSavedMsg:
		p.saving = false
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			return nil
		}
		return m.gotoPage(PageMenu)

	case tea.KeyMsg:
		if p.saving {
			return nil
		}
		switch msg.String() {
		case "esc":
			return m.gotoPage(PageMenu)
		case "tab", "down":
			p.focus = (p.focus + 1) % 5
			return p.applyFocus()
		case "shift+tab", "up":
			if p.focus == 4 && p.groupCursor > 0 {
				p.groupCursor--
				return nil
			}
			p.focus = (p.focus + 4) % 5
			return p.applyFocus()
		case "enter":
			return p.save(m)
		}
		if p.focus == 4 {
			switch msg.String() {
			case "j":
				if p.groupCursor < len(p.allGroups)-1 {
					p.groupCursor++
				}
			case "k":
				if p.groupCursor > 0 {
					p.groupCursor--
				}
			case " ":
				if p.groupCursor < len(p.allGroups) {
					id := p.allGroups[p.groupCursor].ID
					p.chosen[id] = !p.chosen[id]
				}
			}
			return nil
		}
		field := p.fields()[p.focus]
		var cmd tea.Cmd
		*field, cmd = field.Update(msg)
		return cmd
	}
	return nil
}

func (p *productEditPage) save(m *Model) tea.Cmd {
	name := strings.TrimSpace(p.name.Value())
	category := strings.TrimSpace(p.category.Value())
	priceRaw := strings.TrimSpace(p.price.Value())
	if name == "" || category == "" || priceRaw == "" {
		p.errMsg = m.tr.T("common.error")
		return nil
	}
	price, err := strconv.ParseInt(priceRaw, 10, 64)
	if err != nil || price < 0 {
		p.errMsg = m.tr.T("menu.price") + ": " + priceRaw
		return nil
	}

	var groupIDs []int64
	for _, g := range p.allGroups {
		if p.chosen[g.ID] {
			groupIDs = append(groupIDs, g.ID)
		}
	}
	up := api.ProductUpsert{
		Name:           name,
		BasePrice:      catalog.Money(price),
		CategoryName:   category,
		Description:    strings.TrimSpace(p.desc.Value()),
		OptionGroupIDs: groupIDs,
	}
	p.saving = true
	p.errMsg = ""
	return m.saveProductCmd(p.productID, up)
}

func (p *productEditPage) view(m *Model) string {
	var b strings.Builder
	title := m.tr.T("menu.new_product")
	if p.productID != 0 {
		title = m.tr.T("menu.edit") + ": " + p.name.Value()
	}
	b.WriteString(m.styles.Title.Render(title) + "\n\n")

	b.WriteString(m.tr.T("menu.name") + "\n" + p.name.View() + "\n\n")
	b.WriteString(m.tr.T("menu.price") + " (" + m.tr.T("common.currency") + ")\n" + p.price.View() + "\n\n")
	b.WriteString(m.tr.T("menu.category") + "\n" + p.category.View() + "\n\n")
	b.WriteString(m.tr.T("menu.description") + "\n" + p.desc.View() + "\n\n")

	b.WriteString(m.styles.Subtitle.Render(m.tr.T("menu.option_groups")) + "\n")
	if len(p.allGroups) == 0 {
		b.WriteString(m.styles.Muted.Render("-") + "\n")
	}
	for i, g := range p.allGroups {
		mark := "[ ]"
		if p.chosen[g.ID] {
			mark = "[x]"
		}
		row := fmt.Sprintf("%s %s", mark, g.Name)
		if p.focus == 4 && i == p.groupCursor {
			b.WriteString(m.styles.Selected.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if p.saving {
		b.WriteString(m.spinner.View() + " " + m.tr.T("common.loading"))
	} else {
		b.WriteString(m.styles.Badge.Render(" enter ") + " " + m.tr.T("menu.save") +
			"  " + m.styles.Muted.Render("esc "+m.tr.T("menu.cancel")))
	}
	if p.errMsg != "" {
		b.WriteString("\n" + m.styles.Error.Render(p.errMsg))
	}
	return b.String()
}
