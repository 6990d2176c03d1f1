package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qoyupos/internal/api"
	"qoyupos/internal/cart"
	"qoyupos/internal/catalog"
	"qoyupos/internal/feed"
	"qoyupos/internal/logging"
	"qoyupos/internal/pricing"
)

type orderFocus int

const (
	focusGrid orderFocus = iota
	focusCart
	focusName
)

// discountSteps the cashier cycles through with "d".
var discountSteps = []int{0, 20, 30, 50}

// orderPage is the cashier's order builder: the product grid on the left,
// the cart and checkout controls on the right, and a modal for option picks.
type orderPage struct {
	byCategory map[string][]catalog.Product
	categories []string
	groups     map[int64]catalog.OptionGroup
	catIdx     int
	prodIdx    int
	loaded     bool
	errMsg     string

	// Discount panel: one percentage, applied only to products whose
	// category the cashier has marked.
	discountPct  int
	discountCats map[string]bool
	focus        orderFocus
	cartIdx      int
	nameInput    textinput.Model
	takeAway     bool
	submitting   bool

	// options modal
	modalOpen   bool
	modalInfo   catalog.ProductInfo
	modalGroups []catalog.OptionGroup
	modalPct    int // discount captured when the modal opened
	sel         *pricing.Selection
	modalCursor int

	productsWS *feed.Socket
	optionsWS  *feed.Socket
}

func newOrderPage(m *Model) *orderPage {
	name := textinput.New()
	name.Placeholder = m.tr.T("order.customer_name")
	name.CharLimit = 40
	return &orderPage{
		nameInput:    name,
		groups:       map[int64]catalog.OptionGroup{},
		discountCats: map[string]bool{},
	}
}

func (p *orderPage) enter(m *Model) tea.Cmd {
	p.errMsg = ""
	cmds := []tea.Cmd{m.loadMenuCmd()}
	if p.productsWS == nil {
		p.productsWS = feed.NewSocket(m.client.SocketURL(feed.PathProducts), m.client.Jar(),
			m.cfg.GetReconnectMin(), m.cfg.GetReconnectMax())
		p.productsWS.Start(m.ctx)
		cmds = append(cmds, awaitSocketCmd(feed.PathProducts, p.productsWS))
	}
	if p.optionsWS == nil {
		p.optionsWS = feed.NewSocket(m.client.SocketURL(feed.PathOptions), m.client.Jar(),
			m.cfg.GetReconnectMin(), m.cfg.GetReconnectMax())
		p.optionsWS.Start(m.ctx)
		cmds = append(cmds, awaitSocketCmd(feed.PathOptions, p.optionsWS))
	}
	return tea.Batch(cmds...)
}

func (p *orderPage) stopFeed() {
	if p.productsWS != nil {
		p.productsWS.Stop()
		p.productsWS = nil
	}
	if p.optionsWS != nil {
		p.optionsWS.Stop()
		p.optionsWS = nil
	}
}

func (p *orderPage) setCatalog(byCategory map[string][]catalog.Product) {
	current := ""
	if p.catIdx < len(p.categories) {
		current = p.categories[p.catIdx]
	}
	p.byCategory = byCategory
	p.categories = p.categories[:0]
	for name := range byCategory {
		p.categories = append(p.categories, name)
	}
	sort.Strings(p.categories)
	p.catIdx = 0
	for i, name := range p.categories {
		if name == current {
			p.catIdx = i
			break
		}
	}
	if p.prodIdx >= len(p.currentProducts()) {
		p.prodIdx = 0
	}
	p.loaded = true
}

func (p *orderPage) setGroups(groups []catalog.OptionGroup) {
	p.groups = make(map[int64]catalog.OptionGroup, len(groups))
	for _, g := range groups {
		p.groups[g.ID] = g
	}
}

func (p *orderPage) currentProducts() []catalog.Product {
	if p.catIdx >= len(p.categories) {
		return nil
	}
	return p.byCategory[p.categories[p.catIdx]]
}

// activePct returns the discount for a category: the panel percentage when
// the category is marked, zero otherwise.
func (p *orderPage) activePct(category string) int {
	if !p.discountCats[category] {
		return 0
	}
	return p.discountPct
}

func (p *orderPage) categoryOf(productID int64) string {
	for cat, prods := range p.byCategory {
		for _, prod := range prods {
			if prod.ID == productID {
				return cat
			}
		}
	}
	return ""
}

func (p *orderPage) update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case menuLoadedMsg:
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			return nil
		}
		p.setCatalog(msg.byCategory)
		p.setGroups(msg.groups)
		p.errMsg = ""
		return nil

	case productInfoMsg:
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			return nil
		}
		return p.openModal(m, msg.info)

	case orderSubmittedMsg:
		p.submitting = false
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			return nil
		}
		m.cart.Clear()
		p.nameInput.SetValue("")
		p.takeAway = false
		p.discountPct = 0
		p.discountCats = map[string]bool{}
		p.cartIdx = 0
		m.flash = m.tr.Tf("order.submitted", msg.order.ID)
		m.flashErr = false
		logging.Cart("order %d submitted", msg.order.ID)
		return nil

	case socketFrameMsg:
		return p.onFrame(m, msg)

	case tea.KeyMsg:
		if p.modalOpen {
			return p.modalKey(m, msg)
		}
		return p.key(m, msg)
	}

	if p.focus == focusName {
		var cmd tea.Cmd
		p.nameInput, cmd = p.nameInput.Update(msg)
		return cmd
	}
	return nil
}

func (p *orderPage) onFrame(m *Model, msg socketFrameMsg) tea.Cmd {
	switch msg.channel {
	case feed.PathProducts:
		if pm, ok := feed.DecodeProducts(msg.raw); ok {
			p.setCatalog(pm.ByCategory)
		}
		if p.productsWS == nil {
			return nil
		}
		return awaitSocketCmd(feed.PathProducts, p.productsWS)
	case feed.PathOptions:
		if om, ok := feed.DecodeOptions(msg.raw); ok {
			p.setGroups(om.Groups)
		}
		if p.optionsWS == nil {
			return nil
		}
		return awaitSocketCmd(feed.PathOptions, p.optionsWS)
	}
	return nil
}

func (p *orderPage) key(m *Model, msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	// Checkout works from the cart and the name field.
	if key == "enter" && p.focus != focusGrid {
		return p.submit(m)
	}
	switch key {
	case "tab":
		p.focus = (p.focus + 1) % 3
		if p.focus == focusName {
			return p.nameInput.Focus()
		}
		p.nameInput.Blur()
		return nil
	case "ctrl+t":
		p.takeAway = !p.takeAway
		return nil
	case "esc":
		p.focus = focusGrid
		p.nameInput.Blur()
		return nil
	}

	if p.focus == focusName {
		var cmd tea.Cmd
		p.nameInput, cmd = p.nameInput.Update(msg)
		return cmd
	}

	switch key {
	case "d":
		for i, step := range discountSteps {
			if step == p.discountPct {
				p.discountPct = discountSteps[(i+1)%len(discountSteps)]
				if p.discountPct == 0 {
					// Cycling back to zero resets the panel entirely.
					p.discountCats = map[string]bool{}
				}
				return nil
			}
		}
		p.discountPct = 0
		return nil
	case "D":
		if p.catIdx < len(p.categories) {
			name := p.categories[p.catIdx]
			if p.discountCats[name] {
				delete(p.discountCats, name)
			} else {
				p.discountCats[name] = true
			}
		}
		return nil
	}

	if p.focus == focusCart {
		return p.cartKey(m, key)
	}

	products := p.currentProducts()
	switch key {
	case "left", "h":
		if len(p.categories) > 0 {
			p.catIdx = (p.catIdx + len(p.categories) - 1) % len(p.categories)
			p.prodIdx = 0
		}
	case "right", "l":
		if len(p.categories) > 0 {
			p.catIdx = (p.catIdx + 1) % len(p.categories)
			p.prodIdx = 0
		}
	case "up", "k":
		if p.prodIdx > 0 {
			p.prodIdx--
		}
	case "down", "j":
		if p.prodIdx < len(products)-1 {
			p.prodIdx++
		}
	case "enter", " ":
		if p.prodIdx < len(products) {
			return m.loadProductCmd(products[p.prodIdx].ID)
		}
	}
	return nil
}

func (p *orderPage) cartKey(m *Model, key string) tea.Cmd {
	lines := m.cart.Lines()
	if len(lines) == 0 {
		return nil
	}
	if p.cartIdx >= len(lines) {
		p.cartIdx = len(lines) - 1
	}
	line := lines[p.cartIdx]
	switch key {
	case "up", "k":
		if p.cartIdx > 0 {
			p.cartIdx--
		}
	case "down", "j":
		if p.cartIdx < len(lines)-1 {
			p.cartIdx++
		}
	case "+", "right":
		m.cart.Increment(line.Key)
	case "-", "left":
		m.cart.Decrement(line.Key)
	case "x", "delete", "backspace":
		m.cart.Remove(line.Key)
	}
	return nil
}

// openModal prepares the option picker, or adds the product straight to the
// cart when it has no option groups.
func (p *orderPage) openModal(m *Model, info catalog.ProductInfo) tea.Cmd {
	pct := p.activePct(p.categoryOf(info.ID))
	groups := make([]catalog.OptionGroup, 0, len(info.OptionGroupIDs))
	for _, id := range info.OptionGroupIDs {
		if g, ok := p.groups[id]; ok && len(g.Items) > 0 {
			groups = append(groups, g)
		}
	}
	if len(groups) == 0 {
		p.addToCart(m, info, nil, nil, pct)
		return nil
	}
	p.modalOpen = true
	p.modalInfo = info
	p.modalGroups = groups
	p.modalPct = pct
	p.sel = pricing.NewSelection()
	// Required single groups start on their first item; required multi
	// groups still demand an explicit pick.
	for _, g := range groups {
		if g.IsRequired && g.SelectType == catalog.SelectSingle {
			p.sel.Toggle(g, g.Items[0].ID)
		}
	}
	p.modalCursor = 0
	p.errMsg = ""
	return nil
}

type modalRow struct {
	group catalog.OptionGroup
	item  catalog.OptionItem
}

func (p *orderPage) modalRows() []modalRow {
	var rows []modalRow
	for _, g := range p.modalGroups {
		for _, item := range g.Items {
			rows = append(rows, modalRow{group: g, item: item})
		}
	}
	return rows
}

func (p *orderPage) modalKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	rows := p.modalRows()
	switch msg.String() {
	case "esc":
		p.modalOpen = false
		p.errMsg = ""
	case "up", "k":
		if p.modalCursor > 0 {
			p.modalCursor--
		}
	case "down", "j":
		if p.modalCursor < len(rows)-1 {
			p.modalCursor++
		}
	case " ":
		if p.modalCursor < len(rows) {
			row := rows[p.modalCursor]
			p.sel.Toggle(row.group, row.item.ID)
		}
	case "enter":
		if missing := p.sel.MissingRequired(p.modalGroups); len(missing) > 0 {
			p.errMsg = m.tr.T("order.option_needed")
			return nil
		}
		p.addToCart(m, p.modalInfo, p.modalGroups, p.sel, p.modalPct)
		p.modalOpen = false
		p.errMsg = ""
	}
	return nil
}

func (p *orderPage) addToCart(m *Model, info catalog.ProductInfo, groups []catalog.OptionGroup, sel *pricing.Selection, pct int) {
	if sel == nil {
		sel = pricing.NewSelection()
	}
	quote := pricing.Compute(info.BasePrice, groups, sel, pct, m.cfg.Catalog.SizeGroupPrefix)

	var labels []string
	for _, g := range groups {
		for _, item := range g.Items {
			if sel.Has(g.ID, item.ID) {
				labels = append(labels, item.Name)
			}
		}
	}
	labels = catalog.SortOptionLabels(labels)
	ids := sel.ItemIDs()

	m.cart.Add(cart.Line{
		Key:           cart.LineKey(info.ID, ids, quote.ServerBase, pct),
		ProductID:     info.ID,
		Name:          info.Name,
		NameSuffix:    pricing.DiscountSuffix(pct),
		Quantity:      1,
		UnitBase:      quote.ServerBase,
		UnitTotal:     quote.Total,
		UnitOriginal:  quote.FullBefore,
		OptionItemIDs: ids,
		OptionLabels:  labels,
		DiscountPct:   pct,
	})
}

func (p *orderPage) submit(m *Model) tea.Cmd {
	lines := m.cart.Lines()
	if len(lines) == 0 || p.submitting {
		return nil
	}
	in := api.OrderIn{
		CustomerName: strings.TrimSpace(p.nameInput.Value()),
		TakeAway:     p.takeAway,
		Items:        make([]api.OrderItemIn, 0, len(lines)),
	}
	for _, line := range lines {
		suffix := ""
		if len(line.OptionLabels) > 0 {
			suffix = " (" + strings.Join(line.OptionLabels, ", ") + ")"
		}
		suffix += line.NameSuffix
		item := api.OrderItemIn{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			OptionItemIDs: line.OptionItemIDs,
			NameSuffix:    suffix,
		}
		if line.DiscountPct > 0 {
			base := line.UnitBase
			item.UnitPriceBase = &base
		}
		in.Items = append(in.Items, item)
	}
	p.submitting = true
	p.errMsg = ""
	return m.submitOrderCmd(in)
}

func (p *orderPage) view(m *Model) string {
	if !p.loaded {
		return m.spinner.View() + " " + m.tr.T("common.loading")
	}
	if p.modalOpen {
		return p.modalView(m)
	}

	left := p.gridView(m)
	right := p.cartView(m)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	if p.errMsg != "" {
		body += "\n" + m.styles.Error.Render(p.errMsg)
	}
	return body
}

func (p *orderPage) gridView(m *Model) string {
	var b strings.Builder
	tabs := make([]string, 0, len(p.categories))
	for i, name := range p.categories {
		style := m.styles.Tab
		if i == p.catIdx {
			style = m.styles.TabOn
		}
		label := name
		if p.discountCats[name] {
			label += " %"
		}
		tabs = append(tabs, style.Render(label))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, tabs...) + "\n\n")

	pct := 0
	if p.catIdx < len(p.categories) {
		pct = p.activePct(p.categories[p.catIdx])
	}
	for i, prod := range p.currentProducts() {
		price := prod.Price.Format() + " " + m.tr.T("common.currency")
		if pct > 0 {
			cut := pricing.Compute(prod.Price, nil, pricing.NewSelection(), pct, "")
			price = m.styles.Strike.Render(prod.Price.Format()) + " " +
				cut.Total.Format() + " " + m.tr.T("common.currency")
		}
		line := fmt.Sprintf("%-28s %s", prod.Name, price)
		if i == p.prodIdx && p.focus == focusGrid {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.tr.T("order.discount") + ": ")
	for _, step := range discountSteps {
		label := m.tr.T("order.no_discount")
		if step > 0 {
			label = fmt.Sprintf("-%d%%", step)
		}
		if step == p.discountPct {
			b.WriteString(m.styles.Badge.Render(" "+label+" ") + " ")
		} else {
			b.WriteString(m.styles.Muted.Render(label) + " ")
		}
	}
	if len(p.discountCats) > 0 {
		marked := make([]string, 0, len(p.discountCats))
		for _, name := range p.categories {
			if p.discountCats[name] {
				marked = append(marked, name)
			}
		}
		b.WriteString("\n" + m.styles.Muted.Render(
			m.tr.T("order.discount_cats")+": "+strings.Join(marked, ", ")))
	}
	b.WriteString("\n" + m.styles.Muted.Render("d -%  D "+m.tr.T("order.mark_category")))
	return b.String()
}

func (p *orderPage) cartView(m *Model) string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render(m.tr.T("order.cart")) + "\n")

	lines := m.cart.Lines()
	if len(lines) == 0 {
		b.WriteString(m.styles.Muted.Render(m.tr.T("order.cart_empty")) + "\n")
	}
	for i, line := range lines {
		amount := line.Subtotal().Format() + " " + m.tr.T("common.currency")
		if line.DiscountPct > 0 {
			amount = m.styles.Strike.Render(line.OriginalSubtotal().Format()) + " " + amount
		}
		row := fmt.Sprintf("%dx %s  %s", line.Quantity, line.DisplayName(), amount)
		if i == p.cartIdx && p.focus == focusCart {
			b.WriteString(m.styles.Selected.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.styles.Bold.Render(m.tr.T("order.total")+": "+
		m.cart.Total().Format()+" "+m.tr.T("common.currency")) + "\n\n")

	b.WriteString(m.tr.T("order.customer_name") + "\n" + p.nameInput.View() + "\n")
	serving := m.tr.T("order.in_store")
	if p.takeAway {
		serving = m.tr.T("order.take_away")
	}
	b.WriteString("ctrl+t " + m.styles.Chip.Render(serving) + "\n\n")

	if p.submitting {
		b.WriteString(m.spinner.View() + " " + m.tr.T("order.submitting"))
	} else {
		b.WriteString(m.styles.Badge.Render(" enter ") + " " + m.tr.T("order.submit"))
	}
	return m.styles.Card.Render(b.String())
}

func (p *orderPage) modalView(m *Model) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(p.modalInfo.Name) + "\n\n")

	idx := 0
	for _, g := range p.modalGroups {
		label := g.Name
		if g.IsRequired {
			label += " *"
		}
		b.WriteString(m.styles.Subtitle.Render(label) + "\n")
		for _, item := range g.Items {
			mark := "[ ]"
			if g.SelectType == catalog.SelectSingle {
				mark = "( )"
			}
			if p.sel.Has(g.ID, item.ID) {
				if g.SelectType == catalog.SelectSingle {
					mark = "(•)"
				} else {
					mark = "[x]"
				}
			}
			price := m.tr.T("order.free")
			if item.Price != 0 {
				price = "+" + item.Price.Format() + " " + m.tr.T("common.currency")
				if item.Price < 0 {
					price = item.Price.Format() + " " + m.tr.T("common.currency")
				}
			}
			row := fmt.Sprintf("%s %-24s %s", mark, item.Name, price)
			if idx == p.modalCursor {
				b.WriteString(m.styles.Selected.Render("> " + row))
			} else {
				b.WriteString("  " + row)
			}
			b.WriteString("\n")
			idx++
		}
		b.WriteString("\n")
	}

	quote := pricing.Compute(p.modalInfo.BasePrice, p.modalGroups, p.sel, p.modalPct, m.cfg.Catalog.SizeGroupPrefix)
	total := quote.Total.Format() + " " + m.tr.T("common.currency")
	if p.modalPct > 0 {
		total = m.styles.Strike.Render(quote.FullBefore.Format()) + " " + m.styles.Price.Render(total)
	} else {
		total = m.styles.Price.Render(total)
	}
	b.WriteString(m.tr.T("order.total") + ": " + total + "\n\n")
	b.WriteString(m.styles.Badge.Render(" enter ") + " " + m.tr.T("order.add") +
		"  " + m.styles.Muted.Render("esc "+m.tr.T("common.back")))
	if p.errMsg != "" {
		b.WriteString("\n" + m.styles.Error.Render(p.errMsg))
	}

	card := m.styles.Card.Render(b.String())
	return lipgloss.Place(m.width-4, m.height-6, lipgloss.Center, lipgloss.Center, card)
}
