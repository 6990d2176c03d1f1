package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qoyupos/internal/api"
	"qoyupos/internal/logging"
)

// loginPage covers both the sign-in and the registration form; registering
// logs the user in via the backend's session cookie.
type loginPage struct {
	name     textinput.Model
	phone    textinput.Model
	password textinput.Model

	registerMode bool
	focus        int
	busy         bool
	errMsg       string
}

func newLoginPage(m *Model) *loginPage {
	name := textinput.New()
	name.Placeholder = m.tr.T("auth.name")
	name.CharLimit = 64

	phone := textinput.New()
	phone.Placeholder = "+7 700 000 00 00"
	phone.CharLimit = 20

	password := textinput.New()
	password.Placeholder = m.tr.T("auth.password")
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 64

	return &loginPage{name: name, phone: phone, password: password}
}

func (p *loginPage) enter(register bool) tea.Cmd {
	p.registerMode = register
	p.busy = false
	p.errMsg = ""
	p.password.SetValue("")
	p.focus = 0
	return p.applyFocus()
}

// fields in focus order for the current mode.
func (p *loginPage) fields() []*textinput.Model {
	if p.registerMode {
		return []*textinput.Model{&p.name, &p.phone, &p.password}
	}
	return []*textinput.Model{&p.phone, &p.password}
}

func (p *loginPage) applyFocus() tea.Cmd {
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

func (p *loginPage) update(m *Model, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.busy {
			return nil
		}
		switch msg.String() {
		case "tab", "down":
			p.focus = (p.focus + 1) % len(p.fields())
			return p.applyFocus()
		case "shift+tab", "up":
			p.focus = (p.focus + len(p.fields()) - 1) % len(p.fields())
			return p.applyFocus()
		case "ctrl+r":
			p.registerMode = !p.registerMode
			if p.registerMode {
				m.page = PageRegister
			} else {
				m.page = PageLogin
			}
			p.focus = 0
			p.errMsg = ""
			return p.applyFocus()
		case "enter":
			return p.submit(m)
		}

	case authResultMsg:
		p.busy = false
		if msg.err != nil {
			p.errMsg = api.Message(msg.err)
			logging.Session("auth failed: %v", msg.err)
			return nil
		}
		// Return to whatever page the user was headed for.
		return m.gotoPage(m.lastPage)
	}

	field := p.fields()[p.focus]
	var cmd tea.Cmd
	*field, cmd = field.Update(msg)
	return cmd
}

func (p *loginPage) submit(m *Model) tea.Cmd {
	phone := strings.TrimSpace(p.phone.Value())
	password := p.password.Value()
	if phone == "" || password == "" {
		p.errMsg = m.tr.T("auth.failed")
		return nil
	}
	if p.registerMode {
		name := strings.TrimSpace(p.name.Value())
		if name == "" {
			p.errMsg = m.tr.T("auth.failed")
			return nil
		}
		p.busy = true
		p.errMsg = ""
		return m.registerCmd(name, phone, password)
	}
	p.busy = true
	p.errMsg = ""
	return m.loginCmd(phone, password)
}

func (p *loginPage) view(m *Model) string {
	title := m.tr.T("auth.login")
	action := m.tr.T("auth.submit_login")
	swap := m.tr.T("auth.switch_register")
	if p.registerMode {
		title = m.tr.T("auth.register")
		action = m.tr.T("auth.submit_register")
		swap = m.tr.T("auth.switch_login")
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(title) + "\n\n")
	if p.registerMode {
		b.WriteString(m.tr.T("auth.name") + "\n" + p.name.View() + "\n\n")
	}
	b.WriteString(m.tr.T("auth.phone") + "\n" + p.phone.View() + "\n\n")
	b.WriteString(m.tr.T("auth.password") + "\n" + p.password.View() + "\n\n")

	if p.busy {
		b.WriteString(m.spinner.View() + " " + m.tr.T("common.loading"))
	} else {
		b.WriteString(m.styles.Badge.Render(" enter ") + " " + action)
	}
	if p.errMsg != "" {
		b.WriteString("\n\n" + m.styles.Error.Render(p.errMsg))
	}
	b.WriteString("\n\n" + m.styles.Muted.Render("ctrl+r "+swap))

	card := m.styles.Card.Render(b.String())
	if m.width > 0 {
		return lipgloss.Place(m.width-4, m.height-6, lipgloss.Center, lipgloss.Center, card)
	}
	return card
}
