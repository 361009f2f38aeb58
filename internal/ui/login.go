package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/packetdesk/internal/auth"
)

const (
	loginUsername = iota
	loginPassword
)

// loginState holds the sign-in form.
type loginState struct {
	inputs  []textinput.Model
	focus   int
	pending bool
	err     string
}

type loginMsg struct {
	result *auth.LoginResult
	err    error
}

type logoutMsg struct {
	err error
}

func newLoginState() loginState {
	username := newInput("username", 64, 30)
	password := newInput("password", 128, 30)
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	s := loginState{inputs: []textinput.Model{username, password}}
	focusOnly(s.inputs, loginUsername)
	return s
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.pending {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab),
		msg.String() == "up", msg.String() == "down":
		m.login.focus = (m.login.focus + 1) % len(m.login.inputs)
		focusOnly(m.login.inputs, m.login.focus)
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if m.login.focus == loginUsername {
			m.login.focus = loginPassword
			focusOnly(m.login.inputs, m.login.focus)
			return m, nil
		}
		cmd := m.submitLogin()
		return m, cmd
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focus], cmd = m.login.inputs[m.login.focus].Update(msg)
	m.login.err = ""
	return m, cmd
}

// submitLogin checks the form and starts the login call.
func (m *Model) submitLogin() tea.Cmd {
	creds := auth.Credentials{
		Username: strings.TrimSpace(m.login.inputs[loginUsername].Value()),
		Password: m.login.inputs[loginPassword].Value(),
	}
	if creds.Username == "" || creds.Password == "" {
		m.login.err = "Please enter username and password"
		return nil
	}
	if m.auth == nil {
		return nil
	}

	m.login.pending = true
	m.login.err = ""
	svc, ctx := m.auth, m.ctx
	return func() tea.Msg {
		result, err := svc.Login(ctx, creds)
		return loginMsg{result: result, err: err}
	}
}

func (m Model) handleLogin(msg loginMsg) (tea.Model, tea.Cmd) {
	m.login.pending = false
	if msg.err != nil {
		m.login.err = errorText(msg.err)
		m.login.inputs[loginPassword].SetValue("")
		m.login.focus = loginPassword
		focusOnly(m.login.inputs, m.login.focus)
		return m, nil
	}

	m.login = newLoginState()
	m.currentView = ViewPackets
	m.list = newListState(m.config.PageSize, m.prefs.DefaultStatus)
	if msg.result != nil && msg.result.User != nil {
		m.notify(toastSuccess, "Signed in as "+msg.result.User.Username)
	}
	m.refreshStats()
	cmd := m.fetchList()
	return m, cmd
}

// logout signs out on the server in the background. The in-memory session is
// cleared whatever the outcome; err reports a stored session that survived.
func (m Model) logout() tea.Cmd {
	if m.auth == nil {
		return func() tea.Msg { return logoutMsg{} }
	}
	svc, ctx := m.auth, m.ctx
	return func() tea.Msg {
		return logoutMsg{err: svc.Logout(ctx)}
	}
}

func (m Model) handleLogout(msg logoutMsg) (tea.Model, tea.Cmd) {
	m.signedOut("")
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("stored session not cleared on logout")
		m.notify(toastWarning, "Signed out, but the saved session could not be removed: "+msg.err.Error())
		return m, nil
	}
	m.notify(toastInfo, "Signed out")
	return m, nil
}

// renderLogin renders the centered sign-in form.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Logo.Render(appName))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Gold packet administration"))
	b.WriteString("\n\n")

	b.WriteString(fieldLabel(styles, "Username", m.login.focus == loginUsername))
	b.WriteString("\n")
	b.WriteString(m.login.inputs[loginUsername].View())
	b.WriteString("\n\n")
	b.WriteString(fieldLabel(styles, "Password", m.login.focus == loginPassword))
	b.WriteString("\n")
	b.WriteString(m.login.inputs[loginPassword].View())
	b.WriteString("\n\n")

	switch {
	case m.login.pending:
		b.WriteString(styles.WarningText.Render("Signing in..."))
	case m.login.err != "":
		b.WriteString(styles.DangerText.Render(m.login.err))
	default:
		b.WriteString(styles.FaintText.Render("Enter to sign in"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 3).
		Width(44).
		Render(b.String())

	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, box)
}
