package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fundwise/cmd/fundwise/ui"
	"fundwise/internal/session"
)

// Model is the root program model. It owns screen routing and the
// session gate: the main screen is reachable only while a token is
// stored, and logout drops straight back to the login screen.
type Model struct {
	screen   Screen
	svc      Service
	sessions *session.Store
	log      *zap.Logger
	styles   ui.Styles
	gens     *genCounter

	login    authModel
	register authModel
	main     mainModel

	width  int
	height int
}

// New builds the root model. A persisted token from an earlier run
// lands the user on the main screen directly.
func New(svc Service, sessions *session.Store, log *zap.Logger, styles ui.Styles) Model {
	gens := &genCounter{}
	m := Model{
		screen:   ScreenLogin,
		svc:      svc,
		sessions: sessions,
		log:      log,
		styles:   styles,
		gens:     gens,
		login:    newAuthModel(authLogin, gens.next(), svc, sessions, log, styles),
		register: newAuthModel(authRegister, gens.next(), svc, sessions, log, styles),
		main:     newMainModel(svc, log, styles, gens),
	}
	if sessions.IsAuthenticated() {
		m.screen = ScreenMain
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+g":
			// Toggle between the two auth screens, each reset fresh.
			switch m.screen {
			case ScreenLogin:
				m.screen = ScreenRegister
				m.register = newAuthModel(authRegister, m.gens.next(), m.svc, m.sessions, m.log, m.styles)
				return m, nil
			case ScreenRegister:
				m.screen = ScreenLogin
				m.login = newAuthModel(authLogin, m.gens.next(), m.svc, m.sessions, m.log, m.styles)
				return m, nil
			}
		case "ctrl+l":
			if m.screen == ScreenMain {
				return m.logout()
			}
		}

	case navigateMsg:
		if msg.to == ScreenMain && !m.sessions.IsAuthenticated() {
			// The gate holds even if a stray navigation arrives after
			// the token is gone.
			return m, nil
		}
		m.screen = msg.to
		if msg.to == ScreenMain {
			m.main = newMainModel(m.svc, m.log, m.styles, m.gens)
		}
		return m, nil

	case authDoneMsg:
		var cmd tea.Cmd
		switch msg.mode {
		case authLogin:
			m.login, cmd = m.login.Update(msg)
		default:
			m.register, cmd = m.register.Update(msg)
		}
		return m, cmd

	case fundsDoneMsg, schemesLoadedMsg, comparisonDoneMsg:
		var cmd tea.Cmd
		m.main, cmd = m.main.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.screen {
	case ScreenLogin:
		m.login, cmd = m.login.Update(msg)
	case ScreenRegister:
		m.register, cmd = m.register.Update(msg)
	case ScreenMain:
		m.main, cmd = m.main.Update(msg)
	}
	return m, cmd
}

// logout clears the stored token synchronously, then resets every
// screen so no stale form state survives the session.
func (m Model) logout() (tea.Model, tea.Cmd) {
	if err := m.sessions.Clear(); err != nil {
		m.log.Warn("failed to remove session file", zap.Error(err))
	}
	m.screen = ScreenLogin
	m.login = newAuthModel(authLogin, m.gens.next(), m.svc, m.sessions, m.log, m.styles)
	m.register = newAuthModel(authRegister, m.gens.next(), m.svc, m.sessions, m.log, m.styles)
	m.main = newMainModel(m.svc, m.log, m.styles, m.gens)
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render(" Mutual Fund Advisor ") + "\n\n")

	switch m.screen {
	case ScreenLogin:
		sb.WriteString(m.login.View())
	case ScreenRegister:
		sb.WriteString(m.register.View())
	case ScreenMain:
		sb.WriteString(m.main.View())
	}

	sb.WriteString("\n")
	var hints string
	if m.screen == ScreenMain {
		hints = "ctrl+t: switch tab • ctrl+l: logout • ctrl+c: quit"
	} else {
		hints = "ctrl+g: login/register • ctrl+c: quit"
	}
	sb.WriteString(m.styles.Footer.Render(hints))
	return sb.String()
}
