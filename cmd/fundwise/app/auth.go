package app

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fundwise/cmd/fundwise/ui"
	"fundwise/internal/api"
	"fundwise/internal/session"
)

// authMode distinguishes the login and register screens, which share
// one controller shape.
type authMode int

const (
	authLogin authMode = iota
	authRegister
)

const (
	fieldEmail = iota
	fieldPassword
	authFieldCount
)

// authModel collects credentials and exchanges them for a session
// token. Per submit exactly one of {token stored + navigation, error
// shown} happens; the token is never touched on failure. gen is the
// incarnation this model was created as; a resolution from an earlier
// incarnation of the same screen is discarded even if its seq collides.
type authModel struct {
	mode     authMode
	gen      int
	svc      Service
	sessions *session.Store
	log      *zap.Logger

	inputs [authFieldCount]textinput.Model
	focus  int
	spin   spinner.Model

	submitting   bool
	seq          int
	errText      string
	showRequired bool

	styles ui.Styles
}

func newAuthModel(mode authMode, gen int, svc Service, sessions *session.Store, log *zap.Logger, styles ui.Styles) authModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.Width = 36
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 120
	password.Width = 36

	return authModel{
		mode:     mode,
		gen:      gen,
		svc:      svc,
		sessions: sessions,
		log:      log,
		inputs:   [authFieldCount]textinput.Model{email, password},
		spin:     newSpinner(styles),
		styles:   styles,
	}
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		if msg.mode != m.mode || msg.gen != m.gen || msg.seq != m.seq {
			// Resolution of a superseded submit, or of a submit issued
			// by a discarded incarnation of this screen; the UI
			// reflects only the most recently initiated one.
			return m, nil
		}
		m.submitting = false
		if msg.errText != "" {
			m.errText = msg.errText
			return m, nil
		}
		if err := m.sessions.SetToken(msg.token); err != nil {
			m.log.Warn("failed to store session token", zap.Error(err))
			m.errText = m.genericFailure()
			return m, nil
		}
		return m, func() tea.Msg { return navigateMsg{to: ScreenMain} }

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return m.moveFocus(1), nil
		case "shift+tab", "up":
			return m.moveFocus(-1), nil
		case "enter":
			if m.focus == fieldEmail {
				return m.moveFocus(1), nil
			}
			return m.submit()
		}

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m authModel) moveFocus(delta int) authModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + authFieldCount) % authFieldCount
	m.inputs[m.focus].Focus()
	return m
}

// submit dispatches the credentials unless a field is empty or a
// request is already in flight. Field presence is the only client-side
// validation; everything else is the service's call.
func (m authModel) submit() (authModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	creds := api.Credentials{
		Email:    strings.TrimSpace(m.inputs[fieldEmail].Value()),
		Password: m.inputs[fieldPassword].Value(),
	}
	if creds.Email == "" || creds.Password == "" {
		m.showRequired = true
		return m, nil
	}

	m.seq++
	m.submitting = true
	m.errText = ""
	m.showRequired = false
	return m, tea.Batch(m.spin.Tick, m.submitCmd(m.seq, creds))
}

func (m authModel) submitCmd(seq int, creds api.Credentials) tea.Cmd {
	svc, mode, gen := m.svc, m.mode, m.gen
	return func() tea.Msg {
		call := svc.Login
		if mode == authRegister {
			call = svc.Register
		}
		token, err := call(context.Background(), creds)
		if err != nil {
			return authDoneMsg{mode: mode, gen: gen, seq: seq, errText: authErrText(mode, err)}
		}
		return authDoneMsg{mode: mode, gen: gen, seq: seq, token: token}
	}
}

// authErrText maps a failed auth call onto the message shown to the
// user: the fixed conflict text for a duplicate registration, the
// service's own detail when it sent one, else the generic fallback.
func authErrText(mode authMode, err error) string {
	if mode == authRegister && errors.Is(err, api.ErrEmailTaken) {
		return msgEmailTaken
	}
	var se *api.StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	if mode == authRegister {
		return msgRegisterFailed
	}
	return msgLoginFailed
}

func (m authModel) genericFailure() string {
	if m.mode == authRegister {
		return msgRegisterFailed
	}
	return msgLoginFailed
}

func (m authModel) View() string {
	var sb strings.Builder

	title := "Login"
	hint := "New user? Press ctrl+g to register."
	if m.mode == authRegister {
		title = "Register"
		hint = "Already registered? Press ctrl+g to log in."
	}
	sb.WriteString(m.styles.Title.Render(title) + "\n")

	labels := [authFieldCount]string{"Email", "Password"}
	values := [authFieldCount]string{
		m.inputs[fieldEmail].Value(),
		m.inputs[fieldPassword].Value(),
	}
	for i := range m.inputs {
		sb.WriteString(fieldLabel(m.styles, labels[i], m.focus == i, m.showRequired && values[i] == ""))
		sb.WriteString("\n")
		box := m.styles.InputBox
		if m.focus == i {
			box = m.styles.InputFocused
		}
		sb.WriteString(box.Render(m.inputs[i].View()) + "\n")
	}

	if m.submitting {
		sb.WriteString("\n" + m.spin.View() + m.styles.Muted.Render(" contacting service...") + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n" + m.styles.Error.Render(m.errText) + "\n")
	}

	sb.WriteString("\n" + m.styles.Subtitle.Render(hint) + "\n")
	return sb.String()
}
