package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fundwise/internal/api"
)

// submitAuth types credentials into a fresh auth model and presses
// enter on the password field, returning the model and the dispatch
// command.
func submitAuth(t *testing.T, m authModel, email, password string) (authModel, tea.Cmd) {
	t.Helper()
	m, _ = m.Update(keyRunes(email))
	m, _ = m.Update(key(tea.KeyTab))
	m, _ = m.Update(keyRunes(password))
	m, cmd := m.Update(key(tea.KeyEnter))
	return m, cmd
}

func TestLoginSuccessStoresTokenAndNavigates(t *testing.T) {
	t.Parallel()

	var gotCreds api.Credentials
	svc := &fakeService{
		login: func(_ context.Context, creds api.Credentials) (string, error) {
			gotCreds = creds
			return "tok-123", nil
		},
	}
	store := newTestStore(t)
	m := newAuthModel(authLogin, 1, svc, store, zap.NewNop(), testStyles())

	m, cmd := submitAuth(t, m, "amit@example.com", "hunter2")
	if !m.submitting {
		t.Fatal("model should be submitting after dispatch")
	}

	done := findMsg[authDoneMsg](t, cmd)
	if done.errText != "" {
		t.Fatalf("unexpected error text %q", done.errText)
	}
	if gotCreds.Email != "amit@example.com" || gotCreds.Password != "hunter2" {
		t.Fatalf("credentials not forwarded: %+v", gotCreds)
	}

	m, cmd = m.Update(done)
	if m.submitting {
		t.Fatal("submit should have resolved")
	}
	if got := store.Token(); got != "tok-123" {
		t.Fatalf("token = %q, want tok-123", got)
	}
	nav := findMsg[navigateMsg](t, cmd)
	if nav.to != ScreenMain {
		t.Fatalf("navigate target = %v, want main screen", nav.to)
	}
}

func TestRegisterConflictShowsFixedMessage(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		register: func(context.Context, api.Credentials) (string, error) {
			return "", api.ErrEmailTaken
		},
	}
	store := newTestStore(t)
	m := newAuthModel(authRegister, 1, svc, store, zap.NewNop(), testStyles())

	m, cmd := submitAuth(t, m, "amit@example.com", "hunter2")
	done := findMsg[authDoneMsg](t, cmd)
	m, navCmd := m.Update(done)

	if navCmd != nil {
		t.Fatal("failed register must not navigate")
	}
	if m.errText != msgEmailTaken {
		t.Fatalf("errText = %q, want %q", m.errText, msgEmailTaken)
	}
	if store.IsAuthenticated() {
		t.Fatal("failed register must not store a token")
	}
}

func TestLoginServiceDetailPassesThrough(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		login: func(context.Context, api.Credentials) (string, error) {
			return "", &api.StatusError{Code: 401, Detail: "Invalid credentials"}
		},
	}
	m := newAuthModel(authLogin, 1, svc, newTestStore(t), zap.NewNop(), testStyles())

	m, cmd := submitAuth(t, m, "amit@example.com", "wrong")
	done := findMsg[authDoneMsg](t, cmd)
	m, _ = m.Update(done)

	if m.errText != "Invalid credentials" {
		t.Fatalf("errText = %q, want service detail", m.errText)
	}
}

func TestLoginTransportFailureShowsGenericMessage(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		login: func(context.Context, api.Credentials) (string, error) {
			return "", errors.New("dial tcp: connection refused")
		},
	}
	m := newAuthModel(authLogin, 1, svc, newTestStore(t), zap.NewNop(), testStyles())

	m, cmd := submitAuth(t, m, "amit@example.com", "hunter2")
	done := findMsg[authDoneMsg](t, cmd)
	m, _ = m.Update(done)

	if m.errText != msgLoginFailed {
		t.Fatalf("errText = %q, want %q", m.errText, msgLoginFailed)
	}
}

func TestAuthEmptyFieldsDoNotDispatch(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		login: func(context.Context, api.Credentials) (string, error) {
			t.Fatal("service must not be called with empty fields")
			return "", nil
		},
	}
	m := newAuthModel(authLogin, 1, svc, newTestStore(t), zap.NewNop(), testStyles())

	m, _ = m.Update(key(tea.KeyTab)) // to password
	m, cmd := m.Update(key(tea.KeyEnter))

	if cmd != nil {
		drainCmd(cmd)
	}
	if !m.showRequired {
		t.Fatal("missing fields should be highlighted")
	}
	if !strings.Contains(m.View(), "Login") {
		t.Fatal("view lost its title")
	}
}

func TestStaleAuthResolutionIgnored(t *testing.T) {
	t.Parallel()

	m := newAuthModel(authLogin, 1, &fakeService{}, newTestStore(t), zap.NewNop(), testStyles())
	m.seq = 2
	m.submitting = true

	m, cmd := m.Update(authDoneMsg{mode: authLogin, gen: 1, seq: 1, token: "stale"})
	if cmd != nil {
		t.Fatal("stale resolution must produce no command")
	}
	if !m.submitting {
		t.Fatal("stale resolution must not end the in-flight submit")
	}
	if m.sessions.IsAuthenticated() {
		t.Fatal("stale token must not be stored")
	}
}

func TestResubmitWhileSubmittingIgnored(t *testing.T) {
	t.Parallel()

	calls := 0
	svc := &fakeService{
		login: func(context.Context, api.Credentials) (string, error) {
			calls++
			return "tok", nil
		},
	}
	m := newAuthModel(authLogin, 1, svc, newTestStore(t), zap.NewNop(), testStyles())

	m, cmd := submitAuth(t, m, "amit@example.com", "hunter2")
	drainCmd(cmd)
	m, cmd = m.Update(key(tea.KeyEnter))
	drainCmd(cmd)

	if calls != 1 {
		t.Fatalf("service called %d times, want 1", calls)
	}
}
