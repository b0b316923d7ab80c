package app

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"fundwise/cmd/fundwise/ui"
	"fundwise/internal/api"
	"fundwise/internal/session"
)

// fakeService stubs the remote service per call; nil funcs return zero
// values.
type fakeService struct {
	login             func(context.Context, api.Credentials) (string, error)
	register          func(context.Context, api.Credentials) (string, error)
	schemes           func(context.Context) ([]api.SchemeEntry, error)
	recommendNew      func(context.Context, api.NewInvestorProfile) ([]api.Fund, error)
	recommendExisting func(context.Context, api.HeldPosition) (*api.Comparison, error)
}

func (f *fakeService) Login(ctx context.Context, creds api.Credentials) (string, error) {
	if f.login == nil {
		return "", nil
	}
	return f.login(ctx, creds)
}

func (f *fakeService) Register(ctx context.Context, creds api.Credentials) (string, error) {
	if f.register == nil {
		return "", nil
	}
	return f.register(ctx, creds)
}

func (f *fakeService) Schemes(ctx context.Context) ([]api.SchemeEntry, error) {
	if f.schemes == nil {
		return nil, nil
	}
	return f.schemes(ctx)
}

func (f *fakeService) RecommendNew(ctx context.Context, profile api.NewInvestorProfile) ([]api.Fund, error) {
	if f.recommendNew == nil {
		return nil, nil
	}
	return f.recommendNew(ctx, profile)
}

func (f *fakeService) RecommendExisting(ctx context.Context, position api.HeldPosition) (*api.Comparison, error) {
	if f.recommendExisting == nil {
		return nil, nil
	}
	return f.recommendExisting(ctx, position)
}

// drainCmd runs a command tree to completion and returns every message
// it produced, flattening batches.
func drainCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drainCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// findMsg returns the first message of type T produced by cmd.
func findMsg[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	for _, msg := range drainCmd(cmd) {
		if typed, ok := msg.(T); ok {
			return typed
		}
	}
	var zero T
	t.Fatalf("no %T among command results", zero)
	return zero
}

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.Open(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	return store
}

func testStyles() ui.Styles {
	return ui.NewStyles(ui.LightTheme())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}
