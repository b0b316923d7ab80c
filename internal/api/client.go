// Package api is the HTTP client for the remote mutual-fund
// recommendation service. It maps the service's outcomes onto Go
// errors so the screens can tell them apart: transport failures stay
// plain wrapped errors, non-2xx statuses become StatusError, and 2xx
// bodies that encode a negative outcome become NoMatchError or
// ComparisonError.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundwise/internal/session"
)

// Client talks to the recommendation service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  *session.Store
	Log     *zap.Logger
}

// New creates a client for the service at baseURL. The session store
// supplies the bearer token attached to protected calls.
func New(baseURL string, tokens *session.Store, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Tokens:  tokens,
		Log:     log,
	}
}

// Login authenticates and returns the issued bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	return c.authCall(ctx, "/login", creds)
}

// Register creates an account and returns the issued bearer token.
// A 400 from the service means the email is already registered and is
// mapped to ErrEmailTaken.
func (c *Client) Register(ctx context.Context, creds Credentials) (string, error) {
	token, err := c.authCall(ctx, "/register", creds)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusBadRequest {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return token, nil
}

func (c *Client) authCall(ctx context.Context, path string, creds Credentials) (string, error) {
	body, err := c.do(ctx, http.MethodPost, path, creds, false)
	if err != nil {
		return "", err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("failed to parse auth response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("auth response missing access_token")
	}
	return tr.AccessToken, nil
}

// Schemes fetches the full scheme catalog for the selection widget.
func (c *Client) Schemes(ctx context.Context) ([]SchemeEntry, error) {
	body, err := c.do(ctx, http.MethodGet, "/schemes", nil, true)
	if err != nil {
		return nil, err
	}

	var entries []SchemeEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse scheme catalog: %w", err)
	}
	return entries, nil
}

// RecommendNew submits a new-investor profile. A 2xx body is either a
// JSON array of funds or {"message": ...} when nothing matched; the
// latter is returned as a NoMatchError.
func (c *Client) RecommendNew(ctx context.Context, profile NewInvestorProfile) ([]Fund, error) {
	body, err := c.do(ctx, http.MethodPost, "/recommend/new", profile, true)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var funds []Fund
		if err := json.Unmarshal(body, &funds); err != nil {
			return nil, fmt.Errorf("failed to parse fund list: %w", err)
		}
		return funds, nil
	}

	var probe struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse recommendation response: %w", err)
	}
	if probe.Message == "" {
		return nil, fmt.Errorf("unexpected recommendation response shape")
	}
	return nil, &NoMatchError{Message: probe.Message}
}

// RecommendExisting submits a held position for comparison. A 2xx body
// carrying {"error": ...} is returned as a ComparisonError; otherwise
// the comparison is decoded with all leaves optional.
func (c *Client) RecommendExisting(ctx context.Context, position HeldPosition) (*Comparison, error) {
	body, err := c.do(ctx, http.MethodPost, "/recommend/existing", position, true)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse comparison response: %w", err)
	}
	if probe.Error != "" {
		return nil, &ComparisonError{Message: probe.Error}
	}

	var cmp Comparison
	if err := json.Unmarshal(body, &cmp); err != nil {
		return nil, fmt.Errorf("failed to parse comparison: %w", err)
	}
	return &cmp, nil
}

// do performs one request/response cycle and returns the raw body of a
// 2xx response. Non-2xx responses become StatusError with the service's
// detail message when present. The bearer token is attached to protected
// calls only, and only when one is stored.
func (c *Client) do(ctx context.Context, method, path string, payload any, authed bool) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed && c.Tokens != nil {
		if token := c.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Warn("request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := parseDetail(body)
		c.Log.Debug("service rejected request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail))
		return nil, &StatusError{Code: resp.StatusCode, Detail: detail}
	}

	c.Log.Debug("request completed", zap.String("path", path), zap.Int("status", resp.StatusCode))
	return body, nil
}

// parseDetail extracts the {"detail": ...} message FastAPI-style services
// put on error responses. Returns "" when the body has no such field.
func parseDetail(body []byte) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Detail
}
