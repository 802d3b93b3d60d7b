// Package api wraps the stockwatch backend's REST endpoints. It attaches
// bearer-token authentication to outbound calls, normalizes the backend's
// error shapes into a single taxonomy, and exposes typed wrappers for auth,
// watchlist, market data, news, and chat.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// User-facing messages, kept verbatim from the mobile app's wording.
const (
	msgNoToken      = "Bạn chưa đăng nhập (thiếu token). Vui lòng đăng nhập lại."
	msgUnauthorized = "Bạn chưa đăng nhập (401). Vui lòng đăng nhập lại."
	msgForbidden    = "Token không hợp lệ hoặc đã hết hạn (403). Vui lòng đăng nhập lại."
	msgGeneric      = "Có lỗi mạng/xử lý. Vui lòng thử lại."
)

// TokenSource supplies the current bearer token. An empty string means the
// user is not logged in.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource holding a fixed token string.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token() string { return string(s) }

// Options configures a Client. Zero-value fields fall back to sane defaults.
type Options struct {
	// HTTPClient overrides the underlying transport, mainly for tests.
	HTTPClient *http.Client

	// Tokens supplies the bearer token attached to authenticated calls.
	Tokens TokenSource

	// OnAuthFailure is invoked with the HTTP status whenever the backend
	// rejects the token (401 or 403). The session layer uses it to clear
	// persisted credentials.
	OnAuthFailure func(statusCode int)

	Logger *slog.Logger
}

// Client is the single configured HTTP adapter for the backend. Construct
// one at startup and pass it to the components that need it.
type Client struct {
	baseURL string
	hc      *http.Client
	tokens  TokenSource
	onAuth  func(int)
	log     *slog.Logger
}

// NewClient creates a backend API client rooted at baseURL.
func NewClient(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      hc,
		tokens:  opts.Tokens,
		onAuth:  opts.OnAuthFailure,
		log:     logger.With("component", "api"),
	}
}

// ---------------------------------------------------------------------------
// Response envelope
// ---------------------------------------------------------------------------

// Status is the success/message envelope common to backend responses.
type Status struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	ErrText string `json:"error,omitempty"`
}

// Failed reports whether the backend explicitly flagged the call as failed.
func (s Status) Failed() bool { return s.Success != nil && !*s.Success }

// BackendMessage returns the operator-authored message, preferring "message"
// over "error", falling back to the generic wording.
func (s Status) BackendMessage() string {
	if s.Message != "" {
		return s.Message
	}
	if s.ErrText != "" {
		return s.ErrText
	}
	return msgGeneric
}

type statusCarrier interface {
	status() Status
}

func (s Status) status() Status { return s }

// ---------------------------------------------------------------------------
// Request plumbing
// ---------------------------------------------------------------------------

// do performs one request. When authed is true, the current token is attached
// as a bearer header and its absence fails before any network I/O. The decoded
// response lands in out (may be nil); a success=false envelope is converted to
// a KindBackendReported error carrying the backend's message verbatim.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindNetworkOrUnknown, Message: msgGeneric, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &Error{Kind: KindNetworkOrUnknown, Message: msgGeneric, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		token := ""
		if c.tokens != nil {
			token = c.tokens.Token()
		}
		if token == "" {
			return &Error{Kind: KindAuthRequired, Message: msgNoToken}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return &Error{Kind: KindNetworkOrUnknown, Message: msgGeneric, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetworkOrUnknown, StatusCode: resp.StatusCode, Message: msgGeneric, Err: err}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.notifyAuthFailure(resp.StatusCode)
		return &Error{Kind: KindAuthRequired, StatusCode: resp.StatusCode, Message: msgUnauthorized}
	case http.StatusForbidden:
		c.notifyAuthFailure(resp.StatusCode)
		return &Error{Kind: KindAuthRequired, StatusCode: resp.StatusCode, Message: msgForbidden}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env Status
		_ = json.Unmarshal(raw, &env)
		msg := env.BackendMessage()
		kind := KindNetworkOrUnknown
		if env.Message != "" || env.ErrText != "" {
			kind = KindBackendReported
		}
		return &Error{Kind: kind, StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &Error{Kind: KindNetworkOrUnknown, StatusCode: resp.StatusCode, Message: msgGeneric, Err: fmt.Errorf("decoding %s %s: %w", method, path, err)}
		}
		if sc, ok := out.(statusCarrier); ok && sc.status().Failed() {
			return &Error{Kind: KindBackendReported, StatusCode: resp.StatusCode, Message: sc.status().BackendMessage()}
		}
	}
	return nil
}

func (c *Client) notifyAuthFailure(status int) {
	if c.onAuth != nil {
		c.onAuth(status)
	}
}

// getRaw performs an authenticated GET and returns the response body
// verbatim, for non-JSON endpoints (RSS XML). Auth and error normalization
// match do.
func (c *Client) getRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetworkOrUnknown, Message: msgGeneric, Err: err}
	}
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	if token == "" {
		return nil, &Error{Kind: KindAuthRequired, Message: msgNoToken}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetworkOrUnknown, Message: msgGeneric, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetworkOrUnknown, StatusCode: resp.StatusCode, Message: msgGeneric, Err: err}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.notifyAuthFailure(resp.StatusCode)
		return nil, &Error{Kind: KindAuthRequired, StatusCode: resp.StatusCode, Message: msgUnauthorized}
	case http.StatusForbidden:
		c.notifyAuthFailure(resp.StatusCode)
		return nil, &Error{Kind: KindAuthRequired, StatusCode: resp.StatusCode, Message: msgForbidden}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindNetworkOrUnknown, StatusCode: resp.StatusCode, Message: msgGeneric}
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, true)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, true)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, true)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out, true)
}
