package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"skywings-cli/logging"
	"skywings-cli/model"
	"skywings-cli/session"
)

const (
	defaultBaseURL   = "http://localhost:8000"
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "skywings-cli"
	errorSnippetSize = 8 << 10
)

// ErrNotAuthenticated is returned by account calls made without a token.
var ErrNotAuthenticated = errors.New("please sign in to continue")

// Client wraps HTTP access to the booking service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	sessions   session.Provider
	logger     *slog.Logger

	refGroup singleflight.Group
}

// APIError is every failed call: a network failure (StatusCode 0) or a
// non-2xx response. Detail carries the service's human-readable message.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Status     string
	Detail     string
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e == nil {
		return "booking api error"
	}
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("booking api request failed: %s %s: %v", e.Method, e.Endpoint, e.Err)
		}
		return fmt.Sprintf("booking api request failed: %s %s", e.Method, e.Endpoint)
	}
	msg := e.Detail
	if msg == "" {
		msg = e.Body
	}
	return fmt.Sprintf("booking api error: %s: %s", e.Status, msg)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict reports a 409, which the service uses for seats already held.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

// IsUnauthorized reports a missing session or a token the service rejected.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || hasStatus(err, http.StatusUnauthorized)
}

// IsNetworkError reports a failure that never reached the service.
func IsNetworkError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 0 && !IsCanceled(err)
	}
	return false
}

func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// Detail returns the message a page should render for err: the service's
// detail text, a local validation message, or fallback.
func Detail(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var vErr *model.ValidationError
	if errors.As(err, &vErr) && vErr.Message != "" {
		return vErr.Message
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Detail) != "" {
		return apiErr.Detail
	}
	if errors.Is(err, ErrNotAuthenticated) {
		return ErrNotAuthenticated.Error()
	}
	return fallback
}

// NewClient creates a new API client. If httpClient is nil, a default client
// is used; a nil provider means every call is anonymous.
func NewClient(baseURL string, httpClient *http.Client, sessions session.Provider) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if sessions == nil {
		sessions = session.NewMemory()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  defaultUserAgent,
		sessions:   sessions,
		logger:     logging.WithFields("component", "api"),
	}
}

// Sessions exposes the provider the client reads its token from.
func (c *Client) Sessions() session.Provider {
	return c.sessions
}

type requestOptions struct {
	query url.Values
	body  any
	// tokenQuery also passes the token as ?token=, which the account
	// endpoints require alongside the bearer header.
	tokenQuery bool
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, requestOptions{query: query}, out)
}

func (c *Client) do(ctx context.Context, method string, path string, opts requestOptions, out any) error {
	query := url.Values{}
	for k, v := range opts.query {
		query[k] = v
	}
	token := strings.TrimSpace(c.sessions.Token())
	if opts.tokenQuery && token != "" {
		query.Set("token", token)
	}
	endpoint := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var body io.Reader
	if opts.body != nil {
		payload, err := json.Marshal(opts.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID, ok := logging.RequestIDFromContext(ctx)
	if !ok {
		requestID = logging.NewRequestID()
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.With("request_id", requestID, "method", method, "path", path)
	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		if IsCanceled(err) {
			log.Debug("request canceled", "error", err)
		} else {
			log.Warn("request failed", "error", err)
		}
		return &APIError{Method: method, Endpoint: path, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, errorSnippetSize))
		apiErr := &APIError{
			Method:     method,
			Endpoint:   path,
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Detail:     parseDetail(snippet),
			Body:       strings.TrimSpace(string(snippet)),
		}
		log.Warn("request rejected", "status", res.StatusCode, "detail", apiErr.Detail, "elapsed", time.Since(start))
		return apiErr
	}
	log.Debug("request ok", "status", res.StatusCode, "elapsed", time.Since(start))

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// parseDetail extracts the service's error message. The detail is either a
// string or a list of validation issues with a "msg" each.
func parseDetail(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var text string
		if err := json.Unmarshal(payload.Detail, &text); err == nil {
			return strings.TrimSpace(text)
		}
		var issues []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &issues); err == nil {
			msgs := make([]string, 0, len(issues))
			for _, issue := range issues {
				if m := strings.TrimSpace(issue.Msg); m != "" {
					msgs = append(msgs, m)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return strings.TrimSpace(payload.Message)
}
