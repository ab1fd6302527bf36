package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lfs-lab/certtrack/internal/logging"
)

// Response statuses.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
)

// CSRFField is the form field carrying the CSRF token.
const CSRFField = "csrfmiddlewaretoken"

// DefaultTimeout bounds every request made by a Client without its own http.Client.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error body is read.
const maxErrorBody = 64 << 10

// ErrNoBaseURL is returned when a relative path is requested without a base URL.
var ErrNoBaseURL = errors.New("api base URL is not configured")

// Response is the JSON envelope returned by tracker endpoints.
type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Next    string          `json:"next,omitempty"`
}

// OK reports whether the response status is success.
func (r *Response) OK() bool {
	return r.Status == StatusSuccess
}

// DataString returns Data decoded as a JSON string, or the raw bytes when it is not one.
func (r *Response) DataString() string {
	if len(r.Data) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Data, &s); err == nil {
		return s
	}
	return string(r.Data)
}

// RequestError is a non-2xx answer from the backend.
type RequestError struct {
	StatusCode int
	StatusText string
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %s (%d)", e.StatusText, e.StatusCode)
	}
	return fmt.Sprintf("request failed: %s (%d): %s", e.StatusText, e.StatusCode, e.Message)
}

// Client calls tracker endpoints.
type Client struct {
	BaseURL    string
	CSRFToken  string
	HTTPClient *http.Client
}

// NewClient creates a client with a bounded default http.Client.
func NewClient(baseURL, csrfToken string) *Client {
	return &Client{
		BaseURL:    baseURL,
		CSRFToken:  csrfToken,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Get requests path with query and decodes the envelope.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.do(ctx, req)
}

// PostForm posts form to path with the CSRF token added.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*Response, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	body := url.Values{}
	for k, v := range form {
		body[k] = v
	}
	if c.CSRFToken != "" {
		body.Set(CSRFField, c.CSRFToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(),
		strings.NewReader(body.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.CSRFToken != "" {
		req.Header.Set("X-CSRFToken", c.CSRFToken)
	}
	return c.do(ctx, req)
}

func (c *Client) do(ctx context.Context, req *http.Request) (*Response, error) {
	log := logging.FromContext(ctx)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("component", "api").
		Str("operation", "request").
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request completed")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newRequestError(resp)
	}

	var out Response
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", req.URL.Path, err)
	}
	return &out, nil
}

func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing path %q: %w", path, err)
	}
	if ref.IsAbs() {
		return ref, nil
	}
	if c.BaseURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoBaseURL, path)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", c.BaseURL, err)
	}
	return base.ResolveReference(ref), nil
}

// newRequestError builds a RequestError, taking the message from a JSON body when present.
func newRequestError(resp *http.Response) *RequestError {
	e := &RequestError{
		StatusCode: resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil {
		e.Message = body.Message
	}
	return e
}
