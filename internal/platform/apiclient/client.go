package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds how much of an upstream response is read into memory.
const maxBodyBytes = 32 << 20

// Client talks to the upstream billing API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the upstream root all paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// rawEnvelope detects whether a body is an envelope at all: some upstream
// endpoints (login, payments) answer with a bare object.
type rawEnvelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Do performs one upstream call and unwraps the envelope's data into out
// (which may be nil). Every failure is returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	resp, raw, err := c.send(ctx, method, path, query, body, "application/json")
	if err != nil {
		return err
	}

	var env rawEnvelope
	decodeErr := json.Unmarshal(raw, &env)
	if len(bytes.TrimSpace(raw)) == 0 {
		decodeErr = nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := statusError(resp.StatusCode, env.Message)
		c.logFailure(method, path, apiErr)
		return apiErr
	}
	if decodeErr != nil {
		apiErr := transportError(fmt.Errorf("decode %s %s: %w", method, path, decodeErr))
		c.logFailure(method, path, apiErr)
		return apiErr
	}

	payload := env.Data
	if env.Success == nil {
		payload = raw
	} else if !*env.Success {
		apiErr := businessError(resp.StatusCode, env.Message)
		c.logFailure(method, path, apiErr)
		return apiErr
	}

	if out == nil || len(payload) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		apiErr := transportError(fmt.Errorf("decode %s %s data: %w", method, path, err))
		c.logFailure(method, path, apiErr)
		return apiErr
	}
	return nil
}

// Blob is a binary upstream response, e.g. an invoice PDF.
type Blob struct {
	ContentType string
	Data        []byte
}

// DoRaw performs a call whose successful response is not an envelope.
// Error responses are still decoded for their message.
func (c *Client) DoRaw(ctx context.Context, method, path string) (*Blob, error) {
	resp, raw, err := c.send(ctx, method, path, nil, nil, "*/*")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env rawEnvelope
		_ = json.Unmarshal(raw, &env)
		apiErr := statusError(resp.StatusCode, env.Message)
		c.logFailure(method, path, apiErr)
		return nil, apiErr
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &Blob{ContentType: ct, Data: raw}, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body interface{}, accept string) (*http.Response, []byte, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, nil, transportError(fmt.Errorf("encode %s %s: %w", method, path, err))
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, transportError(err)
	}
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := TokenFromContext(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := transportError(fmt.Errorf("%s %s: %w", method, path, err))
		c.logFailure(method, path, apiErr)
		return nil, nil, apiErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		apiErr := transportError(fmt.Errorf("read %s %s: %w", method, path, err))
		c.logFailure(method, path, apiErr)
		return nil, nil, apiErr
	}
	return resp, raw, nil
}

func (c *Client) logFailure(method, path string, e *Error) {
	evt := c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("kind", string(e.Kind)).
		Int("status", e.Status)
	if e.Err != nil {
		evt = evt.Err(e.Err)
	}
	evt.Msg("upstream call failed")
}
