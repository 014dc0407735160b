// Package submit posts form submissions to the collection endpoint.
package submit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://forms.pinepods.online/api/forms/submit"
	DefaultTimeout  = 15 * time.Second

	GenericMessage = "Failed to submit form. Please try again."
	NetworkMessage = "Network error. Please check your connection and try again."

	maxErrorBody = 64 << 10
)

// Error is a failed submission: either a transport failure (Status 0) or a
// non-2xx answer from the endpoint.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("submit: %s: %v", e.Message, e.Err)
		}
		return "submit: " + e.Message
	}
	return fmt.Sprintf("submit: status %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// MessageOf returns the text to show a user for err.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return GenericMessage
}

// Client sends one POST per Submit call. It never retries.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	log      *zap.Logger
}

type Option func(*Client)

// WithHTTPClient sends through a copy of h. The caller's client is never
// modified.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout bounds each request. It wins over the timeout of a client
// passed to WithHTTPClient, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc
	return c
}

func (c *Client) Endpoint() string { return c.endpoint }

// Submit posts {form_id, data} and maps the answer to nil or *Error.
func (c *Client) Submit(ctx context.Context, formID string, data Payload) error {
	body, err := Request{FormID: formID, Data: data}.Encode()
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("submission failed",
			zap.String("form_id", formID),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return &Error{Message: NetworkMessage, Err: err}
	}
	defer resp.Body.Close()

	fields := []zap.Field{
		zap.String("form_id", formID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		c.log.Info("form submitted", fields...)
		return nil
	}

	msg := readMessage(resp.Body)
	c.log.Warn("submission rejected", append(fields, zap.String("message", msg))...)
	return &Error{Status: resp.StatusCode, Message: msg}
}

func readMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(b) == 0 {
		return GenericMessage
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &body); err != nil || body.Message == "" {
		return GenericMessage
	}
	return body.Message
}
