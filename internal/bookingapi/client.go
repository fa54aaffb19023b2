// Package bookingapi is the HTTP client for the remote booking API that owns
// cabins, reservations and reviews.  Every call forwards the admin's token
// in the x-token header.
package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/metrics"
)

// Sentinel errors.  Callers match them with errors.Is.
var (
	// ErrNetwork covers transport failures, timeouts, 5xx answers and
	// bodies that cannot be decoded.  Retrying is always safe.
	ErrNetwork      = errors.New("booking api unavailable")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError is the booking API refusing a request, with its message
// (date conflict, unknown cabin, bad field).
type ValidationError struct {
	Op     string
	Status int
	Msg    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: rejected (%d): %s", e.Op, e.Status, e.Msg)
}

// Timeouts bound each class of call.
type Timeouts struct {
	Fetch  time.Duration
	Create time.Duration
	Update time.Duration
}

// DefaultTimeouts mirror what the admin panel used to wait.
var DefaultTimeouts = Timeouts{Fetch: 15 * time.Second, Create: 10 * time.Second, Update: 8 * time.Second}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeouts   Timeouts
	Metrics    *metrics.Metrics
}

// Client talks to the booking API.  It is safe for concurrent use.
type Client struct {
	base     string
	hc       *http.Client
	timeouts Timeouts
	metrics  *metrics.Metrics
}

// New builds a Client.  Zero timeouts fall back to DefaultTimeouts.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	t := opts.Timeouts
	if t.Fetch <= 0 {
		t.Fetch = DefaultTimeouts.Fetch
	}
	if t.Create <= 0 {
		t.Create = DefaultTimeouts.Create
	}
	if t.Update <= 0 {
		t.Update = DefaultTimeouts.Update
	}
	return &Client{
		base:     strings.TrimRight(opts.BaseURL, "/"),
		hc:       hc,
		timeouts: t,
		metrics:  opts.Metrics,
	}
}

type envelope struct {
	OK  *bool  `json:"ok"`
	Msg string `json:"msg"`
}

type call struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	timeout time.Duration
}

func (c *Client) do(ctx context.Context, token string, req call, out any) (err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveUpstream(req.op, start, err) }()

	ctx, cancel := context.WithTimeout(ctx, req.timeout)
	defer cancel()

	u := c.base + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var rdr io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%s: encode: %w", req.op, err)
		}
		rdr = bytes.NewReader(buf)
	}

	hr, err := http.NewRequestWithContext(ctx, req.method, u, rdr)
	if err != nil {
		return fmt.Errorf("%s: %w", req.op, err)
	}
	hr.Header.Set("Accept", "application/json")
	if rdr != nil {
		hr.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		hr.Header.Set("x-token", token)
	}
	hr.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.hc.Do(hr)
	if err != nil {
		log.Printf("bookingapi: %s %s failed: %v", req.method, req.path, err)
		return fmt.Errorf("%s: %w: %v", req.op, ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("%s: %w: read body: %v", req.op, ErrNetwork, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	switch {
	case resp.StatusCode >= 500:
		log.Printf("bookingapi: %s %s returned %d", req.method, req.path, resp.StatusCode)
		return fmt.Errorf("%s: %w: status %d", req.op, ErrNetwork, resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w: %s", req.op, ErrUnauthorized, env.Msg)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w: %s", req.op, ErrNotFound, env.Msg)
	case resp.StatusCode >= 400:
		if decodeErr != nil || env.Msg == "" {
			return fmt.Errorf("%s: %w: status %d", req.op, ErrNetwork, resp.StatusCode)
		}
		return &ValidationError{Op: req.op, Status: resp.StatusCode, Msg: env.Msg}
	}

	if decodeErr != nil {
		return fmt.Errorf("%s: %w: decode: %v", req.op, ErrNetwork, decodeErr)
	}
	if env.OK != nil && !*env.OK {
		return &ValidationError{Op: req.op, Status: resp.StatusCode, Msg: env.Msg}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s: %w: decode: %v", req.op, ErrNetwork, err)
		}
	}
	return nil
}

// IsValidation reports whether err is a refusal carrying a user-facing message.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
