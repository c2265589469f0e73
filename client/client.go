// client/client.go

// Package client talks to the notes REST backend.
//
// Every call returns exactly one of a result or an error. Errors match one of
// ErrOffline, ErrTransport or ErrDecode through errors.Is.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinizap/instantnotes/domain"
)

// DefaultBaseURL is the mock backend the application was built against.
const DefaultBaseURL = "http://private-9aad-note10.apiary-mock.com/notes"

const (
	defaultTimeout      = 30 * time.Second
	defaultProbeTimeout = 3 * time.Second
	maxErrorBody        = 512
)

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	probe      Reachability
	log        zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient sets the client requests go through. It is copied, so a
// later WithTimeout never changes hc itself.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithReachability replaces the connectivity check run before each request.
// Passing nil disables the check.
func WithReachability(r Reachability) Option {
	return func(c *Client) { c.probe = r }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client for the note collection at baseURL, e.g.
// "http://localhost:8080/notes".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		probe:   NewDialProbe(u, defaultProbeTimeout),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := http.Client{Timeout: defaultTimeout}
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = &hc
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) ListNotes(ctx context.Context) ([]domain.Note, error) {
	var notes []domain.Note
	if err := c.do(ctx, http.MethodGet, "", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, id int) (domain.Note, error) {
	var note domain.Note
	if err := c.do(ctx, http.MethodGet, strconv.Itoa(id), nil, &note); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

// CreateNote posts a new note. The backend does not return the new id, so
// callers have to pick one themselves.
func (c *Client) CreateNote(ctx context.Context, title string) error {
	return c.do(ctx, http.MethodPost, "", titleForm(title), nil)
}

func (c *Client) UpdateNote(ctx context.Context, note domain.Note) error {
	return c.do(ctx, http.MethodPut, strconv.Itoa(note.ID), titleForm(note.Title), nil)
}

func (c *Client) DeleteNote(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, strconv.Itoa(id), nil, nil)
}

func titleForm(title string) url.Values {
	return url.Values{"title": {title}}
}

// do performs one request. A non-nil out is filled from the JSON response
// body; otherwise the body is discarded.
func (c *Client) do(ctx context.Context, method, subPath string, form url.Values, out any) error {
	target := c.baseURL
	if subPath != "" {
		target = c.baseURL.JoinPath(subPath)
	}
	requestID := uuid.NewString()
	log := c.log.With().
		Str("method", method).
		Str("url", target.String()).
		Str("request_id", requestID).
		Logger()

	if c.probe != nil && !c.probe.Reachable(ctx) {
		log.Warn().Msg("backend unreachable, request not sent")
		return fmt.Errorf("%s %s: %w", method, target, ErrOffline)
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("request failed")
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: method,
			URL:    target.String(),
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Error().Err(err).Int("bytes", len(data)).Msg("could not decode response")
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
