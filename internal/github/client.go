package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	apperrors "git.home.luguber.info/inful/metricsync/internal/errors"
	"git.home.luguber.info/inful/metricsync/internal/metrics"
)

const defaultAPIURL = "https://api.github.com"

// DiscoveredRepository identifies one candidate repository found by a
// discovery strategy. Identity is the (Owner, Repository) pair.
type DiscoveredRepository struct {
	Owner      string `json:"owner"`
	Repository string `json:"repository"`
}

func (d DiscoveredRepository) String() string {
	return d.Owner + "/" + d.Repository
}

// Client talks to the GitHub REST API for target discovery.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
	clock      clockwork.Clock
	recorder   metrics.Recorder
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIURL overrides the API base URL (tests, GitHub Enterprise).
func WithAPIURL(u string) Option {
	return func(c *Client) { c.apiURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock injects the clock used for retry backoff.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithRecorder injects the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithLogger overrides the client's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a discovery client. The token may be empty; discovery
// operations fail fast without one.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     defaultAPIURL,
		token:      token,
		clock:      clockwork.NewRealClock(),
		recorder:   metrics.NoopRecorder{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, query url.Values) (*http.Request, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, endpoint)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "metricsync/1.0")

	return req, nil
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apperrors.NewAPIError(resp.StatusCode, apiMessage(resp))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode %s: %w", req.URL.Path, err)
		}
	}
	return nil
}

// apiMessage extracts the API error message, falling back to the status text.
func apiMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil && strings.TrimSpace(payload.Message) != "" {
			return payload.Message
		}
	}
	return resp.Status
}
