// Package fetch retrieves content collections from the authenticated data
// endpoint. Every collection is one GET keyed by a service name; any non-200
// answer is fatal for the build.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"git.home.luguber.info/inful/bitacora/internal/content"
	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/logfields"
	"git.home.luguber.info/inful/bitacora/internal/metrics"
	"git.home.luguber.info/inful/bitacora/internal/observability"
)

// Service names a collection on the data endpoint.
type Service string

const (
	Socials   Service = "Socials"
	About     Service = "About"
	Redirects Service = "Redirects"
	RSS       Service = "RSS"
	Comments  Service = "Comments"
	Media     Service = "Media"
	Logs      Service = "Logs"
	Blogs     Service = "Blogs"
)

// Services lists every collection in fetch order.
var Services = []Service{Socials, About, Redirects, RSS, Comments, Media, Logs, Blogs}

const maxResponseBytes = 32 * 1024 * 1024

// NewHTTPClient creates an HTTP client with safe defaults.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}

// Client reads collections from one data endpoint.
type Client struct {
	endpoint *url.URL
	token    string
	http     *http.Client
	recorder metrics.Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(cl *Client) { cl.recorder = metrics.OrNoop(r) }
}

// NewClient validates the endpoint URL and returns a Client.
func NewClient(endpoint, token string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid data endpoint").
			WithContext("endpoint", endpoint).Fatal().Build()
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, ferrors.ConfigError("unsupported data endpoint scheme").
			WithContext("scheme", parsed.Scheme).Build()
	}
	c := &Client{endpoint: parsed, token: token, http: NewHTTPClient(), recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// serviceURL builds <endpoint>?token=<t>&service=<s>, keeping any query the
// endpoint already carries.
func (c *Client) serviceURL(service Service) string {
	u := *c.endpoint
	q := u.Query()
	q.Set("token", c.token)
	q.Set("service", string(service))
	u.RawQuery = q.Encode()
	return u.String()
}

// Raw fetches one collection and returns the undecoded body.
func (c *Client) Raw(ctx context.Context, service Service) ([]byte, error) {
	start := time.Now()
	body, err := c.get(ctx, service)
	c.recorder.ObserveFetchDuration(string(service), time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}
	observability.DebugContext(ctx, "Fetched collection",
		logfields.Service(string(service)),
		slog.Int("bytes", len(body)),
		logfields.Duration(time.Since(start)))
	return body, nil
}

func (c *Client) get(ctx context.Context, service Service) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serviceURL(service), http.NoBody)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "build request").
			WithContext("service", string(service)).Build()
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "data endpoint unreachable").
			WithContext("service", string(service)).Fatal().Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	limited := io.LimitReader(resp.Body, maxResponseBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "read response").
			WithContext("service", string(service)).Fatal().Build()
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ferrors.FetchError(fmt.Sprintf("failed to fetch data: %s", snippet(data))).
			WithContext("service", string(service)).
			WithContext("status", resp.StatusCode).Build()
	}
	if len(data) > maxResponseBytes {
		return nil, ferrors.FetchError("response too large").
			WithContext("service", string(service)).Build()
	}
	return data, nil
}

func snippet(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}

// Collection fetches service and decodes the JSON array body into []T.
func Collection[T any](ctx context.Context, c *Client, service Service) ([]T, error) {
	body, err := c.Raw(ctx, service)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFetch, "decode collection").
			WithContext("service", string(service)).Fatal().Build()
	}
	return items, nil
}

// validated decodes a collection of typed records and validates each one.
func validated[T content.Validator](ctx context.Context, c *Client, service Service) ([]T, error) {
	items, err := Collection[T](ctx, c, service)
	if err != nil {
		return nil, err
	}
	if err := content.ValidateAll(items); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid record").
			WithContext("service", string(service)).Fatal().Build()
	}
	return items, nil
}

func (c *Client) Socials(ctx context.Context) ([]content.Record, error) {
	return Collection[content.Record](ctx, c, Socials)
}

func (c *Client) About(ctx context.Context) ([]content.Record, error) {
	return Collection[content.Record](ctx, c, About)
}

func (c *Client) Redirects(ctx context.Context) ([]content.Record, error) {
	return Collection[content.Record](ctx, c, Redirects)
}

func (c *Client) Feeds(ctx context.Context) ([]content.Feed, error) {
	return validated[content.Feed](ctx, c, RSS)
}

func (c *Client) Comments(ctx context.Context) ([]content.Comment, error) {
	return Collection[content.Comment](ctx, c, Comments)
}

func (c *Client) Media(ctx context.Context) ([]content.Media, error) {
	return Collection[content.Media](ctx, c, Media)
}

func (c *Client) Logs(ctx context.Context) ([]content.Log, error) {
	return validated[content.Log](ctx, c, Logs)
}

// Blogs returns every post, drafts included. Posts are validated after the
// publish filter, so a malformed draft never fails a build.
func (c *Client) Blogs(ctx context.Context) ([]content.Blog, error) {
	return Collection[content.Blog](ctx, c, Blogs)
}
