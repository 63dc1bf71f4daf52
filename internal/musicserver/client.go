// Package musicserver is a client for the music server that publishes
// remote playlists ("music sheets") and serves their tracks by MD5.
package musicserver

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

	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when the server has no such track or picture.
var ErrNotFound = errors.New("not found on music server")

// DefaultTimeout bounds catalog queries. Downloads are bounded by their
// context only, since a track can take longer than any fixed timeout.
const DefaultTimeout = 10 * time.Second

const userAgent = "tempo-music-player/1.0"

// Query selects which sheets QuerySheets returns.
type Query string

const (
	QueryAll   Query = "all"
	QueryTop20 Query = "top20"
	QueryTop1  Query = "top1"
)

// ParseQuery validates a query name.
func ParseQuery(s string) (Query, error) {
	switch q := Query(strings.ToLower(s)); q {
	case QueryAll, QueryTop20, QueryTop1:
		return q, nil
	default:
		return "", fmt.Errorf("unknown sheet query %q (want all, top20 or top1)", s)
	}
}

// Client is a music server API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the catalog query timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("component", "musicserver")
	return c
}

type sheetsResponse struct {
	MusicSheetList []Sheet `json:"musicSheetList"`
}

// QuerySheets lists remote playlists.
func (c *Client) QuerySheets(ctx context.Context, q Query) ([]Sheet, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.get(ctx, "/queryMusicSheets", url.Values{"type": {string(q)}})
	if err != nil {
		return nil, fmt.Errorf("query music sheets: %w", err)
	}
	defer resp.Body.Close()

	var result sheetsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	c.log.WithFields(logrus.Fields{"query": q, "sheets": len(result.MusicSheetList)}).Debug("queried sheets")
	return result.MusicSheetList, nil
}

// FetchTrack downloads a complete track. The caller must close the body.
func (c *Client) FetchTrack(ctx context.Context, md5 string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, "/downloadMusic", url.Values{"md5": {md5}})
	if err != nil {
		return nil, fmt.Errorf("download music %s: %w", md5, err)
	}
	return resp.Body, nil
}

// StreamTrack opens the server's streaming endpoint for a track.
// The caller must close the body.
func (c *Client) StreamTrack(ctx context.Context, md5 string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, "/music", url.Values{"md5": {md5}})
	if err != nil {
		return nil, fmt.Errorf("stream music %s: %w", md5, err)
	}
	return resp.Body, nil
}

// FetchPicture downloads a sheet's cover image. The caller must close the body.
func (c *Client) FetchPicture(ctx context.Context, uuid string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, "/downloadPicture", url.Values{"uuid": {uuid}})
	if err != nil {
		return nil, fmt.Errorf("download picture %s: %w", uuid, err)
	}
	return resp.Body, nil
}

// get issues a GET and returns the response only for 200 OK.
func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrNotFound
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
}
