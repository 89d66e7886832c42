// Package scrapbox adapts the Scrapbox service to report.Repository: pages
// are read through the JSON API and written by opening the new-page URL in a
// logged-in browser.
package scrapbox

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

	"scrapjournal/internal/page"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public Scrapbox host.
	DefaultBaseURL = "https://scrapbox.io"
	// SessionCookie carries the login session.
	SessionCookie = "connect.sid"

	defaultHTTPTimeout = 30 * time.Second
	maxBodyBytes       = 8 << 20
)

// ErrTransport reports a failed or unexpected exchange with Scrapbox.
var ErrTransport = errors.New("scrapbox transport error")

// Client reads pages through the Scrapbox REST API.
type Client struct {
	baseURL string
	sid     string
	http    *http.Client
	logger  *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a reader for baseURL authenticated with sid. An empty
// baseURL means DefaultBaseURL.
func NewClient(baseURL, sid string, timeout time.Duration, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		sid:     sid,
		http:    &http.Client{Timeout: timeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type pageResponse struct {
	Title      string `json:"title"`
	Persistent bool   `json:"persistent"`
	Lines      []struct {
		Text string `json:"text"`
	} `json:"lines"`
}

type listResponse struct {
	ProjectName string `json:"projectName"`
	Count       int    `json:"count"`
}

// GetPage fetches one page. A page the service reports as not persisted, or a
// 404, yields an error wrapping page.ErrNotFound.
func (c *Client) GetPage(ctx context.Context, project, title string) (*page.Page, error) {
	var resp pageResponse
	endpoint := fmt.Sprintf("%s/api/pages/%s/%s", c.baseURL, url.PathEscape(project), url.PathEscape(title))
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		if errors.Is(err, page.ErrNotFound) {
			return nil, fmt.Errorf("%s/%s: %w", project, title, err)
		}
		return nil, err
	}
	if !resp.Persistent {
		return nil, fmt.Errorf("%s/%s: %w", project, title, page.ErrNotFound)
	}

	lines := make([]string, len(resp.Lines))
	for i, l := range resp.Lines {
		lines[i] = l.Text
	}
	name := resp.Title
	if name == "" {
		name = title
	}
	return ptr(page.FromLines(project, name, lines)), nil
}

// Exists reports whether title is a persisted page of project.
func (c *Client) Exists(ctx context.Context, project, title string) (bool, error) {
	_, err := c.GetPage(ctx, project, title)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, page.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// PageCount returns the total number of pages in project.
func (c *Client) PageCount(ctx context.Context, project string) (int, error) {
	var resp listResponse
	endpoint := fmt.Sprintf("%s/api/pages/%s?limit=1", c.baseURL, url.PathEscape(project))
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.sid != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: c.sid})
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrTransport, endpoint, err)
	}
	defer res.Body.Close()

	c.logger.Debug("scrapbox api call",
		zap.String("url", endpoint),
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	switch {
	case res.StatusCode == http.StatusNotFound:
		return page.ErrNotFound
	case res.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("%w: GET %s: status %d: %s", ErrTransport, endpoint, res.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(io.LimitReader(res.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrTransport, endpoint, err)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
