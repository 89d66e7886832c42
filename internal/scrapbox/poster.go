package scrapbox

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"scrapjournal/internal/page"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Poster creates a page.
type Poster interface {
	Post(ctx context.Context, p page.Page) error
}

// NewPageURL returns the address that opens title in project with body
// prefilled. Spaces in the body are encoded as %20 rather than "+", which
// Scrapbox would keep literally.
func NewPageURL(baseURL, project, title, body string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	query := strings.ReplaceAll(url.QueryEscape(body), "+", "%20")
	return fmt.Sprintf("%s/%s/%s?body=%s",
		strings.TrimRight(baseURL, "/"), url.PathEscape(project), url.PathEscape(title), query)
}

// BrowserConfig controls the Chrome instance used for posting.
type BrowserConfig struct {
	// DebuggerURL attaches to a running Chrome instead of launching one.
	DebuggerURL         string `yaml:"debugger_url"`
	Bin                 string `yaml:"bin"`
	Headless            bool   `yaml:"headless"`
	NavigationTimeoutMs int    `yaml:"navigation_timeout_ms"`
	SettleDelayMs       int    `yaml:"settle_delay_ms"`
}

// DefaultBrowserConfig returns headless defaults.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless:            true,
		NavigationTimeoutMs: 30000,
		SettleDelayMs:       1000,
	}
}

// NavigationTimeout returns the navigation timeout.
func (c BrowserConfig) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// SettleDelay is how long the page stays open after loading so the editor
// can save the prefilled body.
func (c BrowserConfig) SettleDelay() time.Duration {
	if c.SettleDelayMs < 0 {
		return 0
	}
	if c.SettleDelayMs == 0 {
		return time.Second
	}
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// BrowserPoster writes pages by visiting the new-page URL with the session
// cookie set. Scrapbox has no write API for ordinary accounts.
type BrowserPoster struct {
	cfg     BrowserConfig
	baseURL string
	sid     string
	logger  *zap.Logger
}

// NewBrowserPoster returns a poster for baseURL using sid as the login.
func NewBrowserPoster(cfg BrowserConfig, baseURL, sid string, logger *zap.Logger) *BrowserPoster {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowserPoster{cfg: cfg, baseURL: baseURL, sid: sid, logger: logger}
}

// Post opens the page in a fresh browser and closes it once it settled.
func (b *BrowserPoster) Post(ctx context.Context, p page.Page) error {
	payload, err := p.Payload()
	if err != nil {
		return err
	}

	controlURL, cleanup, err := b.connectURL()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: connect to chrome: %v", ErrTransport, err)
	}
	defer func() {
		if b.cfg.DebuggerURL == "" {
			_ = browser.Close()
		}
	}()

	tab, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("%w: open tab: %v", ErrTransport, err)
	}
	defer func() { _ = tab.Close() }()

	host, err := url.Parse(b.baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if err := tab.SetCookies([]*proto.NetworkCookieParam{{
		Name:     SessionCookie,
		Value:    b.sid,
		URL:      host.Scheme + "://" + host.Host + "/",
		Path:     "/",
		Secure:   host.Scheme == "https",
		HTTPOnly: true,
	}}); err != nil {
		return fmt.Errorf("%w: set session cookie: %v", ErrTransport, err)
	}

	target := NewPageURL(b.baseURL, payload.Project, payload.Title, payload.Body)
	b.logger.Info("opening new page",
		zap.String("project", payload.Project),
		zap.String("title", payload.Title))
	if err := tab.Context(ctx).Timeout(b.cfg.NavigationTimeout()).Navigate(target); err != nil {
		return fmt.Errorf("%w: navigate: %v", ErrTransport, err)
	}
	if err := tab.Context(ctx).Timeout(b.cfg.NavigationTimeout()).WaitLoad(); err != nil {
		return fmt.Errorf("%w: wait load: %v", ErrTransport, err)
	}

	select {
	case <-time.After(b.cfg.SettleDelay()):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.logger.Debug("page settled", zap.String("title", payload.Title))
	return nil
}

// connectURL attaches to the configured debugger or launches Chrome.
func (b *BrowserPoster) connectURL() (string, func(), error) {
	if b.cfg.DebuggerURL != "" {
		return b.cfg.DebuggerURL, func() {}, nil
	}
	l := launcher.New().Headless(b.cfg.Headless)
	if b.cfg.Bin != "" {
		l = l.Bin(b.cfg.Bin)
	}
	u, err := l.Launch()
	if err != nil {
		return "", nil, fmt.Errorf("launch chrome: %w", err)
	}
	return u, l.Cleanup, nil
}

// DryRunPoster prints what would be posted instead of posting it.
type DryRunPoster struct {
	Out     io.Writer
	BaseURL string
}

// Post writes the target URL and body to Out.
func (d DryRunPoster) Post(_ context.Context, p page.Page) error {
	payload, err := p.Payload()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(d.Out, "%s\n\n%s\n",
		NewPageURL(d.BaseURL, payload.Project, payload.Title, payload.Body), payload.Body)
	return err
}
