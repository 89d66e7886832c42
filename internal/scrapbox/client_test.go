package scrapbox

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"scrapjournal/internal/page"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pages/journal/", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil || c.Value != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		title := strings.TrimPrefix(r.URL.Path, "/api/pages/journal/")
		w.Header().Set("Content-Type", "application/json")
		switch title {
		case "2025/10/13 (Mon)":
			_, _ = w.Write([]byte(`{"title":"2025/10/13 (Mon)","persistent":true,` +
				`"lines":[{"text":"2025/10/13 (Mon)"},{"text":"[* Wake-up Time]"},{"text":" 6:30"}]}`))
		case "draft":
			_, _ = w.Write([]byte(`{"title":"draft","persistent":false,"lines":[{"text":"draft"}]}`))
		case "broken":
			_, _ = w.Write([]byte(`{"title":`))
		case "boom":
			http.Error(w, "upstream failed", http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/api/pages/journal", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"projectName":"journal","count":1234,"pages":[]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientGetPage(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "s3cret", time.Second)

	p, err := c.GetPage(context.Background(), "journal", "2025/10/13 (Mon)")
	require.NoError(t, err)
	assert.Equal(t, "journal", p.Project)
	assert.Equal(t, []string{"2025/10/13 (Mon)", "[* Wake-up Time]", " 6:30"}, p.Lines)

	v, ok := page.ExtractField(p, "Wake-up Time")
	require.True(t, ok)
	assert.Equal(t, " 6:30", v)
}

func TestClientGetPage_NotFound(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "s3cret", time.Second)

	for _, title := range []string{"draft", "nothing here"} {
		_, err := c.GetPage(context.Background(), "journal", title)
		assert.ErrorIs(t, err, page.ErrNotFound, title)
	}
}

func TestClientGetPage_TransportErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name  string
		sid   string
		title string
	}{
		{"bad status", "s3cret", "boom"},
		{"bad json", "s3cret", "broken"},
		{"unauthorized", "wrong", "2025/10/13 (Mon)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(srv.URL, tt.sid, time.Second)
			_, err := c.GetPage(context.Background(), "journal", tt.title)
			assert.ErrorIs(t, err, ErrTransport)
			assert.NotErrorIs(t, err, page.ErrNotFound)
		})
	}
}

func TestClientGetPage_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.URL, "s3cret", time.Second)
	_, err := c.GetPage(context.Background(), "journal", "x")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClientExists(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "s3cret", time.Second)
	ctx := context.Background()

	ok, err := c.Exists(ctx, "journal", "2025/10/13 (Mon)")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Exists(ctx, "journal", "draft")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Exists(ctx, "journal", "boom")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClientPageCount(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, "s3cret", time.Second)

	n, err := c.PageCount(context.Background(), "journal")
	require.NoError(t, err)
	assert.Equal(t, 1234, n)
}

func TestNewPageURL(t *testing.T) {
	got := NewPageURL("https://scrapbox.io/", "journal", "2025/10/20 ~ 2025/10/26", "[* Goals]\n#weekly")

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "scrapbox.io", u.Host)
	assert.Equal(t, "/journal/2025/10/20 ~ 2025/10/26", u.Path)
	assert.Equal(t, "[* Goals]\n#weekly", u.Query().Get("body"))
	assert.NotContains(t, u.RawQuery, "+")
	assert.Contains(t, u.RawQuery, "%20")
	assert.Contains(t, got, "2025%2F10%2F20%20~%202025%2F10%2F26")
}

func TestDryRunPoster(t *testing.T) {
	var buf bytes.Buffer
	d := DryRunPoster{Out: &buf}

	require.NoError(t, d.Post(context.Background(), page.New("journal", "t", "line one")))
	assert.True(t, strings.HasPrefix(buf.String(), "https://scrapbox.io/journal/t?body=line%20one\n"))
	assert.True(t, strings.HasSuffix(buf.String(), "\nline one\n"))

	err := d.Post(context.Background(), page.New("journal", "t", ""))
	assert.ErrorIs(t, err, page.ErrIncompletePayload)
}

type recordingPoster struct{ posted []page.Page }

func (r *recordingPoster) Post(_ context.Context, p page.Page) error {
	r.posted = append(r.posted, p)
	return nil
}

func TestRepositoryDelegates(t *testing.T) {
	srv := newTestServer(t)
	poster := &recordingPoster{}
	repo := NewRepository(NewClient(srv.URL, "s3cret", time.Second), poster)

	ok, err := repo.Exists(context.Background(), "journal", "2025/10/13 (Mon)")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Post(context.Background(), page.New("journal", "t", "b")))
	assert.Len(t, poster.posted, 1)
}

func TestBrowserConfigDefaults(t *testing.T) {
	var zero BrowserConfig
	assert.Equal(t, 30*time.Second, zero.NavigationTimeout())
	assert.Equal(t, time.Second, zero.SettleDelay())

	cfg := BrowserConfig{NavigationTimeoutMs: 500, SettleDelayMs: -1}
	assert.Equal(t, 500*time.Millisecond, cfg.NavigationTimeout())
	assert.Equal(t, time.Duration(0), cfg.SettleDelay())
	assert.True(t, DefaultBrowserConfig().Headless)
}
