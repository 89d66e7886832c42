package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"scrapjournal/internal/calendar"
	"scrapjournal/internal/page"
)

var errTransport = errors.New("connection reset")

// fakeRepo is an in-memory Repository keyed by title.
type fakeRepo struct {
	mu        sync.Mutex
	pages     map[string]page.Page
	getErr    map[string]error
	existsErr error
	postErr   error
	count     int
	countErr  error
	delay     time.Duration

	posted   []page.Page
	fetched  []string
	inFlight int
	maxIn    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pages:  make(map[string]page.Page),
		getErr: make(map[string]error),
	}
}

func (r *fakeRepo) addDaily(title string, lines ...string) {
	r.pages[title] = page.FromLines("journal", title, append([]string{title}, lines...))
}

func (r *fakeRepo) Post(_ context.Context, p page.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.postErr != nil {
		return r.postErr
	}
	r.posted = append(r.posted, p)
	r.pages[p.Title] = p
	return nil
}

func (r *fakeRepo) Exists(_ context.Context, _ string, title string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.pages[title]
	return ok, nil
}

func (r *fakeRepo) GetPage(ctx context.Context, _ string, title string) (*page.Page, error) {
	r.mu.Lock()
	r.fetched = append(r.fetched, title)
	r.inFlight++
	if r.inFlight > r.maxIn {
		r.maxIn = r.inFlight
	}
	r.mu.Unlock()

	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight--
	if err, ok := r.getErr[title]; ok {
		return nil, err
	}
	p, ok := r.pages[title]
	if !ok {
		return nil, fmt.Errorf("%s: %w", title, page.ErrNotFound)
	}
	return &p, nil
}

func (r *fakeRepo) PageCount(context.Context, string) (int, error) {
	return r.count, r.countErr
}

func wednesday() calendar.Clock {
	loc, err := calendar.LoadLocation("")
	if err != nil {
		panic(err)
	}
	return calendar.FixedClock{At: time.Date(2025, 10, 15, 21, 0, 0, 0, loc)}
}
