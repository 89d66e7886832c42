// Package report implements the journal use cases: posting daily, sleep-log
// and weekly pages, and deriving weekly and monthly statistics from pages
// that were posted before.
package report

import (
	"context"
	"errors"
	"fmt"

	"scrapjournal/internal/calendar"
	"scrapjournal/internal/page"

	"go.uber.org/zap"
)

var (
	// ErrDuplicatePage reports that the target title already exists.
	ErrDuplicatePage = errors.New("page already exists")
	// ErrNotFound reports a required page that does not exist.
	ErrNotFound = page.ErrNotFound
)

// Repository is the port to the note service.
type Repository interface {
	// Post creates the page. It fails if the transport fails.
	Post(ctx context.Context, p page.Page) error
	// Exists reports whether title is already present in project.
	Exists(ctx context.Context, project, title string) (bool, error)
	// GetPage returns the page or an error wrapping page.ErrNotFound.
	GetPage(ctx context.Context, project, title string) (*page.Page, error)
	// PageCount returns the number of pages in project.
	PageCount(ctx context.Context, project string) (int, error)
}

// Service runs the use cases against one repository and clock.
type Service struct {
	repo      Repository
	clock     calendar.Clock
	logger    *zap.Logger
	layout    string
	templates Templates
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTemplates replaces the default page templates.
func WithTemplates(t Templates) Option {
	return func(s *Service) { s.templates = t }
}

// WithDayTitleLayout sets the Go time layout of daily page titles.
func WithDayTitleLayout(layout string) Option {
	return func(s *Service) {
		if layout != "" {
			s.layout = layout
		}
	}
}

// NewService wires the use cases.
func NewService(repo Repository, clock calendar.Clock, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		clock:     clock,
		logger:    zap.NewNop(),
		layout:    calendar.DayTitleLayout,
		templates: DefaultTemplates(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// create posts p unless its title already exists.
//
// The existence check and the post are separate calls with no lock between
// them: two runs racing on the same title can both observe "absent" and both
// post. This is a known limitation.
func (s *Service) create(ctx context.Context, p page.Page) error {
	payload, err := p.Payload()
	if err != nil {
		return err
	}

	exists, err := s.repo.Exists(ctx, payload.Project, payload.Title)
	if err != nil {
		return fmt.Errorf("check existence of %q: %w", payload.Title, err)
	}
	if exists {
		s.logger.Warn("page already exists, skipping post",
			zap.String("project", payload.Project),
			zap.String("title", payload.Title))
		return fmt.Errorf("%w: %s", ErrDuplicatePage, payload.Title)
	}

	s.logger.Info("posting page",
		zap.String("project", payload.Project),
		zap.String("title", payload.Title),
		zap.Int("body_bytes", len(payload.Body)))
	if err := s.repo.Post(ctx, p); err != nil {
		return fmt.Errorf("post %q: %w", payload.Title, err)
	}
	s.logger.Info("posted page", zap.String("title", payload.Title))
	return nil
}
