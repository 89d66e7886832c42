package report

import (
	"context"
	"fmt"

	"scrapjournal/internal/calendar"
	"scrapjournal/internal/markup"
	"scrapjournal/internal/page"
)

// ComposeDaily renders today's daily page. Its body links to the current
// week's range so the weekly page collects it.
func (s *Service) ComposeDaily(project string) (page.Page, error) {
	now := s.clock.Now()
	tmpl := s.templates.Daily

	items := append([]markup.Item{}, tmpl.Sections...)
	items = append(items, markup.Item{Content: calendar.ThisWeek(now).Link(), Format: markup.Link})
	if tmpl.Tag != "" {
		items = append(items, markup.Item{Content: tmpl.Tag, Format: markup.Link})
	}
	body, err := markup.Render(items)
	if err != nil {
		return page.Page{}, fmt.Errorf("render daily page: %w", err)
	}
	return page.New(project, calendar.DayTitle(now, s.layout), body), nil
}

// PostDaily posts today's daily page and returns it.
func (s *Service) PostDaily(ctx context.Context, project string) (page.Page, error) {
	p, err := s.ComposeDaily(project)
	if err != nil {
		return page.Page{}, err
	}
	if err := s.create(ctx, p); err != nil {
		return page.Page{}, err
	}
	return p, nil
}

// ComposeSleepLog renders today's sleep-log page.
func (s *Service) ComposeSleepLog(project string) (page.Page, error) {
	tmpl := s.templates.Sleep

	items := append([]markup.Item{}, tmpl.Sections...)
	if tmpl.Tag != "" {
		items = append(items, markup.Item{Content: tmpl.Tag, Format: markup.Link})
	}
	body, err := markup.Render(items)
	if err != nil {
		return page.Page{}, fmt.Errorf("render sleep log: %w", err)
	}
	title := calendar.DayTitle(s.clock.Now(), s.layout) + SleepLogSuffix
	return page.New(project, title, body), nil
}

// PostSleepLog posts today's sleep-log page and returns it.
func (s *Service) PostSleepLog(ctx context.Context, project string) (page.Page, error) {
	p, err := s.ComposeSleepLog(project)
	if err != nil {
		return page.Page{}, err
	}
	if err := s.create(ctx, p); err != nil {
		return page.Page{}, err
	}
	return p, nil
}
