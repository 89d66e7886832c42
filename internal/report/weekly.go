package report

import (
	"context"
	"fmt"
	"strconv"

	"scrapjournal/internal/aggregate"
	"scrapjournal/internal/calendar"
	"scrapjournal/internal/markup"
	"scrapjournal/internal/page"

	"go.uber.org/zap"
)

// WeeklyPage is a composed, not yet posted, weekly page.
type WeeklyPage struct {
	Page         page.Page
	WakeUp       float64
	SleepQuality float64
	Graph        []GraphRow
}

// PostWeekly composes the weekly page for the current week and posts it.
//
// The page is titled with next week's range and links back to this week's
// range. It fails with ErrDuplicatePage, without writing, when the title
// already exists, and with aggregate.ErrInvalidFormat when a daily value is
// malformed. The posted page is returned.
func (s *Service) PostWeekly(ctx context.Context, project string) (*WeeklyPage, error) {
	w, err := s.ComposeWeekly(ctx, project)
	if err != nil {
		return nil, err
	}
	if err := s.create(ctx, w.Page); err != nil {
		return nil, err
	}
	return w, nil
}

// ComposeWeekly gathers the requested metrics and renders the weekly page.
func (s *Service) ComposeWeekly(ctx context.Context, project string) (*WeeklyPage, error) {
	now := s.clock.Now()
	tmpl := s.templates.Weekly
	out := &WeeklyPage{}

	var (
		titles []string
		daily  []*page.Page
	)
	dailyPages := func() ([]string, []*page.Page) {
		if titles == nil {
			titles = calendar.WeekTitles(now, s.layout)
			daily = s.fetchPages(ctx, project, titles)
		}
		return titles, daily
	}

	var items []markup.Item
	for _, m := range tmpl.Metrics {
		switch m {
		case MetricWakeUp:
			t, p := dailyPages()
			v, err := s.average(extractAll(t, p, WakeUpLabel), aggregate.TimeOfDay)
			if err != nil {
				return nil, err
			}
			out.WakeUp = v
			items = append(items,
				markup.Item{Content: "Last week's average wake-up time", Format: markup.Strong},
				markup.Item{Content: " " + formatNumber(v) + "h", Format: markup.Plain},
			)
		case MetricSleepQuality:
			t, p := dailyPages()
			v, err := s.average(extractAll(t, p, SleepQualityLabel), aggregate.Score)
			if err != nil {
				return nil, err
			}
			out.SleepQuality = v
			items = append(items,
				markup.Item{Content: "Last week's average sleep quality", Format: markup.Strong},
				markup.Item{Content: " " + formatNumber(v), Format: markup.Plain},
			)
		case MetricWakeUpGraph:
			rows, err := s.WakeUpGraph(ctx, project)
			if err != nil {
				return nil, err
			}
			out.Graph = rows
			items = append(items, markup.Item{Content: "Wake-up time this week", Format: markup.Strong})
			for _, r := range rows {
				items = append(items, markup.Item{Content: r.String(), Format: markup.Plain})
			}
		default:
			return nil, fmt.Errorf("unknown weekly metric %q", m)
		}
	}

	items = append(items, tmpl.Sections...)
	items = append(items, markup.Item{Content: calendar.ThisWeek(now).Link(), Format: markup.Link})
	if tmpl.Tag != "" {
		items = append(items, markup.Item{Content: tmpl.Tag, Format: markup.Link})
	}

	body, err := markup.Render(items)
	if err != nil {
		return nil, fmt.Errorf("render weekly page: %w", err)
	}
	out.Page = page.New(project, calendar.NextWeek(now).Title(), body)
	s.logger.Debug("composed weekly page",
		zap.String("title", out.Page.Title),
		zap.Int("metrics", len(tmpl.Metrics)))
	return out, nil
}

// formatNumber prints the shortest decimal that round-trips.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
