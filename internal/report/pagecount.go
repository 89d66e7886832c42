package report

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"scrapjournal/internal/calendar"
	"scrapjournal/internal/markup"
	"scrapjournal/internal/page"

	"go.uber.org/zap"
)

const (
	pageCountPrefix = "Page Count "
	pageCountTag    = "PageCount"
)

var totalPagesPattern = regexp.MustCompile(`Total pages: (\d+)`)

// MonthlyStats compares this month's page count with last month's record.
type MonthlyStats struct {
	CurrentMonth  string
	CurrentCount  int
	PreviousMonth string
	PreviousCount int
	// HasPrevious is false when last month's page is missing or unreadable.
	HasPrevious bool
}

// Difference is CurrentCount minus PreviousCount; ok is false without a
// previous record.
func (m MonthlyStats) Difference() (diff int, ok bool) {
	if !m.HasPrevious {
		return 0, false
	}
	return m.CurrentCount - m.PreviousCount, true
}

// PageCountTitle names the statistics page of the month containing t.
func PageCountTitle(t time.Time) string {
	return pageCountPrefix + calendar.MonthKey(t)
}

// PageCountStats reads the current page count and last month's recorded count.
func (s *Service) PageCountStats(ctx context.Context, project string) (MonthlyStats, error) {
	now := s.clock.Now()

	current, err := s.repo.PageCount(ctx, project)
	if err != nil {
		return MonthlyStats{}, fmt.Errorf("get current page count: %w", err)
	}

	stats := MonthlyStats{
		CurrentMonth: calendar.MonthKey(now),
		CurrentCount: current,
	}
	prevMonth := calendar.PreviousMonth(now)
	if prev, ok := s.previousCount(ctx, project, PageCountTitle(prevMonth)); ok {
		stats.PreviousMonth = calendar.MonthKey(prevMonth)
		stats.PreviousCount = prev
		stats.HasPrevious = true
	}
	return stats, nil
}

// previousCount never fails: any problem reading last month's page just
// means there is nothing to compare against.
func (s *Service) previousCount(ctx context.Context, project, title string) (int, bool) {
	exists, err := s.repo.Exists(ctx, project, title)
	if err != nil {
		s.logger.Warn("failed to check previous month page", zap.String("title", title), zap.Error(err))
		return 0, false
	}
	if !exists {
		return 0, false
	}

	p, err := s.repo.GetPage(ctx, project, title)
	if err != nil {
		if !errors.Is(err, page.ErrNotFound) {
			s.logger.Warn("failed to fetch previous month page", zap.String("title", title), zap.Error(err))
		}
		return 0, false
	}
	m := totalPagesPattern.FindStringSubmatch(p.Body)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ComposePageCount renders the statistics page for stats.
func (s *Service) ComposePageCount(project string, stats MonthlyStats) (page.Page, error) {
	now := s.clock.Now()
	items := []markup.Item{
		{Content: fmt.Sprintf("Total pages: %d", stats.CurrentCount), Format: markup.Plain},
		{Content: "Recorded on: " + calendar.DayTitle(now, calendar.DayTitleLayout), Format: markup.Plain},
	}
	if diff, ok := stats.Difference(); ok {
		change := fmt.Sprintf("📉 %d pages from %s", diff, stats.PreviousMonth)
		if diff >= 0 {
			change = fmt.Sprintf("📈 +%d pages from %s", diff, stats.PreviousMonth)
		}
		items = append(items,
			markup.Item{Content: fmt.Sprintf("Previous month: %d pages", stats.PreviousCount), Format: markup.Plain},
			markup.Item{Content: change, Format: markup.Plain},
		)
	} else {
		items = append(items, markup.Item{Content: "Previous month data: Not available", Format: markup.Plain})
	}
	items = append(items, markup.Item{Content: pageCountTag, Format: markup.Link})

	body, err := markup.Render(items)
	if err != nil {
		return page.Page{}, err
	}
	return page.New(project, PageCountTitle(now), body), nil
}

// PostPageCount records this month's page count as a new page.
func (s *Service) PostPageCount(ctx context.Context, project string) (MonthlyStats, error) {
	stats, err := s.PageCountStats(ctx, project)
	if err != nil {
		return MonthlyStats{}, err
	}
	p, err := s.ComposePageCount(project, stats)
	if err != nil {
		return stats, err
	}
	if err := s.create(ctx, p); err != nil {
		return stats, err
	}
	return stats, nil
}
