package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scrapjournal/internal/aggregate"
	"scrapjournal/internal/calendar"
	"scrapjournal/internal/page"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// WakeUpLabel precedes the wake-up time on a daily page.
	WakeUpLabel = "Wake-up Time"
	// SleepQualityLabel precedes the 1-5 sleep score on a daily page.
	SleepQualityLabel = "Score sleep quality"
	// SleepLogSuffix is appended to the day title of sleep-log pages.
	SleepLogSuffix = " 睡眠ログ"

	// graphDays covers Monday through Saturday.
	graphDays     = 6
	hourBlock     = "[][][][][][][][][][]"
	halfHourBlock = "[][][][][]"
	noData        = "No data"
)

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "日",
	time.Monday:    "月",
	time.Tuesday:   "火",
	time.Wednesday: "水",
	time.Thursday:  "木",
	time.Friday:    "金",
	time.Saturday:  "土",
}

// fetchPages loads every title concurrently. Slot i holds the page for
// titles[i], or nil when it could not be read. A failed read never aborts the
// others.
func (s *Service) fetchPages(ctx context.Context, project string, titles []string) []*page.Page {
	pages := make([]*page.Page, len(titles))
	var g errgroup.Group
	for i, title := range titles {
		i, title := i, title
		g.Go(func() error {
			p, err := s.repo.GetPage(ctx, project, title)
			switch {
			case err == nil:
				pages[i] = p
			case errors.Is(err, page.ErrNotFound):
				s.logger.Debug("daily page missing", zap.String("title", title))
			default:
				s.logger.Warn("failed to fetch daily page",
					zap.String("title", title), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
	return pages
}

func extractAll(titles []string, pages []*page.Page, label string) []page.Field {
	fields := make([]page.Field, len(titles))
	for i, title := range titles {
		fields[i] = page.Extract(title, pages[i], label)
	}
	return fields
}

// weekFields collects label from this week's seven daily pages.
func (s *Service) weekFields(ctx context.Context, project, label string) []page.Field {
	titles := calendar.WeekTitles(s.clock.Now(), s.layout)
	return extractAll(titles, s.fetchPages(ctx, project, titles), label)
}

// AverageWakeUp returns this week's mean wake-up time in fractional hours.
func (s *Service) AverageWakeUp(ctx context.Context, project string) (float64, error) {
	return s.average(s.weekFields(ctx, project, WakeUpLabel), aggregate.TimeOfDay)
}

// AverageSleepQuality returns this week's mean sleep score, rounded to two
// decimals.
func (s *Service) AverageSleepQuality(ctx context.Context, project string) (float64, error) {
	return s.average(s.weekFields(ctx, project, SleepQualityLabel), aggregate.Score)
}

func (s *Service) average(fields []page.Field, g aggregate.Grammar) (float64, error) {
	v, err := aggregate.Aggregate(fields, g)
	if err != nil {
		return 0, fmt.Errorf("average %s: %w", g, err)
	}
	s.logger.Debug("computed weekly average",
		zap.Stringer("grammar", g),
		zap.Int("days", len(fields)),
		zap.Int("samples", len(aggregate.Candidates(fields))),
		zap.Float64("mean", v))
	return v, nil
}

// GraphRow is one day of the wake-up graph.
type GraphRow struct {
	Day   string
	Title string
	Value string
	Bar   string
}

// String renders the row as it appears on the weekly page.
func (r GraphRow) String() string {
	return r.Day + ": " + r.Bar
}

// WakeUpGraph reads the Monday..Saturday sleep-log pages and draws one bar
// per day, ten brackets per hour plus five for a half hour past it.
func (s *Service) WakeUpGraph(ctx context.Context, project string) ([]GraphRow, error) {
	days := calendar.Week(s.clock.Now(), calendar.MondayStart).First(graphDays)
	titles := days.Titles(s.layout)
	for i := range titles {
		titles[i] += SleepLogSuffix
	}
	fields := extractAll(titles, s.fetchPages(ctx, project, titles), WakeUpLabel)

	rows := make([]GraphRow, len(fields))
	for i, f := range fields {
		row := GraphRow{Day: weekdayNames[days[i].Weekday()], Title: f.Title, Bar: noData}
		if f.Present {
			value := strings.TrimSpace(f.Value)
			if h, m, err := aggregate.ParseClock(value); err == nil {
				row.Value = value
				row.Bar = bar(h, m)
			}
		}
		rows[i] = row
	}
	return rows, nil
}

// RenderGraph joins graph rows into page lines.
func RenderGraph(rows []GraphRow) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

func bar(hour, minute int) string {
	b := strings.Repeat(hourBlock, hour)
	if minute >= 30 {
		b += " " + halfHourBlock
	}
	return strings.TrimSpace(b)
}
