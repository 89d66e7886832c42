package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"scrapjournal/internal/aggregate"
	"scrapjournal/internal/markup"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// seedWeek fills the week of 2025-10-13 with five wake-up times and leaves
// Thursday missing and Saturday unreadable.
func seedWeek(r *fakeRepo) {
	r.addDaily("2025/10/13 (Mon)", "[* Wake-up Time]", "6:00", "[* Score sleep quality]", "3")
	r.addDaily("2025/10/14 (Tue)", "[* Wake-up Time]", " 6:30", "[* Score sleep quality]", "4")
	r.addDaily("2025/10/15 (Wed)", "[* Wake-up Time]", "7:00 ", "[* Score sleep quality]", "5")
	r.addDaily("2025/10/17 (Fri)", "[* Wake-up Time]", "6:15", "[* Score sleep quality]", "")
	r.getErr["2025/10/18 (Sat)"] = errTransport
	r.addDaily("2025/10/19 (Sun)", "[* Wake-up Time]", "6:45", "How was the day?")
}

func weeklyOnly(metrics ...Metric) Templates {
	t := DefaultTemplates()
	t.Weekly = WeeklyTemplate{
		Metrics:  metrics,
		Sections: []markup.Item{{Content: "Goals", Format: markup.Strong}},
		Tag:      "weekly",
	}
	return t
}

func TestAverageWakeUp_EndToEnd(t *testing.T) {
	repo := newFakeRepo()
	seedWeek(repo)
	svc := NewService(repo, wednesday())

	got, err := svc.AverageWakeUp(context.Background(), "journal")
	require.NoError(t, err)
	assert.Equal(t, 6.5, got)
	assert.Len(t, repo.fetched, 7)
}

func TestAverageSleepQuality(t *testing.T) {
	repo := newFakeRepo()
	seedWeek(repo)
	svc := NewService(repo, wednesday())

	got, err := svc.AverageSleepQuality(context.Background(), "journal")
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)
}

func TestAverageWakeUp_InvalidFormat(t *testing.T) {
	repo := newFakeRepo()
	seedWeek(repo)
	repo.addDaily("2025/10/16 (Thu)", "Wake-up Time", "25:99")
	svc := NewService(repo, wednesday())

	_, err := svc.AverageWakeUp(context.Background(), "journal")
	assert.ErrorIs(t, err, aggregate.ErrInvalidFormat)
}

func TestAverageWakeUp_NoData(t *testing.T) {
	svc := NewService(newFakeRepo(), wednesday())
	got, err := svc.AverageWakeUp(context.Background(), "journal")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestFetchPages_RunsConcurrentlyAndKeepsOrder(t *testing.T) {
	repo := newFakeRepo()
	seedWeek(repo)
	repo.delay = 20 * time.Millisecond
	svc := NewService(repo, wednesday())

	titles := []string{"2025/10/19 (Sun)", "2025/10/13 (Mon)", "missing", "2025/10/18 (Sat)"}
	pages := svc.fetchPages(context.Background(), "journal", titles)

	require.Len(t, pages, 4)
	assert.Equal(t, "2025/10/19 (Sun)", pages[0].Title)
	assert.Equal(t, "2025/10/13 (Mon)", pages[1].Title)
	assert.Nil(t, pages[2])
	assert.Nil(t, pages[3])
	assert.Greater(t, repo.maxIn, 1)
}

func TestFetchPages_LogsTransportFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	repo := newFakeRepo()
	seedWeek(repo)
	svc := NewService(repo, wednesday(), WithLogger(zap.New(core)))

	_ = svc.fetchPages(context.Background(), "journal", []string{"2025/10/18 (Sat)", "2025/10/16 (Thu)"})

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	assert.Equal(t, "2025/10/18 (Sat)", warns[0].ContextMap()["title"])
	assert.Equal(t, 1, logs.FilterMessage("daily page missing").Len())
}

func TestPostWeekly(t *testing.T) {
	repo := newFakeRepo()
	seedWeek(repo)
	svc := NewService(repo, wednesday(), WithTemplates(weeklyOnly(MetricWakeUp)))

	w, err := svc.PostWeekly(context.Background(), "journal")
	require.NoError(t, err)

	require.Len(t, repo.posted, 1)
	posted := repo.posted[0]
	assert.Equal(t, posted, w.Page)
	assert.Equal(t, 6.5, w.WakeUp)
	assert.Equal(t, "journal", posted.Project)
	assert.Equal(t, "2025/10/20 ~ 2025/10/26", posted.Title)
	assert.Equal(t, "[* Last week's average wake-up time]\n"+
		" 6.5h\n"+
		"[* Goals]\n"+
		"#2025/10/13~2025/10/19\n"+
		"#weekly", posted.Body)
}

func TestPostWeekly_Duplicate(t *testing.T) {
	repo := newFakeRepo()
	seedWeek(repo)
	repo.addDaily("2025/10/20 ~ 2025/10/26", "already here")
	svc := NewService(repo, wednesday())

	w, err := svc.PostWeekly(context.Background(), "journal")
	assert.ErrorIs(t, err, ErrDuplicatePage)
	assert.Nil(t, w)
	assert.Empty(t, repo.posted)
}

func TestPostWeekly_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	seedWeek(repo)
	svc := NewService(repo, wednesday())

	_, err := svc.PostWeekly(context.Background(), "journal")
	require.NoError(t, err)
	_, err = svc.PostWeekly(context.Background(), "journal")
	assert.ErrorIs(t, err, ErrDuplicatePage)
	assert.Len(t, repo.posted, 1)
}

func TestPostWeekly_InvalidFormatPostsNothing(t *testing.T) {
	repo := newFakeRepo()
	seedWeek(repo)
	repo.addDaily("2025/10/16 (Thu)", "Score sleep quality", "9")
	svc := NewService(repo, wednesday())

	_, err := svc.PostWeekly(context.Background(), "journal")
	assert.ErrorIs(t, err, aggregate.ErrInvalidFormat)
	assert.Empty(t, repo.posted)
}

func TestPostWeekly_ExistsFailureAborts(t *testing.T) {
	repo := newFakeRepo()
	repo.existsErr = errTransport
	svc := NewService(repo, wednesday())

	_, err := svc.PostWeekly(context.Background(), "journal")
	assert.ErrorIs(t, err, errTransport)
	assert.Empty(t, repo.posted)
}

func TestPostWeekly_PostFailurePropagates(t *testing.T) {
	repo := newFakeRepo()
	repo.postErr = errTransport
	svc := NewService(repo, wednesday())

	_, err := svc.PostWeekly(context.Background(), "journal")
	assert.ErrorIs(t, err, errTransport)
}

func TestComposeWeekly_DefaultMetricsOrder(t *testing.T) {
	repo := newFakeRepo()
	seedWeek(repo)
	repo.addDaily("2025/10/13 (Mon) 睡眠ログ", "Wake-up Time", "6:40")
	repo.addDaily("2025/10/14 (Tue) 睡眠ログ", "Wake-up Time", "7:10")
	svc := NewService(repo, wednesday())

	w, err := svc.ComposeWeekly(context.Background(), "journal")
	require.NoError(t, err)
	assert.Equal(t, 6.5, w.WakeUp)
	assert.Equal(t, 4.0, w.SleepQuality)
	require.Len(t, w.Graph, 6)

	lines := strings.Split(w.Page.Body, "\n")
	want := []string{
		"[* Last week's average wake-up time]",
		" 6.5h",
		"[* Last week's average sleep quality]",
		" 4",
		"[* Wake-up time this week]",
		"月: " + strings.Repeat(hourBlock, 6) + " " + halfHourBlock,
		"火: " + strings.Repeat(hourBlock, 7),
		"水: No data",
		"木: No data",
		"金: No data",
		"土: No data",
		"[* Goals]",
		"[* New things]",
		"[* Reflections]",
		"[* Thoughts]",
		"#2025/10/13~2025/10/19",
		"#weekly",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("weekly body mismatch (-want +got):\n%s", diff)
	}
}

func TestWakeUpGraph_UsesSixSuffixedTitles(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, wednesday())

	rows, err := svc.WakeUpGraph(context.Background(), "journal")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "2025/10/13 (Mon) 睡眠ログ", rows[0].Title)
	assert.Equal(t, "2025/10/18 (Sat) 睡眠ログ", rows[5].Title)
	assert.ElementsMatch(t, []string{
		"2025/10/13 (Mon) 睡眠ログ",
		"2025/10/14 (Tue) 睡眠ログ",
		"2025/10/15 (Wed) 睡眠ログ",
		"2025/10/16 (Thu) 睡眠ログ",
		"2025/10/17 (Fri) 睡眠ログ",
		"2025/10/18 (Sat) 睡眠ログ",
	}, repo.fetched)
	assert.Equal(t, "月: No data\n火: No data\n水: No data\n木: No data\n金: No data\n土: No data", RenderGraph(rows))
}

func TestComposeWeekly_UnknownMetric(t *testing.T) {
	svc := NewService(newFakeRepo(), wednesday(), WithTemplates(weeklyOnly("mood")))
	_, err := svc.ComposeWeekly(context.Background(), "journal")
	assert.Error(t, err)
}

func TestPostDaily(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, wednesday())

	p, err := svc.PostDaily(context.Background(), "journal")
	require.NoError(t, err)
	require.Len(t, repo.posted, 1)
	assert.Equal(t, "2025/10/15 (Wed)", repo.posted[0].Title)
	assert.Equal(t, repo.posted[0], p)
	assert.Equal(t, "[* Wake-up Time]\n"+
		"[* Score sleep quality]\n"+
		"[* Today's Tasks]\n"+
		"[* How you feel when you wake up]\n"+
		"[* How was the day?]\n"+
		"#2025/10/13~2025/10/19\n"+
		"#daily", repo.posted[0].Body)

	_, err = svc.PostDaily(context.Background(), "journal")
	assert.ErrorIs(t, err, ErrDuplicatePage)
	assert.Len(t, repo.posted, 1)
}

func TestPostDaily_CustomLayout(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, wednesday(), WithDayTitleLayout("2006/01/02 (Mon)"))

	p, err := svc.ComposeDaily("journal")
	require.NoError(t, err)
	assert.Equal(t, "2025/10/15 (Wed)", p.Title)
}

func TestPostSleepLog(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, wednesday())

	p, err := svc.PostSleepLog(context.Background(), "journal")
	require.NoError(t, err)
	require.Len(t, repo.posted, 1)
	assert.Equal(t, "2025/10/15 (Wed) 睡眠ログ", repo.posted[0].Title)
	assert.Equal(t, repo.posted[0], p)
	assert.True(t, strings.HasPrefix(repo.posted[0].Body, "Time I tried to sleep\n"))
	assert.True(t, strings.HasSuffix(repo.posted[0].Body, "\n#Sleep improvement"))

	_, err = svc.PostSleepLog(context.Background(), "journal")
	assert.ErrorIs(t, err, ErrDuplicatePage)
}

func TestPageCount(t *testing.T) {
	t.Run("with previous month", func(t *testing.T) {
		repo := newFakeRepo()
		repo.count = 1234
		repo.addDaily("Page Count 2025-09", "Total pages: 1200", "Recorded on: 2025/9/30 (Tue)")
		svc := NewService(repo, wednesday())

		stats, err := svc.PostPageCount(context.Background(), "journal")
		require.NoError(t, err)
		diff, ok := stats.Difference()
		require.True(t, ok)
		assert.Equal(t, 34, diff)
		assert.Equal(t, "2025-09", stats.PreviousMonth)

		require.Len(t, repo.posted, 1)
		assert.Equal(t, "Page Count 2025-10", repo.posted[0].Title)
		assert.Equal(t, "Total pages: 1234\n"+
			"Recorded on: 2025/10/15 (Wed)\n"+
			"Previous month: 1200 pages\n"+
			"📈 +34 pages from 2025-09\n"+
			"#PageCount", repo.posted[0].Body)
	})

	t.Run("decrease", func(t *testing.T) {
		repo := newFakeRepo()
		repo.count = 90
		repo.addDaily("Page Count 2025-09", "Total pages: 100")
		svc := NewService(repo, wednesday())

		stats, err := svc.PageCountStats(context.Background(), "journal")
		require.NoError(t, err)
		p, err := svc.ComposePageCount("journal", stats)
		require.NoError(t, err)
		assert.Contains(t, p.Body, "📉 -10 pages from 2025-09")
	})

	t.Run("without previous month", func(t *testing.T) {
		repo := newFakeRepo()
		repo.count = 10
		repo.getErr["Page Count 2025-09"] = errTransport
		svc := NewService(repo, wednesday())

		stats, err := svc.PostPageCount(context.Background(), "journal")
		require.NoError(t, err)
		assert.False(t, stats.HasPrevious)
		assert.Contains(t, repo.posted[0].Body, "Previous month data: Not available")
	})

	t.Run("current count failure", func(t *testing.T) {
		repo := newFakeRepo()
		repo.countErr = errTransport
		svc := NewService(repo, wednesday())

		_, err := svc.PostPageCount(context.Background(), "journal")
		assert.ErrorIs(t, err, errTransport)
		assert.Empty(t, repo.posted)
	})
}

func TestTemplatesValidate(t *testing.T) {
	assert.NoError(t, DefaultTemplates().Validate())

	bad := DefaultTemplates()
	bad.Weekly.Metrics = append(bad.Weekly.Metrics, "steps")
	assert.Error(t, bad.Validate())

	bad = DefaultTemplates()
	bad.Daily.Sections = append(bad.Daily.Sections, markup.Item{Content: "x", Format: "blink"})
	assert.Error(t, bad.Validate())
}
