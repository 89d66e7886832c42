package main

import (
	"context"
	"fmt"
	"time"

	"scrapjournal/internal/logging"
	"scrapjournal/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// slowPost is the elapsed time past which a post command logs a warning.
const slowPost = 30 * time.Second

// postCmd builds a command that creates one page through post.
func (a *app) postCmd(use, short, long string, post func(ctx context.Context, svc *report.Service, project string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			svc, project, closeLedger, err := a.service(use, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeLedger()

			timer := a.logs.StartTimer(logging.CategoryReport, use)
			msg, err := post(ctx, svc, project)
			timer.StopWithThreshold(slowPost)
			if err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			a.logger.Info("command finished", zap.String("command", use))
			fmt.Fprintln(cmd.OutOrStdout(), a.styles.Success.Render(msg))
			return nil
		},
	}
}

func (a *app) dailyCmd() *cobra.Command {
	return a.postCmd("daily", "Create today's daily page",
		`Creates the daily page titled with today's date. The body holds the
daily template sections, a link to this week's range and the daily tag.`,
		func(ctx context.Context, svc *report.Service, project string) (string, error) {
			p, err := svc.PostDaily(ctx, project)
			if err != nil {
				return "", err
			}
			return "Posted " + p.Title, nil
		})
}

func (a *app) sleepCmd() *cobra.Command {
	return a.postCmd("sleep", "Create today's sleep-log page",
		`Creates "<today> 睡眠ログ" from the sleep template.`,
		func(ctx context.Context, svc *report.Service, project string) (string, error) {
			p, err := svc.PostSleepLog(ctx, project)
			if err != nil {
				return "", err
			}
			return "Posted " + p.Title, nil
		})
}

func (a *app) weeklyCmd() *cobra.Command {
	return a.postCmd("weekly", "Create next week's page with this week's averages",
		`Reads this week's seven daily pages (Monday to Sunday) and the Monday to
Saturday sleep logs, then creates a page titled with next week's range:

  average wake-up time, average sleep quality, wake-up graph,
  the weekly template sections, a link to this week's range, #weekly

Fails without writing when the page already exists or when a daily value is
malformed.`,
		func(ctx context.Context, svc *report.Service, project string) (string, error) {
			w, err := svc.PostWeekly(ctx, project)
			if err != nil {
				return "", err
			}
			return "Posted " + w.Page.Title, nil
		})
}

func (a *app) countPagesCmd() *cobra.Command {
	return a.postCmd("count-pages", "Record this month's page count",
		`Creates "Page Count YYYY-MM" with the project's page count and the change
since last month's record.`,
		func(ctx context.Context, svc *report.Service, project string) (string, error) {
			stats, err := svc.PostPageCount(ctx, project)
			if err != nil {
				return "", err
			}
			msg := fmt.Sprintf("Recorded %d pages for %s", stats.CurrentCount, stats.CurrentMonth)
			if diff, ok := stats.Difference(); ok {
				msg += fmt.Sprintf(" (%+d since %s)", diff, stats.PreviousMonth)
			}
			return msg, nil
		})
}
