package main

import (
	"fmt"
	"strconv"
	"strings"

	"scrapjournal/internal/report"

	"github.com/spf13/cobra"
)

func (a *app) wakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wake",
		Short: "Print this week's average wake-up time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			svc, project, closeLedger, err := a.service("wake", cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeLedger()

			v, err := svc.AverageWakeUp(ctx, project)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %sh\n",
				a.styles.Bold.Render("Average wake-up time:"), strconv.FormatFloat(v, 'f', -1, 64))
			return nil
		},
	}
}

func (a *app) sleepQualityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sleep-quality",
		Short: "Print this week's average sleep score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			svc, project, closeLedger, err := a.service("sleep-quality", cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeLedger()

			v, err := svc.AverageSleepQuality(ctx, project)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				a.styles.Bold.Render("Average sleep quality:"), strconv.FormatFloat(v, 'f', -1, 64))
			return nil
		},
	}
}

func (a *app) graphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Draw this week's wake-up times from the sleep logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			svc, project, closeLedger, err := a.service("graph", cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeLedger()

			rows, err := svc.WakeUpGraph(ctx, project)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.renderGraph(rows))
			return nil
		},
	}
}

func (a *app) renderGraph(rows []report.GraphRow) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		bar := a.styles.Bar.Render(r.Bar)
		if r.Value == "" {
			bar = a.styles.Muted.Render(r.Bar)
		} else {
			bar += " " + a.styles.Muted.Render(r.Value)
		}
		lines[i] = a.styles.Bold.Render(r.Day+":") + " " + bar
	}
	return strings.Join(lines, "\n")
}
