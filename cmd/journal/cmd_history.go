package main

import (
	"fmt"

	"scrapjournal/cmd/journal/ui"
	"scrapjournal/internal/history"

	"github.com/spf13/cobra"
)

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List pages posted from this machine",
		Long: `Lists the local post ledger, newest first. Only the configured project is
shown when one is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.History.Enabled {
				return fmt.Errorf("history is disabled in the config")
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			store, err := history.Open(a.cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(ctx, a.cfg.Scrapbox.Project, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, a.styles.Muted.Render("No posts recorded in "+store.Path()+"."))
				return nil
			}

			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			rows := make([]ui.LedgerRow, len(entries))
			for i, e := range entries {
				run := e.RunID
				if len(run) > 8 {
					run = run[:8]
				}
				rows[i] = ui.LedgerRow{
					Posted:  e.PostedAt.In(loc).Format("2006-01-02 15:04"),
					Command: e.Command,
					Project: e.Project,
					Title:   e.Title,
					Run:     run,
					DryRun:  e.DryRun,
				}
			}
			fmt.Fprint(out, ui.RenderLedger(a.styles, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}
