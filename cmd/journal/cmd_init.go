package main

import (
	"fmt"
	"os"

	"scrapjournal/internal/config"

	"github.com/spf13/cobra"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Writes the default configuration, with the selected project, to the --config
path. An existing file is never overwritten. SCRAPBOX_SID is not written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.opts.configPath
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config %s already exists", path)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to stat config: %w", err)
			}

			cfg := config.DefaultConfig()
			cfg.Scrapbox.Project = a.cfg.Scrapbox.Project
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.styles.Success.Render("Wrote "+path))
			return nil
		},
	}
}
