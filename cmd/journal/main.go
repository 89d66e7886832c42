// Command journal posts daily, sleep-log, weekly and page-count pages to a
// Scrapbox project and prints weekly statistics computed from them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scrapjournal/cmd/journal/ui"
	"scrapjournal/internal/config"
	"scrapjournal/internal/logging"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options are the persistent flags.
type options struct {
	configPath string
	envFile    string
	verbose    bool
	project    string
	date       string
	dryRun     bool
	timeout    time.Duration
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	opts   options
	cfg    *config.Config
	logger *zap.Logger
	logs   *logging.Registry
	styles ui.Styles
	runID  string
}

func newRootCmd() *cobra.Command {
	a := &app{styles: ui.DefaultStyles()}

	root := &cobra.Command{
		Use:   "journal",
		Short: "Scrapbox journaling: daily pages, sleep logs and weekly reports",
		Long: `journal creates journal pages in a Scrapbox project and aggregates them.

Daily and sleep-log pages are created from templates. The weekly page averages
the wake-up time and sleep score found on this week's daily pages, draws a
wake-up graph from the sleep logs, and is titled with next week's range.

SCRAPBOX_SID must hold the connect.sid cookie of a logged-in session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logs != nil {
				_ = a.logs.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&a.opts.configPath, "config", "c", config.DefaultPath, "Config file")
	f.StringVar(&a.opts.envFile, "env-file", ".env", "Dotenv file loaded before the config")
	f.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Enable verbose logging")
	f.StringVarP(&a.opts.project, "project", "p", "", "Scrapbox project (or set SCRAPBOX_PROJECT)")
	f.StringVar(&a.opts.date, "date", "", "Reference date YYYY-MM-DD instead of today")
	f.BoolVar(&a.opts.dryRun, "dry-run", false, "Print the page instead of opening the browser")
	f.DurationVar(&a.opts.timeout, "timeout", 5*time.Minute, "Operation timeout")

	root.AddCommand(
		a.dailyCmd(),
		a.sleepCmd(),
		a.weeklyCmd(),
		a.countPagesCmd(),
		a.wakeCmd(),
		a.sleepQualityCmd(),
		a.graphCmd(),
		a.historyCmd(),
		a.initCmd(),
	)
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup() error {
	if err := config.LoadDotEnv(a.opts.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return err
	}
	if a.opts.project != "" {
		cfg.Scrapbox.Project = a.opts.project
	}
	if a.opts.date != "" {
		cfg.Clock.ReferenceDate = a.opts.date
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		File:    cfg.Logging.File,
		Verbose: a.opts.verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.runID = uuid.NewString()
	a.logger = logger.With(zap.String("run_id", a.runID))
	a.logs = logging.NewRegistry(a.logger, cfg.Logging.IsCategoryEnabled)
	a.logs.Get(logging.CategoryBoot).Debug("configuration loaded",
		zap.String("config", a.opts.configPath),
		zap.String("project", cfg.Scrapbox.Project),
		zap.String("timezone", cfg.Clock.Timezone),
		zap.String("reference_date", cfg.Clock.ReferenceDate),
		zap.Bool("dry_run", a.opts.dryRun))
	return nil
}

// context bounds a command by --timeout and cancels it on SIGINT/SIGTERM.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, a.opts.timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.DefaultStyles().Error.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
