package main

import (
	"errors"
	"io"

	"scrapjournal/internal/history"
	"scrapjournal/internal/logging"
	"scrapjournal/internal/report"
	"scrapjournal/internal/scrapbox"

	"go.uber.org/zap"
)

var errNoProject = errors.New("no project: pass --project or set SCRAPBOX_PROJECT")

// service wires the report use cases for one command. release closes the
// history ledger.
func (a *app) service(command string, out io.Writer) (svc *report.Service, project string, release func(), err error) {
	if err := a.cfg.RequireSID(); err != nil {
		return nil, "", nil, err
	}
	project = a.cfg.Scrapbox.Project
	if project == "" {
		return nil, "", nil, errNoProject
	}
	clock, err := a.cfg.NewClock()
	if err != nil {
		return nil, "", nil, err
	}

	sb := a.cfg.Scrapbox
	client := scrapbox.NewClient(sb.BaseURL, sb.SID, a.cfg.HTTPTimeout(),
		scrapbox.WithClientLogger(a.logs.Get(logging.CategoryScrapbox)))

	var poster scrapbox.Poster
	if a.opts.dryRun {
		poster = scrapbox.DryRunPoster{Out: out, BaseURL: sb.BaseURL}
	} else {
		poster = scrapbox.NewBrowserPoster(a.cfg.Browser, sb.BaseURL, sb.SID, a.logs.Get(logging.CategoryBrowser))
	}

	var repo report.Repository = scrapbox.NewRepository(client, poster)
	release = func() {}
	if a.cfg.History.Enabled {
		store, err := history.Open(a.cfg.History.Path)
		if err != nil {
			return nil, "", nil, err
		}
		repo = history.NewRecorder(repo, store, a.runID, command, a.opts.dryRun, a.logs.Get(logging.CategoryHistory))
		release = func() {
			if err := store.Close(); err != nil {
				a.logs.Get(logging.CategoryHistory).Warn("failed to close ledger", zap.Error(err))
			}
		}
	}

	svc = report.NewService(repo, clock,
		report.WithLogger(a.logs.Get(logging.CategoryReport)),
		report.WithTemplates(a.cfg.Templates),
		report.WithDayTitleLayout(a.cfg.Clock.DayTitleLayout),
	)
	return svc, project, release, nil
}
