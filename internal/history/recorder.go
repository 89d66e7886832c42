package history

import (
	"context"

	"scrapjournal/internal/page"
	"scrapjournal/internal/report"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder decorates a repository so that every successful post is written to
// the ledger. A ledger failure is logged and never fails the post, which has
// already happened.
type Recorder struct {
	report.Repository
	store   *Store
	runID   string
	command string
	dryRun  bool
	logger  *zap.Logger
}

// NewRecorder wraps repo. An empty runID gets a fresh UUID.
func NewRecorder(repo report.Repository, store *Store, runID, command string, dryRun bool, logger *zap.Logger) *Recorder {
	if runID == "" {
		runID = uuid.NewString()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		Repository: repo,
		store:      store,
		runID:      runID,
		command:    command,
		dryRun:     dryRun,
		logger:     logger,
	}
}

// RunID identifies the current invocation.
func (r *Recorder) RunID() string { return r.runID }

// Post posts p and records it.
func (r *Recorder) Post(ctx context.Context, p page.Page) error {
	if err := r.Repository.Post(ctx, p); err != nil {
		return err
	}
	id, err := r.store.Record(ctx, Entry{
		RunID:     r.runID,
		Command:   r.command,
		Project:   p.Project,
		Title:     p.Title,
		BodyBytes: len(p.Body),
		DryRun:    r.dryRun,
	})
	if err != nil {
		r.logger.Warn("failed to record post", zap.String("title", p.Title), zap.Error(err))
		return nil
	}
	r.logger.Debug("recorded post", zap.Int64("id", id), zap.String("run_id", r.runID))
	return nil
}
