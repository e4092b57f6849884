package push

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/fkoehler/svnpush/internal/config"
	"github.com/fkoehler/svnpush/internal/gitrepo"
	"github.com/fkoehler/svnpush/internal/layout"
	"github.com/fkoehler/svnpush/internal/svnwc"
)

// Engine drives the per-changeset pipeline: split, apply, reconcile, commit.
// Execution is strictly sequential; the target working copy is an
// exclusively-owned resource for the duration of a run.
type Engine struct {
	cfg     *config.Config
	git     gitrepo.Client
	svn     svnwc.Client
	layout  *layout.Layout
	logger  *slog.Logger
	dryRun  bool
	limit   int
	confirm ConfirmFunc
}

// Options carries the operator-facing knobs for a run.
type Options struct {
	// DryRun applies changesets without committing. The applied changes
	// are left in place, so only the first changeset of a run can apply
	// cleanly; the next one fails its cleanliness precondition.
	DryRun bool
	// Limit caps how many changesets are replayed in one run. Zero means
	// no cap.
	Limit int
	// Confirm gates untracked-file deletion during sanitize. Required.
	Confirm ConfirmFunc
}

// NewEngine creates a push engine.
func NewEngine(cfg *config.Config, git gitrepo.Client, svn svnwc.Client, logger *slog.Logger, opts Options) *Engine {
	return &Engine{
		cfg:     cfg,
		git:     git,
		svn:     svn,
		layout:  layout.New(cfg.Subprojects),
		logger:  logger,
		dryRun:  opts.DryRun,
		limit:   opts.Limit,
		confirm: opts.Confirm,
	}
}

// Push replays every changeset in upstream..HEAD, oldest first, issuing one
// svn commit per changeset. The working copy is sanitized before the first
// changeset; when the range is empty, Push returns without touching the
// working copy at all. Processing halts at the first failure; the
// working copy is left exactly as the failing operation left it, so the
// operator can diagnose and re-run deliberately. The returned results cover
// every changeset attempted, including the failing one.
func (e *Engine) Push(ctx context.Context) ([]Result, error) {
	revs, err := e.git.RevList(ctx, e.cfg.Git.Upstream)
	if err != nil {
		return nil, err
	}
	if e.limit > 0 && len(revs) > e.limit {
		e.logger.Info("limiting changesets", "total", len(revs), "limit", e.limit)
		revs = revs[:e.limit]
	}
	if len(revs) == 0 {
		e.logger.Info("nothing to push", "upstream", e.cfg.Git.Upstream)
		return nil, nil
	}

	e.logger.Info("starting push",
		"changesets", len(revs),
		"upstream", e.cfg.Git.Upstream,
		"dry_run", e.dryRun)

	if err := e.Clean(ctx); err != nil {
		return nil, err
	}

	var results []Result
	for _, rev := range revs {
		result, err := e.pushOne(ctx, rev)
		results = append(results, result)
		if err != nil {
			// Fail stop: subsequent changesets assume a clean-or-
			// committed predecessor state.
			return results, err
		}
	}

	e.logger.Info("push completed", "changesets", len(results))
	return results, nil
}

// pushOne runs one changeset through the pipeline.
func (e *Engine) pushOne(ctx context.Context, rev string) (Result, error) {
	fail := func(err error) (Result, error) {
		return Result{Rev: rev, Outcome: OutcomeFailed, Err: err}, err
	}

	// Recompute cleanliness at every changeset boundary; a previous
	// changeset must not silently leave residue.
	root := e.cfg.SVN.Workdir
	entries, err := e.svn.Status(ctx, root)
	if err != nil {
		return fail(fmt.Errorf("changeset %s: %w", rev, err))
	}
	if len(entries) > 0 {
		dirty := &DirtyWorkingCopyError{Dir: root, Entries: entries}
		return fail(fmt.Errorf("changeset %s: %w", rev, dirty))
	}

	cs, err := e.loadChangeset(ctx, rev)
	if err != nil {
		return fail(err)
	}

	blobs, err := e.split(ctx, cs)
	if err != nil {
		return fail(err)
	}

	names := make([]string, 0, len(blobs))
	for name := range blobs {
		names = append(names, name)
	}
	sort.Strings(names)

	e.logger.Info("applying changeset", "changeset", rev, "subprojects", names)
	for _, name := range names {
		rel, err := e.layout.TargetPath(name)
		if err != nil {
			return fail(fmt.Errorf("changeset %s: %w", rev, err))
		}
		if err := e.apply(ctx, rev, name, e.cfg.TargetDir(rel), blobs[name]); err != nil {
			return fail(fmt.Errorf("changeset %s: %w", rev, err))
		}
	}

	if e.dryRun {
		e.logger.Info("dry-run: leaving changes uncommitted", "changeset", rev)
		return Result{Rev: rev, Outcome: OutcomeDryRunSkipped}, nil
	}

	revision, err := e.svn.Commit(ctx, root, cs.Message)
	if err != nil {
		return fail(fmt.Errorf("changeset %s: %w", rev, err))
	}

	e.logger.Info("committed changeset", "changeset", rev, "revision", revision)
	return Result{Rev: rev, Outcome: OutcomeCommitted, Revision: revision}, nil
}

// loadChangeset reads a changeset's file list and message from source
// history.
func (e *Engine) loadChangeset(ctx context.Context, rev string) (Changeset, error) {
	files, err := e.git.ChangedFiles(ctx, rev)
	if err != nil {
		return Changeset{}, fmt.Errorf("changeset %s: %w", rev, err)
	}
	message, err := e.git.Message(ctx, rev)
	if err != nil {
		return Changeset{}, fmt.Errorf("changeset %s: %w", rev, err)
	}
	return Changeset{Rev: rev, Files: files, Message: message}, nil
}
