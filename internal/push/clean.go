package push

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fkoehler/svnpush/internal/svnwc"
)

// ConfirmFunc gates the deletion of untracked files during sanitize. It
// receives the exact list of paths that would be removed; returning false
// aborts the run. The orchestrator never deletes without this gate.
type ConfirmFunc func(paths []string) (bool, error)

// Clean brings the target working copy to a known-clean state: revert all
// local modifications, delete confirmed untracked files, and update to the
// latest revision. It is idempotent; on an already-clean working copy it
// changes nothing.
func (e *Engine) Clean(ctx context.Context) error {
	root := e.cfg.SVN.Workdir
	e.logger.Info("sanitizing working copy", "dir", root)

	if err := e.svn.RevertAll(ctx, root); err != nil {
		return err
	}

	entries, err := e.svn.Status(ctx, root)
	if err != nil {
		return err
	}

	var untracked []string
	for _, entry := range entries {
		if entry.State == svnwc.StateUntracked {
			untracked = append(untracked, entry.Path)
		}
	}
	sort.Strings(untracked)

	if len(untracked) > 0 {
		ok, err := e.confirm(untracked)
		if err != nil {
			return fmt.Errorf("cleanup confirmation failed: %w", err)
		}
		if !ok {
			return ErrCleanupDeclined
		}
		for _, p := range untracked {
			e.logger.Info("deleting untracked path", "path", p)
			if err := os.RemoveAll(filepath.Join(root, p)); err != nil {
				return fmt.Errorf("failed to delete %s: %w", p, err)
			}
		}
	}

	if err := e.svn.Update(ctx, root); err != nil {
		return err
	}

	// Postcondition: no modified or untracked paths remain.
	entries, err = e.svn.Status(ctx, root)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return &DirtyWorkingCopyError{Dir: root, Entries: entries}
	}

	e.logger.Info("working copy clean", "dir", root)
	return nil
}
