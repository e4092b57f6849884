package push

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fkoehler/svnpush/internal/svnwc"
)

// stripDepth is the fixed number of leading path components removed when
// applying a split diff: the diff format's a/ or b/ component plus the
// subproject's own directory.
const stripDepth = 2

// apply feeds one subproject's diff blob into its working copy and
// reconciles svn's bookkeeping with what the patch did. On success, svn's
// index exactly reflects the file-level adds and removes implied by the
// diff, ready for commit.
func (e *Engine) apply(ctx context.Context, rev, name, dir string, blob []byte) error {
	// Re-verify cleanliness rather than assume it: failure of a previous
	// subproject in the same changeset must not cascade into applying
	// onto dirty state.
	entries, err := e.svn.Status(ctx, dir)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return &DirtyWorkingCopyError{Dir: dir, Entries: entries}
	}

	// The patch payload is transient: written for this one apply and
	// removed regardless of outcome.
	tmp, err := os.CreateTemp("", "svnpush-*.diff")
	if err != nil {
		return fmt.Errorf("failed to create patch file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write patch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write patch file: %w", err)
	}

	if err := e.svn.Patch(ctx, dir, tmpPath, stripDepth); err != nil {
		return &PatchApplyError{Rev: rev, Subproject: name, Err: err}
	}

	entries, err = e.svn.Status(ctx, dir)
	if err != nil {
		return err
	}

	var artifacts, adds, removes []string
	for _, entry := range entries {
		if entry.IsRejectArtifact() {
			artifacts = append(artifacts, entry.Path)
			continue
		}
		switch entry.State {
		case svnwc.StateUntracked:
			adds = append(adds, entry.Path)
		case svnwc.StateMissing:
			removes = append(removes, entry.Path)
		}
	}
	if len(artifacts) > 0 {
		sort.Strings(artifacts)
		return &PatchRejectedError{Rev: rev, Subproject: name, Artifacts: artifacts}
	}

	sort.Strings(adds)
	sort.Strings(removes)
	if err := e.svn.Add(ctx, dir, adds); err != nil {
		return fmt.Errorf("failed to register adds in %s: %w", dir, err)
	}
	if err := e.svn.Remove(ctx, dir, removes); err != nil {
		return fmt.Errorf("failed to register removes in %s: %w", dir, err)
	}

	e.logger.Debug("applied subproject diff",
		"changeset", rev, "subproject", name,
		"adds", len(adds), "removes", len(removes))
	return nil
}
