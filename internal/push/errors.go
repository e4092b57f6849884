package push

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fkoehler/svnpush/internal/svnwc"
)

// ErrEmptyChangeset marks a changeset whose split produced nothing to apply.
// A changeset must touch at least one file, so this should be unreachable.
var ErrEmptyChangeset = errors.New("changeset touches no files")

// ErrCleanupDeclined is returned when the operator declines deletion of
// untracked files during sanitize. Declining aborts the whole run.
var ErrCleanupDeclined = errors.New("untracked file cleanup declined")

// DirtyWorkingCopyError reports a working copy that was expected to be clean
// but is not. It guards every changeset boundary against residue left by a
// previous step.
type DirtyWorkingCopyError struct {
	Dir     string
	Entries []svnwc.StatusEntry
}

func (e *DirtyWorkingCopyError) Error() string {
	paths := make([]string, 0, len(e.Entries))
	for _, entry := range e.Entries {
		paths = append(paths, fmt.Sprintf("%s (%s)", entry.Path, entry.State))
	}
	return fmt.Sprintf("working copy %s is not clean: %s", e.Dir, strings.Join(paths, ", "))
}

// PatchApplyError reports a patch-apply step that itself failed. The entire
// changeset is aborted; no partial multi-subproject commit is attempted, and
// the working copy is left as-is for operator inspection.
type PatchApplyError struct {
	Rev        string
	Subproject string
	Err        error
}

func (e *PatchApplyError) Error() string {
	return fmt.Sprintf("failed to apply changeset %s to subproject %s: %v", e.Rev, e.Subproject, e.Err)
}

func (e *PatchApplyError) Unwrap() error {
	return e.Err
}

// PatchRejectedError reports a patch that applied but left conflict
// artifacts behind. The artifacts stay on disk so the operator can resolve
// them.
type PatchRejectedError struct {
	Rev        string
	Subproject string
	Artifacts  []string
}

func (e *PatchRejectedError) Error() string {
	return fmt.Sprintf("changeset %s applied to subproject %s with rejects: %s",
		e.Rev, e.Subproject, strings.Join(e.Artifacts, ", "))
}
