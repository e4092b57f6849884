package push

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/fkoehler/svnpush/internal/layout"
)

// split partitions a changeset's files by subproject and extracts one
// binary-safe diff blob per subproject. Blob paths are a/<subproject>/...,
// so the applicator strips two leading components to land them relative to
// the subproject root.
func (e *Engine) split(ctx context.Context, cs Changeset) (map[string][]byte, error) {
	groups := layout.Partition(cs.Files)
	if len(groups) == 0 {
		return nil, fmt.Errorf("changeset %s: %w", cs.Rev, ErrEmptyChangeset)
	}

	// Resolve every subproject before extracting anything, so an unknown
	// name fails the changeset without partial work.
	names := make([]string, 0, len(groups))
	for name := range groups {
		if _, err := e.layout.TargetPath(name); err != nil {
			return nil, fmt.Errorf("changeset %s: %w", cs.Rev, err)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	blobs := make(map[string][]byte, len(names))
	for _, name := range names {
		blob, err := e.git.Diff(ctx, cs.Rev, name)
		if err != nil {
			return nil, fmt.Errorf("changeset %s: %w", cs.Rev, err)
		}
		if len(bytes.TrimSpace(blob)) == 0 {
			// A subproject can end up with no diff content, e.g. the
			// source side of a rename represented as add/remove. Skip
			// its apply step for this changeset.
			e.logger.Debug("empty diff for subproject, skipping",
				"changeset", cs.Rev, "subproject", name)
			continue
		}

		if n, ok := diffFileCount(blob); ok {
			e.logger.Debug("split diff",
				"changeset", cs.Rev, "subproject", name,
				"files", n, "bytes", len(blob))
		} else {
			e.logger.Debug("split diff",
				"changeset", cs.Rev, "subproject", name,
				"bytes", len(blob))
		}
		blobs[name] = blob
	}

	if len(blobs) == 0 {
		return nil, fmt.Errorf("changeset %s: %w", cs.Rev, ErrEmptyChangeset)
	}
	return blobs, nil
}

// diffFileCount counts the file diffs in a blob. Blobs carrying binary
// payloads may not parse; callers fall back to byte counts.
func diffFileCount(blob []byte) (int, bool) {
	fds, err := diff.ParseMultiFileDiff(blob)
	if err != nil {
		return 0, false
	}
	return len(fds), true
}
