package svnwc

import (
	"fmt"
	"regexp"
	"strings"
)

// ItemState classifies a working-copy path reported by svn status.
type ItemState string

const (
	// StateModified covers locally modified or replaced items.
	StateModified ItemState = "modified"
	// StateUntracked is a path not under version control ("?").
	StateUntracked ItemState = "untracked"
	// StateMissing is a versioned path absent from disk ("!").
	StateMissing ItemState = "missing"
	// StateConflicted is an item with unresolved conflicts ("C").
	StateConflicted ItemState = "conflicted"
	// StateScheduled covers items already scheduled for add or removal.
	StateScheduled ItemState = "scheduled"
	// StateOther covers status codes the tool does not act on. They still
	// count against working-copy cleanliness.
	StateOther ItemState = "other"
)

// StatusEntry is one non-clean path in a working copy. A clean working copy
// produces no entries at all.
type StatusEntry struct {
	Path  string
	State ItemState
}

// IsRejectArtifact reports whether the path is a leftover of a patch that
// applied with unresolved conflicts.
func (e StatusEntry) IsRejectArtifact() bool {
	return strings.HasSuffix(e.Path, ".rej") || strings.HasSuffix(e.Path, ".orig")
}

// parseStatus translates svn's textual status lines into typed entries.
// This is the only place that tracks the status-line format: one code
// character, six more status columns, a space, then the path.
func parseStatus(out []byte) []StatusEntry {
	var entries []StatusEntry
	for _, line := range strings.Split(string(out), "\n") {
		if len(line) < 2 {
			continue
		}
		// Columns 0-6 are status markers, column 7 a separator, the
		// path starts at column 8.
		var path string
		if len(line) > 8 {
			path = strings.TrimSpace(line[8:])
		} else {
			path = strings.TrimSpace(line[1:])
		}
		if path == "" {
			continue
		}

		var state ItemState
		switch line[0] {
		case 'M', 'R':
			state = StateModified
		case '?':
			state = StateUntracked
		case '!':
			state = StateMissing
		case 'C':
			state = StateConflicted
		case 'A', 'D':
			state = StateScheduled
		default:
			state = StateOther
		}
		entries = append(entries, StatusEntry{Path: path, State: state})
	}
	return entries
}

var committedRevisionRe = regexp.MustCompile(`(?m)^Committed revision (\d+)\.`)

// parseCommittedRevision extracts the revision number from svn commit output.
func parseCommittedRevision(out []byte) (int64, error) {
	m := committedRevisionRe.FindSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("svn commit output contained no committed revision: %q", strings.TrimSpace(string(out)))
	}
	var rev int64
	if _, err := fmt.Sscanf(string(m[1]), "%d", &rev); err != nil {
		return 0, fmt.Errorf("failed to parse committed revision %q: %w", m[1], err)
	}
	return rev, nil
}
