package push

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fkoehler/svnpush/internal/svnwc"
)

// mockGit implements gitrepo.Client for testing.
type mockGit struct {
	revs       []string
	revListErr error
	files      map[string][]string
	diffs      map[string]map[string][]byte // rev -> subproject -> blob
	messages   map[string]string
}

func (m *mockGit) RevList(_ context.Context, _ string) ([]string, error) {
	return m.revs, m.revListErr
}

func (m *mockGit) ChangedFiles(_ context.Context, rev string) ([]string, error) {
	return m.files[rev], nil
}

func (m *mockGit) Diff(_ context.Context, rev, prefix string) ([]byte, error) {
	return m.diffs[rev][prefix], nil
}

func (m *mockGit) Message(_ context.Context, rev string) (string, error) {
	msg, ok := m.messages[rev]
	if !ok {
		return "", fmt.Errorf("no message for %s", rev)
	}
	return msg, nil
}

// mockSvn implements svnwc.Client for testing. Status responses are scripted
// per directory and consumed in order; an exhausted queue reports clean.
type mockSvn struct {
	status    map[string][][]svnwc.StatusEntry
	patchErr  map[string]error
	commitErr error
	commitRev int64

	patched  []string // dirs, in apply order
	adds     map[string][]string
	removes  map[string][]string
	commits  []string // messages
	reverted []string
	updated  []string
}

func newMockSvn() *mockSvn {
	return &mockSvn{
		status:    make(map[string][][]svnwc.StatusEntry),
		patchErr:  make(map[string]error),
		adds:      make(map[string][]string),
		removes:   make(map[string][]string),
		commitRev: 361212,
	}
}

func (m *mockSvn) queueStatus(dir string, entries []svnwc.StatusEntry) {
	m.status[dir] = append(m.status[dir], entries)
}

func (m *mockSvn) Status(_ context.Context, dir string) ([]svnwc.StatusEntry, error) {
	queue := m.status[dir]
	if len(queue) == 0 {
		return nil, nil
	}
	entries := queue[0]
	m.status[dir] = queue[1:]
	return entries, nil
}

func (m *mockSvn) RevertAll(_ context.Context, dir string) error {
	m.reverted = append(m.reverted, dir)
	return nil
}

func (m *mockSvn) Update(_ context.Context, dir string) error {
	m.updated = append(m.updated, dir)
	return nil
}

func (m *mockSvn) Patch(_ context.Context, dir, _ string, _ int) error {
	m.patched = append(m.patched, dir)
	return m.patchErr[dir]
}

func (m *mockSvn) Add(_ context.Context, dir string, paths []string) error {
	m.adds[dir] = append(m.adds[dir], paths...)
	return nil
}

func (m *mockSvn) Remove(_ context.Context, dir string, paths []string) error {
	m.removes[dir] = append(m.removes[dir], paths...)
	return nil
}

func (m *mockSvn) Commit(_ context.Context, _ string, message string) (int64, error) {
	if m.commitErr != nil {
		return 0, m.commitErr
	}
	m.commits = append(m.commits, message)
	return m.commitRev, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func acceptAll([]string) (bool, error) {
	return true, nil
}
