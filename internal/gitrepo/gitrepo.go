package gitrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/fkoehler/svnpush/internal/vcs"
)

// Client provides read-only access to the source git history. The core never
// mutates source history; changesets are referenced by revision hash only.
type Client interface {
	// RevList returns the revisions in upstream..HEAD, oldest first.
	RevList(ctx context.Context, upstream string) ([]string, error)
	// ChangedFiles returns the paths touched by a revision.
	ChangedFiles(ctx context.Context, rev string) ([]string, error)
	// Diff returns the binary-safe patch for a revision restricted to the
	// given top-level directory prefix. Renames are not detected; they
	// appear as unrelated add/remove pairs.
	Diff(ctx context.Context, rev, prefix string) ([]byte, error)
	// Message returns the commit message of a revision.
	Message(ctx context.Context, rev string) (string, error)
}

// ShellClient implements Client by shelling out to the git command.
type ShellClient struct {
	runner vcs.Runner
	dir    string
}

// NewShellClient creates a git client operating on the checkout at dir.
func NewShellClient(runner vcs.Runner, dir string) *ShellClient {
	return &ShellClient{
		runner: runner,
		dir:    dir,
	}
}

// RevList returns upstream..HEAD oldest first, so replay preserves
// chronological order.
func (c *ShellClient) RevList(ctx context.Context, upstream string) ([]string, error) {
	out, err := c.runner.Run(ctx, c.dir, nil, "git", "rev-list", "--reverse", upstream+"..HEAD")
	if err != nil {
		return nil, fmt.Errorf("git rev-list failed: %w", err)
	}
	return splitLines(out), nil
}

// ChangedFiles returns the paths touched by rev.
func (c *ShellClient) ChangedFiles(ctx context.Context, rev string) ([]string, error) {
	out, err := c.runner.Run(ctx, c.dir, nil, "git",
		"diff-tree", "--no-commit-id", "--name-only", "--no-renames", "-r", rev)
	if err != nil {
		return nil, fmt.Errorf("git diff-tree failed: %w", err)
	}
	return splitLines(out), nil
}

// Diff returns the patch for rev restricted to prefix. The output is
// extended git format with binary payloads, and its paths carry the usual
// a/ and b/ components, so consumers must strip two leading components to
// obtain paths relative to the subproject root.
func (c *ShellClient) Diff(ctx context.Context, rev, prefix string) ([]byte, error) {
	out, err := c.runner.Run(ctx, c.dir, nil, "git",
		"diff-tree", "--no-commit-id", "--no-renames", "--binary", "-r", "-p", rev,
		"--", prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("git diff-tree failed for %s: %w", prefix, err)
	}
	return out, nil
}

// Message returns the full commit message of rev with trailing newlines
// trimmed.
func (c *ShellClient) Message(ctx context.Context, rev string) (string, error) {
	out, err := c.runner.Run(ctx, c.dir, nil, "git", "log", "-n", "1", "--format=%B", rev)
	if err != nil {
		return "", fmt.Errorf("git log failed: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func splitLines(out []byte) []string {
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
