package svnwc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fkoehler/svnpush/internal/vcs"
)

// Client provides operations against a Subversion working copy. Every call
// is scoped to a working-copy directory; state is always read fresh from svn
// and never cached, because the working copy is the single source of truth.
type Client interface {
	// Status returns the non-clean paths of the working copy at dir. An
	// empty result means the working copy is clean.
	Status(ctx context.Context, dir string) ([]StatusEntry, error)
	// RevertAll reverts all local modifications recursively. Idempotent.
	RevertAll(ctx context.Context, dir string) error
	// Update synchronizes the working copy to the latest revision.
	Update(ctx context.Context, dir string) error
	// Patch applies a patch file with the given strip depth.
	Patch(ctx context.Context, dir, patchFile string, strip int) error
	// Add schedules paths for addition, creating intermediate directories.
	Add(ctx context.Context, dir string, paths []string) error
	// Remove schedules paths for removal.
	Remove(ctx context.Context, dir string, paths []string) error
	// Commit commits the working copy at dir with the given message and
	// returns the new revision number.
	Commit(ctx context.Context, dir, message string) (int64, error)
}

// ShellClient implements Client by shelling out to the svn command.
type ShellClient struct {
	runner vcs.Runner
}

// NewShellClient creates a svn client using the given command runner.
func NewShellClient(runner vcs.Runner) *ShellClient {
	return &ShellClient{runner: runner}
}

// Status returns the typed status of the working copy at dir.
func (c *ShellClient) Status(ctx context.Context, dir string) ([]StatusEntry, error) {
	out, err := c.runner.Run(ctx, dir, nil, "svn", "status")
	if err != nil {
		return nil, fmt.Errorf("svn status failed: %w", err)
	}
	return parseStatus(out), nil
}

// RevertAll reverts all local modifications under dir.
func (c *ShellClient) RevertAll(ctx context.Context, dir string) error {
	if _, err := c.runner.Run(ctx, dir, nil, "svn", "revert", "-R", "."); err != nil {
		return fmt.Errorf("svn revert failed: %w", err)
	}
	return nil
}

// Update brings the working copy at dir to the latest revision.
func (c *ShellClient) Update(ctx context.Context, dir string) error {
	if _, err := c.runner.Run(ctx, dir, nil, "svn", "update"); err != nil {
		return fmt.Errorf("svn update failed: %w", err)
	}
	return nil
}

// Patch applies patchFile inside dir, stripping the given number of leading
// path components.
func (c *ShellClient) Patch(ctx context.Context, dir, patchFile string, strip int) error {
	_, err := c.runner.Run(ctx, dir, nil, "svn",
		"patch", "--strip", strconv.Itoa(strip), patchFile)
	if err != nil {
		return fmt.Errorf("svn patch failed: %w", err)
	}
	return nil
}

// Add schedules the given paths for addition. --parents brings new
// intermediate directories along with their files.
func (c *ShellClient) Add(ctx context.Context, dir string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--parents"}, paths...)
	if _, err := c.runner.Run(ctx, dir, nil, "svn", args...); err != nil {
		return fmt.Errorf("svn add failed: %w", err)
	}
	return nil
}

// Remove schedules the given paths for removal.
func (c *ShellClient) Remove(ctx context.Context, dir string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"remove"}, paths...)
	if _, err := c.runner.Run(ctx, dir, nil, "svn", args...); err != nil {
		return fmt.Errorf("svn remove failed: %w", err)
	}
	return nil
}

// Commit commits everything under dir with message and returns the new
// revision number parsed from svn's output.
func (c *ShellClient) Commit(ctx context.Context, dir, message string) (int64, error) {
	out, err := c.runner.Run(ctx, dir, nil, "svn", "commit", "-m", message)
	if err != nil {
		return 0, fmt.Errorf("svn commit failed: %w", err)
	}
	rev, err := parseCommittedRevision(out)
	if err != nil {
		return 0, err
	}
	return rev, nil
}
