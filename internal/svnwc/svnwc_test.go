package svnwc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and returns canned stdout.
type fakeRunner struct {
	calls [][]string
	dirs  []string
	out   []byte
	err   error
}

func (f *fakeRunner) Run(_ context.Context, dir string, _ []byte, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	f.dirs = append(f.dirs, dir)
	return f.out, f.err
}

func TestStatusInvocation(t *testing.T) {
	runner := &fakeRunner{out: []byte("?       new.c\n")}
	client := NewShellClient(runner)

	entries, err := client.Status(context.Background(), "/wc/llvm/trunk")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StateUntracked, entries[0].State)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"svn", "status"}, runner.calls[0])
	assert.Equal(t, "/wc/llvm/trunk", runner.dirs[0])
}

func TestPatchInvocation(t *testing.T) {
	runner := &fakeRunner{}
	client := NewShellClient(runner)

	require.NoError(t, client.Patch(context.Background(), "/wc/cfe/trunk", "/tmp/x.diff", 2))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"svn", "patch", "--strip", "2", "/tmp/x.diff"}, runner.calls[0])
}

func TestAddUsesParents(t *testing.T) {
	runner := &fakeRunner{}
	client := NewShellClient(runner)

	require.NoError(t, client.Add(context.Background(), "/wc", []string{"lib/x.c", "lib/y.c"}))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"svn", "add", "--parents", "lib/x.c", "lib/y.c"}, runner.calls[0])
}

func TestAddAndRemoveNoopOnEmpty(t *testing.T) {
	runner := &fakeRunner{}
	client := NewShellClient(runner)

	require.NoError(t, client.Add(context.Background(), "/wc", nil))
	require.NoError(t, client.Remove(context.Background(), "/wc", nil))
	assert.Empty(t, runner.calls)
}

func TestCommitParsesRevision(t *testing.T) {
	runner := &fakeRunner{out: []byte("Committed revision 42.\n")}
	client := NewShellClient(runner)

	rev, err := client.Commit(context.Background(), "/wc", "msg")
	require.NoError(t, err)
	assert.Equal(t, int64(42), rev)
	assert.Equal(t, []string{"svn", "commit", "-m", "msg"}, runner.calls[0])
}
