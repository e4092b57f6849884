//go:build integration

package tier1

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// shim is a fake svn binary that records every invocation. The engine only
// reads svn's stdout for status and commit, so an always-clean, always-
// successful shim lets the full pipeline run without a Subversion server.
const shimScript = `#!/bin/sh
echo "$@" >> "$SVN_SHIM_LOG"
case "$1" in
  commit) echo "Committed revision 7." ;;
esac
exit 0
`

// installShim puts a fake svn on PATH and returns the invocation log path.
func installShim(t *testing.T) string {
	t.Helper()

	binDir := t.TempDir()
	logPath := filepath.Join(binDir, "svn.log")

	shimPath := filepath.Join(binDir, "svn")
	if err := os.WriteFile(shimPath, []byte(shimScript), 0755); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("SVN_SHIM_LOG", logPath)
	return logPath
}

// shimCalls returns the recorded svn invocations, one argv line each.
func shimCalls(t *testing.T, logPath string) []string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}

// initSourceRepo creates a git monorepo with an initial commit and a "base"
// branch marking the already-ported tip.
func initSourceRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	for _, args := range [][]string{
		{"git", "init", "-b", "main", dir},
		{"git", "-C", dir, "config", "user.email", "test@test.com"},
		{"git", "-C", dir, "config", "user.name", "Test"},
	} {
		if out, err := exec.Command(args[0], args[1:]...).CombinedOutput(); err != nil {
			t.Fatalf("%v: %s", err, out)
		}
	}

	commitFiles(t, dir, map[string]string{"llvm/lib/Foo.cpp": "foo v1\n"}, "Initial commit")
	if out, err := exec.Command("git", "-C", dir, "branch", "base").CombinedOutput(); err != nil {
		t.Fatalf("%v: %s", err, out)
	}
	return dir
}

// commitFiles writes the given files and commits them as one changeset.
func commitFiles(t *testing.T, repoDir string, files map[string]string, msg string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(repoDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	for _, args := range [][]string{
		{"git", "-C", repoDir, "add", "-A"},
		{"git", "-C", repoDir, "commit", "-m", msg},
	} {
		if out, err := exec.Command(args[0], args[1:]...).CombinedOutput(); err != nil {
			t.Fatalf("%v: %s", err, out)
		}
	}
}

// makeWorkdir lays out the target working-copy root with one subtree per
// subproject.
func makeWorkdir(t *testing.T, subtrees ...string) string {
	t.Helper()
	workdir := t.TempDir()
	for _, rel := range subtrees {
		if err := os.MkdirAll(filepath.Join(workdir, rel), 0755); err != nil {
			t.Fatal(err)
		}
	}
	return workdir
}
