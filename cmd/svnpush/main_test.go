package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"4d63.com/testcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	args := []string{"svnpush", "version"}
	exitCode, stdout, _ := testcli.Main(t, args, nil, run)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout, "svnpush dev")
	assert.Contains(t, stdout, "commit: none")
}

func TestPushMissingConfig(t *testing.T) {
	dir := testcli.MkdirTemp(t)

	args := []string{"svnpush", "push", "--config", filepath.Join(dir, "missing.yaml")}
	exitCode, _, stderr := testcli.Main(t, args, nil, run)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "failed to load config")
}

func TestPushInvalidConfig(t *testing.T) {
	dir := testcli.MkdirTemp(t)
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "svn:\n  workdir: relative/path\nsubprojects:\n  llvm: llvm/trunk\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	args := []string{"svnpush", "push", "--config", cfgPath}
	exitCode, _, stderr := testcli.Main(t, args, nil, run)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "must be an absolute path")
}

func TestCleanMissingConfig(t *testing.T) {
	dir := testcli.MkdirTemp(t)

	args := []string{"svnpush", "clean", "--config", filepath.Join(dir, "missing.yaml")}
	exitCode, _, stderr := testcli.Main(t, args, nil, run)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr, "failed to load config")
}

func TestHelpListsCommands(t *testing.T) {
	args := []string{"svnpush", "--help"}
	exitCode, stdout, _ := testcli.Main(t, args, nil, run)
	assert.Equal(t, 0, exitCode)
	for _, cmd := range []string{"push", "clean", "version"} {
		assert.Contains(t, stdout, cmd)
	}
}

func TestTerminalConfirm(t *testing.T) {
	var out strings.Builder

	confirm := terminalConfirm(strings.NewReader("y\n"), &out, false)
	ok, err := confirm([]string{"junk.txt", "stray"})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "junk.txt")
	assert.Contains(t, out.String(), "stray")

	confirm = terminalConfirm(strings.NewReader("n\n"), &out, false)
	ok, err = confirm([]string{"junk.txt"})
	assert.NoError(t, err)
	assert.False(t, ok)

	// Empty answer defaults to no.
	confirm = terminalConfirm(strings.NewReader("\n"), &out, false)
	ok, err = confirm([]string{"junk.txt"})
	assert.NoError(t, err)
	assert.False(t, ok)

	// --force answers yes without reading input.
	confirm = terminalConfirm(strings.NewReader(""), &out, true)
	ok, err = confirm([]string{"junk.txt"})
	assert.NoError(t, err)
	assert.True(t, ok)
}
