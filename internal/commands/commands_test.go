package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)

// execute runs the CLI in-process against a fresh command tree.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCommand(&rootOptions{now: func() time.Time { return fixedNow }})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--user", "tester"))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// initBooks creates books without git in a temp directory.
func initBooks(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, _, err := execute(t, "init", dir, "--name", "Test AB", "--no-git")
	require.NoError(t, err)
	return dir
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}
