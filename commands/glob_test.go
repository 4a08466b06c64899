package commands_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batonkit/baton"
	"github.com/batonkit/baton/commands"
)

// writeFiles creates empty files under dir, making parent directories as
// needed. Paths use forward slashes.
func writeFiles(t *testing.T, dir string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(dir, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
}

func invokeGlob(t *testing.T, in commands.GlobInput) (commands.GlobOutput, error) {
	t.Helper()
	r := newRegistry(t, commands.Glob())

	args, err := json.Marshal(in)
	require.NoError(t, err)

	raw, err := r.Invoke(context.Background(), "glob", args)
	if err != nil {
		return commands.GlobOutput{}, err
	}
	var out commands.GlobOutput
	require.NoError(t, json.Unmarshal(raw, &out))
	return out, nil
}

func TestGlob(t *testing.T) {
	t.Parallel()

	t.Run("matches files in a directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFiles(t, dir, "a.go", "b.go", "c.txt")

		out, err := invokeGlob(t, commands.GlobInput{Pattern: "*.go", Path: dir})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a.go", "b.go"}, out.Matches)
		assert.False(t, out.Truncated)
	})

	t.Run("recursive doublestar", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFiles(t, dir, "top.go", "sub/nested.go", "sub/deep/deeper.go", "sub/readme.md")

		out, err := invokeGlob(t, commands.GlobInput{Pattern: "**/*.go", Path: dir})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			"top.go",
			filepath.Join("sub", "nested.go"),
			filepath.Join("sub", "deep", "deeper.go"),
		}, out.Matches)
	})

	t.Run("directories are not matches", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "skip.go"), 0o755))
		writeFiles(t, dir, "keep.go")

		out, err := invokeGlob(t, commands.GlobInput{Pattern: "*.go", Path: dir})
		require.NoError(t, err)
		assert.Equal(t, []string{"keep.go"}, out.Matches)
	})

	t.Run("no matches yields empty array not null", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFiles(t, dir, "c.txt")

		r := newRegistry(t, commands.Glob())
		args, err := json.Marshal(commands.GlobInput{Pattern: "*.go", Path: dir})
		require.NoError(t, err)

		raw, err := r.Invoke(context.Background(), "glob", args)
		require.NoError(t, err)
		assert.JSONEq(t, `{"matches":[]}`, string(raw))
	})

	t.Run("results are capped", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		for i := 0; i < 510; i++ {
			writeFiles(t, dir, fmt.Sprintf("f%03d.go", i))
		}

		out, err := invokeGlob(t, commands.GlobInput{Pattern: "*.go", Path: dir})
		require.NoError(t, err)
		assert.Len(t, out.Matches, 500)
		assert.True(t, out.Truncated)
	})

	t.Run("empty pattern", func(t *testing.T) {
		t.Parallel()
		_, err := invokeGlob(t, commands.GlobInput{Pattern: "", Path: t.TempDir()})
		require.Error(t, err)
		assert.ErrorIs(t, err, baton.ErrCommandExecution)
		assert.Contains(t, err.Error(), "pattern is required")
	})

	t.Run("malformed pattern", func(t *testing.T) {
		t.Parallel()
		_, err := invokeGlob(t, commands.GlobInput{Pattern: "[", Path: t.TempDir()})
		require.Error(t, err)
		assert.ErrorIs(t, err, baton.ErrCommandExecution)
		assert.Contains(t, err.Error(), "invalid glob pattern")
	})

	t.Run("nonexistent path", func(t *testing.T) {
		t.Parallel()
		_, err := invokeGlob(t, commands.GlobInput{
			Pattern: "*.go",
			Path:    filepath.Join(t.TempDir(), "missing"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, baton.ErrCommandExecution)
		assert.Contains(t, err.Error(), "failed to access path")
	})

	t.Run("path must be a directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFiles(t, dir, "plain.txt")

		_, err := invokeGlob(t, commands.GlobInput{
			Pattern: "*.go",
			Path:    filepath.Join(dir, "plain.txt"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, baton.ErrCommandExecution)
		assert.Contains(t, err.Error(), "must be a directory")
	})

	t.Run("missing path rejected before run", func(t *testing.T) {
		t.Parallel()
		r := newRegistry(t, commands.Glob())

		_, err := r.Invoke(context.Background(), "glob", json.RawMessage(`{"pattern":"*.go"}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, baton.ErrInvalidArguments)
	})
}
