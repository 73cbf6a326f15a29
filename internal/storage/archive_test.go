package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videogen/internal/domain"
)

func TestSaveArtifactAppendsHistory(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	k1, err := a.SaveArtifact(ctx, domain.GeneratedCodeArtifact{JobID: "job-1", Code: "return A;"})
	require.NoError(t, err)
	k2, err := a.SaveArtifact(ctx, domain.GeneratedCodeArtifact{JobID: "job-1", Code: "return B;", UsedFallback: true})
	require.NoError(t, err)
	assert.Equal(t, "jobs/job-1/0001-llm.js", k1)
	assert.Equal(t, "jobs/job-1/0002-fallback.js", k2)

	entries, err := a.History(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Key: k1, Seq: 1},
		{Key: k2, Seq: 2, UsedFallback: true},
	}, entries)

	data, err := a.Read(ctx, k2)
	require.NoError(t, err)
	assert.Equal(t, "return B;", string(data))
}

func TestSaveArtifactConcurrentWritesGetDistinctKeys(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	const n = 8
	keys := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k, err := a.SaveArtifact(context.Background(), domain.GeneratedCodeArtifact{JobID: "job-2", Code: "x"})
			assert.NoError(t, err)
			keys[i] = k
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
	entries, err := a.History(context.Background(), "job-2")
	require.NoError(t, err)
	assert.Len(t, entries, n)
}

func TestSaveArtifactRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	a, err := NewArchive(root)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "jobs", "job-3"), 0o755))
	require.NoError(t, a.create("jobs/job-3/0001-llm.js", []byte("a")))

	err = a.create("jobs/job-3/0001-llm.js", []byte("b"))
	assert.True(t, errors.Is(err, ErrExists))
}

func TestArchiveRejectsBadInput(t *testing.T) {
	a, err := NewArchive(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"", "../escape", `a\b`} {
		_, err := a.SaveArtifact(ctx, domain.GeneratedCodeArtifact{JobID: id, Code: "x"})
		assert.Error(t, err, "job id %q", id)
	}
	_, err = a.Read(ctx, "../../etc/passwd")
	assert.Error(t, err)
	_, err = a.Read(ctx, "jobs/none/0001-llm.js")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entries, err := a.History(ctx, "never-written")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = NewArchive("  ")
	assert.Error(t, err)
}

func TestSanitizeKey(t *testing.T) {
	tests := map[string]string{
		"jobs/a/1.js":    "jobs/a/1.js",
		"./jobs//a/1.js": "jobs/a/1.js",
		"/jobs/a":        "jobs/a",
		`jobs\a\1.js`:    "jobs/a/1.js",
	}
	for in, want := range tests {
		got, err := sanitizeKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	for _, bad := range []string{"", ".", "..", "../x", "a/../../x"} {
		_, err := sanitizeKey(bad)
		assert.Error(t, err, bad)
	}
}
