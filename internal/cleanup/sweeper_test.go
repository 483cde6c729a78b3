package cleanup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFileAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
	return path
}

func TestSweeper_DeletesAgedFiles(t *testing.T) {
	dir := t.TempDir()
	old := writeFileAged(t, dir, "old.mp4", 2*time.Hour)
	fresh := writeFileAged(t, dir, "fresh.mp3", 5*time.Minute)

	s := NewSweeper(dir, time.Minute, time.Hour)
	assert.Equal(t, 1, s.Sweep())

	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err), "aged file should be gone")
	_, err = os.Stat(fresh)
	assert.NoError(t, err, "fresh file should survive")
}

func TestSweeper_FreshFileSurvivesRepeatedSweeps(t *testing.T) {
	dir := t.TempDir()
	fresh := writeFileAged(t, dir, "fresh.mp4", time.Minute)

	s := NewSweeper(dir, time.Minute, time.Hour)
	for i := 0; i < 5; i++ {
		assert.Zero(t, s.Sweep())
	}

	_, err := os.Stat(fresh)
	assert.NoError(t, err)
}

func TestSweeper_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "keep")
	require.NoError(t, os.Mkdir(sub, 0755))
	stamp := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(sub, stamp, stamp))

	s := NewSweeper(dir, time.Minute, time.Hour)
	assert.Zero(t, s.Sweep())

	_, err := os.Stat(sub)
	assert.NoError(t, err)
}

func TestSweeper_MissingDirIsNotFatal(t *testing.T) {
	s := NewSweeper(filepath.Join(t.TempDir(), "nope"), time.Minute, time.Hour)
	assert.Zero(t, s.Sweep())
}

func TestSweeper_StartStop(t *testing.T) {
	dir := t.TempDir()
	writeFileAged(t, dir, "old.mp4", 2*time.Hour)

	s := NewSweeper(dir, time.Hour, time.Hour)
	s.Start() // initial pass runs synchronously
	defer s.Stop()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEnsureDirExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDirExists(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent.
	assert.NoError(t, EnsureDirExists(dir))
}
