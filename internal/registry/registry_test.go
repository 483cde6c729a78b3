package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediagrab/mediagrab/internal/types"
)

func testJob(id string) *types.Job {
	return &types.Job{
		ID:       id,
		Platform: types.PlatformYouTube,
		URL:      "https://youtu.be/" + id,
		Format:   types.FormatMP4,
		Status:   types.StatusInitiated,
	}
}

func TestRegistry_CreateAndGet(t *testing.T) {
	reg := New()

	require.NoError(t, reg.Create(testJob("a")))

	job, err := reg.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", job.ID)
	assert.Equal(t, types.StatusInitiated, job.Status)
}

func TestRegistry_CreateDuplicate(t *testing.T) {
	reg := New()

	require.NoError(t, reg.Create(testJob("a")))
	assert.ErrorIs(t, reg.Create(testJob("a")), ErrDuplicateID)
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg := New()

	_, err := reg.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Update(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Create(testJob("a")))

	err := reg.Update("a", func(job *types.Job) {
		job.Status = types.StatusDownloading
		job.Progress = 42.5
	})
	require.NoError(t, err)

	job, err := reg.Get("a")
	require.NoError(t, err)
	assert.Equal(t, types.StatusDownloading, job.Status)
	assert.Equal(t, 42.5, job.Progress)
}

func TestRegistry_UpdateUnknown(t *testing.T) {
	reg := New()

	err := reg.Update("missing", func(job *types.Job) {
		job.Progress = 1
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

// Concurrent read-modify-write through Update must not lose increments.
func TestRegistry_UpdateIsAtomic(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Create(testJob("a")))

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_ = reg.Update("a", func(job *types.Job) {
				job.Progress++
			})
		}()
	}
	wg.Wait()

	job, err := reg.Get("a")
	require.NoError(t, err)
	assert.Equal(t, float64(writers), job.Progress)
}

func TestRegistry_GetReturnsCopy(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Create(testJob("a")))

	job, err := reg.Get("a")
	require.NoError(t, err)
	job.Status = types.StatusError

	stored, err := reg.Get("a")
	require.NoError(t, err)
	assert.Equal(t, types.StatusInitiated, stored.Status)
}

func TestRegistry_ListSnapshot(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Create(testJob("a")))
	require.NoError(t, reg.Create(testJob("b")))

	snapshot := reg.List()
	assert.Len(t, snapshot, 2)

	// Mutating the snapshot must not touch the registry.
	entry := snapshot["a"]
	entry.Status = types.StatusError
	snapshot["a"] = entry
	delete(snapshot, "b")

	stored, err := reg.Get("a")
	require.NoError(t, err)
	assert.Equal(t, types.StatusInitiated, stored.Status)
	assert.Len(t, reg.List(), 2)
}

func TestRegistry_ActiveCount(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Create(testJob("a")))
	require.NoError(t, reg.Create(testJob("b")))
	require.NoError(t, reg.Create(testJob("c")))

	assert.Equal(t, 0, reg.ActiveCount())

	require.NoError(t, reg.Update("a", func(job *types.Job) { job.Status = types.StatusDownloading }))
	require.NoError(t, reg.Update("b", func(job *types.Job) { job.Status = types.StatusCompleted }))

	assert.Equal(t, 1, reg.ActiveCount())
}
