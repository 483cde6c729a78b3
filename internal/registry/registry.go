package registry

import (
	"errors"
	"sync"

	"github.com/mediagrab/mediagrab/internal/types"
)

var (
	// ErrDuplicateID is returned when creating a job whose id already exists
	ErrDuplicateID = errors.New("download id already exists")

	// ErrNotFound is returned when a job id is unknown
	ErrNotFound = errors.New("download not found")
)

// Registry is the authoritative in-memory store of all download jobs for
// the process lifetime. Records are never evicted; only the files they
// point at are swept. All mutation goes through Update so a read-modify-
// write is one atomic operation under the map lock.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*types.Job
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		jobs: make(map[string]*types.Job),
	}
}

// Create adds a new job record. Fails with ErrDuplicateID if the id is
// already present.
func (r *Registry) Create(job *types.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return ErrDuplicateID
	}
	stored := *job
	r.jobs[job.ID] = &stored
	return nil
}

// Get returns a copy of the job record, or ErrNotFound
func (r *Registry) Get(id string) (types.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, exists := r.jobs[id]
	if !exists {
		return types.Job{}, ErrNotFound
	}
	return *job, nil
}

// Update atomically applies mutate to the job record while holding the
// registry lock. Callers must not block inside mutate.
func (r *Registry) Update(id string, mutate func(*types.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, exists := r.jobs[id]
	if !exists {
		return ErrNotFound
	}
	mutate(job)
	return nil
}

// List returns a snapshot of all job records keyed by id
func (r *Registry) List() map[string]types.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]types.Job, len(r.jobs))
	for id, job := range r.jobs {
		out[id] = *job
	}
	return out
}

// ActiveCount returns the number of jobs currently downloading
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, job := range r.jobs {
		if job.Status.IsActive() {
			count++
		}
	}
	return count
}
