package runner

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/mediagrab/mediagrab/internal/extract"
	"github.com/mediagrab/mediagrab/internal/registry"
	"github.com/mediagrab/mediagrab/internal/types"
)

// Runner executes download jobs. Each accepted request gets its own
// goroutine; goroutines share nothing but the registry, and a fault in one
// is recorded on its own job and never reaches another.
type Runner struct {
	registry *registry.Registry
	fetcher  extract.Fetcher
}

// New creates a runner applying fetch events to the given registry
func New(reg *registry.Registry, fetcher extract.Fetcher) *Runner {
	return &Runner{
		registry: reg,
		fetcher:  fetcher,
	}
}

// Start launches the background unit for an already-registered job and
// returns immediately.
func (r *Runner) Start(job *types.Job) {
	go r.run(job.ID, job.URL, job.Format)
}

// run drives one job from initiated through downloading to a terminal
// state. No retries: a failed job stays in error until the caller submits
// a new request.
func (r *Runner) run(id, url string, format types.Format) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Job %s: PANIC during extraction: %v\n%s", id, rec, string(debug.Stack()))
			r.fail(id, fmt.Sprintf("internal fault: %v", rec))
		}
	}()

	log.Printf("Job %s: starting extraction (%s)", id, format)

	for event := range r.fetcher.Fetch(context.Background(), url, format, id) {
		switch event.Kind {
		case extract.EventMetadata:
			r.apply(id, func(job *types.Job) {
				job.Status = types.StatusDownloading
				job.Title = event.Metadata.Title
				job.Duration = event.Metadata.Duration
			})

		case extract.EventProgress:
			r.apply(id, func(job *types.Job) {
				if job.Status == types.StatusInitiated {
					job.Status = types.StatusDownloading
				}
				// Progress never moves backwards; late or duplicate
				// updates are dropped.
				if event.Percent > job.Progress {
					job.Progress = event.Percent
				}
			})

		case extract.EventDone:
			if event.Err != nil {
				log.Printf("Job %s: extraction failed: %v", id, event.Err)
				r.fail(id, event.Err.Error())
				return
			}
			r.apply(id, func(job *types.Job) {
				job.Status = types.StatusCompleted
				job.Progress = 100
				job.Filename = event.Filename
			})
			log.Printf("Job %s: completed (%s)", id, event.Filename)
			return
		}
	}
}

// apply runs mutate against the job unless it already reached a terminal
// state. Status transitions are one-directional.
func (r *Runner) apply(id string, mutate func(*types.Job)) {
	err := r.registry.Update(id, func(job *types.Job) {
		if job.Status.IsTerminal() {
			return
		}
		mutate(job)
	})
	if err != nil {
		log.Printf("Job %s: registry update failed: %v", id, err)
	}
}

func (r *Runner) fail(id, message string) {
	r.apply(id, func(job *types.Job) {
		job.Status = types.StatusError
		job.Error = message
	})
}
