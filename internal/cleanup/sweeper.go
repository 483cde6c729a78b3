package cleanup

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// Sweeper deletes aged files from the download directory. It is pure
// filesystem janitorial work: it knows nothing about job state, so a job
// slow enough to outlive the age threshold can have its output swept
// mid-write. Accepted tradeoff given the short expected job duration.
type Sweeper struct {
	dir      string
	interval time.Duration
	maxAge   time.Duration
	stopChan chan struct{}
}

// NewSweeper creates a sweeper for dir, deleting files older than maxAge
// on every interval tick.
func NewSweeper(dir string, interval, maxAge time.Duration) *Sweeper {
	return &Sweeper{
		dir:      dir,
		interval: interval,
		maxAge:   maxAge,
		stopChan: make(chan struct{}),
	}
}

// Start runs an initial sweep and then sweeps on every tick until Stop.
// Errors never terminate the loop.
func (s *Sweeper) Start() {
	s.Sweep()

	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	log.Printf("Retention sweeper started (interval: %s, max age: %s)", s.interval, s.maxAge)
}

// Stop terminates the sweep loop
func (s *Sweeper) Stop() {
	close(s.stopChan)
	log.Println("Retention sweeper stopped")
}

// Sweep removes regular files older than maxAge from the download
// directory and returns how many were deleted. Per-file failures are
// logged and skipped.
func (s *Sweeper) Sweep() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Printf("Sweep: read %s: %v", s.dir, err)
		return 0
	}

	now := time.Now()
	deleted := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		age := now.Sub(info.ModTime())
		if age <= s.maxAge {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("Sweep: delete %s: %v", path, err)
			continue
		}
		deleted++
		log.Printf("Sweep: deleted %s (age: %s)", entry.Name(), age.Round(time.Minute))
	}

	return deleted
}

// EnsureDirExists creates the directory if it does not exist
func EnsureDirExists(dir string) error {
	return os.MkdirAll(dir, 0755)
}
