package extract

import (
	"context"

	"github.com/mediagrab/mediagrab/internal/types"
)

// EventKind discriminates the events a fetch emits
type EventKind int

const (
	// EventMetadata carries the resolved title and duration, emitted once
	// before any progress.
	EventMetadata EventKind = iota

	// EventProgress carries a 0-100 completion percentage
	EventProgress

	// EventDone is the terminal event: exactly one per fetch, carrying
	// either the output filename or the failure.
	EventDone
)

// Metadata is the source description resolved before downloading
type Metadata struct {
	Title    string
	Duration int
}

// Event is one element of a fetch's in-order event sequence
type Event struct {
	Kind     EventKind
	Metadata Metadata
	Percent  float64
	Filename string
	Err      error
}

// Fetcher is the extraction capability: given a URL and target format,
// produce a local file under outputBase and report progress. The returned
// channel is closed after the terminal event. Implementations know nothing
// about job records; the consumer applies events to whatever state it owns.
type Fetcher interface {
	Fetch(ctx context.Context, url string, format types.Format, outputBase string) <-chan Event
}
