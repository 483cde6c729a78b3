package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/mediagrab/mediagrab/internal/types"
)

const (
	// mp3Bitrate is the target bitrate for audio extraction
	mp3Bitrate = "192K"

	// mp4Selector picks the best stream already in, or convertible to,
	// an MP4 container.
	mp4Selector = "best[ext=mp4]/best"

	defaultProgressFreq = 500 * time.Millisecond
)

// Extensions yt-dlp leaves behind for partial or resumable downloads;
// never reported as a finished artifact.
var intermediateExtensions = []string{".part", ".ytdl"}

// YTDLP fetches and transcodes media through the yt-dlp binary
type YTDLP struct {
	downloadDir  string
	progressFreq time.Duration
}

// NewYTDLP creates a fetcher writing artifacts into downloadDir
func NewYTDLP(downloadDir string) *YTDLP {
	return &YTDLP{
		downloadDir:  downloadDir,
		progressFreq: defaultProgressFreq,
	}
}

// Fetch resolves metadata, downloads the media, and emits the event
// sequence on the returned channel. The channel is closed after the
// terminal event.
func (y *YTDLP) Fetch(ctx context.Context, url string, format types.Format, outputBase string) <-chan Event {
	events := make(chan Event, 16)
	go func() {
		defer close(events)
		y.fetch(ctx, url, format, outputBase, events)
	}()
	return events
}

func (y *YTDLP) fetch(ctx context.Context, url string, format types.Format, outputBase string, events chan<- Event) {
	meta, err := y.probe(ctx, url)
	if err != nil {
		events <- Event{Kind: EventDone, Err: fmt.Errorf("resolve metadata: %w", err)}
		return
	}
	events <- Event{Kind: EventMetadata, Metadata: meta}

	dl := y.command(format).
		Output(filepath.Join(y.downloadDir, outputBase+".%(ext)s"))

	dl.ProgressFunc(y.progressFreq, func(update ytdlp.ProgressUpdate) {
		// Unknown total size: report nothing rather than guess.
		if update.TotalBytes == 0 {
			return
		}
		percent := float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
		events <- Event{Kind: EventProgress, Percent: clampPercent(percent)}
	})

	if _, err := dl.Run(ctx, url); err != nil {
		events <- Event{Kind: EventDone, Err: fmt.Errorf("yt-dlp failed: %w", err)}
		return
	}

	filename, err := resolveOutputFile(y.downloadDir, outputBase, format)
	if err != nil {
		events <- Event{Kind: EventDone, Err: err}
		return
	}
	events <- Event{Kind: EventDone, Filename: filename}
}

// probe resolves title and duration without downloading
func (y *YTDLP) probe(ctx context.Context, url string) (Metadata, error) {
	result, err := ytdlp.New().
		SkipDownload().
		NoPlaylist().
		Run(ctx, url)
	if err != nil {
		return Metadata{}, err
	}

	info, err := result.GetExtractedInfo()
	if err != nil {
		return Metadata{}, fmt.Errorf("parse extracted info: %w", err)
	}
	if len(info) == 0 {
		return Metadata{}, fmt.Errorf("no media found at %s", url)
	}

	var meta Metadata
	if info[0].Title != nil {
		meta.Title = *info[0].Title
	}
	if info[0].Duration != nil {
		meta.Duration = int(*info[0].Duration)
	}
	return meta, nil
}

// command builds the per-format yt-dlp invocation
func (y *YTDLP) command(format types.Format) *ytdlp.Command {
	dl := ytdlp.New().
		NoPlaylist().
		RestrictFilenames().
		ForceOverwrites()

	switch format {
	case types.FormatMP3:
		return dl.ExtractAudio().AudioFormat("mp3").AudioQuality(mp3Bitrate)
	default:
		return dl.Format(mp4Selector)
	}
}

// resolveOutputFile locates the artifact yt-dlp produced for outputBase.
// Post-processing can change the extension, so the expected one is checked
// first and the directory scanned as a fallback.
func resolveOutputFile(dir, outputBase string, format types.Format) (string, error) {
	expected := outputBase + "." + format.String()
	if _, err := os.Stat(filepath.Join(dir, expected)); err == nil {
		return expected, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read download dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, outputBase+".") || isIntermediate(name) {
			continue
		}
		return name, nil
	}
	return "", fmt.Errorf("no output file produced for %s", outputBase)
}

func isIntermediate(name string) bool {
	for _, ext := range intermediateExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
