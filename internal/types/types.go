package types

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

// Platform identifies the supported media sources
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
)

// platformDomains maps each platform to the host substrings accepted for it.
// Matching is a lenient lowercase substring check, not a parsed-host check.
var platformDomains = map[Platform][]string{
	PlatformYouTube:   {"youtube.com", "youtu.be"},
	PlatformFacebook:  {"facebook.com", "fb.com", "fb.watch"},
	PlatformInstagram: {"instagram.com"},
}

// ParsePlatform validates a platform path parameter
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := platformDomains[p]; !ok {
		return "", fmt.Errorf("unsupported platform: %s", s)
	}
	return p, nil
}

// String returns the string representation of Platform
func (p Platform) String() string {
	return string(p)
}

// MatchesURL reports whether the URL belongs to the platform's domain set
func (p Platform) MatchesURL(url string) bool {
	lower := strings.ToLower(url)
	for _, domain := range platformDomains[p] {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

// Format is the requested output encoding
type Format string

const (
	FormatMP3 Format = "mp3"
	FormatMP4 Format = "mp4"
)

// ParseFormat validates a requested format, defaulting to mp4 when empty
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatMP4, nil
	case FormatMP3, FormatMP4:
		return f, nil
	default:
		return "", fmt.Errorf("format must be mp3 or mp4")
	}
}

// String returns the string representation of Format
func (f Format) String() string {
	return string(f)
}

// Status is the lifecycle state of a download job
type Status string

const (
	StatusInitiated   Status = "initiated"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true once a job can no longer change state
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// IsActive returns true while the download is in progress
func (s Status) IsActive() bool {
	return s == StatusDownloading
}

// Job is the record tracked for one download request
type Job struct {
	ID        string    `json:"download_id"`
	Platform  Platform  `json:"platform"`
	URL       string    `json:"url"`
	Format    Format    `json:"format"`
	Status    Status    `json:"status"`
	Progress  float64   `json:"progress"`
	Title     string    `json:"title,omitempty"`
	Duration  int       `json:"duration,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewJob creates a job record in the initiated state
func NewJob(platform Platform, url string, format Format) *Job {
	now := time.Now()
	return &Job{
		ID:        DownloadID(url, format, now),
		Platform:  platform,
		URL:       url,
		Format:    format,
		Status:    StatusInitiated,
		CreatedAt: now,
	}
}

// DownloadID derives the job identifier from the request and its creation
// instant. The nanosecond salt makes collisions require two identical
// requests in the same nanosecond; the registry still rejects duplicates.
func DownloadID(url string, format Format, now time.Time) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s_%d", url, format, now.UnixNano())))
	return fmt.Sprintf("%x", sum)
}
