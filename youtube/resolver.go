// Package youtube resolves arbitrary video references (share links, embed
// links, bare IDs) to the canonical 11-character video identifier.
package youtube

import (
	"regexp"
	"strings"

	"yt-scribe/errors"
)

var (
	videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

	// URL forms, checked in order. Trailing query params and fragments
	// are tolerated by anchoring only the captured ID.
	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:m\.)?youtube\.com/watch\?(?:[^&]*&)*v=([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/(?:embed|v)/([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/live/([a-zA-Z0-9_-]{11})`),
	}
)

// Resolve extracts the canonical video ID from a reference string. It never
// panics on malformed input; unresolvable references yield an
// InvalidReference error.
func Resolve(ref string) (string, error) {
	const op = "youtube.Resolve"

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.InvalidReference(op, nil, "Video reference is required")
	}

	if videoIDPattern.MatchString(ref) {
		return ref, nil
	}

	for _, pattern := range urlPatterns {
		if matches := pattern.FindStringSubmatch(ref); len(matches) > 1 {
			return matches[1], nil
		}
	}

	return "", errors.InvalidReference(op, nil, "Could not resolve a video ID from the reference")
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
