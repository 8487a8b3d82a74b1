package transcript

import (
	"context"
	"time"

	"yt-scribe/models"
)

type Service interface {
	// Acquire returns the transcript for a video reference, producing it
	// through the cheapest available tier: cache, caption scrape, or
	// audio download plus speech recognition.
	Acquire(ctx context.Context, videoRef string) (*AcquireResult, error)

	// Get retrieves a stored transcript by record ID or video ID.
	Get(ctx context.Context, idOrVideoID string) (*models.Transcript, error)

	// Summarize returns the cached summary for a transcript, generating
	// and persisting it on first request.
	Summarize(ctx context.Context, idOrVideoID string) (*SummaryResult, error)

	// Notes generates study notes for a video, acquiring its transcript
	// first when necessary. Notes are never persisted by this service.
	Notes(ctx context.Context, videoRef string) (string, error)
}

type AcquireResult struct {
	Source     models.Source
	Transcript *models.Transcript
}

type SummaryResult struct {
	VideoID string
	Source  string // "cache" or "generated"
	Summary string
}

type Config struct {
	// ScrapeTimeout bounds the caption-scrape tier.
	ScrapeTimeout time.Duration

	// TranscribeTimeout bounds the whole audio download + speech
	// recognition span.
	TranscribeTimeout time.Duration

	// LLMTimeout bounds a single summary or notes generation call.
	LLMTimeout time.Duration
}
