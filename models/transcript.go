package models

import (
	"strings"
	"time"
)

// Source identifies which acquisition tier produced a transcript.
type Source string

const (
	SourceCache  Source = "cache"
	SourceScrape Source = "scrape"
	SourceAI     Source = "ai"
)

// Segment is a single time-bounded unit of transcript text. Offsets and
// durations are milliseconds.
type Segment struct {
	Text       string `json:"text"`
	OffsetMs   int64  `json:"offset_ms"`
	DurationMs int64  `json:"duration_ms"`
}

// Transcript is the persisted record for one video. Exactly one record
// exists per VideoID; segments are immutable after creation, only Summary
// is attached later.
type Transcript struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	FullText  string    `json:"full_text"`
	Segments  []Segment `json:"segments"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Transcript) HasSummary() bool {
	return strings.TrimSpace(t.Summary) != ""
}

// JoinSegments derives the full text from an ordered segment list.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// TranscriptResponse represents the API response for a transcript.
type TranscriptResponse struct {
	ID       string    `json:"id"`
	VideoID  string    `json:"video_id"`
	Source   Source    `json:"source,omitempty"`
	FullText string    `json:"full_text"`
	Segments []Segment `json:"segments"`
	Summary  string    `json:"summary,omitempty"`
}

// NewTranscriptResponse creates a response from a transcript record.
func NewTranscriptResponse(t *Transcript, source Source) *TranscriptResponse {
	return &TranscriptResponse{
		ID:       t.ID,
		VideoID:  t.VideoID,
		Source:   source,
		FullText: t.FullText,
		Segments: t.Segments,
		Summary:  t.Summary,
	}
}

// SummaryResponse represents the API response for a summary request.
type SummaryResponse struct {
	VideoID string `json:"video_id"`
	Source  string `json:"source"`
	Summary string `json:"summary"`
}

// NotesResponse represents the API response for a notes request.
type NotesResponse struct {
	VideoID string `json:"video_id"`
	Notes   string `json:"notes"`
}
