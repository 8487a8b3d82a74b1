package repository

import (
	"context"

	"yt-scribe/models"
)

type TranscriptRepository interface {
	// Find retrieves a record by its primary ID.
	Find(ctx context.Context, id string) (*models.Transcript, error)

	// FindByVideoID retrieves a record by canonical video ID.
	FindByVideoID(ctx context.Context, videoID string) (*models.Transcript, error)

	// Create inserts a new record. It fails with a conflict error when a
	// record for the same video ID already exists.
	Create(ctx context.Context, transcript *models.Transcript) error

	// AttachSummary updates only the summary field of an existing record.
	AttachSummary(ctx context.Context, videoID string, summary string) error
}
