package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"yt-scribe/errors"
	"yt-scribe/models"
	"yt-scribe/repository"
)

const (
	insertStmt = `
		INSERT INTO transcripts (id, video_id, full_text, segments, summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	findStmt          = `SELECT id, video_id, full_text, segments, summary, created_at, updated_at FROM transcripts WHERE id = ?`
	findByVideoIDStmt = `SELECT id, video_id, full_text, segments, summary, created_at, updated_at FROM transcripts WHERE video_id = ?`
	attachSummaryStmt = `UPDATE transcripts SET summary = ?, updated_at = ? WHERE video_id = ?`
)

type Repository struct {
	db *sql.DB
}

var _ repository.TranscriptRepository = (*Repository)(nil)

func NewRepository(db *sql.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func (r *Repository) Create(ctx context.Context, transcript *models.Transcript) error {
	const op = "SQLiteRepository.Create"

	segments, err := json.Marshal(transcript.Segments)
	if err != nil {
		return errors.Internal(op, err, "Failed to encode segments")
	}

	for i := 0; i < 3; i++ { // Simple retry logic for lock contention
		_, err = r.db.ExecContext(ctx, insertStmt,
			transcript.ID,
			transcript.VideoID,
			transcript.FullText,
			string(segments),
			transcript.Summary,
			transcript.CreatedAt,
			transcript.UpdatedAt,
		)
		if err == nil {
			return nil
		}
		if isConflictError(err) {
			return errors.Conflict(op, err, "Transcript already exists for video")
		}
		if !isLockError(err) {
			return errors.Internal(op, err, "Failed to save transcript")
		}
		if werr := sleepContext(ctx, time.Second*time.Duration(i+1)); werr != nil {
			return errors.Internal(op, werr, "Cancelled while waiting to retry")
		}
	}
	return errors.Internal(op, err, "Failed after retries")
}

// sleepContext waits for the duration or until the context is done,
// whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Repository) Find(ctx context.Context, id string) (*models.Transcript, error) {
	const op = "SQLiteRepository.Find"
	return r.scanOne(ctx, op, findStmt, id)
}

func (r *Repository) FindByVideoID(ctx context.Context, videoID string) (*models.Transcript, error) {
	const op = "SQLiteRepository.FindByVideoID"
	return r.scanOne(ctx, op, findByVideoIDStmt, videoID)
}

func (r *Repository) AttachSummary(ctx context.Context, videoID string, summary string) error {
	const op = "SQLiteRepository.AttachSummary"

	result, err := r.db.ExecContext(ctx, attachSummaryStmt, summary, time.Now(), videoID)
	if err != nil {
		return errors.Internal(op, err, "Failed to attach summary")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Internal(op, err, "Failed to check update result")
	}
	if rows == 0 {
		return errors.NotFound(op, nil, "Transcript not found")
	}

	return nil
}

func (r *Repository) scanOne(ctx context.Context, op, query, key string) (*models.Transcript, error) {
	transcript := &models.Transcript{}
	var segments string
	var summary sql.NullString

	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&transcript.ID,
		&transcript.VideoID,
		&transcript.FullText,
		&segments,
		&summary,
		&transcript.CreatedAt,
		&transcript.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Transcript not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query transcript")
	}

	if err := json.Unmarshal([]byte(segments), &transcript.Segments); err != nil {
		return nil, errors.Internal(op, err, "Failed to decode segments")
	}
	transcript.Summary = summary.String

	return transcript, nil
}

func isConflictError(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isLockError(err error) bool {
	return strings.Contains(err.Error(), "database is locked") ||
		strings.Contains(err.Error(), "busy")
}
