package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"yt-scribe/errors"
	"yt-scribe/models"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "yt-scribe-sqlite-test-")
	if err != nil {
		fmt.Printf("Failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	testDB, err = InitDB(filepath.Join(dir, "test.db"))
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	testDB.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestTranscript(videoID string) *models.Transcript {
	segments := []models.Segment{
		{Text: "Hello world", OffsetMs: 0, DurationMs: 5000},
		{Text: "Bye", OffsetMs: 5000, DurationMs: 4000},
	}
	now := time.Now()
	return &models.Transcript{
		ID:        "rec-" + videoID,
		VideoID:   videoID,
		FullText:  models.JoinSegments(segments),
		Segments:  segments,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndFind(t *testing.T) {
	repo, err := NewRepository(testDB)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	ctx := context.Background()

	transcript := newTestTranscript("aaaaaaaaaaa")
	if err := repo.Create(ctx, transcript); err != nil {
		t.Fatalf("failed to create transcript: %v", err)
	}

	byID, err := repo.Find(ctx, transcript.ID)
	if err != nil {
		t.Fatalf("failed to find by ID: %v", err)
	}
	if byID.VideoID != transcript.VideoID {
		t.Errorf("expected video ID %q, got %q", transcript.VideoID, byID.VideoID)
	}

	byVideoID, err := repo.FindByVideoID(ctx, transcript.VideoID)
	if err != nil {
		t.Fatalf("failed to find by video ID: %v", err)
	}
	if byVideoID.FullText != "Hello world Bye" {
		t.Errorf("unexpected full text: %q", byVideoID.FullText)
	}
	if len(byVideoID.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(byVideoID.Segments))
	}

	// Ordering invariant: non-decreasing offsets
	for i := 1; i < len(byVideoID.Segments); i++ {
		if byVideoID.Segments[i].OffsetMs < byVideoID.Segments[i-1].OffsetMs {
			t.Errorf("segment %d offset %d precedes segment %d offset %d",
				i, byVideoID.Segments[i].OffsetMs, i-1, byVideoID.Segments[i-1].OffsetMs)
		}
	}
}

func TestCreateConflict(t *testing.T) {
	repo, _ := NewRepository(testDB)
	ctx := context.Background()

	first := newTestTranscript("bbbbbbbbbbb")
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("failed to create transcript: %v", err)
	}

	duplicate := newTestTranscript("bbbbbbbbbbb")
	duplicate.ID = "rec-other"
	err := repo.Create(ctx, duplicate)
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if !errors.IsConflict(err) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestFindNotFound(t *testing.T) {
	repo, _ := NewRepository(testDB)
	ctx := context.Background()

	if _, err := repo.Find(ctx, "missing"); !errors.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
	if _, err := repo.FindByVideoID(ctx, "zzzzzzzzzzz"); !errors.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestAttachSummary(t *testing.T) {
	repo, _ := NewRepository(testDB)
	ctx := context.Background()

	transcript := newTestTranscript("ccccccccccc")
	if err := repo.Create(ctx, transcript); err != nil {
		t.Fatalf("failed to create transcript: %v", err)
	}

	if err := repo.AttachSummary(ctx, transcript.VideoID, "a short digest"); err != nil {
		t.Fatalf("failed to attach summary: %v", err)
	}

	got, err := repo.FindByVideoID(ctx, transcript.VideoID)
	if err != nil {
		t.Fatalf("failed to find transcript: %v", err)
	}
	if got.Summary != "a short digest" {
		t.Errorf("expected summary to be attached, got %q", got.Summary)
	}
	if got.FullText != transcript.FullText {
		t.Error("attach summary must not modify the full text")
	}
	if len(got.Segments) != len(transcript.Segments) {
		t.Error("attach summary must not modify segments")
	}
}

func TestAttachSummaryMissingRecord(t *testing.T) {
	repo, _ := NewRepository(testDB)

	err := repo.AttachSummary(context.Background(), "yyyyyyyyyyy", "text")
	if !errors.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleepContext(ctx, 3*time.Second)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("sleepContext blocked for %v after cancellation", elapsed)
	}
}

func TestSleepContextElapses(t *testing.T) {
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
