package transcript

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"yt-scribe/audio"
	"yt-scribe/captions"
	"yt-scribe/errors"
	"yt-scribe/models"
	"yt-scribe/repository"
	"yt-scribe/speech"
	"yt-scribe/storage"
	"yt-scribe/summarize"
	"yt-scribe/youtube"
)

type service struct {
	repo        repository.TranscriptRepository
	scraper     captions.Scraper
	fetcher     audio.Fetcher
	transcriber speech.Transcriber
	generator   summarize.Generator
	archiver    storage.Archiver // optional, may be nil
	config      Config
	logger      *logrus.Logger

	// Per-video-ID locks collapse duplicate concurrent work: two
	// first-time requests for the same video serialize instead of both
	// running the expensive tiers.
	locks sync.Map
}

func NewService(
	repo repository.TranscriptRepository,
	scraper captions.Scraper,
	fetcher audio.Fetcher,
	transcriber speech.Transcriber,
	generator summarize.Generator,
	archiver storage.Archiver,
	config Config,
) Service {
	return &service{
		repo:        repo,
		scraper:     scraper,
		fetcher:     fetcher,
		transcriber: transcriber,
		generator:   generator,
		archiver:    archiver,
		config:      config,
		logger:      logrus.StandardLogger(),
	}
}

func (s *service) lockFor(videoID string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(videoID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *service) Acquire(ctx context.Context, videoRef string) (*AcquireResult, error) {
	const op = "TranscriptService.Acquire"

	videoID, err := youtube.Resolve(videoRef)
	if err != nil {
		return nil, err
	}

	logger := s.logger.WithField("video_id", videoID)

	lock := s.lockFor(videoID)
	lock.Lock()
	defer lock.Unlock()

	// Cache tier
	existing, err := s.repo.FindByVideoID(ctx, videoID)
	if err == nil {
		logger.Debug("Transcript found in store")
		return &AcquireResult{Source: models.SourceCache, Transcript: existing}, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	// Scrape tier. Failure here is an expected transition, not an error.
	source := models.SourceScrape
	segments, err := s.scrapeTier(ctx, videoID)
	if err != nil {
		logger.WithField("reason", err.Error()).Info("Captions unavailable, falling back to speech recognition")

		segments, err = s.speechTier(ctx, videoID)
		if err != nil {
			return nil, errors.AcquisitionFailed(op, err, "All acquisition tiers failed")
		}
		source = models.SourceAI
	}

	record, err := s.persist(ctx, videoID, segments)
	if err != nil {
		if errors.IsConflict(err) {
			// A concurrent writer won the race; its record is the one.
			if winner, ferr := s.repo.FindByVideoID(ctx, videoID); ferr == nil {
				return &AcquireResult{Source: models.SourceCache, Transcript: winner}, nil
			}
		}
		return nil, err
	}

	s.archive(record)

	logger.WithFields(logrus.Fields{
		"source":   source,
		"segments": len(record.Segments),
	}).Info("Transcript acquired")

	return &AcquireResult{Source: source, Transcript: record}, nil
}

func (s *service) scrapeTier(ctx context.Context, videoID string) ([]models.Segment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.ScrapeTimeout)
	defer cancel()

	return s.scraper.Fetch(ctx, videoID)
}

func (s *service) speechTier(ctx context.Context, videoID string) ([]models.Segment, error) {
	const op = "TranscriptService.speechTier"

	ctx, cancel := context.WithTimeout(ctx, s.config.TranscribeTimeout)
	defer cancel()

	var segments []models.Segment
	err := s.fetcher.WithAudio(ctx, videoID, func(path string) error {
		file, err := os.Open(path)
		if err != nil {
			return errors.TranscriptionFailed(op, err, "Failed to open downloaded audio")
		}
		defer file.Close()

		result, err := s.transcriber.Transcribe(ctx, file)
		if err != nil {
			return err
		}

		segments = speech.Normalize(result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return segments, nil
}

func (s *service) persist(ctx context.Context, videoID string, segments []models.Segment) (*models.Transcript, error) {
	now := time.Now()
	record := &models.Transcript{
		ID:        uuid.New().String(),
		VideoID:   videoID,
		FullText:  models.JoinSegments(segments),
		Segments:  segments,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// archive uploads the record to the configured object store. Best-effort:
// failures are logged and never surfaced.
func (s *service) archive(record *models.Transcript) {
	if s.archiver == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.archiver.SaveTranscript(ctx, record); err != nil {
		s.logger.WithError(err).WithField("video_id", record.VideoID).Warn("Failed to archive transcript")
	}
}

func (s *service) Get(ctx context.Context, idOrVideoID string) (*models.Transcript, error) {
	const op = "TranscriptService.Get"

	if idOrVideoID == "" {
		return nil, errors.InvalidReference(op, nil, "ID is required")
	}

	record, err := s.repo.Find(ctx, idOrVideoID)
	if err == nil {
		return record, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	return s.repo.FindByVideoID(ctx, idOrVideoID)
}

func (s *service) Summarize(ctx context.Context, idOrVideoID string) (*SummaryResult, error) {
	record, err := s.Get(ctx, idOrVideoID)
	if err != nil {
		return nil, err
	}

	if record.HasSummary() {
		return &SummaryResult{
			VideoID: record.VideoID,
			Source:  "cache",
			Summary: record.Summary,
		}, nil
	}

	// A record with no speech gets the neutral message on every request;
	// the summary column stays reserved for actual LLM output.
	if strings.TrimSpace(record.FullText) == "" {
		return &SummaryResult{
			VideoID: record.VideoID,
			Source:  "generated",
			Summary: summarize.NoSpeechMessage,
		}, nil
	}

	llmCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()

	summary, err := s.generator.Summary(llmCtx, record.FullText)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AttachSummary(ctx, record.VideoID, summary); err != nil {
		return nil, err
	}

	return &SummaryResult{
		VideoID: record.VideoID,
		Source:  "generated",
		Summary: summary,
	}, nil
}

func (s *service) Notes(ctx context.Context, videoRef string) (string, error) {
	result, err := s.Acquire(ctx, videoRef)
	if err != nil {
		return "", err
	}

	llmCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()

	return s.generator.Notes(llmCtx, result.Transcript.FullText)
}
