package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"yt-scribe/audio"
	"yt-scribe/captions"
	"yt-scribe/config"
	"yt-scribe/handlers"
	"yt-scribe/logger"
	"yt-scribe/middleware"
	"yt-scribe/repository/sqlite"
	"yt-scribe/services/transcript"
	"yt-scribe/speech"
	"yt-scribe/storage"
	"yt-scribe/summarize"
)

func archiveConfig(cfg config.ArchiveConfig) storage.ArchiveConfig {
	return storage.ArchiveConfig{
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Region:    cfg.Region,
		Endpoint:  cfg.Endpoint,
		Bucket:    cfg.Bucket,
	}
}

func main() {
	cfg := config.LoadConfig()

	if err := config.ValidateConfig(cfg); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	if err := logger.Init(cfg.LogDir); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logger")
	}

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close database")
		}
	}()

	repo, err := sqlite.NewRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create repository")
	}

	fetcher, err := audio.NewFetcher(audio.Config{
		YtDlpPath:  cfg.YtDlpPath,
		FFmpegPath: cfg.FFmpegPath,
		TempDir:    cfg.TempDir,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create audio fetcher")
	}

	// Archiving is optional; the service skips it when no archiver is
	// configured.
	var archiver storage.Archiver
	if cfg.Archive.Enabled() {
		s3, err := storage.NewS3Archive(archiveConfig(cfg.Archive))
		if err != nil {
			logrus.WithError(err).Fatal("Failed to create transcript archive")
		}
		archiver = s3
		logrus.WithField("bucket", cfg.Archive.Bucket).Info("Transcript archiving enabled")
	}

	service := transcript.NewService(
		repo,
		captions.NewScraper(nil),
		fetcher,
		speech.NewTranscriber(cfg.DeepgramAPIKey),
		summarize.NewService(cfg.GeminiAPIKey, cfg.GeminiModel),
		archiver,
		transcript.Config{
			ScrapeTimeout:     cfg.ScrapeTimeout,
			TranscribeTimeout: cfg.TranscribeTimeout,
			LLMTimeout:        cfg.LLMTimeout,
		},
	)

	mux := http.NewServeMux()
	handlers.NewTranscriptHandler(service).RegisterRoutes(mux)

	limiter := rate.NewLimiter(rate.Every(cfg.RateLimitInterval), cfg.RateLimit)
	handler := middleware.Chain(mux,
		middleware.Recover,
		middleware.RequestID,
		middleware.Logging,
		middleware.RateLimit(limiter),
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logrus.WithField("port", cfg.ServerPort).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logrus.Info("Shutting down the server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server shutdown failed")
	}
}
