// Package audio downloads the smallest viable audio-only stream for a video
// to a scoped temporary file. The file is removed on every exit path:
// success, download failure, caller error, or panic.
package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	apperrors "yt-scribe/errors"
	"yt-scribe/youtube"
)

type Fetcher interface {
	// WithAudio downloads the audio for videoID, invokes fn with the local
	// file path, and guarantees the file is removed before returning.
	WithAudio(ctx context.Context, videoID string, fn func(path string) error) error
}

type Config struct {
	YtDlpPath  string
	FFmpegPath string
	TempDir    string
}

type YtDlpFetcher struct {
	config Config
	logger *logrus.Logger

	// run executes the download process; replaceable in tests.
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewFetcher(cfg Config) (*YtDlpFetcher, error) {
	if cfg.YtDlpPath == "" {
		return nil, errors.New("yt-dlp path is required")
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if err := os.MkdirAll(cfg.TempDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}

	return &YtDlpFetcher{
		config: cfg,
		logger: logrus.StandardLogger(),
		run:    runCommand,
	}, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

func (f *YtDlpFetcher) WithAudio(ctx context.Context, videoID string, fn func(path string) error) error {
	const op = "YtDlpFetcher.WithAudio"

	path := filepath.Join(
		f.config.TempDir,
		fmt.Sprintf("audio-%s-%d.webm", videoID, time.Now().UnixNano()),
	)

	// The single deferred remove covers every exit path, including panics
	// raised downstream by fn.
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			f.logger.WithError(err).WithField("path", path).Error("Failed to remove temp audio file")
		}
	}()

	output, err := f.run(ctx, f.config.YtDlpPath, f.downloadArgs(videoID, path)...)
	if err != nil {
		return apperrors.DownloadFailed(op, errors.Wrapf(err, "yt-dlp output: %s", output),
			"Audio download failed")
	}

	if _, err := os.Stat(path); err != nil {
		return apperrors.DownloadFailed(op, err, "Audio download produced no file")
	}

	f.logger.WithFields(logrus.Fields{
		"video_id": videoID,
		"path":     path,
	}).Debug("Audio downloaded")

	return fn(path)
}

// downloadArgs selects the lowest-bitrate audio-only stream, preferring open
// formats, with headers that reduce the chance of being blocked.
func (f *YtDlpFetcher) downloadArgs(videoID, path string) []string {
	args := []string{
		"-f", "worstaudio[ext=webm]/worstaudio/worst",
		"--no-check-certificates",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"--add-header", "User-Agent:Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"--add-header", "Accept-Language:en-US,en;q=0.9",
		"-o", path,
	}
	if f.config.FFmpegPath != "" {
		args = append(args, "--ffmpeg-location", f.config.FFmpegPath)
	}
	return append(args, youtube.WatchURL(videoID))
}
