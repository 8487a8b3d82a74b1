package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/sirupsen/logrus"
)

type Config struct {
	// Server settings. WriteTimeout must cover the slowest acquisition
	// path: audio download plus speech recognition.
	ServerPort   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Application paths
	LogDir  string
	TempDir string
	DBPath  string

	// Tier timeouts. The audio+ASR branch is inherently slower than
	// scraping captions, so it gets a multi-minute ceiling.
	ScrapeTimeout     time.Duration
	TranscribeTimeout time.Duration
	LLMTimeout        time.Duration

	// Rate limiting
	RateLimit         int
	RateLimitInterval time.Duration

	// External tools
	YtDlpPath  string
	FFmpegPath string

	// Provider credentials. Left empty they fail at point of first use,
	// not at startup.
	DeepgramAPIKey string
	GeminiAPIKey   string
	GeminiModel    string

	// Optional S3-compatible archive for acquired transcripts
	Archive ArchiveConfig
}

type ArchiveConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Enabled reports whether the archive has enough configuration to be used.
func (a ArchiveConfig) Enabled() bool {
	return a.Endpoint != "" && a.Bucket != "" && a.AccessKey != "" && a.SecretKey != ""
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:   GetEnv("SERVER_PORT", "8080"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 15*time.Minute),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),

		LogDir:  GetEnv("LOG_DIR", "./logs"),
		TempDir: GetEnv("TEMP_DIR", os.TempDir()),
		DBPath:  GetEnv("DB_PATH", "./data/transcripts.db"),

		ScrapeTimeout:     getEnvAsDuration("SCRAPE_TIMEOUT", 30*time.Second),
		TranscribeTimeout: getEnvAsDuration("TRANSCRIBE_TIMEOUT", 10*time.Minute),
		LLMTimeout:        getEnvAsDuration("LLM_TIMEOUT", 2*time.Minute),

		RateLimit:         getEnvAsInt("RATE_LIMIT", 5),
		RateLimitInterval: getEnvAsDuration("RATE_LIMIT_INTERVAL", 1*time.Second),

		YtDlpPath:  GetEnv("YTDLP_PATH", "yt-dlp"),
		FFmpegPath: GetEnv("FFMPEG_PATH", ""),

		DeepgramAPIKey: GetEnv("DEEPGRAM_API_KEY", ""),
		GeminiAPIKey:   GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:    GetEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		Archive: ArchiveConfig{
			Endpoint:  GetEnv("ARCHIVE_ENDPOINT", ""),
			Region:    GetEnv("ARCHIVE_REGION", "us-east-1"),
			Bucket:    GetEnv("ARCHIVE_BUCKET", ""),
			AccessKey: GetEnv("ARCHIVE_ACCESS_KEY", ""),
			SecretKey: GetEnv("ARCHIVE_SECRET_KEY", ""),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

// ValidateConfig checks the structural settings. Provider credentials are
// deliberately not checked here; a missing key fails at first use instead
// of preventing startup.
func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return errors.New("server port is required")
	}
	if cfg.DBPath == "" {
		return errors.New("database path is required")
	}
	if cfg.TempDir == "" {
		return errors.New("temp directory is required")
	}
	if cfg.YtDlpPath == "" {
		return errors.New("yt-dlp path is required")
	}
	if cfg.ScrapeTimeout <= 0 {
		return errors.New("scrape timeout must be greater than 0")
	}
	if cfg.TranscribeTimeout <= 0 {
		return errors.New("transcribe timeout must be greater than 0")
	}
	if cfg.LLMTimeout <= 0 {
		return errors.New("llm timeout must be greater than 0")
	}
	if cfg.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if cfg.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than 0")
	}
	if cfg.IdleTimeout <= 0 {
		return errors.New("idle timeout must be greater than 0")
	}
	return nil
}
