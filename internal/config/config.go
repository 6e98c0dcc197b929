package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort               = "8080"
	defaultUploadsDir         = "./uploads"
	defaultMaxAudioFileSizeMB = "50"
	defaultChunkThresholdMin  = "20"
	defaultFFmpegPath         = "ffmpeg"
	defaultTranscribeModel    = "openai/whisper-large-v3"
)

// defaultTogetherModels is the fixed set of model identifiers served by the
// Together speech endpoint. Every identifier outside this set is routed to
// the OpenAI transcription endpoint.
var defaultTogetherModels = []string{
	"openai/whisper-large-v3",
	"openai/whisper-large-v2",
	"distil-whisper/distil-large-v3",
}

type Config struct {
	Port        string
	DatabaseURL string

	UploadsDir         string
	MaxAudioFileSizeMB int

	FFmpegPath     string
	ChunkThreshold time.Duration

	DefaultTranscribeModel string
	TogetherModels         []string
	TogetherAPIKey         string
	OpenAIAPIKey           string
}

// MaxAudioFileBytes returns the upload size ceiling in bytes.
func (c *Config) MaxAudioFileBytes() int64 {
	return int64(c.MaxAudioFileSizeMB) * 1024 * 1024
}

func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.UploadsDir = strings.TrimSpace(getEnv("UPLOADS_DIR", defaultUploadsDir))

	var err error
	cfg.MaxAudioFileSizeMB, err = parseIntEnv("MAX_AUDIO_FILE_SIZE_MB", defaultMaxAudioFileSizeMB)
	if err != nil {
		return nil, err
	}

	thresholdMin, err := parseIntEnv("AUDIO_CHUNK_THRESHOLD_MIN", defaultChunkThresholdMin)
	if err != nil {
		return nil, err
	}
	cfg.ChunkThreshold = time.Duration(thresholdMin) * time.Minute

	cfg.FFmpegPath = strings.TrimSpace(getEnv("FFMPEG_PATH", defaultFFmpegPath))

	cfg.DefaultTranscribeModel = strings.TrimSpace(getEnv("TRANSCRIBE_DEFAULT_MODEL", defaultTranscribeModel))
	cfg.TogetherModels = parseListEnv("TOGETHER_TRANSCRIBE_MODELS", defaultTogetherModels)

	cfg.TogetherAPIKey = strings.TrimSpace(os.Getenv("TOGETHERAI_API_KEY"))
	// The transcription-specific key takes precedence over the shared one.
	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY_TRANSCRIBE"))
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.MaxAudioFileSizeMB <= 0 {
		return fmt.Errorf("MAX_AUDIO_FILE_SIZE_MB must be > 0")
	}
	if cfg.ChunkThreshold <= 0 {
		return fmt.Errorf("AUDIO_CHUNK_THRESHOLD_MIN must be > 0")
	}
	if cfg.UploadsDir == "" {
		return fmt.Errorf("UPLOADS_DIR must not be empty")
	}
	if cfg.DefaultTranscribeModel == "" {
		return fmt.Errorf("TRANSCRIBE_DEFAULT_MODEL must not be empty")
	}
	return nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseListEnv(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
