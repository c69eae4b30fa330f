package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the voice relay service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	ProviderTimeout  time.Duration
	MetricsNamespace string

	GoogleAPIKey  string
	SpeechBaseURL string
	GeminiBaseURL string
	GeminiModel   string

	ElevenLabsAPIKey        string
	ElevenLabsWSBaseURL     string
	ElevenLabsTTSModel      string
	GrandpaVoiceID          string
	ElevenLabsFallbackVoice string

	FFmpegPath    string
	HistoryWindow int
	DatabaseURL   string
}

// Load reads environment variables and applies safe defaults.
// Missing provider credentials are a load error: the service cannot
// complete a single turn without them.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8000"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "grandpashug"),
		SpeechBaseURL:    envOrDefault("SPEECH_BASE_URL", "https://speech.googleapis.com"),
		GeminiBaseURL:    envOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:      envTrimmed("GEMINI_MODEL"),

		ElevenLabsWSBaseURL: envOrDefault("ELEVENLABS_WS_BASE_URL", "wss://api.elevenlabs.io"),
		ElevenLabsTTSModel:  envOrDefault("ELEVENLABS_TTS_MODEL_ID", "eleven_multilingual_v2"),
		// Premade free-tier voice so the fallback never hits a licensing wall.
		ElevenLabsFallbackVoice: envOrDefault("ELEVENLABS_FALLBACK_VOICE_ID", "EXAVITQu4vr4xnSDxMaL"),

		GoogleAPIKey:     envTrimmed("GOOGLE_API_KEY"),
		ElevenLabsAPIKey: envTrimmed("ELEVENLABS_API_KEY"),
		GrandpaVoiceID:   envTrimmed("GRANDPA_VOICE_ID"),

		FFmpegPath:      envOrDefault("FFMPEG_PATH", "ffmpeg"),
		DatabaseURL:     envTrimmed("DATABASE_URL"),
		HistoryWindow:   5,
		ShutdownTimeout: 15 * time.Second,
		ProviderTimeout: 30 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ProviderTimeout, err = durationFromEnv("APP_PROVIDER_TIMEOUT", cfg.ProviderTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryWindow, err = intFromEnv("APP_HISTORY_WINDOW", cfg.HistoryWindow)
	if err != nil {
		return Config{}, err
	}

	if cfg.GoogleAPIKey == "" {
		return Config{}, fmt.Errorf("GOOGLE_API_KEY is required")
	}
	if cfg.ElevenLabsAPIKey == "" {
		return Config{}, fmt.Errorf("ELEVENLABS_API_KEY is required")
	}
	if cfg.GrandpaVoiceID == "" {
		return Config{}, fmt.Errorf("GRANDPA_VOICE_ID is required")
	}
	if cfg.HistoryWindow < 1 {
		return Config{}, fmt.Errorf("APP_HISTORY_WINDOW must be at least 1")
	}
	if cfg.ProviderTimeout < time.Second {
		return Config{}, fmt.Errorf("APP_PROVIDER_TIMEOUT must be at least 1s")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}
