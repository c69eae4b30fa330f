package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8000" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8000")
	}
	if cfg.HistoryWindow != 5 {
		t.Fatalf("HistoryWindow = %d, want 5", cfg.HistoryWindow)
	}
	if cfg.ElevenLabsFallbackVoice != "EXAVITQu4vr4xnSDxMaL" {
		t.Fatalf("ElevenLabsFallbackVoice = %q, want default premade voice", cfg.ElevenLabsFallbackVoice)
	}
	if cfg.ElevenLabsTTSModel != "eleven_multilingual_v2" {
		t.Fatalf("ElevenLabsTTSModel = %q, want %q", cfg.ElevenLabsTTSModel, "eleven_multilingual_v2")
	}
	if cfg.ProviderTimeout != 30*time.Second {
		t.Fatalf("ProviderTimeout = %v, want 30s", cfg.ProviderTimeout)
	}
	if cfg.GeminiModel != "" {
		t.Fatalf("GeminiModel = %q, want empty default", cfg.GeminiModel)
	}
}

func TestLoadRequiresCredentials(t *testing.T) {
	cases := []string{"GOOGLE_API_KEY", "ELEVENLABS_API_KEY", "GRANDPA_VOICE_ID"}
	for _, missing := range cases {
		t.Run(missing, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(missing, "")
			if _, err := Load(); err == nil {
				t.Fatalf("Load() without %s = nil error, want failure", missing)
			}
		})
	}
}

func TestLoadRejectsBadWindow(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_HISTORY_WINDOW", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() with zero window = nil error, want failure")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PROVIDER_TIMEOUT", "5s")
	t.Setenv("APP_HISTORY_WINDOW", "8")
	t.Setenv("GEMINI_MODEL", "models/gemini-2.5-flash")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ProviderTimeout != 5*time.Second {
		t.Fatalf("ProviderTimeout = %v, want 5s", cfg.ProviderTimeout)
	}
	if cfg.HistoryWindow != 8 {
		t.Fatalf("HistoryWindow = %d, want 8", cfg.HistoryWindow)
	}
	if cfg.GeminiModel != "models/gemini-2.5-flash" {
		t.Fatalf("GeminiModel = %q, want override", cfg.GeminiModel)
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_API_KEY", "test-google-key")
	t.Setenv("ELEVENLABS_API_KEY", "test-eleven-key")
	t.Setenv("GRANDPA_VOICE_ID", "voice-primary")
	for _, key := range []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_PROVIDER_TIMEOUT",
		"APP_HISTORY_WINDOW",
		"APP_METRICS_NAMESPACE",
		"GEMINI_MODEL",
		"GEMINI_BASE_URL",
		"SPEECH_BASE_URL",
		"ELEVENLABS_WS_BASE_URL",
		"ELEVENLABS_TTS_MODEL_ID",
		"ELEVENLABS_FALLBACK_VOICE_ID",
		"FFMPEG_PATH",
		"DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}
