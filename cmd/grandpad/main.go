package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hugline/grandpas-hug/internal/audio"
	"github.com/hugline/grandpas-hug/internal/chat"
	"github.com/hugline/grandpas-hug/internal/config"
	"github.com/hugline/grandpas-hug/internal/httpapi"
	"github.com/hugline/grandpas-hug/internal/llm"
	"github.com/hugline/grandpas-hug/internal/observability"
	"github.com/hugline/grandpas-hug/internal/stt"
	"github.com/hugline/grandpas-hug/internal/transcript"
	"github.com/hugline/grandpas-hug/internal/tts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	archive, err := transcript.NewArchive(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("transcript archive init failed: %v", err)
	}
	defer archive.Close()

	generator := llm.NewGeminiClient(llm.GeminiConfig{
		APIKey:        cfg.GoogleAPIKey,
		BaseURL:       cfg.GeminiBaseURL,
		ModelOverride: cfg.GeminiModel,
		Timeout:       cfg.ProviderTimeout,
	})
	// One probe per process lifetime; a failed probe still yields a usable
	// default model.
	probeCtx, probeCancel := context.WithTimeout(ctx, cfg.ProviderTimeout)
	model, err := generator.PickModel(probeCtx)
	probeCancel()
	if err != nil {
		log.Printf("gemini model probe: %v", err)
	}
	log.Printf("using gemini model: %s", model)

	recognizer := stt.NewGoogleRecognizer(stt.GoogleConfig{
		APIKey:  cfg.GoogleAPIKey,
		BaseURL: cfg.SpeechBaseURL,
		Timeout: cfg.ProviderTimeout,
	})

	synthesizer := tts.NewElevenLabsSynthesizer(tts.ElevenLabsConfig{
		APIKey:    cfg.ElevenLabsAPIKey,
		WSBaseURL: cfg.ElevenLabsWSBaseURL,
		ModelID:   cfg.ElevenLabsTTSModel,
		Timeout:   cfg.ProviderTimeout,
	})
	speech := tts.NewFallbackSynthesizer(synthesizer, cfg.GrandpaVoiceID, cfg.ElevenLabsFallbackVoice)
	speech.SetFallbackHook(func() { metrics.VoiceFallbacks.Inc() })

	session := chat.NewSession(chat.SessionConfig{
		Transcoder:    &audio.FFmpegTranscoder{Path: cfg.FFmpegPath},
		Recognizer:    recognizer,
		Generator:     generator,
		Speech:        speech,
		Store:         chat.NewStore(),
		Archive:       archive,
		Persona:       chat.DefaultPersona(cfg.GrandpaVoiceID, cfg.ElevenLabsFallbackVoice),
		HistoryWindow: cfg.HistoryWindow,
		StageTimeout:  cfg.ProviderTimeout,
		Metrics:       metrics,
	})

	api := httpapi.New(cfg, session)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
