package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hugline/grandpas-hug/internal/audio"
	"github.com/hugline/grandpas-hug/internal/chat"
	"github.com/hugline/grandpas-hug/internal/config"
	"github.com/hugline/grandpas-hug/internal/llm"
	"github.com/hugline/grandpas-hug/internal/observability"
	"github.com/hugline/grandpas-hug/internal/stt"
)

// maxUploadBytes caps a single audio upload.
const maxUploadBytes = 25 << 20

// Conversation is the turn orchestration surface the server drives.
type Conversation interface {
	RunTurn(ctx context.Context, upload []byte) (chat.TurnResult, error)
	Reset(ctx context.Context)
	History() []chat.Utterance
}

type Server struct {
	cfg     config.Config
	session Conversation
}

func New(cfg config.Config, session Conversation) *Server {
	return &Server{cfg: cfg, session: session}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(allowAllCORS)

	r.Get("/", s.handleHome)
	r.Get("/health", s.handleHealth)
	r.Post("/chat-audio", s.handleChatAudio)
	r.Post("/reset-conversation", s.handleResetConversation)
	r.Get("/conversation-history", s.handleConversationHistory)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	return r
}

// allowAllCORS mirrors the permissive policy the frontend expects: any
// origin, any method, any header.
func allowAllCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "Grandpa's Hug Backend is Running!",
		"endpoints": map[string]string{
			"/chat-audio":           "POST - Send audio file",
			"/health":               "GET - Health check",
			"/reset-conversation":   "POST - Reset chat history",
			"/conversation-history": "GET - Inspect chat history",
		},
	})
}

// handleHealth reports whether each required credential is configured. It
// deliberately does not probe the remote services.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":         "healthy",
		"google_api":     configured(s.cfg.GoogleAPIKey),
		"elevenlabs_api": configured(s.cfg.ElevenLabsAPIKey),
		"voice_id":       configured(s.cfg.GrandpaVoiceID),
	})
}

func configured(v string) string {
	if v == "" {
		return "missing"
	}
	return "configured"
}

func (s *Server) handleChatAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	upload, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", err.Error())
		return
	}

	result, err := s.session.RunTurn(r.Context(), upload)
	if err != nil {
		switch {
		case errors.Is(err, audio.ErrUnsupportedFormat):
			respondError(w, http.StatusBadRequest, "unsupported_format", err.Error())
		case errors.Is(err, stt.ErrUnavailable):
			respondError(w, http.StatusBadGateway, "transcription_unavailable", err.Error())
		case errors.Is(err, llm.ErrUnavailable):
			respondError(w, http.StatusBadGateway, "generation_unavailable", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "turn_failed", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(http.StatusOK)
	if len(result.Audio) > 0 {
		_, _ = w.Write(result.Audio)
		return
	}
	_, _ = w.Write([]byte(result.Text))
}

func (s *Server) handleResetConversation(w http.ResponseWriter, r *http.Request) {
	s.session.Reset(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "Conversation reset successfully",
	})
}

func (s *Server) handleConversationHistory(w http.ResponseWriter, _ *http.Request) {
	history := s.session.History()
	if history == nil {
		history = []chat.Utterance{}
	}
	respondJSON(w, http.StatusOK, history)
}
