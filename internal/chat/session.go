package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hugline/grandpas-hug/internal/audio"
	"github.com/hugline/grandpas-hug/internal/llm"
	"github.com/hugline/grandpas-hug/internal/observability"
	"github.com/hugline/grandpas-hug/internal/stt"
	"github.com/hugline/grandpas-hug/internal/transcript"
	"github.com/hugline/grandpas-hug/internal/tts"
)

// Speech is the session-facing synthesis capability; voice selection and
// fallback policy live behind it.
type Speech interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// TurnResult is what one request/response turn hands back to the HTTP
// layer: audio when synthesis worked, the reply text otherwise.
type TurnResult struct {
	Audio       []byte
	Text        string
	ContentType string
	Outcome     string
}

// SessionConfig wires one Session.
type SessionConfig struct {
	Transcoder    audio.Transcoder
	Recognizer    stt.Recognizer
	Generator     llm.Generator
	Speech        Speech
	Store         *Store
	Archive       transcript.Archive
	Persona       Persona
	HistoryWindow int
	StageTimeout  time.Duration
	Metrics       *observability.Metrics
}

// Session orchestrates one audio-in/audio-out turn: transcode, transcribe,
// append, generate, append, synthesize. Voice is a presentation layer:
// synthesis failures degrade the response to text, only transcription and
// generation outages fail the turn.
type Session struct {
	transcoder   audio.Transcoder
	recognizer   stt.Recognizer
	generator    llm.Generator
	speech       Speech
	store        *Store
	archive      transcript.Archive
	persona      Persona
	window       int
	stageTimeout time.Duration
	metrics      *observability.Metrics
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 5
	}
	if cfg.Archive == nil {
		cfg.Archive = transcript.NewNoopArchive()
	}
	return &Session{
		transcoder:   cfg.Transcoder,
		recognizer:   cfg.Recognizer,
		generator:    cfg.Generator,
		speech:       cfg.Speech,
		store:        cfg.Store,
		archive:      cfg.Archive,
		persona:      cfg.Persona,
		window:       cfg.HistoryWindow,
		stageTimeout: cfg.StageTimeout,
		metrics:      cfg.Metrics,
	}
}

// History returns the full conversation log for the inspection endpoints.
func (s *Session) History() []Utterance {
	return s.store.All()
}

// Reset clears the conversation log and the durable archive.
func (s *Session) Reset(ctx context.Context) {
	s.store.Reset()
	s.metrics.HistoryLength.Set(0)
	if err := s.archive.Clear(ctx); err != nil {
		log.Printf("chat: clear transcript archive: %v", err)
	}
}

// RunTurn executes one full turn over the uploaded audio blob.
func (s *Session) RunTurn(ctx context.Context, upload []byte) (TurnResult, error) {
	turnID := uuid.NewString()

	clip, err := s.transcode(ctx, upload)
	if err != nil {
		s.failTurn("transcode", "ffmpeg", err)
		return TurnResult{}, err
	}

	text, err := s.transcribe(ctx, clip)
	if errors.Is(err, stt.ErrNotUnderstood) {
		// Unintelligible input never reaches the log or the generator;
		// Grandpa just asks the child to speak up.
		return s.apologize(ctx), nil
	}
	if err != nil {
		s.failTurn("transcribe", "google_speech", err)
		return TurnResult{}, err
	}
	log.Printf("chat: turn %s child said: %q", turnID, text)
	s.append(ctx, turnID, SpeakerChild, text)

	reply, err := s.generate(ctx)
	if err != nil {
		s.failTurn("generate", "gemini", err)
		return TurnResult{}, err
	}
	log.Printf("chat: turn %s grandpa says: %q", turnID, reply)
	s.append(ctx, turnID, SpeakerGrandpa, reply)

	speech, err := s.synthesize(ctx, reply)
	if err != nil {
		// Degrade to text; the reply itself succeeded.
		log.Printf("chat: turn %s synthesis failed, degrading to text: %v", turnID, err)
		s.metrics.ProviderErrors.WithLabelValues("elevenlabs", "synthesize").Inc()
		s.metrics.Turns.WithLabelValues(observability.OutcomeDegradedText).Inc()
		return TurnResult{Text: reply, ContentType: "text/plain", Outcome: observability.OutcomeDegradedText}, nil
	}

	s.metrics.Turns.WithLabelValues(observability.OutcomeAudio).Inc()
	return TurnResult{Audio: speech, ContentType: tts.MediaType, Outcome: observability.OutcomeAudio}, nil
}

// apologize synthesizes the fixed apology, degrading to plain text when
// even that synthesis fails.
func (s *Session) apologize(ctx context.Context) TurnResult {
	speech, err := s.synthesize(ctx, ApologyText)
	if err != nil {
		log.Printf("chat: apology synthesis failed, degrading to text: %v", err)
		s.metrics.ProviderErrors.WithLabelValues("elevenlabs", "synthesize").Inc()
		s.metrics.Turns.WithLabelValues(observability.OutcomeApologyText).Inc()
		return TurnResult{Text: ApologyText, ContentType: "text/plain", Outcome: observability.OutcomeApologyText}
	}
	s.metrics.Turns.WithLabelValues(observability.OutcomeApologyAudio).Inc()
	return TurnResult{Audio: speech, ContentType: tts.MediaType, Outcome: observability.OutcomeApologyAudio}
}

func (s *Session) transcode(ctx context.Context, upload []byte) (audio.Clip, error) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	defer s.metrics.ObserveStage("transcode", time.Now())
	return s.transcoder.Transcode(ctx, upload)
}

func (s *Session) transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	defer s.metrics.ObserveStage("transcribe", time.Now())
	return s.recognizer.Recognize(ctx, clip)
}

func (s *Session) generate(ctx context.Context) (string, error) {
	prompt := s.persona.BuildPrompt(s.store.Window(s.window))
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	defer s.metrics.ObserveStage("generate", time.Now())
	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply", llm.ErrUnavailable)
	}
	return reply, nil
}

func (s *Session) synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()
	defer s.metrics.ObserveStage("synthesize", time.Now())
	return s.speech.Synthesize(ctx, text)
}

func (s *Session) append(ctx context.Context, turnID string, speaker Speaker, text string) {
	u, ok := s.store.Append(speaker, text)
	if !ok {
		return
	}
	s.metrics.HistoryLength.Set(float64(s.store.Len()))
	if err := s.archive.Record(ctx, transcript.Entry{
		TurnID:    turnID,
		Speaker:   string(speaker),
		Text:      u.Text,
		CreatedAt: u.At,
	}); err != nil {
		log.Printf("chat: archive %s utterance: %v", speaker, err)
	}
}

func (s *Session) failTurn(stage, provider string, err error) {
	log.Printf("chat: %s failed (%s): %v", stage, provider, err)
	s.metrics.ProviderErrors.WithLabelValues(provider, stage).Inc()
	s.metrics.Turns.WithLabelValues(observability.OutcomeError).Inc()
}

func (s *Session) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.stageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.stageTimeout)
}
