package tts

import (
	"context"
	"log"
	"strings"
)

// FallbackSynthesizer attempts the persona's primary voice and, only when
// the provider rejects that voice for entitlement reasons, retries exactly
// once with a safe fallback voice. Transport and input errors never
// trigger the retry.
type FallbackSynthesizer struct {
	inner           Synthesizer
	primaryVoiceID  string
	fallbackVoiceID string
	onFallback      func()
}

func NewFallbackSynthesizer(inner Synthesizer, primaryVoiceID, fallbackVoiceID string) *FallbackSynthesizer {
	return &FallbackSynthesizer{
		inner:           inner,
		primaryVoiceID:  strings.TrimSpace(primaryVoiceID),
		fallbackVoiceID: strings.TrimSpace(fallbackVoiceID),
	}
}

// SetFallbackHook registers a callback invoked whenever the fallback voice
// is attempted, used for metrics.
func (f *FallbackSynthesizer) SetFallbackHook(hook func()) {
	f.onFallback = hook
}

func (f *FallbackSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	audio, err := f.inner.Synthesize(ctx, text, f.primaryVoiceID)
	if err == nil {
		return audio, nil
	}
	if !IsVoiceAccessRestricted(err) {
		return nil, err
	}
	if f.fallbackVoiceID == "" || f.fallbackVoiceID == f.primaryVoiceID {
		return nil, err
	}

	log.Printf("tts: voice %s restricted, retrying with fallback voice %s: %v", f.primaryVoiceID, f.fallbackVoiceID, err)
	if f.onFallback != nil {
		f.onFallback()
	}
	return f.inner.Synthesize(ctx, text, f.fallbackVoiceID)
}
