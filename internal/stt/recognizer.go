package stt

import (
	"context"
	"errors"

	"github.com/hugline/grandpas-hug/internal/audio"
)

// ErrNotUnderstood reports that the provider heard the clip but could not
// produce a confident transcript. It is a soft signal, not an outage.
var ErrNotUnderstood = errors.New("speech not understood")

// ErrUnavailable reports a transport or provider failure. Unlike
// ErrNotUnderstood it fails the whole turn.
var ErrUnavailable = errors.New("transcription unavailable")

// Recognizer converts a normalized waveform into text.
type Recognizer interface {
	Recognize(ctx context.Context, clip audio.Clip) (string, error)
}
