package stt

import (
	"context"

	"github.com/hugline/grandpas-hug/internal/audio"
)

// MockRecognizer returns canned transcripts for tests and local runs
// without a Google credential.
type MockRecognizer struct {
	Text string
	Err  error

	Calls int
}

func (m *MockRecognizer) Recognize(_ context.Context, _ audio.Clip) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}
