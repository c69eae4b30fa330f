package tts

import "context"

// MockSynthesizer records calls and returns per-voice canned results.
type MockSynthesizer struct {
	Audio []byte
	// ErrByVoice overrides the result for specific voice ids.
	ErrByVoice map[string]error
	Err        error

	Calls  int
	Voices []string
	Texts  []string
}

func (m *MockSynthesizer) Synthesize(_ context.Context, text, voiceID string) ([]byte, error) {
	m.Calls++
	m.Voices = append(m.Voices, voiceID)
	m.Texts = append(m.Texts, text)
	if err, ok := m.ErrByVoice[voiceID]; ok && err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Audio, nil
}
