package tts

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugline/grandpas-hug/internal/reliability"
)

// MediaType of all synthesized audio returned by this package.
const MediaType = "audio/mpeg"

// ErrUnavailable reports a transport or provider failure of the synthesis
// capability. The turn degrades to plain text instead of failing.
var ErrUnavailable = errors.New("synthesis unavailable")

// VoiceAccessError reports a provider-side voice entitlement rejection
// (free-tier/licensing). It is the only error class eligible for the
// fallback-voice retry.
type VoiceAccessError struct {
	VoiceID string
	Message string
}

func (e *VoiceAccessError) Error() string {
	return fmt.Sprintf("voice %s access restricted: %s", e.VoiceID, e.Message)
}

// IsVoiceAccessRestricted reports whether err is a voice entitlement rejection.
func IsVoiceAccessRestricted(err error) bool {
	var v *VoiceAccessError
	return errors.As(err, &v)
}

// Synthesizer converts text into speech audio with a given voice identity.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// classifyProviderError turns a raw provider message into either a
// VoiceAccessError or a generic unavailability error.
func classifyProviderError(voiceID, message string) error {
	if reliability.IsVoiceAccessRestricted(message) {
		return &VoiceAccessError{VoiceID: voiceID, Message: message}
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, message)
}
