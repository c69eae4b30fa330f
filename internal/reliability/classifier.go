package reliability

import "strings"

// Markers ElevenLabs puts in voice entitlement rejections. Matching on
// message text is brittle, so it lives here and nowhere else.
var voiceAccessMarkers = []string{
	"free_users_not_allowed",
	"creator tier",
	"to use this voice",
}

// IsVoiceAccessRestricted reports whether a synthesis provider message
// describes a voice licensing/tier rejection rather than a transport or
// input failure. Only this class of error is eligible for voice fallback.
func IsVoiceAccessRestricted(message string) bool {
	m := strings.ToLower(message)
	for _, marker := range voiceAccessMarkers {
		if strings.Contains(m, marker) {
			return true
		}
	}
	return false
}

// IsRetryableHTTPStatus classifies provider HTTP status codes that signal a
// transient condition. The relay never retries these within a turn; callers
// use the classification for logging and metrics labels.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
