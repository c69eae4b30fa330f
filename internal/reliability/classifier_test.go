package reliability

import "testing"

func TestIsVoiceAccessRestricted(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    bool
	}{
		{"free tier marker", `status 401: {"detail":{"status":"free_users_not_allowed"}}`, true},
		{"creator tier marker", "You need a Creator Tier subscription to do that", true},
		{"voice usage marker", "Upgrade your plan to use this voice", true},
		{"mixed case", "FREE_USERS_NOT_ALLOWED", true},
		{"transport error", "dial tcp: connection refused", false},
		{"rate limit", "status 429: too many requests", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsVoiceAccessRestricted(tc.message); got != tc.want {
				t.Fatalf("IsVoiceAccessRestricted(%q) = %v, want %v", tc.message, got, tc.want)
			}
		})
	}
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		if !IsRetryableHTTPStatus(code) {
			t.Fatalf("IsRetryableHTTPStatus(%d) = false, want true", code)
		}
	}
	for _, code := range []int{200, 400, 401, 403, 404} {
		if IsRetryableHTTPStatus(code) {
			t.Fatalf("IsRetryableHTTPStatus(%d) = true, want false", code)
		}
	}
}
