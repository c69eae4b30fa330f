package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ElevenLabsConfig configures the stream-input websocket synthesizer.
type ElevenLabsConfig struct {
	APIKey    string
	WSBaseURL string
	ModelID   string
	// OutputFormat must stay an mp3 variant to match MediaType.
	OutputFormat string
	Timeout      time.Duration
}

// ElevenLabsSynthesizer performs one-shot synthesis over the ElevenLabs
// text-to-speech stream-input websocket, concatenating the audio chunks
// the provider streams back.
type ElevenLabsSynthesizer struct {
	cfg ElevenLabsConfig
}

func NewElevenLabsSynthesizer(cfg ElevenLabsConfig) *ElevenLabsSynthesizer {
	if strings.TrimSpace(cfg.WSBaseURL) == "" {
		cfg.WSBaseURL = "wss://api.elevenlabs.io"
	}
	if strings.TrimSpace(cfg.ModelID) == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	if strings.TrimSpace(cfg.OutputFormat) == "" {
		cfg.OutputFormat = "mp3_44100_128"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &ElevenLabsSynthesizer{cfg: cfg}
}

func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", ErrUnavailable)
	}
	if strings.TrimSpace(voiceID) == "" {
		return nil, fmt.Errorf("%w: empty voice id", ErrUnavailable)
	}

	u, err := url.Parse(strings.TrimRight(s.cfg.WSBaseURL, "/") + "/v1/text-to-speech/" + url.PathEscape(voiceID) + "/stream-input")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	q := u.Query()
	q.Set("model_id", s.cfg.ModelID)
	q.Set("output_format", s.cfg.OutputFormat)
	u.RawQuery = q.Encode()

	headers := http.Header{}
	headers.Set("xi-api-key", s.cfg.APIKey)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), headers)
	if err != nil {
		// Entitlement rejections surface as a refused handshake; the
		// response body carries the provider's reason.
		if resp != nil && resp.Body != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
			resp.Body.Close()
			if len(body) > 0 {
				return nil, classifyProviderError(voiceID, strings.TrimSpace(string(body)))
			}
		}
		return nil, fmt.Errorf("%w: dial: %v", ErrUnavailable, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}

	// Prime the stream as documented for stream-input flows, then send the
	// whole reply and close the input side.
	messages := []map[string]any{
		{"text": " "},
		{"text": text, "try_trigger_generation": true},
		{"text": ""},
	}
	for _, msg := range messages {
		if err := conn.WriteJSON(msg); err != nil {
			return nil, fmt.Errorf("%w: send text: %v", ErrUnavailable, err)
		}
	}

	var audio []byte
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// The provider closes the socket after the final chunk; a close
			// with audio in hand is success.
			if len(audio) > 0 && websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				return audio, nil
			}
			return nil, fmt.Errorf("%w: stream read: %v", ErrUnavailable, err)
		}

		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			continue
		}
		if errMsg := asString(raw["error"]); errMsg != "" {
			return nil, classifyProviderError(voiceID, errMsg)
		}
		if chunk := asString(raw["audio"]); chunk != "" {
			decoded, err := base64.StdEncoding.DecodeString(chunk)
			if err != nil {
				return nil, fmt.Errorf("%w: decode audio chunk: %v", ErrUnavailable, err)
			}
			audio = append(audio, decoded...)
		}
		if asBool(raw["isFinal"]) || asBool(raw["is_final"]) {
			if len(audio) == 0 {
				return nil, fmt.Errorf("%w: stream finished without audio", ErrUnavailable)
			}
			return audio, nil
		}
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
