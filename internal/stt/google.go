package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hugline/grandpas-hug/internal/audio"
)

// GoogleRecognizer calls the Google Cloud Speech recognize endpoint with a
// single LINEAR16 clip per request.
type GoogleRecognizer struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

type GoogleConfig struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

func NewGoogleRecognizer(cfg GoogleConfig) *GoogleRecognizer {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://speech.googleapis.com"
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = "en-US"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &GoogleRecognizer{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		language:   cfg.Language,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	LanguageCode    string `json:"languageCode"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (r *GoogleRecognizer) Recognize(ctx context.Context, clip audio.Clip) (string, error) {
	reqBody := recognizeRequest{
		Config: recognizeConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: clip.SampleRate,
			LanguageCode:    r.language,
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(clip.PCM)},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrUnavailable, err)
	}

	url := r.baseURL + "/v1/speech:recognize?key=" + r.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: provider error %d: %s", ErrUnavailable, parsed.Error.Code, parsed.Error.Message)
	}

	// No results means the recognizer heard nothing intelligible; that is
	// the soft NotUnderstood signal, not an outage.
	for _, result := range parsed.Results {
		for _, alt := range result.Alternatives {
			if text := strings.TrimSpace(alt.Transcript); text != "" {
				return text, nil
			}
		}
	}
	return "", ErrNotUnderstood
}
