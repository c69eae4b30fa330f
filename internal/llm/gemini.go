package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultModel is the hardcoded last resort when the model probe itself fails.
const DefaultModel = "models/gemini-2.0-flash"

// preferredModels is the probe priority order, most recent first, ending in
// the evergreen aliases.
var preferredModels = []string{
	"models/gemini-2.5-flash",
	"models/gemini-2.0-flash",
	"models/gemini-flash-latest",
	"models/gemini-pro-latest",
}

// GeminiClient talks to the Generative Language REST API.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	override   string
	model      string
	httpClient *http.Client
}

type GeminiConfig struct {
	APIKey string
	// BaseURL overrides the production endpoint, mainly for tests.
	BaseURL string
	// ModelOverride, when set, is tried first during the probe.
	ModelOverride string
	Timeout       time.Duration
}

func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &GeminiClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		override:   strings.TrimSpace(cfg.ModelOverride),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Model returns the generation model selected by PickModel, or the value
// PickModel would fall back to if it has not run.
func (c *GeminiClient) Model() string {
	if c.model != "" {
		return c.model
	}
	if c.override != "" {
		return c.override
	}
	return DefaultModel
}

type listModelsResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}

// PickModel probes the provider for generateContent-capable models and
// selects one, in priority order: the configured override, the pinned
// recent models, then the evergreen aliases. When none of the preferred
// names are available it takes any capable model; when the probe fails it
// settles on the override or the hardcoded default without validation.
// Call once at startup; the choice holds for the process lifetime.
func (c *GeminiClient) PickModel(ctx context.Context) (string, error) {
	preferred := make([]string, 0, len(preferredModels)+1)
	if c.override != "" {
		preferred = append(preferred, c.override)
	}
	preferred = append(preferred, preferredModels...)

	available, err := c.listGenerationModels(ctx)
	if err != nil {
		c.model = c.fallbackModel()
		return c.model, fmt.Errorf("model probe failed, using %s: %w", c.model, err)
	}

	for _, name := range preferred {
		if available[name] {
			c.model = name
			return c.model, nil
		}
	}
	for name := range available {
		c.model = name
		return c.model, nil
	}

	c.model = c.fallbackModel()
	return c.model, fmt.Errorf("no generateContent-capable models listed, using %s", c.model)
}

// fallbackModel is the unvalidated choice when the probe cannot decide.
func (c *GeminiClient) fallbackModel() string {
	if c.override != "" {
		return c.override
	}
	return DefaultModel
}

func (c *GeminiClient) listGenerationModels(ctx context.Context) (map[string]bool, error) {
	url := c.baseURL + "/v1beta/models?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list models: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed listModelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("list models: decode: %w", err)
	}

	available := make(map[string]bool)
	for _, m := range parsed.Models {
		for _, method := range m.SupportedGenerationMethods {
			if strings.EqualFold(method, "generateContent") {
				available[m.Name] = true
				break
			}
		}
	}
	return available, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate runs one generateContent call and returns the trimmed reply text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrUnavailable, err)
	}

	url := c.baseURL + "/v1beta/" + c.Model() + ":generateContent?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: provider error %d: %s", ErrUnavailable, parsed.Error.Code, parsed.Error.Message)
	}

	var sb strings.Builder
	for _, cand := range parsed.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		break // first candidate only
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty candidate text", ErrUnavailable)
	}
	return text, nil
}
