package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func listModelsBody(names ...string) string {
	out := `{"models":[`
	for i, name := range names {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"name":%q,"supportedGenerationMethods":["generateContent"]}`, name)
	}
	return out + `]}`
}

func TestPickModelPrefersOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listModelsBody("models/custom-tuned", "models/gemini-2.5-flash")))
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL, ModelOverride: "models/custom-tuned"})
	model, err := c.PickModel(context.Background())
	if err != nil {
		t.Fatalf("PickModel() error = %v", err)
	}
	if model != "models/custom-tuned" {
		t.Fatalf("PickModel() = %q, want override", model)
	}
}

func TestPickModelWalksPriorityOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listModelsBody("models/gemini-flash-latest", "models/gemini-2.0-flash")))
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	model, err := c.PickModel(context.Background())
	if err != nil {
		t.Fatalf("PickModel() error = %v", err)
	}
	if model != "models/gemini-2.0-flash" {
		t.Fatalf("PickModel() = %q, want models/gemini-2.0-flash", model)
	}
}

func TestPickModelTakesAnyCapableModelWhenPreferredMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listModelsBody("models/gemini-exotic")))
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	model, err := c.PickModel(context.Background())
	if err != nil {
		t.Fatalf("PickModel() error = %v", err)
	}
	if model != "models/gemini-exotic" {
		t.Fatalf("PickModel() = %q, want models/gemini-exotic", model)
	}
}

func TestPickModelIgnoresModelsWithoutGenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[
			{"name":"models/gemini-2.5-flash","supportedGenerationMethods":["embedContent"]},
			{"name":"models/gemini-2.0-flash","supportedGenerationMethods":["GENERATECONTENT"]}
		]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	model, err := c.PickModel(context.Background())
	if err != nil {
		t.Fatalf("PickModel() error = %v", err)
	}
	if model != "models/gemini-2.0-flash" {
		t.Fatalf("PickModel() = %q, want models/gemini-2.0-flash", model)
	}
}

func TestPickModelProbeFailureFallsBackToDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	model, err := c.PickModel(context.Background())
	if err == nil {
		t.Fatalf("PickModel() error = nil, want probe failure notice")
	}
	if model != DefaultModel {
		t.Fatalf("PickModel() = %q, want %q", model, DefaultModel)
	}
	if c.Model() != DefaultModel {
		t.Fatalf("Model() = %q, want %q", c.Model(), DefaultModel)
	}
}

func TestPickModelProbeFailureFallsBackToOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL, ModelOverride: "models/pinned"})
	model, err := c.PickModel(context.Background())
	if err == nil {
		t.Fatalf("PickModel() error = nil, want probe failure notice")
	}
	if model != "models/pinned" {
		t.Fatalf("PickModel() = %q, want override", model)
	}
}

func TestPickModelEmptyListingFallsBackToDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	model, err := c.PickModel(context.Background())
	if err == nil {
		t.Fatalf("PickModel() error = nil, want empty listing notice")
	}
	if model != DefaultModel {
		t.Fatalf("PickModel() = %q, want %q", model, DefaultModel)
	}
}

func TestGenerateReturnsTrimmedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "/v1beta/" + DefaultModel + ":generateContent"
		if r.URL.Path != want {
			t.Errorf("path = %q, want %q", r.URL.Path, want)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  There, there, little one.\n"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	reply, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != "There, there, little one." {
		t.Fatalf("Generate() = %q, want trimmed reply", reply)
	}
}

func TestGenerateErrorsAreUnavailable(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}},
		{"api error payload", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"invalid"}}`))
		}},
		{"no candidates", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
			if _, err := c.Generate(context.Background(), "prompt"); !errors.Is(err, ErrUnavailable) {
				t.Fatalf("Generate() error = %v, want ErrUnavailable", err)
			}
		})
	}
}
