package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skute123/genai-defect-management/internal/infrastructure/config"
)

func ollamaTestConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		BaseURL:     baseURL,
		Model:       "llama3.2",
		Temperature: 0.3,
		NumPredict:  128,
		Timeout:     5 * time.Second,
	}
}

func TestOllamaClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/api/generate":
			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "llama3.2", req.Model)
			assert.False(t, req.Stream)
			assert.Equal(t, 0.3, req.Options.Temperature)
			json.NewEncoder(w).Encode(generateResponse{Response: "  Check the gateway callback.  "})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewOllamaClient(ollamaTestConfig(srv.URL))
	assert.True(t, client.Available(context.Background()))

	out, err := client.Generate(context.Background(), "why is the order stuck")
	require.NoError(t, err)
	assert.Equal(t, "Check the gateway callback.", out)
}

func TestOllamaClient_Unavailable(t *testing.T) {
	client := NewOllamaClient(ollamaTestConfig("http://127.0.0.1:1"))
	assert.False(t, client.Available(context.Background()))
}

func TestRuleBasedFallback_Generate(t *testing.T) {
	f := NewRuleBasedFallback()
	ctx := context.Background()

	tests := []struct {
		prompt   string
		contains string
	}{
		{"Order API call hits a TIMEOUT after 30s", "timeout"},
		{"payload failed validation on checkout", "validation"},
		{"payment callback missing", "payment"},
		{"deadlock detected in defect_db", "database"},
		{"nil pointer in order mapper", "missing-value"},
		{"something entirely different", "similar resolved defects"},
	}

	for _, tt := range tests {
		out, err := f.Generate(ctx, tt.prompt)
		require.NoError(t, err)
		assert.Contains(t, out, tt.contains, tt.prompt)
	}
}

type stubGenerator struct {
	available bool
	out       string
	err       error
}

func (s *stubGenerator) Available(_ context.Context) bool { return s.available }
func (s *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	return s.out, s.err
}

func TestWithFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("uses primary when available", func(t *testing.T) {
		g := NewWithFallback(&stubGenerator{available: true, out: "from llm"})
		out, err := g.Generate(ctx, "anything")
		require.NoError(t, err)
		assert.Equal(t, "from llm", out)
	})

	t.Run("falls back when primary is down", func(t *testing.T) {
		g := NewWithFallback(&stubGenerator{available: false})
		out, err := g.Generate(ctx, "timeout on order api")
		require.NoError(t, err)
		assert.Contains(t, out, "timeout")
	})

	t.Run("falls back when primary errors", func(t *testing.T) {
		g := NewWithFallback(&stubGenerator{available: true, err: errors.New("boom")})
		out, err := g.Generate(ctx, "validation failed")
		require.NoError(t, err)
		assert.Contains(t, out, "validation")
	})
}
