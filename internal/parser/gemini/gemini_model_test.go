package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/config"
	"staybook/internal/parser"
	"staybook/internal/parser/gemini"
	"staybook/internal/port"
)

func newTestModel(serverURL string) *gemini.Model {
	cfg := &config.ParserProviderConfig{
		Provider:     "gemini",
		APIKey:       "test-gemini-key",
		DefaultModel: "gemini-2.0-flash",
		TimeoutSecs:  30,
	}
	return gemini.NewModelWithEndpoint(cfg, serverURL)
}

func successResponse(texts ...string) map[string]interface{} {
	parts := make([]map[string]interface{}, len(texts))
	for i, t := range texts {
		parts[i] = map[string]interface{}{"text": t}
	}
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content":      map[string]interface{}{"role": "model", "parts": parts},
				"finishReason": "STOP",
			},
		},
	}
}

func TestGeminiModel_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		assert.Len(t, contents, 1)
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		assert.Len(t, parts, 1)
		assert.Equal(t, "extract this", parts[0].(map[string]interface{})["text"])

		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, float64(4096), genConfig["maxOutputTokens"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse("[{\"guest_name\":", "\"Ana\"}]"))
	}))
	defer server.Close()

	m := newTestModel(server.URL)

	out, err := m.Generate(context.Background(), port.GenerateInput{Prompt: "extract this", MaxTokens: 4096})

	require.NoError(t, err)
	assert.Equal(t, `[{"guest_name":"Ana"}]`, out.Text)
	assert.Equal(t, "gemini-2.0-flash", out.ModelUsed)
	assert.Equal(t, "gemini:gemini-2.0-flash", m.Name())
}

func TestGeminiModel_Transcribe_Image(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		assert.Len(t, parts, 2)
		inline := parts[0].(map[string]interface{})["inline_data"].(map[string]interface{})
		assert.Equal(t, "image/webp", inline["mime_type"])
		assert.NotEmpty(t, inline["data"])
		assert.Equal(t, parser.TranscriptionPrompt, parts[1].(map[string]interface{})["text"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse("Check-in: 10/06/2025"))
	}))
	defer server.Close()

	m := newTestModel(server.URL)

	out, err := m.Transcribe(context.Background(), port.TranscribeInput{
		FileBytes:   []byte("RIFF....WEBP"),
		ContentType: "image/webp",
	})

	require.NoError(t, err)
	assert.Equal(t, "Check-in: 10/06/2025", out.Text)
}

func TestGeminiModel_Transcribe_UnsupportedContentType(t *testing.T) {
	m := newTestModel("http://unused")

	_, err := m.Transcribe(context.Background(), port.TranscribeInput{FileBytes: []byte("x"), ContentType: "application/pdf"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}

func TestGeminiModel_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	m := newTestModel(server.URL)

	_, err := m.Generate(context.Background(), port.GenerateInput{Prompt: "p"})

	var rlErr *parser.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "gemini", rlErr.Provider)
	assert.Equal(t, 12.0, rlErr.RetryAfter.Seconds())
}

func TestGeminiModel_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`internal`))
	}))
	defer server.Close()

	_, err := newTestModel(server.URL).Generate(context.Background(), port.GenerateInput{Prompt: "p"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGeminiModel_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := newTestModel(server.URL).Generate(context.Background(), port.GenerateInput{Prompt: "p"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
