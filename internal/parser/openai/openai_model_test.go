package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/config"
	"staybook/internal/parser"
	"staybook/internal/parser/openai"
	"staybook/internal/port"
)

func newTestModel(serverURL string) *openai.Model {
	cfg := &config.ParserProviderConfig{
		Provider:     "openai",
		APIKey:       "sk-test",
		DefaultModel: "gpt-4o",
		TimeoutSecs:  30,
	}
	return openai.NewModelWithBaseURL(cfg, serverURL+"/v1")
}

func chatResponse(content, finishReason string) map[string]interface{} {
	return map[string]interface{}{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"message":       map[string]interface{}{"role": "assistant", "content": content},
				"finish_reason": finishReason,
			},
		},
	}
}

func TestOpenAIModel_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o", reqBody["model"])
		msgs := reqBody["messages"].([]interface{})
		assert.Len(t, msgs, 1)
		assert.Equal(t, "user", msgs[0].(map[string]interface{})["role"])
		assert.Equal(t, "the prompt", msgs[0].(map[string]interface{})["content"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("[]\nEND_OF_JSON", "stop"))
	}))
	defer server.Close()

	m := newTestModel(server.URL)
	out, err := m.Generate(context.Background(), port.GenerateInput{Prompt: "the prompt"})

	require.NoError(t, err)
	assert.Equal(t, "[]\nEND_OF_JSON", out.Text)
	assert.Equal(t, "gpt-4o", out.ModelUsed)
	assert.Equal(t, "openai:gpt-4o", m.Name())
}

func TestOpenAIModel_Transcribe_SendsDataURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		msgs := reqBody["messages"].([]interface{})
		parts := msgs[0].(map[string]interface{})["content"].([]interface{})
		assert.Len(t, parts, 2)
		img := parts[0].(map[string]interface{})
		assert.Equal(t, "image_url", img["type"])
		url := img["image_url"].(map[string]interface{})["url"].(string)
		assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("Check-out: 15/06/2025", "stop"))
	}))
	defer server.Close()

	out, err := newTestModel(server.URL).Transcribe(context.Background(), port.TranscribeInput{
		FileBytes:   []byte{0x89, 0x50, 0x4E, 0x47},
		ContentType: "image/png",
	})

	require.NoError(t, err)
	assert.Equal(t, "Check-out: 15/06/2025", out.Text)
}

func TestOpenAIModel_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	_, err := newTestModel(server.URL).Generate(context.Background(), port.GenerateInput{Prompt: "p"})

	var rlErr *parser.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
}

func TestOpenAIModel_Truncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("[{", "length"))
	}))
	defer server.Close()

	_, err := newTestModel(server.URL).Generate(context.Background(), port.GenerateInput{Prompt: "p"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestOpenAIModel_UnsupportedContentType(t *testing.T) {
	_, err := newTestModel("http://unused").Transcribe(context.Background(), port.TranscribeInput{ContentType: "application/pdf"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}
