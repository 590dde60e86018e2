package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"staybook/internal/config"
	"staybook/internal/parser"
	"staybook/internal/port"
)

// Model implements port.GenerativeModel using the OpenAI Chat Completions API.
type Model struct {
	client      *goopenai.Client
	model       string
	visionModel string
}

// NewModel creates an OpenAI-backed generative model from a provider config.
func NewModel(cfg *config.ParserProviderConfig) *Model {
	return newModel(cfg, "")
}

// NewModelWithBaseURL creates a model pointing at a custom API base URL
// (an OpenAI-compatible gateway, or an httptest server in tests).
func NewModelWithBaseURL(cfg *config.ParserProviderConfig, baseURL string) *Model {
	return newModel(cfg, baseURL)
}

func newModel(cfg *config.ParserProviderConfig, baseURL string) *Model {
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o"
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = model
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &Model{
		client:      goopenai.NewClientWithConfig(clientConfig),
		model:       model,
		visionModel: visionModel,
	}
}

func (m *Model) Name() string {
	return "openai:" + m.model
}

func (m *Model) Generate(ctx context.Context, input port.GenerateInput) (*port.ModelOutput, error) {
	maxTokens := input.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 16384
	}
	var messages []goopenai.ChatCompletionMessage
	if input.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: input.System})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: input.Prompt})

	text, err := m.complete(ctx, goopenai.ChatCompletionRequest{
		Model:               m.model,
		Messages:            messages,
		MaxCompletionTokens: maxTokens,
	})
	if err != nil {
		return nil, err
	}
	return &port.ModelOutput{Text: text, ModelUsed: m.model}, nil
}

func (m *Model) Transcribe(ctx context.Context, input port.TranscribeInput) (*port.ModelOutput, error) {
	switch input.ContentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return nil, fmt.Errorf("unsupported content type for transcription: %s", input.ContentType)
	}
	prompt := input.Prompt
	if prompt == "" {
		prompt = parser.TranscriptionPrompt
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", input.ContentType, base64.StdEncoding.EncodeToString(input.FileBytes))

	text, err := m.complete(ctx, goopenai.ChatCompletionRequest{
		Model: m.visionModel,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role: goopenai.ChatMessageRoleUser,
				MultiContent: []goopenai.ChatMessagePart{
					{
						Type:     goopenai.ChatMessagePartTypeImageURL,
						ImageURL: &goopenai.ChatMessageImageURL{URL: dataURL, Detail: goopenai.ImageURLDetailHigh},
					},
					{Type: goopenai.ChatMessagePartTypeText, Text: prompt},
				},
			},
		},
		MaxCompletionTokens: 8192,
	})
	if err != nil {
		return nil, err
	}
	return &port.ModelOutput{Text: text, ModelUsed: m.visionModel}, nil
}

func (m *Model) complete(ctx context.Context, req goopenai.ChatCompletionRequest) (string, error) {
	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices")
	}
	if resp.Choices[0].FinishReason == goopenai.FinishReasonLength {
		return "", fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError turns HTTP 429 responses into parser.RateLimitError.
func classifyError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return parser.NewRateLimitError("openai", err, 0)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return parser.NewRateLimitError("openai", err, 0)
	}
	return fmt.Errorf("calling openai API: %w", err)
}
