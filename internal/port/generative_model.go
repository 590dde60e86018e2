package port

import "context"

// GenerateInput carries a text completion request.
type GenerateInput struct {
	System    string
	Prompt    string
	MaxTokens int
}

// TranscribeInput carries an image to be transcribed into plain text.
type TranscribeInput struct {
	FileBytes   []byte
	ContentType string
	Prompt      string
}

// ModelOutput is the raw text returned by a generative model.
type ModelOutput struct {
	Text      string
	ModelUsed string
}

// GenerativeModel abstracts an LLM provider able to complete prompts and read images.
type GenerativeModel interface {
	Generate(ctx context.Context, input GenerateInput) (*ModelOutput, error)
	Transcribe(ctx context.Context, input TranscribeInput) (*ModelOutput, error)
	Name() string
}
