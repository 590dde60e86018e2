package parser_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"staybook/internal/parser"
	"staybook/internal/port"
	"staybook/mocks"
)

func namedModel(name string) *mocks.MockGenerativeModel {
	m := new(mocks.MockGenerativeModel)
	m.On("Name").Return(name).Maybe()
	return m
}

func output(model string) *port.ModelOutput {
	return &port.ModelOutput{Text: "[]", ModelUsed: model}
}

var generateInput = port.GenerateInput{Prompt: "extract"}

func TestFallbackModel_FirstSucceeds(t *testing.T) {
	m1, m2 := namedModel("claude"), namedModel("gemini")
	m1.On("Generate", mock.Anything, generateInput).Return(output("claude"), nil)

	fm := parser.NewFallbackModel([]port.GenerativeModel{m1, m2}, nil)

	result, err := fm.Generate(context.Background(), generateInput)

	require.NoError(t, err)
	assert.Equal(t, "claude", result.ModelUsed)
	m2.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestFallbackModel_FirstFails_SecondSucceeds(t *testing.T) {
	m1, m2 := namedModel("claude"), namedModel("gemini")
	m1.On("Generate", mock.Anything, generateInput).Return(nil, errors.New("generic error"))
	m2.On("Generate", mock.Anything, generateInput).Return(output("gemini"), nil)

	fm := parser.NewFallbackModel([]port.GenerativeModel{m1, m2}, nil)

	result, err := fm.Generate(context.Background(), generateInput)

	require.NoError(t, err)
	assert.Equal(t, "gemini", result.ModelUsed)
}

func TestFallbackModel_Transcribe_FallsThrough(t *testing.T) {
	m1, m2 := namedModel("claude"), namedModel("openai")
	in := port.TranscribeInput{FileBytes: []byte("img"), ContentType: "image/png"}
	m1.On("Transcribe", mock.Anything, in).Return(nil, parser.NewRateLimitError("claude", errors.New("429"), 60))
	m2.On("Transcribe", mock.Anything, in).Return(output("openai"), nil)

	fm := parser.NewFallbackModel([]port.GenerativeModel{m1, m2}, nil)

	result, err := fm.Transcribe(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "openai", result.ModelUsed)
}

func TestFallbackModel_AllRateLimited(t *testing.T) {
	m1, m2 := namedModel("claude"), namedModel("gemini")
	m1.On("Generate", mock.Anything, generateInput).Return(nil, parser.NewRateLimitError("claude", errors.New("429"), 60))
	m2.On("Generate", mock.Anything, generateInput).Return(nil, parser.NewRateLimitError("gemini", errors.New("429"), 30))

	fm := parser.NewFallbackModel([]port.GenerativeModel{m1, m2}, nil)

	result, err := fm.Generate(context.Background(), generateInput)

	assert.Nil(t, result)
	var rlErr *parser.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
}

func TestFallbackModel_AllFail_NonRateLimit(t *testing.T) {
	m1, m2 := namedModel("claude"), namedModel("gemini")
	m1.On("Generate", mock.Anything, generateInput).Return(nil, errors.New("error 1"))
	m2.On("Generate", mock.Anything, generateInput).Return(nil, errors.New("error 2"))

	fm := parser.NewFallbackModel([]port.GenerativeModel{m1, m2}, nil)

	_, err := fm.Generate(context.Background(), generateInput)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all models failed")
	var rlErr *parser.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}

func TestFallbackModel_SkipsOpenCircuit(t *testing.T) {
	m1, m2 := namedModel("claude"), namedModel("gemini")
	m1.On("Generate", mock.Anything, generateInput).Return(nil, parser.NewRateLimitError("claude", errors.New("429"), 60)).Once()
	m2.On("Generate", mock.Anything, generateInput).Return(output("gemini"), nil)

	fm := parser.NewFallbackModel([]port.GenerativeModel{m1, m2}, nil)

	_, err := fm.Generate(context.Background(), generateInput)
	require.NoError(t, err)

	result, err := fm.Generate(context.Background(), generateInput)
	require.NoError(t, err)
	assert.Equal(t, "gemini", result.ModelUsed)
	m1.AssertNumberOfCalls(t, "Generate", 1)
}

func TestFallbackModel_CircuitAutoCloses(t *testing.T) {
	m1, m2 := namedModel("claude"), namedModel("gemini")
	m1.On("Generate", mock.Anything, generateInput).Return(nil, parser.NewRateLimitError("claude", errors.New("429"), 1)).Once()
	m2.On("Generate", mock.Anything, generateInput).Return(output("gemini"), nil).Once()

	fm := parser.NewFallbackModel([]port.GenerativeModel{m1, m2}, nil)

	result, err := fm.Generate(context.Background(), generateInput)
	require.NoError(t, err)
	assert.Equal(t, "gemini", result.ModelUsed)

	time.Sleep(1100 * time.Millisecond)

	m1.On("Generate", mock.Anything, generateInput).Return(output("claude"), nil).Once()
	result, err = fm.Generate(context.Background(), generateInput)
	require.NoError(t, err)
	assert.Equal(t, "claude", result.ModelUsed)
}

func TestFallbackModel_Name(t *testing.T) {
	fm := parser.NewFallbackModel([]port.GenerativeModel{namedModel("claude"), namedModel("gemini")}, nil)

	assert.Equal(t, "claude,gemini", fm.Name())
}

func TestFallbackModel_ConcurrentSafety(t *testing.T) {
	m1, m2 := namedModel("claude"), namedModel("gemini")
	m1.On("Generate", mock.Anything, generateInput).Return(nil, parser.NewRateLimitError("claude", errors.New("429"), 5)).Maybe()
	m2.On("Generate", mock.Anything, generateInput).Return(output("gemini"), nil).Maybe()

	fm := parser.NewFallbackModel([]port.GenerativeModel{m1, m2}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := fm.Generate(context.Background(), generateInput)
			assert.NoError(t, err)
			assert.Equal(t, "gemini", result.ModelUsed)
		}()
	}
	wg.Wait()
}
