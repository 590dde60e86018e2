package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"staybook/internal/port"
)

// circuitState tracks rate-limit backoff for a single model.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackModel tries models in order, skipping those backing off from a rate limit.
// It implements port.GenerativeModel.
type FallbackModel struct {
	models   []port.GenerativeModel
	circuits []*circuitState
	logger   *zap.Logger
}

// NewFallbackModel creates a FallbackModel from an ordered list of models.
func NewFallbackModel(models []port.GenerativeModel, logger *zap.Logger) *FallbackModel {
	circuits := make([]*circuitState, len(models))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackModel{
		models:   models,
		circuits: circuits,
		logger:   logger,
	}
}

// Name joins the names of the wrapped models.
func (f *FallbackModel) Name() string {
	names := make([]string, len(f.models))
	for i, m := range f.models {
		names[i] = m.Name()
	}
	return strings.Join(names, ",")
}

func (f *FallbackModel) Generate(ctx context.Context, input port.GenerateInput) (*port.ModelOutput, error) {
	return f.try(ctx, "Generate", func(m port.GenerativeModel) (*port.ModelOutput, error) {
		return m.Generate(ctx, input)
	})
}

func (f *FallbackModel) Transcribe(ctx context.Context, input port.TranscribeInput) (*port.ModelOutput, error) {
	return f.try(ctx, "Transcribe", func(m port.GenerativeModel) (*port.ModelOutput, error) {
		return m.Transcribe(ctx, input)
	})
}

func (f *FallbackModel) try(ctx context.Context, op string, call func(port.GenerativeModel) (*port.ModelOutput, error)) (*port.ModelOutput, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, m := range f.models {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			f.logger.Info("parser.FallbackModel."+op+": skipping model with open circuit",
				zap.String("model", m.Name()), zap.Time("reset_at", resetAt))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := call(m)
		if err == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		f.logger.Warn("parser.FallbackModel."+op+": model failed",
			zap.String("model", m.Name()), zap.Error(err))
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all models rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all models failed: %w", lastErr)
}
