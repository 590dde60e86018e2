package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"staybook/internal/config"
	"staybook/internal/port"
)

// ResilientModel throttles calls to a model with a token bucket and trips a
// circuit breaker after repeated failures.
type ResilientModel struct {
	inner   port.GenerativeModel
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*port.ModelOutput]
	logger  *zap.Logger
}

// NewResilientModel wraps inner. A zero RequestsPerSecond disables throttling.
func NewResilientModel(inner port.GenerativeModel, cfg config.ResilienceConfig, logger *zap.Logger) *ResilientModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &ResilientModel{inner: inner, logger: logger}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	if cfg.BreakerEnabled {
		minRequests := cfg.BreakerMinRequests
		if minRequests == 0 {
			minRequests = 5
		}
		ratio := cfg.BreakerFailureRatio
		if ratio <= 0 {
			ratio = 0.6
		}
		r.breaker = gobreaker.NewCircuitBreaker[*port.ModelOutput](gobreaker.Settings{
			Name:        inner.Name(),
			MaxRequests: 1,
			Timeout:     cfg.BreakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < minRequests {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
			},
			IsSuccessful: func(err error) bool {
				// Caller cancellation says nothing about provider health.
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("parser.ResilientModel: circuit breaker state change",
					zap.String("model", name), zap.String("from", from.String()), zap.String("to", to.String()))
			},
		})
	}
	return r
}

func (r *ResilientModel) Name() string {
	return r.inner.Name()
}

func (r *ResilientModel) Generate(ctx context.Context, input port.GenerateInput) (*port.ModelOutput, error) {
	return r.execute(ctx, func() (*port.ModelOutput, error) {
		return r.inner.Generate(ctx, input)
	})
}

func (r *ResilientModel) Transcribe(ctx context.Context, input port.TranscribeInput) (*port.ModelOutput, error) {
	return r.execute(ctx, func() (*port.ModelOutput, error) {
		return r.inner.Transcribe(ctx, input)
	})
}

func (r *ResilientModel) execute(ctx context.Context, fn func() (*port.ModelOutput, error)) (*port.ModelOutput, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for %s rate limiter: %w", r.inner.Name(), err)
		}
	}
	if r.breaker == nil {
		return fn()
	}
	out, err := r.breaker.Execute(fn)
	if IsCircuitOpen(err) {
		return nil, fmt.Errorf("%s unavailable: %w", r.inner.Name(), err)
	}
	return out, err
}

// IsCircuitOpen reports whether err came from an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
