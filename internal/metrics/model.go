package metrics

import (
	"context"

	"staybook/internal/port"
)

// InstrumentedModel counts calls made through a generative model.
type InstrumentedModel struct {
	inner   port.GenerativeModel
	metrics *Metrics
}

// InstrumentModel wraps inner so every Generate and Transcribe call is counted.
func InstrumentModel(inner port.GenerativeModel, m *Metrics) port.GenerativeModel {
	if m == nil || inner == nil {
		return inner
	}
	return &InstrumentedModel{inner: inner, metrics: m}
}

func (i *InstrumentedModel) Generate(ctx context.Context, input port.GenerateInput) (*port.ModelOutput, error) {
	out, err := i.inner.Generate(ctx, input)
	i.metrics.ObserveModelCall("generate", err)
	return out, err
}

func (i *InstrumentedModel) Transcribe(ctx context.Context, input port.TranscribeInput) (*port.ModelOutput, error) {
	out, err := i.inner.Transcribe(ctx, input)
	i.metrics.ObserveModelCall("transcribe", err)
	return out, err
}

func (i *InstrumentedModel) Name() string {
	return i.inner.Name()
}
