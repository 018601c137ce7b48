package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/mwiater/repomind/internal/logging"
	"github.com/mwiater/repomind/internal/providers"
)

var errUnhealthy = errors.New("provider unhealthy")

// Provider is a decorator that wraps a providers.Provider to record call metrics.
type Provider struct {
	wrapped    providers.Provider
	aggregator *Aggregator
}

// NewProvider creates a metrics-recording provider around wrapped.
func NewProvider(wrapped providers.Provider, aggregator *Aggregator) *Provider {
	logging.LogEvent("[METRICS] Wrapping provider with metrics provider")
	return &Provider{wrapped: wrapped, aggregator: aggregator}
}

// Generate times the wrapped Generate call.
func (p *Provider) Generate(ctx context.Context, model, prompt string) (string, error) {
	start := time.Now()
	out, err := p.wrapped.Generate(ctx, model, prompt)
	p.aggregator.Record(OpGenerate, time.Since(start), err)
	return out, err
}

// Embed times the wrapped Embed call.
func (p *Provider) Embed(ctx context.Context, text, model string) ([]float64, error) {
	start := time.Now()
	vec, err := p.wrapped.Embed(ctx, text, model)
	p.aggregator.Record(OpEmbed, time.Since(start), err)
	return vec, err
}

// HealthCheck times the wrapped probe; an unhealthy answer counts as an error.
func (p *Provider) HealthCheck(ctx context.Context) bool {
	start := time.Now()
	ok := p.wrapped.HealthCheck(ctx)
	var err error
	if !ok {
		err = errUnhealthy
	}
	p.aggregator.Record(OpHealth, time.Since(start), err)
	return ok
}

// Close passes the call through to the wrapped provider.
func (p *Provider) Close() error {
	return p.wrapped.Close()
}
