// Package providers defines the capability repomind consumes from a model
// host: text generation, text embedding and a liveness probe. Concrete hosts
// (Ollama, llama.cpp) live in subpackages.
package providers

import (
	"errors"
	"context"
	"fmt"
	"strings"
)

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Embedder turns text into a numeric vector.
type Embedder interface {
	Embed(ctx context.Context, text, model string) ([]float64, error)
}

// Provider is the full capability offered by a model host.
type Provider interface {
	Generator
	Embedder
	// HealthCheck reports whether the host answers. It never returns an error.
	HealthCheck(ctx context.Context) bool
	// Close releases any resources held by the provider.
	Close() error
}

// ErrEmptyModel is wrapped in a ProviderError when a call needs a model name
// and none was given.
var ErrEmptyModel = errors.New("model name is empty")

// ProviderError reports a failed generate or embed call: either the transport
// failed (Err is set) or the host answered with a non-success status or a
// body of the wrong shape.
type ProviderError struct {
	Provider   string
	Endpoint   string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Provider, e.Endpoint)
	if e.Status != "" {
		fmt.Fprintf(&b, " returned %s", e.Status)
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		fmt.Fprintf(&b, ": %s", body)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
