// Package ollama provides a providers.Provider backed by Ollama HTTP endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mwiater/repomind/internal/appconfig"
	"github.com/mwiater/repomind/internal/logging"
	"github.com/mwiater/repomind/internal/providers"
)

const providerName = "ollama"

var errEmptyVector = errors.New("embedding response returned empty vector")

var (
	generateSchema = gojsonschema.NewStringLoader(`{
		"type": "object",
		"required": ["response"],
		"properties": {"response": {"type": "string"}}
	}`)
	embeddingSchema = gojsonschema.NewStringLoader(`{
		"type": "object",
		"required": ["embedding"],
		"properties": {"embedding": {"type": "array", "items": {"type": "number"}}}
	}`)
)

// Provider implements providers.Provider using the Ollama HTTP API.
type Provider struct {
	client  *http.Client
	host    appconfig.Host
	timeout time.Duration
}

// New constructs a Provider for the configured host with the application's request timeout.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		host:    cfg.Host,
		timeout: timeout,
	}
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Generate sends a non-streaming /api/generate request and returns the response text.
func (p *Provider) Generate(ctx context.Context, model, prompt string) (string, error) {
	payload := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}
	body, err := p.post(ctx, "/api/generate", model, payload, generateSchema)
	if err != nil {
		return "", err
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &providers.ProviderError{Provider: providerName, Endpoint: "/api/generate", Err: err}
	}
	return result.Response, nil
}

// Embed requests an embedding vector for text from /api/embeddings.
func (p *Provider) Embed(ctx context.Context, text, model string) ([]float64, error) {
	if strings.TrimSpace(model) == "" {
		return nil, &providers.ProviderError{Provider: providerName, Endpoint: "/api/embeddings", Err: providers.ErrEmptyModel}
	}
	payload := map[string]any{
		"model":  model,
		"prompt": text,
	}
	body, err := p.post(ctx, "/api/embeddings", model, payload, embeddingSchema)
	if err != nil {
		return nil, err
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &providers.ProviderError{Provider: providerName, Endpoint: "/api/embeddings", Err: err}
	}
	if len(parsed.Embedding) == 0 {
		return nil, &providers.ProviderError{Provider: providerName, Endpoint: "/api/embeddings", Err: errEmptyVector}
	}
	return parsed.Embedding, nil
}

// HealthCheck probes /api/tags.
func (p *Provider) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := p.host.URL + "/api/tags"
	logging.LogExchange(logging.Exchange{Direction: logging.Outbound, Host: hostIdentifier(p.host), Method: http.MethodGet, Endpoint: "/api/tags"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		logging.LogEvent("ollama: health check failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func (p *Provider) post(ctx context.Context, path, model string, payload any, schema gojsonschema.JSONLoader) ([]byte, error) {
	hostID := hostIdentifier(p.host)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &providers.ProviderError{Provider: providerName, Endpoint: path, Err: fmt.Errorf("marshal request: %w", err)}
	}
	logging.LogExchange(logging.Exchange{Direction: logging.Outbound, Host: hostID, Model: model, Method: http.MethodPost, Endpoint: path, Body: body})

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host.URL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &providers.ProviderError{Provider: providerName, Endpoint: path, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &providers.ProviderError{Provider: providerName, Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &providers.ProviderError{Provider: providerName, Endpoint: path, StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}
	logging.LogExchange(logging.Exchange{
		Direction: logging.Inbound,
		Host:      hostID,
		Model:     model,
		Endpoint:  path,
		Status:    resp.Status,
		Body:      raw,
		SizeOnly:  path == "/api/embeddings",
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &providers.ProviderError{
			Provider:   providerName,
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(raw),
		}
	}
	if err := providers.ValidateBody(schema, raw); err != nil {
		return nil, &providers.ProviderError{
			Provider:   providerName,
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Err:        err,
		}
	}
	return raw, nil
}

// hostIdentifier returns a string identifier for a given host, preferring the name over the URL.
func hostIdentifier(host appconfig.Host) string {
	name := strings.TrimSpace(host.Name)
	if name != "" {
		return name
	}
	if url := strings.TrimSpace(host.URL); url != "" {
		return url
	}
	return "ollama-host"
}
