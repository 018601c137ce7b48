// Package llamacpp provides a providers.Provider backed by llama.cpp's OpenAI-compatible HTTP API.
package llamacpp

import (
	"bytes"
	"context"
	"encoding/json"
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

const providerName = "llama.cpp"

var (
	chatSchema = gojsonschema.NewStringLoader(`{
		"type": "object",
		"required": ["choices"],
		"properties": {
			"choices": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["message"],
					"properties": {
						"message": {
							"type": "object",
							"required": ["content"],
							"properties": {"content": {"type": "string"}}
						}
					}
				}
			}
		}
	}`)
	embeddingsSchema = gojsonschema.NewStringLoader(`{
		"type": "object",
		"required": ["data"],
		"properties": {
			"data": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["embedding"],
					"properties": {
						"embedding": {"type": "array", "minItems": 1, "items": {"type": "number"}}
					}
				}
			}
		}
	}`)
)

// Provider implements providers.Provider using llama.cpp HTTP APIs.
type Provider struct {
	client  *http.Client
	host    appconfig.Host
	timeout time.Duration
}

// New constructs a Provider configured with the application's request timeout.
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

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Generate sends the prompt as a single user message to /v1/chat/completions.
func (p *Provider) Generate(ctx context.Context, model, prompt string) (string, error) {
	payload := map[string]any{
		"model":    model,
		"messages": []openAIMessage{{Role: "user", Content: strings.TrimSpace(prompt)}},
		"stream":   false,
	}
	body, err := p.post(ctx, "/v1/chat/completions", model, payload, chatSchema)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &providers.ProviderError{Provider: providerName, Endpoint: "/v1/chat/completions", Err: err}
	}
	return parsed.Choices[0].Message.Content, nil
}

// Embed requests a single embedding from /v1/embeddings.
func (p *Provider) Embed(ctx context.Context, text, model string) ([]float64, error) {
	payload := map[string]any{
		"input": text,
	}
	if strings.TrimSpace(model) != "" {
		payload["model"] = model
	}
	body, err := p.post(ctx, "/v1/embeddings", model, payload, embeddingsSchema)
	if err != nil {
		return nil, err
	}

	var parsed embeddingsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &providers.ProviderError{Provider: providerName, Endpoint: "/v1/embeddings", Err: err}
	}
	return parsed.Data[0].Embedding, nil
}

// HealthCheck probes /health.
func (p *Provider) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := p.host.URL + "/health"
	logging.LogExchange(logging.Exchange{Direction: logging.Outbound, Host: hostIdentifier(p.host), Method: http.MethodGet, Endpoint: "/health"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		logging.LogEvent("llama.cpp: health check failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
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
		SizeOnly:  path == "/v1/embeddings",
	})

	if resp.StatusCode != http.StatusOK {
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
	return "llama.cpp-host"
}
