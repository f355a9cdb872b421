// Package azureopenai implements docchat.Provider against the Azure OpenAI
// chat completions REST API.
package azureopenai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	docchat "github.com/nevindra/docchat"
)

// Compile-time interface check.
var _ docchat.Provider = (*Provider)(nil)

const defaultAPIVersion = "2024-06-01"

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithTemperature sets the sampling temperature sent with every request.
// Default 0.5.
func WithTemperature(t float64) ProviderOption {
	return func(p *Provider) { p.temperature = t }
}

// WithAPIVersion overrides the REST API version.
func WithAPIVersion(v string) ProviderOption {
	return func(p *Provider) { p.apiVersion = v }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ProviderOption {
	return func(p *Provider) { p.client = hc }
}

// Provider sends chat requests to one Azure OpenAI deployment.
type Provider struct {
	endpoint    string
	deployment  string
	apiKey      string
	apiVersion  string
	temperature float64
	client      *http.Client
}

// NewProvider creates an Azure OpenAI chat provider. endpoint is the
// resource URL (e.g. "https://myresource.openai.azure.com") and deployment
// is the deployed model name.
func NewProvider(endpoint, deployment, apiKey string, opts ...ProviderOption) *Provider {
	p := &Provider{
		endpoint:    endpoint,
		deployment:  deployment,
		apiKey:      apiKey,
		apiVersion:  defaultAPIVersion,
		temperature: 0.5,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string { return "azure-openai" }

type chatBody struct {
	Messages    []docchat.ChatMessage `json:"messages"`
	Temperature float64               `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Chat sends one blocking chat completion request and returns the full
// response. No retries and no streaming.
func (p *Provider) Chat(ctx context.Context, req docchat.ChatRequest) (docchat.ChatResponse, error) {
	payload, err := json.Marshal(chatBody{Messages: req.Messages, Temperature: p.temperature})
	if err != nil {
		return docchat.ChatResponse{}, &docchat.ErrLLM{Provider: p.Name(), Message: fmt.Sprintf("marshal request: %v", err)}
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		p.endpoint, p.deployment, p.apiVersion)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return docchat.ChatResponse{}, &docchat.ErrLLM{Provider: p.Name(), Message: fmt.Sprintf("create request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return docchat.ChatResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return docchat.ChatResponse{}, &docchat.ErrHTTP{Status: resp.StatusCode, Body: string(body)}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return docchat.ChatResponse{}, &docchat.ErrLLM{Provider: p.Name(), Message: fmt.Sprintf("decode response: %v", err)}
	}
	if len(parsed.Choices) == 0 {
		return docchat.ChatResponse{}, &docchat.ErrLLM{Provider: p.Name(), Message: "response contains no choices"}
	}

	return docchat.ChatResponse{
		Content: parsed.Choices[0].Message.Content,
		Usage: docchat.Usage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
		},
	}, nil
}
