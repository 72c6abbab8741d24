package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yourusername/agent-orchestrator/config"
)

const (
	claudeDefaultBaseURL = "https://api.anthropic.com"
	claudeAPIVersion     = "2023-06-01"
)

// ClaudeProvider implements the Provider interface for Anthropic's
// Messages API over plain HTTP.
type ClaudeProvider struct {
	httpClient *http.Client
	config     config.ProviderConfig
	baseURL    string
	status     ProviderStatus
}

// NewClaudeProvider creates a new Claude provider
func NewClaudeProvider(cfg config.ProviderConfig) (*ClaudeProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Claude API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = claudeDefaultBaseURL
	}

	return &ClaudeProvider{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		config:     cfg,
		baseURL:    baseURL,
		status:     ProviderStatus{Available: true},
	}, nil
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature,omitempty"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Model      string `json:"model"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate generates a text completion via the Messages API
func (p *ClaudeProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	model := request.Model
	if model == "" {
		model = p.config.Model
	}
	maxTokens := request.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	temperature := request.Temperature
	if temperature == 0 {
		temperature = p.config.Temperature
	}

	payload := claudeRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		System:      request.SystemPrompt,
		Messages: []claudeMessage{
			{Role: "user", Content: request.Prompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	if request.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, request.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.config.APIKey)
	req.Header.Set("anthropic-version", claudeAPIVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Provider: "claude",
			Model:    model,
			Message:  err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var parsed claudeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ProviderError{
			Provider:   "claude",
			Model:      model,
			Message:    fmt.Sprintf("invalid response body: %v", err),
			StatusCode: resp.StatusCode,
		}
	}

	if resp.StatusCode != http.StatusOK {
		message := fmt.Sprintf("API returned status %d", resp.StatusCode)
		if parsed.Error != nil {
			message = parsed.Error.Message
		}
		return nil, &ProviderError{
			Provider:   "claude",
			Model:      model,
			Message:    message,
			StatusCode: resp.StatusCode,
		}
	}

	if len(parsed.Content) == 0 {
		return nil, &ProviderError{
			Provider: "claude",
			Model:    model,
			Message:  "empty content in response",
		}
	}

	return &GenerationResponse{
		Content:      parsed.Content[0].Text,
		FinishReason: parsed.StopReason,
		TokenUsage: TokenUsage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		},
		Model:     model,
		Provider:  "claude",
		Timestamp: time.Now(),
	}, nil
}

// GetInfo returns provider information
func (p *ClaudeProvider) GetInfo() ProviderInfo {
	return ProviderInfo{
		Name:      "claude",
		Models:    []string{p.config.Model},
		MaxTokens: p.config.MaxTokens,
		Status:    p.status,
	}
}

// IsHealthy reports whether the provider is usable. The Messages API
// has no cheap health endpoint, so this only verifies configuration.
func (p *ClaudeProvider) IsHealthy(ctx context.Context) bool {
	p.status.LastChecked = time.Now()
	p.status.Available = p.config.APIKey != ""
	return p.status.Available
}
