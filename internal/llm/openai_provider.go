package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yourusername/agent-orchestrator/config"
)

// OpenAIProvider implements the Provider interface for OpenAI
type OpenAIProvider struct {
	client *openai.Client
	config config.ProviderConfig
	status ProviderStatus
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(cfg config.ProviderConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
		status: ProviderStatus{Available: true},
	}, nil
}

// Generate generates a text completion using the chat completions API
func (p *OpenAIProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
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

	messages := []openai.ChatCompletionMessage{}
	if request.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: request.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: request.Prompt,
	})

	if request.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, request.Timeout)
		defer cancel()
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(temperature),
	})
	if err != nil {
		return nil, &ProviderError{
			Provider: "openai",
			Model:    model,
			Message:  err.Error(),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &ProviderError{
			Provider: "openai",
			Model:    model,
			Message:  "empty response from API",
		}
	}

	return &GenerationResponse{
		Content:      resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		TokenUsage: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Model:     model,
		Provider:  "openai",
		Timestamp: time.Now(),
	}, nil
}

// GetInfo returns provider information
func (p *OpenAIProvider) GetInfo() ProviderInfo {
	return ProviderInfo{
		Name:      "openai",
		Models:    []string{p.config.Model},
		MaxTokens: p.config.MaxTokens,
		Status:    p.status,
	}
}

// IsHealthy checks provider health with a minimal models call
func (p *OpenAIProvider) IsHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := p.client.ListModels(ctx)
	p.status.LastChecked = time.Now()
	p.status.Available = err == nil
	if err != nil {
		p.status.LastError = err.Error()
	}
	return err == nil
}
