package llm

import (
	"context"
	"fmt"
	"time"
)

// Provider interface that all AI providers must implement
type Provider interface {
	// Generate generates a text completion
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// GetInfo returns provider information
	GetInfo() ProviderInfo

	// IsHealthy checks if the provider is healthy
	IsHealthy(ctx context.Context) bool
}

// GenerationRequest represents a request for text generation
type GenerationRequest struct {
	Prompt       string            `json:"prompt"`
	SystemPrompt string            `json:"system_prompt,omitempty"`
	Model        string            `json:"model,omitempty"`
	MaxTokens    int               `json:"max_tokens,omitempty"`
	Temperature  float64           `json:"temperature,omitempty"`
	Timeout      time.Duration     `json:"timeout,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// GenerationResponse represents a response from text generation
type GenerationResponse struct {
	Content      string        `json:"content"`
	FinishReason string        `json:"finish_reason"`
	TokenUsage   TokenUsage    `json:"token_usage"`
	Model        string        `json:"model"`
	Provider     string        `json:"provider"`
	Latency      time.Duration `json:"latency"`
	Timestamp    time.Time     `json:"timestamp"`
}

// TokenUsage holds token counts for a single generation
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ProviderInfo holds information about a provider
type ProviderInfo struct {
	Name      string         `json:"name"`
	Models    []string       `json:"models"`
	MaxTokens int            `json:"max_tokens"`
	Status    ProviderStatus `json:"status"`
}

// ProviderStatus holds status information
type ProviderStatus struct {
	Available   bool      `json:"available"`
	LastChecked time.Time `json:"last_checked"`
	LastError   string    `json:"last_error,omitempty"`
}

// ManagerConfig holds configuration for the LLM manager
type ManagerConfig struct {
	DefaultTimeout          time.Duration `json:"default_timeout"`
	FallbackEnabled         bool          `json:"fallback_enabled"`
	CircuitBreakerThreshold int           `json:"circuit_breaker_threshold"`
}

// ProviderStats holds statistics for a provider
type ProviderStats struct {
	TotalRequests      int64         `json:"total_requests"`
	SuccessfulRequests int64         `json:"successful_requests"`
	FailedRequests     int64         `json:"failed_requests"`
	AverageLatency     time.Duration `json:"average_latency"`
	TotalTokens        int64         `json:"total_tokens"`
	LastUsed           time.Time     `json:"last_used"`
	ErrorRate          float64       `json:"error_rate"`
}

// ProviderError represents an error from a provider
type ProviderError struct {
	Provider   string `json:"provider"`
	Model      string `json:"model,omitempty"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s error: %s", e.Provider, e.Message)
}

// UsageMetrics holds aggregated usage metrics across providers
type UsageMetrics struct {
	TotalRequests     int64                    `json:"total_requests"`
	TotalTokens       int64                    `json:"total_tokens"`
	SuccessRate       float64                  `json:"success_rate"`
	ProviderBreakdown map[string]ProviderStats `json:"provider_breakdown"`
}

// CircuitBreakerState represents the state of a circuit breaker
type CircuitBreakerState string

const (
	CircuitBreakerClosed   CircuitBreakerState = "closed"
	CircuitBreakerOpen     CircuitBreakerState = "open"
	CircuitBreakerHalfOpen CircuitBreakerState = "half_open"
)

// CircuitBreaker represents a circuit breaker for a provider
type CircuitBreaker struct {
	State           CircuitBreakerState `json:"state"`
	FailureCount    int                 `json:"failure_count"`
	LastFailureTime time.Time           `json:"last_failure_time"`
	NextRetryTime   time.Time           `json:"next_retry_time"`
	Threshold       int                 `json:"threshold"`
}
