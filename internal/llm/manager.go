package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/agent-orchestrator/config"
)

// Manager manages multiple AI providers with fallback
type Manager struct {
	providers       map[string]Provider
	primaryProvider string
	fallbackOrder   []string
	config          ManagerConfig
	stats           map[string]*ProviderStats
	circuitBreakers map[string]*CircuitBreaker
	mu              sync.RWMutex
}

// NewManager creates a new LLM manager from the AI configuration.
// Providers without an API key are skipped; the primary must be
// among the configured ones.
func NewManager(cfg config.AIConfig) (*Manager, error) {
	manager := &Manager{
		providers:       make(map[string]Provider),
		primaryProvider: cfg.Primary,
		fallbackOrder:   cfg.Fallbacks,
		stats:           make(map[string]*ProviderStats),
		circuitBreakers: make(map[string]*CircuitBreaker),
		config: ManagerConfig{
			DefaultTimeout:          30 * time.Second,
			FallbackEnabled:         true,
			CircuitBreakerThreshold: 5,
		},
	}

	if cfg.OpenAI.APIKey != "" {
		openaiProvider, err := NewOpenAIProvider(cfg.OpenAI)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI provider: %w", err)
		}
		manager.registerProvider("openai", openaiProvider)
	}

	if cfg.Claude.APIKey != "" {
		claudeProvider, err := NewClaudeProvider(cfg.Claude)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Claude provider: %w", err)
		}
		manager.registerProvider("claude", claudeProvider)
	}

	if _, exists := manager.providers[manager.primaryProvider]; !exists {
		return nil, fmt.Errorf("primary provider '%s' not available", manager.primaryProvider)
	}

	return manager, nil
}

// NewManagerWithProviders builds a manager around pre-constructed
// providers. No availability validation is performed; callers own the
// provider set. Used by tests and embedded setups.
func NewManagerWithProviders(primary string, fallbacks []string, providers map[string]Provider) *Manager {
	manager := &Manager{
		providers:       make(map[string]Provider),
		primaryProvider: primary,
		fallbackOrder:   fallbacks,
		stats:           make(map[string]*ProviderStats),
		circuitBreakers: make(map[string]*CircuitBreaker),
		config: ManagerConfig{
			DefaultTimeout:          30 * time.Second,
			FallbackEnabled:         true,
			CircuitBreakerThreshold: 5,
		},
	}
	for name, provider := range providers {
		manager.registerProvider(name, provider)
	}
	return manager
}

// registerProvider adds a provider with fresh stats and circuit breaker
func (m *Manager) registerProvider(name string, provider Provider) {
	m.providers[name] = provider
	m.stats[name] = &ProviderStats{}
	m.circuitBreakers[name] = &CircuitBreaker{
		State:     CircuitBreakerClosed,
		Threshold: m.config.CircuitBreakerThreshold,
	}
}

// Generate generates text using the primary provider with fallback
func (m *Manager) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	response, err := m.GenerateWith(ctx, m.primaryProvider, request)
	if err == nil {
		return response, nil
	}

	if m.config.FallbackEnabled {
		for _, providerName := range m.fallbackOrder {
			if providerName == m.primaryProvider {
				continue // already tried
			}
			if !m.isProviderAvailable(providerName) {
				continue
			}

			response, fallbackErr := m.GenerateWith(ctx, providerName, request)
			if fallbackErr == nil {
				return response, nil
			}
		}
	}

	return nil, fmt.Errorf("all providers failed, primary error: %w", err)
}

// GenerateWith generates text using a specific provider, bypassing the
// fallback order. Used when a component has already selected a provider.
func (m *Manager) GenerateWith(ctx context.Context, providerName string, request *GenerationRequest) (*GenerationResponse, error) {
	if !m.isCircuitBreakerClosed(providerName) {
		return nil, fmt.Errorf("circuit breaker open for provider: %s", providerName)
	}

	provider, exists := m.providers[providerName]
	if !exists {
		return nil, fmt.Errorf("provider not found: %s", providerName)
	}

	if request.Timeout == 0 {
		request.Timeout = m.config.DefaultTimeout
	}

	startTime := time.Now()

	response, err := provider.Generate(ctx, request)
	if err != nil {
		m.updateCircuitBreaker(providerName, false)
		m.recordFailure(providerName)
		return nil, err
	}

	response.Latency = time.Since(startTime)
	response.Timestamp = time.Now()

	m.updateCircuitBreaker(providerName, true)
	m.recordSuccess(providerName, response)

	return response, nil
}

// HasProvider reports whether a provider is configured
func (m *Manager) HasProvider(providerName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.providers[providerName]
	return exists
}

// GetPrimaryProvider returns the current primary provider name
func (m *Manager) GetPrimaryProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.primaryProvider
}

// GetAllProviders returns information about all available providers
func (m *Manager) GetAllProviders() map[string]ProviderInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info := make(map[string]ProviderInfo)
	for name, provider := range m.providers {
		info[name] = provider.GetInfo()
	}

	return info
}

// GetStats returns usage statistics across all providers
func (m *Manager) GetStats() UsageMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	metrics := UsageMetrics{
		ProviderBreakdown: make(map[string]ProviderStats),
	}

	var totalRequests, totalTokens, successCount int64

	for name, stats := range m.stats {
		metrics.ProviderBreakdown[name] = *stats
		totalRequests += stats.TotalRequests
		totalTokens += stats.TotalTokens
		successCount += stats.SuccessfulRequests
	}

	metrics.TotalRequests = totalRequests
	metrics.TotalTokens = totalTokens

	if totalRequests > 0 {
		metrics.SuccessRate = float64(successCount) / float64(totalRequests)
	}

	return metrics
}

// IsHealthy checks if the primary provider is healthy
func (m *Manager) IsHealthy(ctx context.Context) bool {
	if provider, exists := m.providers[m.primaryProvider]; exists {
		return provider.IsHealthy(ctx)
	}
	return false
}

// Helper methods

// recordSuccess records a successful request
func (m *Manager) recordSuccess(providerName string, response *GenerationResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.stats[providerName]
	stats.TotalRequests++
	stats.SuccessfulRequests++
	stats.TotalTokens += int64(response.TokenUsage.TotalTokens)
	stats.LastUsed = time.Now()
	stats.ErrorRate = float64(stats.FailedRequests) / float64(stats.TotalRequests)

	if stats.TotalRequests == 1 {
		stats.AverageLatency = response.Latency
	} else {
		stats.AverageLatency = (stats.AverageLatency + response.Latency) / 2
	}
}

// recordFailure records a failed request
func (m *Manager) recordFailure(providerName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.stats[providerName]
	stats.TotalRequests++
	stats.FailedRequests++
	stats.ErrorRate = float64(stats.FailedRequests) / float64(stats.TotalRequests)
}

// isProviderAvailable checks if a provider is available
func (m *Manager) isProviderAvailable(providerName string) bool {
	m.mu.RLock()
	_, exists := m.providers[providerName]
	m.mu.RUnlock()

	return exists && m.isCircuitBreakerClosed(providerName)
}

// isCircuitBreakerClosed checks if circuit breaker allows requests.
// It takes the write lock since an elapsed retry window moves the
// breaker from open to half-open.
func (m *Manager) isCircuitBreakerClosed(providerName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	cb, exists := m.circuitBreakers[providerName]
	if !exists {
		return true
	}

	switch cb.State {
	case CircuitBreakerClosed:
		return true
	case CircuitBreakerHalfOpen:
		return time.Now().After(cb.NextRetryTime)
	case CircuitBreakerOpen:
		if time.Now().After(cb.NextRetryTime) {
			cb.State = CircuitBreakerHalfOpen
			return true
		}
		return false
	}

	return false
}

// updateCircuitBreaker updates circuit breaker state after a request
func (m *Manager) updateCircuitBreaker(providerName string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cb, exists := m.circuitBreakers[providerName]
	if !exists {
		return
	}

	if success {
		cb.FailureCount = 0
		cb.State = CircuitBreakerClosed
	} else {
		cb.FailureCount++
		cb.LastFailureTime = time.Now()

		if cb.FailureCount >= cb.Threshold {
			cb.State = CircuitBreakerOpen
			cb.NextRetryTime = time.Now().Add(30 * time.Second)
		}
	}
}
