package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a scriptable Provider for manager tests
type fakeProvider struct {
	name    string
	fail    bool
	calls   atomic.Int64
	healthy bool
}

func (f *fakeProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	f.calls.Add(1)
	if f.fail {
		return nil, errors.New("provider down")
	}
	return &GenerationResponse{
		Content:    "ok from " + f.name,
		Provider:   f.name,
		TokenUsage: TokenUsage{TotalTokens: 10},
	}, nil
}

func (f *fakeProvider) GetInfo() ProviderInfo {
	return ProviderInfo{Name: f.name}
}

func (f *fakeProvider) IsHealthy(ctx context.Context) bool {
	return f.healthy
}

func newTestManager(primary string, fallbacks []string) *Manager {
	return &Manager{
		providers:       make(map[string]Provider),
		primaryProvider: primary,
		fallbackOrder:   fallbacks,
		stats:           make(map[string]*ProviderStats),
		circuitBreakers: make(map[string]*CircuitBreaker),
		config: ManagerConfig{
			DefaultTimeout:          time.Second,
			FallbackEnabled:         true,
			CircuitBreakerThreshold: 5,
		},
	}
}

func TestGenerateUsesPrimary(t *testing.T) {
	manager := newTestManager("openai", []string{"openai", "claude"})
	primary := &fakeProvider{name: "openai"}
	fallback := &fakeProvider{name: "claude"}
	manager.registerProvider("openai", primary)
	manager.registerProvider("claude", fallback)

	resp, err := manager.Generate(context.Background(), &GenerationRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok from openai", resp.Content)
	assert.Equal(t, int64(1), primary.calls.Load())
	assert.Equal(t, int64(0), fallback.calls.Load())
}

func TestGenerateFallsBack(t *testing.T) {
	manager := newTestManager("openai", []string{"openai", "claude"})
	primary := &fakeProvider{name: "openai", fail: true}
	fallback := &fakeProvider{name: "claude"}
	manager.registerProvider("openai", primary)
	manager.registerProvider("claude", fallback)

	resp, err := manager.Generate(context.Background(), &GenerationRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok from claude", resp.Content)
	assert.Equal(t, int64(1), primary.calls.Load())
	assert.Equal(t, int64(1), fallback.calls.Load())
}

func TestGenerateAllProvidersFail(t *testing.T) {
	manager := newTestManager("openai", []string{"openai", "claude"})
	manager.registerProvider("openai", &fakeProvider{name: "openai", fail: true})
	manager.registerProvider("claude", &fakeProvider{name: "claude", fail: true})

	_, err := manager.Generate(context.Background(), &GenerationRequest{Prompt: "hi"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "all providers failed")
}

func TestGenerateWithBypassesFallback(t *testing.T) {
	manager := newTestManager("openai", []string{"openai", "claude"})
	primary := &fakeProvider{name: "openai"}
	selected := &fakeProvider{name: "claude"}
	manager.registerProvider("openai", primary)
	manager.registerProvider("claude", selected)

	resp, err := manager.GenerateWith(context.Background(), "claude", &GenerationRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok from claude", resp.Content)
	assert.Equal(t, int64(0), primary.calls.Load())
}

func TestGenerateWithUnknownProvider(t *testing.T) {
	manager := newTestManager("openai", nil)
	manager.registerProvider("openai", &fakeProvider{name: "openai"})

	_, err := manager.GenerateWith(context.Background(), "gemini", &GenerationRequest{Prompt: "hi"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "provider not found")
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	manager := newTestManager("openai", nil)
	failing := &fakeProvider{name: "openai", fail: true}
	manager.registerProvider("openai", failing)

	for i := 0; i < manager.config.CircuitBreakerThreshold; i++ {
		_, err := manager.GenerateWith(context.Background(), "openai", &GenerationRequest{Prompt: "hi"})
		assert.Error(t, err)
	}

	// Breaker is now open; the provider must not be called again.
	before := failing.calls.Load()
	_, err := manager.GenerateWith(context.Background(), "openai", &GenerationRequest{Prompt: "hi"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, before, failing.calls.Load())
}

func TestCircuitBreakerHalfOpenUnderConcurrency(t *testing.T) {
	manager := newTestManager("openai", nil)
	provider := &fakeProvider{name: "openai"}
	manager.registerProvider("openai", provider)

	// Open breaker with an elapsed retry window; the next checks race
	// to move it through half-open back to closed.
	cb := manager.circuitBreakers["openai"]
	cb.State = CircuitBreakerOpen
	cb.NextRetryTime = time.Now().Add(-time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = manager.GenerateWith(context.Background(), "openai", &GenerationRequest{Prompt: "hi"})
		}()
	}
	wg.Wait()

	manager.mu.Lock()
	state := cb.State
	manager.mu.Unlock()
	assert.Equal(t, CircuitBreakerClosed, state)
	assert.GreaterOrEqual(t, provider.calls.Load(), int64(1))
}

func TestStatsTrackSuccessAndFailure(t *testing.T) {
	manager := newTestManager("openai", nil)
	provider := &fakeProvider{name: "openai"}
	manager.registerProvider("openai", provider)

	_, err := manager.GenerateWith(context.Background(), "openai", &GenerationRequest{Prompt: "hi"})
	require.NoError(t, err)

	provider.fail = true
	_, err = manager.GenerateWith(context.Background(), "openai", &GenerationRequest{Prompt: "hi"})
	require.Error(t, err)

	metrics := manager.GetStats()
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(10), metrics.TotalTokens)
	assert.Equal(t, 0.5, metrics.SuccessRate)
	assert.Equal(t, 0.5, metrics.ProviderBreakdown["openai"].ErrorRate)
}
