package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/agent-orchestrator/models"
)

// fakeAgentTier scripts per-agent behavior for the process endpoint
type fakeAgentTier struct {
	mux      *http.ServeMux
	behavior map[models.AgentType]func(w http.ResponseWriter)
	calls    []models.AgentType
}

func newFakeAgentTier() *fakeAgentTier {
	tier := &fakeAgentTier{
		mux:      http.NewServeMux(),
		behavior: make(map[models.AgentType]func(w http.ResponseWriter)),
	}
	tier.mux.HandleFunc("/api/v1/agents/process", func(w http.ResponseWriter, r *http.Request) {
		var req models.AgentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		tier.calls = append(tier.calls, req.AgentType)
		if handle, ok := tier.behavior[req.AgentType]; ok {
			handle(w)
			return
		}
		respondSuccess(w, req.AgentType)
	})
	return tier
}

func respondSuccess(w http.ResponseWriter, agentType models.AgentType) {
	json.NewEncoder(w).Encode(models.AgentResult{
		AgentType: agentType,
		Success:   true,
		Data:      map[string]interface{}{"answer": "ok"},
	})
}

func respondFailure(w http.ResponseWriter, agentType models.AgentType, code models.ErrorCode) {
	json.NewEncoder(w).Encode(models.AgentResult{
		AgentType: agentType,
		Success:   false,
		Error:     &models.AgentError{Code: code, Message: "scripted failure"},
	})
}

func decisionFixture(agents ...models.AgentType) *models.RoutingDecision {
	decision := &models.RoutingDecision{Strategy: models.StrategyParallel}
	for i, agentType := range agents {
		decision.SelectedAgents = append(decision.SelectedAgents, models.AgentSelection{
			Type:     agentType,
			Priority: i + 1,
		})
	}
	decision.FallbackAgents = []models.AgentSelection{
		{Type: models.AgentGeneral, Priority: 99},
	}
	return decision
}

func requestFixture() *models.OrchestrationRequest {
	return &models.OrchestrationRequest{Query: "do something"}
}

func TestDispatchPriorityOrder(t *testing.T) {
	tier := newFakeAgentTier()
	server := httptest.NewServer(tier.mux)
	defer server.Close()

	comm := NewCommunicator(server.URL, time.Second, zap.NewNop())

	decision := &models.RoutingDecision{
		SelectedAgents: []models.AgentSelection{
			{Type: models.AgentContent, Priority: 4},
			{Type: models.AgentRecruitment, Priority: 1},
			{Type: models.AgentTreasury, Priority: 2},
		},
		FallbackAgents: []models.AgentSelection{{Type: models.AgentGeneral, Priority: 99}},
	}

	results := comm.Dispatch(context.Background(), decision, requestFixture(), "req-1")

	require.Len(t, results, 3)
	assert.Equal(t, []models.AgentType{
		models.AgentRecruitment,
		models.AgentTreasury,
		models.AgentContent,
	}, tier.calls)
	for _, result := range results {
		assert.True(t, result.Success)
	}
}

func TestDispatchContinuesPastFailures(t *testing.T) {
	tier := newFakeAgentTier()
	tier.behavior[models.AgentRecruitment] = func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	server := httptest.NewServer(tier.mux)
	defer server.Close()

	comm := NewCommunicator(server.URL, time.Second, zap.NewNop())
	decision := decisionFixture(models.AgentRecruitment, models.AgentCRM)

	results := comm.Dispatch(context.Background(), decision, requestFixture(), "req-2")

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Equal(t, models.ErrCodeAgentUnavailable, results[0].Error.Code)
	assert.True(t, results[1].Success)
}

func TestDispatchTimeoutThenSuccess(t *testing.T) {
	tier := newFakeAgentTier()
	tier.behavior[models.AgentRecruitment] = func(w http.ResponseWriter) {
		time.Sleep(300 * time.Millisecond)
		respondSuccess(w, models.AgentRecruitment)
	}
	server := httptest.NewServer(tier.mux)
	defer server.Close()

	comm := NewCommunicator(server.URL, 50*time.Millisecond, zap.NewNop())
	decision := decisionFixture(models.AgentRecruitment, models.AgentCRM)

	results := comm.Dispatch(context.Background(), decision, requestFixture(), "req-3")

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Equal(t, models.ErrCodeTimeout, results[0].Error.Code)
	assert.True(t, results[1].Success)
	assert.Equal(t, models.AgentCRM, results[1].AgentType)
}

func TestDispatchUnsupportedAgent(t *testing.T) {
	tier := newFakeAgentTier()
	tier.behavior[models.AgentTreasury] = func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusNotFound)
	}
	server := httptest.NewServer(tier.mux)
	defer server.Close()

	comm := NewCommunicator(server.URL, time.Second, zap.NewNop())
	decision := decisionFixture(models.AgentTreasury, models.AgentCRM)

	results := comm.Dispatch(context.Background(), decision, requestFixture(), "req-4")

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Equal(t, models.ErrCodeAgentUnsupported, results[0].Error.Code)
}

func TestDispatchFallbackOnTotalFailure(t *testing.T) {
	tier := newFakeAgentTier()
	tier.behavior[models.AgentRecruitment] = func(w http.ResponseWriter) {
		respondFailure(w, models.AgentRecruitment, models.ErrCodeProviderResponse)
	}
	server := httptest.NewServer(tier.mux)
	defer server.Close()

	comm := NewCommunicator(server.URL, time.Second, zap.NewNop())
	decision := decisionFixture(models.AgentRecruitment)

	results := comm.Dispatch(context.Background(), decision, requestFixture(), "req-5")

	// The failed primary plus the successful synthesized fallback.
	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.True(t, results[1].Success)
	assert.Equal(t, models.AgentGeneral, results[1].AgentType)
}

func TestDispatchFailedFallbackIsDropped(t *testing.T) {
	tier := newFakeAgentTier()
	tier.behavior[models.AgentRecruitment] = func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	tier.behavior[models.AgentGeneral] = func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	server := httptest.NewServer(tier.mux)
	defer server.Close()

	comm := NewCommunicator(server.URL, time.Second, zap.NewNop())
	decision := decisionFixture(models.AgentRecruitment)

	results := comm.Dispatch(context.Background(), decision, requestFixture(), "req-6")

	// Only the failed primary remains; no result is invented for the
	// dropped fallback.
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, []models.AgentType{models.AgentRecruitment, models.AgentGeneral}, tier.calls)
}

func TestDispatchNoFallbackWhenGeneralAlreadyTried(t *testing.T) {
	tier := newFakeAgentTier()
	tier.behavior[models.AgentGeneral] = func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	server := httptest.NewServer(tier.mux)
	defer server.Close()

	comm := NewCommunicator(server.URL, time.Second, zap.NewNop())
	decision := &models.RoutingDecision{
		SelectedAgents: []models.AgentSelection{{Type: models.AgentGeneral, Priority: 1}},
		FallbackAgents: []models.AgentSelection{{Type: models.AgentGeneral, Priority: 99}},
	}

	results := comm.Dispatch(context.Background(), decision, requestFixture(), "req-7")

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, 1, len(tier.calls))
}

func TestDispatchPassesModelPreference(t *testing.T) {
	var captured models.AgentRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/agents/process", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		respondSuccess(w, captured.AgentType)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	comm := NewCommunicator(server.URL, time.Second, zap.NewNop())
	request := requestFixture()
	request.Preferences = &models.RequestPreferences{
		ModelPreference: "claude-sonnet-4",
		ResponseFormat:  "markdown",
	}

	comm.Dispatch(context.Background(), decisionFixture(models.AgentContent), request, "req-8")

	assert.Equal(t, "claude-sonnet-4", captured.Model)
	assert.Equal(t, "markdown", captured.Format)
	assert.Equal(t, "req-8", captured.RequestID)
}
