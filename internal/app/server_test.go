package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/agent-orchestrator/config"
	"github.com/yourusername/agent-orchestrator/models"
)

// newFakeAgentTier stands in for the agent-processing tier: every
// process call succeeds with a canned payload.
func newFakeAgentTier(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/agents/process", func(w http.ResponseWriter, r *http.Request) {
		var req models.AgentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(models.AgentResult{
			AgentType: req.AgentType,
			Success:   true,
			Data:      map[string]interface{}{"answer": "done"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestServer(t *testing.T, agentTierURL string) *Server {
	t.Helper()
	cfg := &config.Config{
		App:      config.AppConfig{Name: "orchestrator-test", Version: "0.0.1", Environment: "test"},
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db"), Timeout: "5s"},
		AI:       config.AIConfig{Primary: "openai"},
		Agents:   config.AgentsConfig{BaseURL: agentTierURL, DispatchTimeout: "2s"},
		Logging:  config.LoggingConfig{Level: "error", Format: "json"},
	}

	application, err := NewWithConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { application.Close() })

	return NewServer(application)
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestOrchestrateRecruitmentQuery(t *testing.T) {
	tier := newFakeAgentTier(t)
	server := newTestServer(t, tier.URL)

	rec := postJSON(t, server.Handler(), "/api/v1/orchestrate",
		`{"query": "Please help me hire a new candidate, here is resume@example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var response models.OrchestrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.NotEmpty(t, response.RequestID)
	assert.Equal(t, models.StatusSuccess, response.Status)
	require.NotNil(t, response.Metadata.NLPAnalysis)
	assert.Equal(t, models.IntentRecruitment, response.Metadata.NLPAnalysis.Intent.Category)

	foundEmail := false
	for _, entity := range response.Metadata.NLPAnalysis.Entities {
		if entity.Type == models.EntityEmail && entity.Value == "resume@example.com" {
			foundEmail = true
		}
	}
	assert.True(t, foundEmail, "expected an email entity for resume@example.com")
	assert.NotEmpty(t, response.Results)
}

func TestOrchestrateSimpleContentQuery(t *testing.T) {
	tier := newFakeAgentTier(t)
	server := newTestServer(t, tier.URL)

	rec := postJSON(t, server.Handler(), "/api/v1/orchestrate",
		`{"query": "Write a blog post about renewable energy"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var response models.OrchestrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	analysis := response.Metadata.NLPAnalysis
	require.NotNil(t, analysis)
	assert.Equal(t, models.IntentContentGeneration, analysis.Intent.Category)
	assert.Equal(t, models.ComplexityLow, analysis.Complexity)
	assert.Equal(t, models.StrategySingle, response.Metadata.Routing.Strategy)
}

func TestOrchestrateValidationFailures(t *testing.T) {
	tier := newFakeAgentTier(t)
	server := newTestServer(t, tier.URL)

	tests := []struct {
		name string
		body string
	}{
		{"missing query", `{}`},
		{"empty query", `{"query": ""}`},
		{"query too long", `{"query": "` + strings.Repeat("x", 5001) + `"}`},
		{"bad source", `{"query": "hi", "context": {"source": "fax"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, server.Handler(), "/api/v1/orchestrate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
		})
	}
}

func TestOrchestratePartialStatus(t *testing.T) {
	// The tier fails treasury calls and succeeds on everything else.
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/agents/process", func(w http.ResponseWriter, r *http.Request) {
		var req models.AgentRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.AgentType == models.AgentTreasury {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(models.AgentResult{
			AgentType: req.AgentType,
			Success:   true,
			Data:      map[string]interface{}{"answer": "done"},
		})
	})
	tier := httptest.NewServer(mux)
	defer tier.Close()

	server := newTestServer(t, tier.URL)

	// A CRM query with currency triggers a treasury secondary agent.
	rec := postJSON(t, server.Handler(), "/api/v1/orchestrate",
		`{"query": "Update the customer account and refund $50"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var response models.OrchestrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, models.StatusPartial, response.Status)
}

func TestAgentProcessUnsupportedType(t *testing.T) {
	tier := newFakeAgentTier(t)
	server := newTestServer(t, tier.URL)

	rec := postJSON(t, server.Handler(), "/api/v1/agents/process",
		`{"agentType": "weather_agent", "query": "forecast"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "AGENT_NOT_SUPPORTED")
}

func TestAgentProcessNoProviderConfigured(t *testing.T) {
	tier := newFakeAgentTier(t)
	server := newTestServer(t, tier.URL)

	rec := postJSON(t, server.Handler(), "/api/v1/agents/process",
		`{"agentType": "general_assistant", "query": "hello", "requestId": "req-1"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.AgentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, models.ErrCodeConfiguration, result.Error.Code)
}

func TestHealthEndpoints(t *testing.T) {
	tier := newFakeAgentTier(t)
	server := newTestServer(t, tier.URL)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/agents/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"primary":"openai"`)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/agents/capabilities", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "recruitment_agent")
}

func TestOrchestratePersistsSession(t *testing.T) {
	tier := newFakeAgentTier(t)
	server := newTestServer(t, tier.URL)

	rec := postJSON(t, server.Handler(), "/api/v1/orchestrate",
		`{"query": "show me the new leads", "context": {"userId": "u-1", "sessionId": "s-1", "source": "api"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	messages, err := server.app.storage.RecentMessages("s-1", 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "show me the new leads", messages[0].Content)
	assert.Equal(t, "assistant", messages[1].Role)
}
