package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/agent-orchestrator/models"
)

const processPath = "/api/v1/agents/process"

// Communicator dispatches routed work to the agent-processing tier
// over HTTP, one call per selected agent in priority order.
type Communicator struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewCommunicator creates a communicator for the agent tier at baseURL.
// timeout bounds each individual agent call.
func NewCommunicator(baseURL string, timeout time.Duration, logger *zap.Logger) *Communicator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Communicator{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		timeout:    timeout,
		logger:     logger,
	}
}

// Dispatch invokes every selected agent in ascending priority order.
// Per-agent failures are captured as failed results and never abort
// the batch. If no agent succeeds, one synthesized call goes to the
// first untried fallback agent; its failure is silently dropped.
func (c *Communicator) Dispatch(ctx context.Context, decision *models.RoutingDecision, request *models.OrchestrationRequest, requestID string) []models.AgentResult {
	selected := make([]models.AgentSelection, len(decision.SelectedAgents))
	copy(selected, decision.SelectedAgents)
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Priority < selected[j].Priority
	})

	results := make([]models.AgentResult, 0, len(selected))
	tried := make(map[models.AgentType]bool)

	for _, selection := range selected {
		tried[selection.Type] = true
		result := c.callAgent(ctx, selection, request, requestID)
		results = append(results, result)
	}

	if !anySucceeded(results) {
		if fallback, ok := pickFallback(decision.FallbackAgents, tried); ok {
			c.logger.Info("all selected agents failed, trying fallback",
				zap.String("request_id", requestID),
				zap.String("fallback", string(fallback.Type)))

			result := c.callAgent(ctx, fallback, request, requestID)
			if result.Success {
				results = append(results, result)
			}
			// A failed fallback is dropped, not reported.
		}
	}

	return results
}

// callAgent makes one bounded HTTP call to the agent tier and wraps
// every failure mode in a failed AgentResult.
func (c *Communicator) callAgent(ctx context.Context, selection models.AgentSelection, request *models.OrchestrationRequest, requestID string) models.AgentResult {
	started := time.Now()

	payload := models.AgentRequest{
		AgentType:    selection.Type,
		Query:        request.Query,
		Context:      request.Context,
		Capabilities: selection.Capabilities,
		Maturity:     selection.MaturityLevel,
		RequestID:    requestID,
	}
	if request.Preferences != nil {
		payload.Model = request.Preferences.ModelPreference
		payload.Format = request.Preferences.ResponseFormat
	}

	result, err := c.post(ctx, payload)
	elapsed := time.Since(started).Milliseconds()

	if err != nil {
		c.logger.Warn("agent call failed",
			zap.String("request_id", requestID),
			zap.String("agent", string(selection.Type)),
			zap.Error(err))
		return models.AgentResult{
			AgentType:      selection.Type,
			Success:        false,
			Error:          classifyError(err),
			ProcessingTime: elapsed,
		}
	}

	result.AgentType = selection.Type
	result.ProcessingTime = elapsed
	return *result
}

func (c *Communicator) post(ctx context.Context, payload models.AgentRequest) (*models.AgentResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling agent request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost,
		c.baseURL+processPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &models.AgentError{
			Code:    models.ErrCodeAgentUnsupported,
			Message: fmt.Sprintf("agent type %s not supported by the agent tier", payload.AgentType),
		}
	case resp.StatusCode >= 500:
		return nil, &models.AgentError{
			Code:    models.ErrCodeAgentUnavailable,
			Message: fmt.Sprintf("agent tier returned status %d", resp.StatusCode),
		}
	case resp.StatusCode != http.StatusOK:
		return nil, &models.AgentError{
			Code:    models.ErrCodeUnhandled,
			Message: fmt.Sprintf("unexpected status %d from agent tier", resp.StatusCode),
		}
	}

	var result models.AgentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &models.AgentError{
			Code:    models.ErrCodeProviderResponse,
			Message: "agent tier returned an unreadable body",
		}
	}
	return &result, nil
}

// Helper methods

// classifyError maps transport failures onto the error taxonomy
func classifyError(err error) *models.AgentError {
	var agentErr *models.AgentError
	if errors.As(err, &agentErr) {
		return agentErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &models.AgentError{
			Code:    models.ErrCodeTimeout,
			Message: "agent call exceeded the dispatch timeout",
		}
	}
	return &models.AgentError{
		Code:    models.ErrCodeAgentUnavailable,
		Message: err.Error(),
	}
}

func anySucceeded(results []models.AgentResult) bool {
	for _, result := range results {
		if result.Success {
			return true
		}
	}
	return false
}

// pickFallback chooses the generic fallback agent when it has not
// been tried yet, otherwise the first untried fallback in order.
func pickFallback(fallbacks []models.AgentSelection, tried map[models.AgentType]bool) (models.AgentSelection, bool) {
	for _, fallback := range fallbacks {
		if fallback.Type == models.AgentGeneral && !tried[fallback.Type] {
			return fallback, true
		}
	}
	for _, fallback := range fallbacks {
		if !tried[fallback.Type] {
			return fallback, true
		}
	}
	return models.AgentSelection{}, false
}
