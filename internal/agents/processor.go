package agents

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/agent-orchestrator/internal/llm"
	"github.com/yourusername/agent-orchestrator/models"
)

// Processor executes a single agent invocation: provider selection,
// prompt rendering, the LLM call and response parsing.
type Processor struct {
	selector *ServiceSelector
	manager  *llm.Manager
	logger   *zap.Logger
}

// NewProcessor creates an agent processor
func NewProcessor(selector *ServiceSelector, manager *llm.Manager, logger *zap.Logger) *Processor {
	return &Processor{
		selector: selector,
		manager:  manager,
		logger:   logger,
	}
}

// Process runs one agent request end to end. Failures are captured in
// the returned result rather than propagated, so a batch of agent
// calls can continue past individual errors.
func (p *Processor) Process(ctx context.Context, request *models.AgentRequest) *models.AgentResult {
	started := time.Now()

	def, ok := Definition(request.AgentType)
	if !ok {
		return p.failedResult(request.AgentType, started, &models.AgentError{
			Code:    models.ErrCodeAgentUnsupported,
			Message: "unsupported agent type: " + string(request.AgentType),
		})
	}

	selection, err := p.selector.Select(request.AgentType, request.Query, request.Model)
	if err != nil {
		return p.failedResult(request.AgentType, started, toAgentError(err))
	}

	prompt, err := RenderPrompt(request.AgentType, request.Query, request.Context, request.Capabilities, request.Format)
	if err != nil {
		return p.failedResult(request.AgentType, started, toAgentError(err))
	}

	response, err := p.manager.GenerateWith(ctx, selection.Service, &llm.GenerationRequest{
		Prompt:       prompt.User,
		SystemPrompt: prompt.System,
		Model:        selection.Model,
		MaxTokens:    def.MaxTokens,
		Temperature:  def.Temperature,
	})
	if err != nil {
		p.logger.Warn("provider call failed",
			zap.String("agent", string(request.AgentType)),
			zap.String("service", selection.Service),
			zap.Error(err))
		return p.failedResult(request.AgentType, started, toAgentError(err))
	}

	payload, err := ParseAgentResponse(response.Content)
	if err != nil {
		return p.failedResult(request.AgentType, started, toAgentError(err))
	}

	finished := time.Now()
	return &models.AgentResult{
		AgentType: request.AgentType,
		Success:   true,
		Data:      payload,
		Metadata: models.ResultMetadata{
			Capabilities: def.Capabilities,
			AIModel:      response.Model,
			TokensUsed:   response.TokenUsage.TotalTokens,
			Maturity:     def.Maturity,
			StartedAt:    started,
			FinishedAt:   finished,
		},
		ProcessingTime: finished.Sub(started).Milliseconds(),
	}
}

func (p *Processor) failedResult(agentType models.AgentType, started time.Time, agentErr *models.AgentError) *models.AgentResult {
	finished := time.Now()
	return &models.AgentResult{
		AgentType: agentType,
		Success:   false,
		Error:     agentErr,
		Metadata: models.ResultMetadata{
			StartedAt:  started,
			FinishedAt: finished,
		},
		ProcessingTime: finished.Sub(started).Milliseconds(),
	}
}

// toAgentError wraps any error in an AgentError, preserving typed
// codes where they exist.
func toAgentError(err error) *models.AgentError {
	var agentErr *models.AgentError
	if errors.As(err, &agentErr) {
		return agentErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &models.AgentError{
			Code:    models.ErrCodeTimeout,
			Message: err.Error(),
		}
	}
	var providerErr *llm.ProviderError
	if errors.As(err, &providerErr) {
		return &models.AgentError{
			Code:    models.ErrCodeProviderResponse,
			Message: providerErr.Message,
			Details: providerErr.Provider,
		}
	}
	return &models.AgentError{
		Code:    models.ErrCodeUnhandled,
		Message: err.Error(),
	}
}
