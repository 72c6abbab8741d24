package agents

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/agent-orchestrator/config"
	"github.com/yourusername/agent-orchestrator/internal/llm"
	"github.com/yourusername/agent-orchestrator/models"
)

// ServiceSelection names the provider and model chosen for one agent
// invocation.
type ServiceSelection struct {
	Service    string  `json:"service"`
	Model      string  `json:"model"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

// modelPreferenceMap resolves an explicit caller preference to a
// provider and concrete model name. A preference listed here bypasses
// all heuristic rules.
var modelPreferenceMap = map[string]ServiceSelection{
	"gpt-4":           {Service: "openai", Model: "gpt-4", Confidence: 1.0},
	"gpt-4-turbo":     {Service: "openai", Model: "gpt-4-turbo-preview", Confidence: 1.0},
	"gpt-3.5-turbo":   {Service: "openai", Model: "gpt-3.5-turbo", Confidence: 1.0},
	"claude-sonnet-4": {Service: "claude", Model: "claude-3-5-sonnet-20241022", Confidence: 1.0},
	"claude-opus":     {Service: "claude", Model: "claude-3-opus-20240229", Confidence: 1.0},
	"claude-haiku":    {Service: "claude", Model: "claude-3-haiku-20240307", Confidence: 1.0},
}

// Trigger-word lists used by the heuristic rules. Matching is
// case-insensitive substring search.
var (
	financialTriggers  = []string{"payment", "invoice", "budget", "transaction", "revenue", "expense", "salary", "cost"}
	creativeTriggers   = []string{"story", "poem", "creative", "imagine", "brainstorm", "narrative", "slogan", "catchy"}
	analyticalTriggers = []string{"analyze", "compare", "evaluate", "assess", "breakdown", "statistics", "trend", "forecast"}
)

// selectionRule is one ordered heuristic: if Condition holds and the
// target provider is configured, the rule's selection wins.
type selectionRule struct {
	Name      string
	Condition func(agentType models.AgentType, query string) bool
	Service   string
	Reasoning string
}

// ServiceSelector picks the LLM provider and model for each agent
// invocation.
type ServiceSelector struct {
	manager *llm.Manager
	cfg     config.AIConfig
	rules   []selectionRule
	logger  *zap.Logger
}

// NewServiceSelector creates a selector backed by the provider manager
func NewServiceSelector(manager *llm.Manager, cfg config.AIConfig, logger *zap.Logger) *ServiceSelector {
	return &ServiceSelector{
		manager: manager,
		cfg:     cfg,
		logger:  logger,
		rules: []selectionRule{
			{
				Name: "recruitment_structured",
				Condition: func(agentType models.AgentType, query string) bool {
					return agentType == models.AgentRecruitment
				},
				Service:   "openai",
				Reasoning: "recruitment work needs structured analysis",
			},
			{
				Name: "content_or_creative",
				Condition: func(agentType models.AgentType, query string) bool {
					return agentType == models.AgentContent || containsAny(query, creativeTriggers)
				},
				Service:   "claude",
				Reasoning: "creative writing task suits long-form generation",
			},
			{
				Name: "complex_analytical",
				Condition: func(agentType models.AgentType, query string) bool {
					return containsAny(query, analyticalTriggers) && isComplexQuery(query)
				},
				Service:   "claude",
				Reasoning: "complex analytical query",
			},
			{
				Name: "content_catchall",
				Condition: func(agentType models.AgentType, query string) bool {
					return agentType == models.AgentContent
				},
				Service:   "claude",
				Reasoning: "content agent default",
			},
		},
	}
}

// Select picks the provider and model for an agent invocation.
// An explicit non-"auto" model preference overrides the heuristics.
// With no configured provider at all it returns a configuration error
// before any call is attempted.
func (s *ServiceSelector) Select(agentType models.AgentType, query, modelPreference string) (ServiceSelection, error) {
	if modelPreference != "" && modelPreference != "auto" {
		if selection, ok := modelPreferenceMap[modelPreference]; ok {
			selection.Reasoning = fmt.Sprintf("caller pinned model %s", modelPreference)
			return selection, nil
		}
		s.logger.Warn("unknown model preference, using heuristics",
			zap.String("preference", modelPreference))
	}

	for _, rule := range s.rules {
		if rule.Condition(agentType, query) && s.manager.HasProvider(rule.Service) {
			return ServiceSelection{
				Service:    rule.Service,
				Model:      s.modelFor(rule.Service),
				Reasoning:  rule.Reasoning,
				Confidence: 0.85,
			}, nil
		}
	}

	for _, service := range []string{"openai", "claude"} {
		if s.manager.HasProvider(service) {
			reasoning := "no heuristic rule matched, using configured provider"
			if containsAny(query, financialTriggers) {
				reasoning = "financial query on the only configured provider"
			}
			return ServiceSelection{
				Service:    service,
				Model:      s.modelFor(service),
				Reasoning:  reasoning,
				Confidence: 0.60,
			}, nil
		}
	}

	return ServiceSelection{}, &models.AgentError{
		Code:    models.ErrCodeConfiguration,
		Message: "no AI provider is configured",
	}
}

func (s *ServiceSelector) modelFor(service string) string {
	switch service {
	case "openai":
		return s.cfg.OpenAI.Model
	case "claude":
		return s.cfg.Claude.Model
	default:
		return ""
	}
}

// isComplexQuery reports whether a query is long enough to warrant the
// stronger model tier.
func isComplexQuery(query string) bool {
	return len(query) > 1000 || len(strings.Fields(query)) > 200
}

func containsAny(query string, triggers []string) bool {
	lower := strings.ToLower(query)
	for _, trigger := range triggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}
