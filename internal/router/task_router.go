package router

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/agent-orchestrator/internal/agents"
	"github.com/yourusername/agent-orchestrator/models"
)

// Base processing time per complexity bucket, in milliseconds.
var baseProcessingTime = map[models.Complexity]int64{
	models.ComplexityLow:    1500,
	models.ComplexityMedium: 3000,
	models.ComplexityHigh:   5000,
}

// primaryAgentFor maps each intent to the agent that owns the domain.
var primaryAgentFor = map[models.IntentCategory]models.AgentType{
	models.IntentRecruitment:       models.AgentRecruitment,
	models.IntentContentGeneration: models.AgentContent,
	models.IntentCRM:               models.AgentCRM,
	models.IntentProjectManagement: models.AgentProject,
	models.IntentTreasuryControl:   models.AgentTreasury,
	models.IntentGeneral:           models.AgentGeneral,
}

// crossFallbackFor names the closest substitute for each domain agent.
// It backs a selected agent at priority 95, below the generic
// fallback at 99.
var crossFallbackFor = map[models.AgentType]models.AgentType{
	models.AgentRecruitment: models.AgentCRM,
	models.AgentCRM:         models.AgentRecruitment,
	models.AgentContent:     models.AgentProject,
	models.AgentProject:     models.AgentContent,
	models.AgentTreasury:    models.AgentCRM,
}

// TaskRouter turns an NLP analysis into a routing decision: which
// agents to call, in what order, under which strategy.
type TaskRouter struct {
	logger *zap.Logger
}

// NewTaskRouter creates a task router
func NewTaskRouter(logger *zap.Logger) *TaskRouter {
	return &TaskRouter{logger: logger}
}

// Route builds the routing decision for an analyzed query. Preferences
// may be nil; excluded agents are removed from secondaries and
// fallbacks but never from the primary selection.
func (r *TaskRouter) Route(analysis *models.NLPAnalysis, prefs *models.RequestPreferences) *models.RoutingDecision {
	selected := r.selectAgents(analysis, prefs)
	strategy := selectStrategy(analysis)
	fallbacks := r.buildFallbacks(selected, prefs)

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Priority < selected[j].Priority
	})

	estimated := estimateTotalTime(selected)
	if prefs != nil && prefs.MaxProcessingTime > 0 && estimated > prefs.MaxProcessingTime {
		estimated = prefs.MaxProcessingTime
	}

	decision := &models.RoutingDecision{
		Strategy:                strategy,
		SelectedAgents:          selected,
		FallbackAgents:          fallbacks,
		Confidence:              routingConfidence(analysis.Confidence, selected),
		Reasoning:               buildReasoning(analysis, strategy, selected),
		EstimatedProcessingTime: estimated,
		Timestamp:               time.Now().UTC(),
	}

	r.logger.Debug("routing decision",
		zap.String("strategy", string(strategy)),
		zap.Int("agents", len(selected)),
		zap.Float64("confidence", decision.Confidence))

	return decision
}

// selectAgents picks the primary agent for the intent plus secondary
// agents triggered by entities and complexity.
func (r *TaskRouter) selectAgents(analysis *models.NLPAnalysis, prefs *models.RequestPreferences) []models.AgentSelection {
	intent := analysis.Intent.Category
	primary, ok := primaryAgentFor[intent]
	if !ok {
		primary = models.AgentGeneral
	}

	baseTime := baseProcessingTime[analysis.Complexity]
	selected := []models.AgentSelection{
		newSelection(primary, 1, baseTime,
			fmt.Sprintf("primary agent for %s intent", intent)),
	}

	hasCurrency := hasEntity(analysis.Entities, models.EntityCurrency)
	hasContact := hasEntity(analysis.Entities, models.EntityEmail) ||
		hasEntity(analysis.Entities, models.EntityPhone)

	if hasCurrency && intent != models.IntentTreasuryControl {
		selected = appendSecondary(selected, prefs,
			newSelection(models.AgentTreasury, 2, int64(float64(baseTime)*0.5),
				"currency amounts detected in query"))
	}
	if hasContact && intent != models.IntentCRM {
		selected = appendSecondary(selected, prefs,
			newSelection(models.AgentCRM, 3, int64(float64(baseTime)*0.3),
				"contact details detected in query"))
	}
	if analysis.Complexity == models.ComplexityHigh && intent != models.IntentContentGeneration {
		selected = appendSecondary(selected, prefs,
			newSelection(models.AgentContent, 4, int64(float64(baseTime)*0.7),
				"complex query benefits from content support"))
	}

	selected = applyPreferredAgents(selected, prefs, baseTime)

	return selected
}

// applyPreferredAgents promotes already-selected secondaries the caller
// prefers by one tier and appends known preferred agents that routing
// rules did not pick, behind every rule-selected agent. The primary's
// slot is never taken.
func applyPreferredAgents(selected []models.AgentSelection, prefs *models.RequestPreferences, baseTime int64) []models.AgentSelection {
	if prefs == nil || len(prefs.PreferredAgents) == 0 {
		return selected
	}

	for i := range selected {
		if selected[i].Priority > 2 && isPreferred(selected[i].Type, prefs) {
			selected[i].Priority--
		}
	}

	for _, preferred := range prefs.PreferredAgents {
		agentType := models.AgentType(preferred)
		if !agents.IsSupported(agentType) {
			continue
		}
		selected = appendSecondary(selected, prefs,
			newSelection(agentType, 5, int64(float64(baseTime)*0.5),
				"requested in caller preferences"))
	}

	return selected
}

// buildFallbacks lists cross-domain substitutes for each selected
// domain agent, then the general assistant as the last resort.
func (r *TaskRouter) buildFallbacks(selected []models.AgentSelection, prefs *models.RequestPreferences) []models.AgentSelection {
	fallbacks := []models.AgentSelection{}
	used := make(map[models.AgentType]bool)
	for _, sel := range selected {
		used[sel.Type] = true
	}

	for _, sel := range selected {
		substitute, ok := crossFallbackFor[sel.Type]
		if !ok || used[substitute] || isExcluded(substitute, prefs) {
			continue
		}
		used[substitute] = true
		fallbacks = append(fallbacks, newSelection(substitute, 95,
			baseProcessingTime[models.ComplexityLow],
			fmt.Sprintf("substitute for %s", sel.Type)))
	}

	// The generic fallback closes every list, even when the general
	// assistant is already the primary. The communicator skips agents
	// it has already tried, so the entry is never dispatched twice.
	fallbacks = append(fallbacks, newSelection(models.AgentGeneral, 99,
		baseProcessingTime[models.ComplexityLow],
		"generic fallback when all selected agents fail"))

	return fallbacks
}

// selectStrategy applies the strategy rules in order, first match wins.
func selectStrategy(analysis *models.NLPAnalysis) models.RoutingStrategy {
	intent := analysis.Intent.Category

	if analysis.Priority == models.PriorityUrgent || analysis.Priority == models.PriorityHigh {
		if analysis.Complexity == models.ComplexityHigh {
			return models.StrategyHybrid
		}
		return models.StrategyParallel
	}
	if analysis.Complexity == models.ComplexityHigh &&
		(intent == models.IntentTreasuryControl || intent == models.IntentProjectManagement) {
		return models.StrategySequential
	}
	if analysis.Complexity == models.ComplexityLow && intent == models.IntentContentGeneration {
		return models.StrategySingle
	}
	return models.StrategyParallel
}

// routingConfidence adjusts the analysis confidence for the selection
// shape and clamps it to [0.1, 0.95].
func routingConfidence(base float64, selected []models.AgentSelection) float64 {
	confidence := base
	if len(selected) > 0 && selected[0].Priority == 1 {
		confidence += 0.10
	}
	for _, sel := range selected {
		if sel.Priority > 5 {
			confidence -= 0.05
		}
	}
	if confidence < 0.1 {
		return 0.1
	}
	if confidence > 0.95 {
		return 0.95
	}
	return confidence
}

// estimateTotalTime is the mean across agents, or the single agent's
// own estimate.
func estimateTotalTime(selected []models.AgentSelection) int64 {
	if len(selected) == 0 {
		return 0
	}
	if len(selected) == 1 {
		return selected[0].EstimatedProcessingTime
	}
	var total int64
	for _, sel := range selected {
		total += sel.EstimatedProcessingTime
	}
	return total / int64(len(selected))
}

func buildReasoning(analysis *models.NLPAnalysis, strategy models.RoutingStrategy, selected []models.AgentSelection) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "detected %s intent (%.0f%% confidence), %s complexity, %d agent(s) selected via %s strategy",
		analysis.Intent.Category, analysis.Intent.Confidence*100,
		analysis.Complexity, len(selected), strategy)
	if len(selected) > 1 {
		sb.WriteString("; multi-agent approach chosen")
	}
	return sb.String()
}

// Helper methods

func newSelection(agentType models.AgentType, priority int, estimatedTime int64, reasoning string) models.AgentSelection {
	selection := models.AgentSelection{
		Type:                    agentType,
		Priority:                priority,
		Reasoning:               reasoning,
		EstimatedProcessingTime: estimatedTime,
	}
	if def, ok := agents.Definition(agentType); ok {
		selection.Capabilities = def.Capabilities
		selection.MaturityLevel = def.Maturity
	}
	return selection
}

func appendSecondary(selected []models.AgentSelection, prefs *models.RequestPreferences, candidate models.AgentSelection) []models.AgentSelection {
	if isExcluded(candidate.Type, prefs) {
		return selected
	}
	for _, sel := range selected {
		if sel.Type == candidate.Type {
			return selected
		}
	}
	return append(selected, candidate)
}

func isPreferred(agentType models.AgentType, prefs *models.RequestPreferences) bool {
	for _, preferred := range prefs.PreferredAgents {
		if models.AgentType(preferred) == agentType {
			return true
		}
	}
	return false
}

func isExcluded(agentType models.AgentType, prefs *models.RequestPreferences) bool {
	if prefs == nil {
		return false
	}
	for _, excluded := range prefs.ExcludedAgents {
		if models.AgentType(excluded) == agentType {
			return true
		}
	}
	return false
}

func hasEntity(entities []models.Entity, entityType models.EntityType) bool {
	for _, entity := range entities {
		if entity.Type == entityType {
			return true
		}
	}
	return false
}
