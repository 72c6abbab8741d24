// Why this file: ./models/routing_model.go
// This defines the routing decision structures: agent selections with priorities,
// capability sets, maturity levels, and the overall routing strategy chosen for a request.

package models

import (
	"time"
)

// AgentType identifies an agent persona
type AgentType string

const (
	AgentRecruitment AgentType = "recruitment_agent"
	AgentContent     AgentType = "content_agent"
	AgentCRM         AgentType = "crm_agent"
	AgentProject     AgentType = "project_agent"
	AgentTreasury    AgentType = "treasury_agent"
	AgentGeneral     AgentType = "general_assistant"
)

// MaturityLevel indicates how production-ready an agent persona is.
// Informational metadata only, never a routing input.
type MaturityLevel string

const (
	MaturityM1 MaturityLevel = "M1"
	MaturityM2 MaturityLevel = "M2"
	MaturityM3 MaturityLevel = "M3"
	MaturityM4 MaturityLevel = "M4"
	MaturityM5 MaturityLevel = "M5"
)

// RoutingStrategy represents the conceptual execution shape for selected agents
type RoutingStrategy string

const (
	StrategySingle     RoutingStrategy = "single"
	StrategyParallel   RoutingStrategy = "parallel"
	StrategySequential RoutingStrategy = "sequential"
	StrategyHybrid     RoutingStrategy = "hybrid"
)

// AgentSelection represents one agent chosen by the router.
// Priority 1 is the primary match; values above 5 are fallback tier.
type AgentSelection struct {
	Type                    AgentType     `json:"type"`
	Priority                int           `json:"priority"`
	Reasoning               string        `json:"reasoning"`
	Capabilities            []string      `json:"capabilities"`
	MaturityLevel           MaturityLevel `json:"maturity_level"`
	EstimatedProcessingTime int64         `json:"estimated_processing_time_ms"`
}

// RoutingDecision is the router output for one orchestration request.
// SelectedAgents is ordered ascending by priority; FallbackAgents is a
// separate ordered list used only when every primary attempt fails.
type RoutingDecision struct {
	Strategy                RoutingStrategy  `json:"strategy"`
	SelectedAgents          []AgentSelection `json:"selected_agents"`
	Confidence              float64          `json:"confidence"`
	Reasoning               string           `json:"reasoning"`
	FallbackAgents          []AgentSelection `json:"fallback_agents"`
	EstimatedProcessingTime int64            `json:"estimated_processing_time_ms"`
	Timestamp               time.Time        `json:"timestamp"`
}

// RoutingSummary is the condensed routing view included in response metadata
type RoutingSummary struct {
	Strategy   RoutingStrategy `json:"strategy"`
	AgentTypes []AgentType     `json:"agent_types"`
	Confidence float64         `json:"confidence"`
	Reasoning  string          `json:"reasoning"`
}

// Summary builds the condensed view of a routing decision
func (d *RoutingDecision) Summary() RoutingSummary {
	types := make([]AgentType, 0, len(d.SelectedAgents))
	for _, sel := range d.SelectedAgents {
		types = append(types, sel.Type)
	}
	return RoutingSummary{
		Strategy:   d.Strategy,
		AgentTypes: types,
		Confidence: d.Confidence,
		Reasoning:  d.Reasoning,
	}
}
