package agents

import (
	"github.com/yourusername/agent-orchestrator/models"
)

// AgentDefinition describes a registered agent: what it can do and
// the generation parameters tuned for its domain.
type AgentDefinition struct {
	Type         models.AgentType     `json:"type"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Capabilities []string             `json:"capabilities"`
	Maturity     models.MaturityLevel `json:"maturity"`
	Temperature  float64              `json:"temperature"`
	MaxTokens    int                  `json:"max_tokens"`
}

var registry = map[models.AgentType]AgentDefinition{
	models.AgentRecruitment: {
		Type:         models.AgentRecruitment,
		Name:         "Recruitment Agent",
		Description:  "Sourcing, screening and interview coordination",
		Capabilities: []string{"candidate_search", "resume_screening", "interview_scheduling", "job_posting"},
		Maturity:     models.MaturityM3,
		Temperature:  0.3,
		MaxTokens:    1500,
	},
	models.AgentContent: {
		Type:         models.AgentContent,
		Name:         "Content Agent",
		Description:  "Long and short form content generation",
		Capabilities: []string{"content_writing", "editing", "summarization", "tone_adjustment"},
		Maturity:     models.MaturityM4,
		Temperature:  0.7,
		MaxTokens:    2000,
	},
	models.AgentCRM: {
		Type:         models.AgentCRM,
		Name:         "CRM Agent",
		Description:  "Lead and customer relationship management",
		Capabilities: []string{"lead_management", "contact_enrichment", "pipeline_tracking", "follow_up"},
		Maturity:     models.MaturityM3,
		Temperature:  0.3,
		MaxTokens:    1500,
	},
	models.AgentProject: {
		Type:         models.AgentProject,
		Name:         "Project Agent",
		Description:  "Task planning and schedule management",
		Capabilities: []string{"task_breakdown", "scheduling", "status_reporting", "risk_tracking"},
		Maturity:     models.MaturityM2,
		Temperature:  0.2,
		MaxTokens:    1200,
	},
	models.AgentTreasury: {
		Type:         models.AgentTreasury,
		Name:         "Treasury Agent",
		Description:  "Payments, invoices and budget control",
		Capabilities: []string{"payment_processing", "invoice_handling", "budget_analysis", "currency_conversion"},
		Maturity:     models.MaturityM2,
		Temperature:  0.2,
		MaxTokens:    1000,
	},
	models.AgentGeneral: {
		Type:         models.AgentGeneral,
		Name:         "General Assistant",
		Description:  "Catch-all assistant for unrouted queries",
		Capabilities: []string{"question_answering", "clarification", "general_assistance"},
		Maturity:     models.MaturityM5,
		Temperature:  0.5,
		MaxTokens:    1000,
	},
}

// Definition returns the registered definition for an agent type
func Definition(agentType models.AgentType) (AgentDefinition, bool) {
	def, ok := registry[agentType]
	return def, ok
}

// All returns every registered agent definition
func All() []AgentDefinition {
	defs := make([]AgentDefinition, 0, len(registry))
	for _, agentType := range []models.AgentType{
		models.AgentRecruitment,
		models.AgentContent,
		models.AgentCRM,
		models.AgentProject,
		models.AgentTreasury,
		models.AgentGeneral,
	} {
		defs = append(defs, registry[agentType])
	}
	return defs
}

// IsSupported reports whether an agent type is registered
func IsSupported(agentType models.AgentType) bool {
	_, ok := registry[agentType]
	return ok
}
