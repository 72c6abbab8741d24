package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yourusername/agent-orchestrator/models"
)

// RenderedPrompt holds the system and user prompt for one provider call
type RenderedPrompt struct {
	System string
	User   string
}

// Per-agent system templates. Each declares the agent's role and the
// required JSON response schema; responses that do not parse against
// these shapes are treated as provider failures.
var systemTemplates = map[models.AgentType]string{
	models.AgentRecruitment: `You are a recruitment specialist agent. You handle candidate sourcing, resume screening, interview coordination and job postings.

Respond ONLY with JSON in this exact schema:
{"summary": "string", "candidates": [{"name": "string", "fit": "string"}], "next_steps": ["string"], "confidence": 0.0}`,

	models.AgentContent: `You are a content creation agent. You write, edit and adapt text for the requested audience and tone.

Respond ONLY with JSON in this exact schema:
{"title": "string", "content": "string", "tone": "string", "word_count": 0}`,

	models.AgentCRM: `You are a CRM agent. You manage leads, customer records and follow-up actions.

Respond ONLY with JSON in this exact schema:
{"summary": "string", "leads": [{"contact": "string", "status": "string"}], "actions": ["string"]}`,

	models.AgentProject: `You are a project management agent. You break down work, build schedules and report status.

Respond ONLY with JSON in this exact schema:
{"summary": "string", "tasks": [{"name": "string", "due": "string", "owner": "string"}], "risks": ["string"]}`,

	models.AgentTreasury: `You are a treasury control agent. You handle payments, invoices and budget questions with precision.

Respond ONLY with JSON in this exact schema:
{"summary": "string", "amounts": [{"value": "string", "purpose": "string"}], "approvals_needed": ["string"]}`,

	models.AgentGeneral: `You are a general assistant agent. You answer questions and help with anything not covered by a specialist.

Respond ONLY with JSON in this exact schema:
{"answer": "string", "suggestions": ["string"]}`,
}

// RenderPrompt builds the system and user prompts for an agent call.
// Unknown agent types get an agent-not-supported error. A non-empty
// format shapes the textual fields inside the JSON payload; the JSON
// envelope itself is never negotiable.
func RenderPrompt(agentType models.AgentType, query string, reqContext *models.RequestContext, capabilities []string, format string) (RenderedPrompt, error) {
	system, ok := systemTemplates[agentType]
	if !ok {
		return RenderedPrompt{}, &models.AgentError{
			Code:    models.ErrCodeAgentUnsupported,
			Message: fmt.Sprintf("no prompt template for agent type %s", agentType),
		}
	}

	var sb strings.Builder
	sb.WriteString("User query:\n")
	sb.WriteString(query)
	sb.WriteString("\n")

	if len(capabilities) > 0 {
		fmt.Fprintf(&sb, "\nApply these capabilities: %s\n", strings.Join(capabilities, ", "))
	}

	if reqContext != nil {
		contextJSON, err := json.Marshal(reqContext)
		if err == nil {
			fmt.Fprintf(&sb, "\nRequest context:\n%s\n", contextJSON)
		}
	}

	if format != "" && format != "json" {
		fmt.Fprintf(&sb, "\nWrite the textual fields of the response as %s.\n", format)
	}

	sb.WriteString("\nRespond strictly in the JSON schema declared in your instructions. Do not add any text outside the JSON.")

	return RenderedPrompt{
		System: system,
		User:   sb.String(),
	}, nil
}

// ParseAgentResponse decodes a provider response into the agent's
// result payload, stripping Markdown code fences first. A response
// that still fails to parse is a hard error for this agent call.
func ParseAgentResponse(content string) (map[string]interface{}, error) {
	cleaned := stripCodeFences(content)

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &models.AgentError{
			Code:    models.ErrCodeProviderResponse,
			Message: "provider returned non-JSON output",
			Details: truncate(cleaned, 200),
		}
	}
	return payload, nil
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
