package nlp

import (
	"strings"

	"github.com/yourusername/agent-orchestrator/models"
)

// AssessComplexity buckets a query by word count and entity count.
// Words are split on single spaces so the count matches how the
// frontends tokenize queries.
func AssessComplexity(query string, entities []models.Entity) models.Complexity {
	wordCount := len(strings.Split(query, " "))
	entityCount := len(entities)

	switch {
	case wordCount < 10 && entityCount <= 2:
		return models.ComplexityLow
	case wordCount < 25 && entityCount <= 5:
		return models.ComplexityMedium
	default:
		return models.ComplexityHigh
	}
}

// AssessPriority derives the business priority from intent and complexity.
// Recruitment and treasury work ranks above the other domains.
func AssessPriority(category models.IntentCategory, complexity models.Complexity) models.Priority {
	switch category {
	case models.IntentRecruitment, models.IntentTreasuryControl:
		if complexity == models.ComplexityHigh {
			return models.PriorityUrgent
		}
		return models.PriorityHigh
	case models.IntentCRM, models.IntentProjectManagement:
		if complexity == models.ComplexityHigh {
			return models.PriorityHigh
		}
		return models.PriorityMedium
	default:
		if complexity == models.ComplexityHigh {
			return models.PriorityMedium
		}
		return models.PriorityLow
	}
}
