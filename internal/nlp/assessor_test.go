package nlp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/agent-orchestrator/models"
)

func TestAssessComplexity(t *testing.T) {
	shortQuery := "find candidates now"
	mediumQuery := strings.Repeat("word ", 14) + "end"
	longQuery := strings.Repeat("word ", 29) + "end"

	manyEntities := make([]models.Entity, 6)

	tests := []struct {
		name     string
		query    string
		entities []models.Entity
		expected models.Complexity
	}{
		{"short no entities", shortQuery, nil, models.ComplexityLow},
		{"short two entities", shortQuery, make([]models.Entity, 2), models.ComplexityLow},
		{"short three entities", shortQuery, make([]models.Entity, 3), models.ComplexityMedium},
		{"medium", mediumQuery, nil, models.ComplexityMedium},
		{"medium many entities", mediumQuery, manyEntities, models.ComplexityHigh},
		{"long", longQuery, nil, models.ComplexityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AssessComplexity(tt.query, tt.entities))
		})
	}
}

func TestAssessPriority(t *testing.T) {
	tests := []struct {
		name       string
		category   models.IntentCategory
		complexity models.Complexity
		expected   models.Priority
	}{
		{"recruitment high", models.IntentRecruitment, models.ComplexityHigh, models.PriorityUrgent},
		{"recruitment low", models.IntentRecruitment, models.ComplexityLow, models.PriorityHigh},
		{"treasury high", models.IntentTreasuryControl, models.ComplexityHigh, models.PriorityUrgent},
		{"treasury medium", models.IntentTreasuryControl, models.ComplexityMedium, models.PriorityHigh},
		{"crm high", models.IntentCRM, models.ComplexityHigh, models.PriorityHigh},
		{"crm low", models.IntentCRM, models.ComplexityLow, models.PriorityMedium},
		{"project high", models.IntentProjectManagement, models.ComplexityHigh, models.PriorityHigh},
		{"project medium", models.IntentProjectManagement, models.ComplexityMedium, models.PriorityMedium},
		{"content high", models.IntentContentGeneration, models.ComplexityHigh, models.PriorityMedium},
		{"content low", models.IntentContentGeneration, models.ComplexityLow, models.PriorityLow},
		{"general high", models.IntentGeneral, models.ComplexityHigh, models.PriorityMedium},
		{"general low", models.IntentGeneral, models.ComplexityLow, models.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AssessPriority(tt.category, tt.complexity))
		})
	}
}
