package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/agent-orchestrator/internal/llm"
	"github.com/yourusername/agent-orchestrator/models"
)

// intentRule maps a set of trigger keywords to an intent category.
// Rules are evaluated in order and the first match wins.
type intentRule struct {
	Category   models.IntentCategory
	Keywords   []string
	Confidence float64
}

var intentRules = []intentRule{
	{
		Category:   models.IntentRecruitment,
		Keywords:   []string{"recruit", "hire", "hiring", "candidate", "resume", "interview"},
		Confidence: 0.85,
	},
	{
		Category:   models.IntentCRM,
		Keywords:   []string{"leads", "lead", "sales", "crm", "customer"},
		Confidence: 0.80,
	},
	{
		Category:   models.IntentContentGeneration,
		Keywords:   []string{"generate", "write", "create content", "draft", "blog"},
		Confidence: 0.80,
	},
	{
		Category:   models.IntentProjectManagement,
		Keywords:   []string{"project", "task", "schedule", "milestone", "deadline"},
		Confidence: 0.75,
	},
	{
		Category:   models.IntentTreasuryControl,
		Keywords:   []string{"finance", "treasury", "payment", "invoice", "budget"},
		Confidence: 0.80,
	},
}

// IntentClassifier determines what the user wants from their query.
// When an LLM manager is available it is tried first; keyword rules
// are both the fallback and the offline path.
type IntentClassifier struct {
	llmManager *llm.Manager
	logger     *zap.Logger
}

// NewIntentClassifier creates a classifier. llmManager may be nil,
// in which case only keyword classification is used.
func NewIntentClassifier(llmManager *llm.Manager, logger *zap.Logger) *IntentClassifier {
	return &IntentClassifier{
		llmManager: llmManager,
		logger:     logger,
	}
}

// Classify returns the intent for a query. It never returns an error:
// any LLM failure falls back to keyword matching.
func (c *IntentClassifier) Classify(ctx context.Context, query string) models.Intent {
	if c.llmManager != nil {
		intent, err := c.classifyWithLLM(ctx, query)
		if err == nil {
			return intent
		}
		c.logger.Debug("LLM intent classification failed, using keywords",
			zap.Error(err))
	}
	return c.classifyWithKeywords(query)
}

func (c *IntentClassifier) classifyWithKeywords(query string) models.Intent {
	lower := strings.ToLower(query)

	for _, rule := range intentRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return models.Intent{
					Category:   rule.Category,
					Action:     deriveAction(rule.Category),
					Confidence: rule.Confidence,
				}
			}
		}
	}

	return models.Intent{
		Category:   models.IntentGeneral,
		Action:     "assist",
		Confidence: 0.65,
	}
}

func (c *IntentClassifier) classifyWithLLM(ctx context.Context, query string) (models.Intent, error) {
	prompt := fmt.Sprintf(`Classify the user query into exactly one of these categories: %s.

Respond with JSON only: {"category": "...", "action": "...", "confidence": 0.0}

Query: %s`, strings.Join(categoryNames(), ", "), query)

	resp, err := c.llmManager.Generate(ctx, &llm.GenerationRequest{
		Prompt:      prompt,
		MaxTokens:   150,
		Temperature: 0.1,
	})
	if err != nil {
		return models.Intent{}, err
	}

	var parsed struct {
		Category   string  `json:"category"`
		Action     string  `json:"action"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(resp.Content)), &parsed); err != nil {
		return models.Intent{}, fmt.Errorf("parsing classification response: %w", err)
	}

	category := models.IntentCategory(parsed.Category)
	if !validCategory(category) {
		return models.Intent{}, fmt.Errorf("unknown category %q", parsed.Category)
	}

	return models.Intent{
		Category:   category,
		Action:     parsed.Action,
		Confidence: clampConfidence(parsed.Confidence),
	}, nil
}

func deriveAction(category models.IntentCategory) string {
	switch category {
	case models.IntentRecruitment:
		return "find_candidates"
	case models.IntentCRM:
		return "manage_leads"
	case models.IntentContentGeneration:
		return "generate_content"
	case models.IntentProjectManagement:
		return "manage_project"
	case models.IntentTreasuryControl:
		return "manage_finances"
	default:
		return "assist"
	}
}

func categoryNames() []string {
	names := make([]string, 0, len(models.IntentCategories))
	for _, category := range models.IntentCategories {
		names = append(names, string(category))
	}
	return names
}

func validCategory(category models.IntentCategory) bool {
	for _, known := range models.IntentCategories {
		if category == known {
			return true
		}
	}
	return false
}

func clampConfidence(confidence float64) float64 {
	if confidence < 0.1 {
		return 0.1
	}
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
