package nlp

import (
	"regexp"
	"strings"

	"github.com/yourusername/agent-orchestrator/models"
)

// entityPattern couples a compiled regex with the entity type it
// produces and the confidence assigned to each match.
type entityPattern struct {
	Type       models.EntityType
	Regex      *regexp.Regexp
	Confidence float64
}

var entityPatterns = []entityPattern{
	{
		Type:       models.EntityEmail,
		Regex:      regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
		Confidence: 0.95,
	},
	{
		Type:       models.EntityPhone,
		Regex:      regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		Confidence: 0.90,
	},
	{
		Type:       models.EntityDate,
		Regex:      regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4}|\d{4}-\d{2}-\d{2})\b`),
		Confidence: 0.85,
	},
	{
		Type:       models.EntityCurrency,
		Regex:      regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d{2})?|\b\d+(?:,\d{3})*(?:\.\d{2})?\s?(?:dollars|USD|euros|EUR)\b`),
		Confidence: 0.88,
	},
}

// EntityExtractor pulls structured values out of free text.
type EntityExtractor struct{}

// NewEntityExtractor creates an extractor.
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{}
}

// Extract returns all pattern matches found in the query. Offsets are
// resolved with a per-pattern search cursor so repeated values each get
// their own position. Matches are not deduplicated across patterns.
func (e *EntityExtractor) Extract(query string) []models.Entity {
	entities := []models.Entity{}

	for _, pattern := range entityPatterns {
		cursor := 0
		for _, value := range pattern.Regex.FindAllString(query, -1) {
			start := strings.Index(query[cursor:], value)
			if start < 0 {
				continue
			}
			start += cursor
			entities = append(entities, models.Entity{
				Type:       pattern.Type,
				Value:      value,
				Confidence: pattern.Confidence,
				StartIndex: start,
				EndIndex:   start + len(value),
			})
			cursor = start + len(value)
		}
	}

	return entities
}
