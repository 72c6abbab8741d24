// Why this file: ./models/query_model.go
// This defines the data structures for the NLP analysis pipeline: intent categories,
// extracted entities with character offsets, complexity and priority levels.
// This structured analysis enables intelligent query routing to appropriate agents.

package models

import (
	"time"
)

// IntentCategory represents the fixed set of intent categories
type IntentCategory string

const (
	IntentRecruitment       IntentCategory = "recruitment"
	IntentContentGeneration IntentCategory = "content_generation"
	IntentCRM               IntentCategory = "crm"
	IntentProjectManagement IntentCategory = "project_management"
	IntentTreasuryControl   IntentCategory = "treasury_control"
	IntentGeneral           IntentCategory = "general"
)

// IntentCategories lists every allowed category, used to validate LLM classification output
var IntentCategories = []IntentCategory{
	IntentRecruitment,
	IntentContentGeneration,
	IntentCRM,
	IntentProjectManagement,
	IntentTreasuryControl,
	IntentGeneral,
}

// Intent represents the classified intent of a query
type Intent struct {
	Category    IntentCategory `json:"category"`
	Action      string         `json:"action"`
	Confidence  float64        `json:"confidence"`
	Subcategory string         `json:"subcategory"`
}

// EntityType represents different types of entities
type EntityType string

const (
	EntityEmail        EntityType = "email"
	EntityPhone        EntityType = "phone"
	EntityDate         EntityType = "date"
	EntityCurrency     EntityType = "currency"
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
	EntitySkill        EntityType = "skill"
	EntityLocation     EntityType = "location"
)

// Entity represents a structured span found in the query.
// StartIndex/EndIndex are byte offsets into the original query, StartIndex <= EndIndex.
type Entity struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`
	Confidence float64    `json:"confidence"`
	StartIndex int        `json:"start_index"`
	EndIndex   int        `json:"end_index"`
}

// Complexity represents coarse query complexity
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Priority represents request priority
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Sentiment represents the detected sentiment of a query
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// NLPAnalysis aggregates the full analysis of an incoming query.
// It is created once per query and not mutated afterwards.
type NLPAnalysis struct {
	Query      string     `json:"query"`
	Intent     Intent     `json:"intent"`
	Entities   []Entity   `json:"entities"`
	Complexity Complexity `json:"complexity"`
	Priority   Priority   `json:"priority"`
	Confidence float64    `json:"confidence"`
	Language   string     `json:"language"`
	Sentiment  Sentiment  `json:"sentiment"`
	Keywords   []string   `json:"keywords"`
	Timestamp  time.Time  `json:"timestamp"`
}

// MaxQueryLength is the hard limit on query size enforced at the boundary
const MaxQueryLength = 10000
