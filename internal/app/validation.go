package app

import (
	"github.com/xeipuuv/gojsonschema"

	"github.com/yourusername/agent-orchestrator/models"
)

// requestSchema validates the inbound orchestration request at the
// HTTP boundary, before the pipeline runs.
const requestSchema = `{
  "type": "object",
  "required": ["query"],
  "properties": {
    "query": {
      "type": "string",
      "minLength": 1,
      "maxLength": 5000
    },
    "context": {
      "type": "object",
      "properties": {
        "userId": {"type": "string"},
        "sessionId": {"type": "string"},
        "source": {"type": "string", "enum": ["web", "mobile", "api", "voice"]},
        "language": {"type": "string", "enum": ["en", "fr"]},
        "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
        "metadata": {"type": "object"}
      }
    },
    "preferences": {
      "type": "object",
      "properties": {
        "preferredAgents": {"type": "array", "items": {"type": "string"}},
        "excludedAgents": {"type": "array", "items": {"type": "string"}},
        "maxProcessingTime": {"type": "integer", "minimum": 0},
        "responseFormat": {"type": "string"},
        "modelPreference": {"type": "string"}
      }
    }
  }
}`

var compiledRequestSchema = gojsonschema.NewStringLoader(requestSchema)

// ValidateRequestBody checks a raw request body against the inbound
// schema. A non-empty issue list means the request must be rejected
// with a validation error.
func ValidateRequestBody(body []byte) []models.ValidationIssue {
	result, err := gojsonschema.Validate(compiledRequestSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return []models.ValidationIssue{{
			Field:   "body",
			Message: "request body is not valid JSON",
		}}
	}

	if result.Valid() {
		return nil
	}

	issues := make([]models.ValidationIssue, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		issues = append(issues, models.ValidationIssue{
			Field:   schemaErr.Field(),
			Message: schemaErr.Description(),
		})
	}
	return issues
}
