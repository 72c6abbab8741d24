// Why this file: ./models/response_model.go
// This defines the response structures: per-agent results with typed errors and
// token/model metadata, and the final orchestration response envelope returned to callers.

package models

import (
	"time"
)

// ErrorCode classifies failures across the orchestration pipeline
type ErrorCode string

const (
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrCodeConfiguration    ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeAgentUnavailable ErrorCode = "AGENT_UNAVAILABLE"
	ErrCodeAgentUnsupported ErrorCode = "AGENT_NOT_SUPPORTED"
	ErrCodeProviderResponse ErrorCode = "PROVIDER_RESPONSE_ERROR"
	ErrCodeTimeout          ErrorCode = "TIMEOUT_ERROR"
	ErrCodeUnhandled        ErrorCode = "UNHANDLED_ERROR"
)

// AgentError carries the typed failure of a single agent invocation
type AgentError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AgentError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// ResultMetadata holds metadata about one agent invocation
type ResultMetadata struct {
	Capabilities []string      `json:"capabilities,omitempty"`
	AIModel      string        `json:"ai_model,omitempty"`
	TokensUsed   int           `json:"tokens_used,omitempty"`
	Maturity     MaturityLevel `json:"maturity_level,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
}

// AgentResult is the outcome of one agent actually invoked for a request
type AgentResult struct {
	AgentType      AgentType              `json:"agent_type"`
	Success        bool                   `json:"success"`
	Data           map[string]interface{} `json:"data,omitempty"`
	Error          *AgentError            `json:"error,omitempty"`
	Metadata       ResultMetadata         `json:"metadata"`
	ProcessingTime int64                  `json:"processing_time_ms"`
}

// ResponseStatus summarizes the overall outcome of an orchestration request
type ResponseStatus string

const (
	StatusSuccess ResponseStatus = "success"
	StatusPartial ResponseStatus = "partial"
	StatusFailed  ResponseStatus = "failed"
)

// ResponseMetadata holds the analysis and routing context of a response
type ResponseMetadata struct {
	NLPAnalysis    *NLPAnalysis   `json:"nlp_analysis,omitempty"`
	Routing        RoutingSummary `json:"routing"`
	ProcessingTime int64          `json:"processing_time_ms"`
	Timestamp      time.Time      `json:"timestamp"`
}

// OrchestrationResponse is the final envelope returned to the caller
type OrchestrationResponse struct {
	RequestID string           `json:"request_id"`
	Status    ResponseStatus   `json:"status"`
	Results   []AgentResult    `json:"results"`
	Metadata  ResponseMetadata `json:"metadata"`
}

// StatusFor derives the overall status from a result list
func StatusFor(results []AgentResult) ResponseStatus {
	if len(results) == 0 {
		return StatusFailed
	}
	successes := 0
	for _, r := range results {
		if r.Success {
			successes++
		}
	}
	switch {
	case successes == len(results):
		return StatusSuccess
	case successes > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}
