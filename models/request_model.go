// Why this file: ./models/request_model.go
// This defines the inbound orchestration request envelope: the raw query, the optional
// request context (user, session, source channel, language, priority) and caller preferences.

package models

// OrchestrationRequest is the inbound request accepted by the orchestration API
type OrchestrationRequest struct {
	Query       string              `json:"query"`
	Context     *RequestContext     `json:"context,omitempty"`
	Preferences *RequestPreferences `json:"preferences,omitempty"`
}

// RequestContext holds caller-supplied context for a query
type RequestContext struct {
	UserID    string                 `json:"userId,omitempty"`
	SessionID string                 `json:"sessionId,omitempty"`
	Source    string                 `json:"source,omitempty"`   // web, mobile, api, voice
	Language  string                 `json:"language,omitempty"` // en, fr
	Priority  string                 `json:"priority,omitempty"` // low, medium, high, urgent
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// RequestPreferences holds caller preferences that influence routing and model choice
type RequestPreferences struct {
	PreferredAgents   []string `json:"preferredAgents,omitempty"`
	ExcludedAgents    []string `json:"excludedAgents,omitempty"`
	MaxProcessingTime int64    `json:"maxProcessingTime,omitempty"`
	ResponseFormat    string   `json:"responseFormat,omitempty"`
	ModelPreference   string   `json:"modelPreference,omitempty"` // "auto" or an explicit model token
}

// ValidationIssue describes one problem found while validating an inbound request
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AgentRequest is the payload sent to the agent-processing tier for one invocation
type AgentRequest struct {
	AgentType    AgentType       `json:"agentType"`
	Query        string          `json:"query"`
	Context      *RequestContext `json:"context,omitempty"`
	Capabilities []string        `json:"capabilities"`
	Maturity     MaturityLevel   `json:"maturityLevel"`
	RequestID    string          `json:"requestId"`
	Model        string          `json:"model,omitempty"`          // explicit model preference, "" or "auto" for heuristic
	Format       string          `json:"responseFormat,omitempty"` // caller-preferred presentation of textual fields
}
