package domain

// ActionType enumerates the system actions the policy engine can choose.
type ActionType string

const (
	ActionRequest   ActionType = "REQUEST"   // ask the user for a missing slot
	ActionInform    ActionType = "INFORM"    // report an execution result
	ActionConfirm   ActionType = "CONFIRM"   // ask the user to approve a risky action
	ActionRecommend ActionType = "RECOMMEND" // proactive recommendation
	ActionExecute   ActionType = "EXECUTE"   // run the business operation
	ActionClarify   ActionType = "CLARIFY"   // disambiguate the request
	ActionApologize ActionType = "APOLOGIZE" // report a failure
	ActionClose     ActionType = "CLOSE"     // end the dialog
)

// Action is the immutable per-turn decision produced by the policy engine.
type Action struct {
	Type                 ActionType     `json:"actionType"`
	Intent               string         `json:"intent"`
	Parameters           map[string]any `json:"parameters,omitempty"`
	RequiresConfirmation bool           `json:"requiresConfirmation"`

	// Renderer hints.
	TemplateKey string `json:"templateKey,omitempty"`
	UseLLM      bool   `json:"useLlm,omitempty"`
}

// ExecutionResult is the outcome of running a business operation.
type ExecutionResult struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
	Count   int            `json:"count,omitempty"`
	Data    any            `json:"data,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// Understanding is the output of the language-understanding layer consumed
// by the dialog state tracker.
type Understanding struct {
	Intent                string         `json:"intent"`
	Parameters            map[string]any `json:"parameters,omitempty"`
	Confidence            float64        `json:"confidence"`
	RawInput              string         `json:"rawInput"`
	RequiresClarification bool           `json:"requiresClarification,omitempty"`
	ClarificationMessage  string         `json:"clarificationMessage,omitempty"`
}
