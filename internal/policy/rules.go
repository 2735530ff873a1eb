package policy

import (
	"strings"

	"github.com/soyeahso/telcoassist/internal/domain"
)

// LowBudgetThreshold marks a user as price sensitive when their stated
// price ceiling is below it.
const LowBudgetThreshold = 100.0

// recommendCountThreshold triggers a recommendation hint when a query
// returns more results than this.
const recommendCountThreshold = 3

// Error categories attached to APOLOGIZE actions for the renderer.
const (
	ErrorNotFound     = "not_found"
	ErrorInvalidInput = "invalid_input"
	ErrorSystem       = "system_error"
	ErrorUnknown      = "unknown_error"
)

// ClassifyError infers an error category from the executor's error text.
func ClassifyError(errText string) string {
	text := strings.ToLower(errText)
	switch {
	case strings.Contains(text, "not found") || strings.Contains(text, "no such"):
		return ErrorNotFound
	case strings.Contains(text, "invalid") || strings.Contains(text, "malformed"):
		return ErrorInvalidInput
	case strings.Contains(text, "database") || strings.Contains(text, "sql") ||
		strings.Contains(text, "timeout"):
		return ErrorSystem
	default:
		return ErrorUnknown
	}
}

// ShouldRecommend reports whether a successful result warrants a
// recommendation: too many results to scan, or a price-sensitive user.
func ShouldRecommend(state *domain.DialogState, result *domain.ExecutionResult) bool {
	if result.Count > recommendCountThreshold {
		return true
	}
	if ceiling, ok := numericSlot(state.Slots[domain.SlotPriceMax]); ok && ceiling < LowBudgetThreshold {
		return true
	}
	return false
}

// Guidance returns an optional nudge string attached to INFORM actions.
func Guidance(state *domain.DialogState, result *domain.ExecutionResult) string {
	if result.Count == 0 && state.CurrentIntent == domain.IntentQueryPlans {
		return "You could relax the filters a little, for example a higher price cap or lower data floor."
	}

	if isStudent, _ := state.UserProfile["is_student"].(bool); isStudent {
		if plans, ok := result.Data.([]map[string]any); ok {
			for _, p := range plans {
				if name, _ := p["name"].(string); name == "Campus" {
					return ""
				}
			}
			return "As a student you may also want to look at our Campus plan."
		}
	}
	return ""
}
