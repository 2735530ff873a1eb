// Package policy decides the next system action for a turn and gates
// risky actions behind explicit user confirmation.
package policy

import (
	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/logging"
)

// Engine chooses the system action for a turn from the dialog state and an
// optional business execution outcome.
type Engine struct {
	confirm *Controller
	log     *logging.Logger
}

// NewEngine creates a policy engine sharing the given confirmation
// controller.
func NewEngine(confirm *Controller, log *logging.Logger) *Engine {
	return &Engine{confirm: confirm, log: log.Sub("policy")}
}

// Confirm exposes the confirmation controller for the turn orchestrator.
func (e *Engine) Confirm() *Controller { return e.confirm }

// Decide evaluates the decision rules in strict priority order and returns
// the first match. It never panics: any internal failure degrades to a
// generic APOLOGIZE action.
func (e *Engine) Decide(state *domain.DialogState, outcome *domain.ExecutionResult) (action domain.Action) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Any("panic", r).Str("session", state.SessionID).
				Msg("policy decision panicked")
			action = domain.Action{
				Type:        domain.ActionApologize,
				Intent:      orUnknown(state.CurrentIntent),
				Parameters:  map[string]any{"error": "the system is busy, please try again later", "error_type": ErrorSystem},
				TemplateKey: "apologize_system_error",
			}
		}
	}()

	switch {
	case outcome != nil && !outcome.Success:
		action = e.apologize(state, outcome)
	case state.NeedsClarification:
		action = e.requestSlot(state)
	case e.confirm.IsRisky(state):
		action = e.requestConfirmation(state)
	case outcome != nil && outcome.Success:
		action = e.inform(state, outcome)
	case state.CurrentIntent == "" || state.CurrentIntent == domain.IntentSmallTalk:
		// Small talk has no business operation behind it.
		action = domain.Action{
			Type:   domain.ActionInform,
			Intent: domain.IntentSmallTalk,
		}
	default:
		action = domain.Action{
			Type:       domain.ActionExecute,
			Intent:     state.CurrentIntent,
			Parameters: domain.CopySlots(state.Slots),
		}
	}

	e.log.Debug().Str("session", state.SessionID).Str("action", string(action.Type)).
		Str("intent", action.Intent).Msg("decided")
	return action
}

func (e *Engine) apologize(state *domain.DialogState, outcome *domain.ExecutionResult) domain.Action {
	category := ClassifyError(outcome.Error)
	e.log.Warn().Str("session", state.SessionID).Str("category", category).
		Str("error", outcome.Error).Msg("business execution failed")
	return domain.Action{
		Type:   domain.ActionApologize,
		Intent: orUnknown(state.CurrentIntent),
		Parameters: map[string]any{
			"error":      outcome.Error,
			"error_type": category,
		},
		TemplateKey: "apologize_" + category,
	}
}

func (e *Engine) requestSlot(state *domain.DialogState) domain.Action {
	// Deterministic: always the first missing slot in required-list order.
	slot := "unknown"
	if len(state.MissingSlots) > 0 {
		slot = state.MissingSlots[0]
	}
	return domain.Action{
		Type:   domain.ActionRequest,
		Intent: state.CurrentIntent,
		Parameters: map[string]any{
			"slot":    slot,
			"context": domain.CopySlots(state.Slots),
		},
		TemplateKey: "request_" + slot,
	}
}

func (e *Engine) requestConfirmation(state *domain.DialogState) domain.Action {
	// A confirmation already pending is re-prompted with its frozen intent
	// and slots; the caller must not arm a second one.
	intent := state.CurrentIntent
	slots := state.Slots
	if state.PendingConfirmation {
		intent = state.ConfirmIntent
		slots = state.ConfirmSlots
	}
	return domain.Action{
		Type:                 domain.ActionConfirm,
		Intent:               intent,
		Parameters:           domain.CopySlots(slots),
		RequiresConfirmation: true,
		TemplateKey:          "confirm_" + intent,
	}
}

func (e *Engine) inform(state *domain.DialogState, outcome *domain.ExecutionResult) domain.Action {
	params := map[string]any{
		"success": outcome.Success,
		"count":   outcome.Count,
		"data":    outcome.Data,
		"message": outcome.Message,
	}
	for k, v := range outcome.Extra {
		params[k] = v
	}

	action := domain.Action{
		Type:       domain.ActionInform,
		Intent:     state.CurrentIntent,
		Parameters: params,
	}

	if ShouldRecommend(state, outcome) {
		action.Parameters["should_recommend"] = true
		action.UseLLM = true
	}
	if guidance := Guidance(state, outcome); guidance != "" {
		action.Parameters["guidance"] = guidance
	}
	return action
}

func orUnknown(intent string) string {
	if intent == "" {
		return "unknown"
	}
	return intent
}
