// Package bot orchestrates a full dialog turn: confirmation resolution,
// language understanding, state tracking, policy, business execution, and
// response rendering.
package bot

import (
	"context"

	"github.com/google/uuid"

	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/dst"
	"github.com/soyeahso/telcoassist/internal/executor"
	"github.com/soyeahso/telcoassist/internal/logging"
	"github.com/soyeahso/telcoassist/internal/nlg"
	"github.com/soyeahso/telcoassist/internal/nlu"
	"github.com/soyeahso/telcoassist/internal/policy"
	"github.com/soyeahso/telcoassist/internal/recommend"
	"github.com/soyeahso/telcoassist/internal/session"
)

// Bot wires the per-turn pipeline together. All dependencies are
// constructor-injected so tests can swap in mocks.
type Bot struct {
	tracker *dst.Tracker
	policy  *policy.Engine
	exec    executor.Executor
	nlu     nlu.Engine
	gen     *nlg.Generator
	rec     *recommend.Engine
	locks   *session.KeyedMutex
	cache   *responseCache
	log     *logging.Logger
}

// New creates a bot over the given components.
func New(tracker *dst.Tracker, pol *policy.Engine, exec executor.Executor, understanding nlu.Engine, gen *nlg.Generator, rec *recommend.Engine, log *logging.Logger) *Bot {
	return &Bot{
		tracker: tracker,
		policy:  pol,
		exec:    exec,
		nlu:     understanding,
		gen:     gen,
		rec:     rec,
		locks:   session.NewKeyedMutex(),
		cache:   newResponseCache(),
		log:     log.Sub("bot"),
	}
}

// ChatResult is the outcome of one dialog turn.
type ChatResult struct {
	SessionID string            `json:"sessionId"`
	Reply     string            `json:"reply"`
	Intent    string            `json:"intent,omitempty"`
	Action    domain.ActionType `json:"action,omitempty"`
	TurnCount int               `json:"turnCount"`
}

// Chat runs one dialog turn. An empty sessionID starts a new session.
// Turns for the same session are serialized; concurrent sessions proceed
// independently.
func (b *Bot) Chat(ctx context.Context, sessionID, input string) (*ChatResult, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	b.locks.Lock(sessionID)
	defer b.locks.Unlock(sessionID)

	log := b.log.WithSession(sessionID)

	state, err := b.tracker.State(ctx, sessionID)
	if err != nil || state == nil {
		if err != nil {
			log.Error().Err(err).Msg("state load failed, starting fresh")
		}
		state = domain.NewDialogState(sessionID)
	}

	// A pending confirmation intercepts the turn before understanding runs.
	// Only a reply that is neither approval nor refusal falls through to the
	// normal cycle.
	if state.PendingConfirmation {
		res := b.policy.Confirm().Resolve(state, input)
		switch res.Outcome {
		case policy.Confirmed:
			return b.executeConfirmed(ctx, state, input, res)
		case policy.Cancelled:
			state.AddTurn("user", input, "")
			return b.finish(ctx, state, domain.Action{Type: domain.ActionClose}, nlg.CancelNotice())
		case policy.Expired:
			state.AddTurn("user", input, "")
			return b.finish(ctx, state, domain.Action{Type: domain.ActionApologize}, nlg.ExpiryNotice())
		}
	}

	u, err := b.nlu.Understand(ctx, input, state)
	if err != nil {
		log.Error().Err(err).Msg("understanding failed")
		state.AddTurn("user", input, "")
		action := domain.Action{
			Type:       domain.ActionApologize,
			Parameters: map[string]any{"error_type": policy.ErrorSystem},
		}
		return b.finish(ctx, state, action, b.gen.Generate(ctx, action, state))
	}

	state, err = b.tracker.Track(ctx, sessionID, u)
	if err != nil {
		// Track returns a usable in-memory state even when persistence
		// failed; the turn continues and the final save retries.
		log.Warn().Err(err).Msg("state tracking persisted with errors")
	}

	if u.RequiresClarification && !state.NeedsClarification {
		action := domain.Action{
			Type:       domain.ActionClarify,
			Intent:     u.Intent,
			Parameters: map[string]any{"message": u.ClarificationMessage},
		}
		return b.finish(ctx, state, action, b.gen.Generate(ctx, action, state))
	}

	action := b.policy.Decide(state, nil)

	switch action.Type {
	case domain.ActionConfirm:
		if !state.PendingConfirmation {
			b.policy.Confirm().Arm(state, action.Intent, action.Parameters)
		}
		return b.finish(ctx, state, action, b.render(ctx, action, state))

	case domain.ActionExecute:
		outcome := b.exec.Execute(ctx, action.Intent, action.Parameters)
		b.attachRecommendation(state, action.Intent, outcome)
		action = b.policy.Decide(state, outcome)
		return b.finish(ctx, state, action, b.render(ctx, action, state))

	default:
		return b.finish(ctx, state, action, b.render(ctx, action, state))
	}
}

// executeConfirmed runs the frozen operation after the user approved it.
func (b *Bot) executeConfirmed(ctx context.Context, state *domain.DialogState, input string, res policy.Resolution) (*ChatResult, error) {
	state.AddTurn("user", input, res.Intent)
	state.CurrentIntent = res.Intent
	state.NeedsClarification = false
	state.MissingSlots = nil

	outcome := b.exec.Execute(ctx, res.Intent, res.Slots)
	action := b.policy.Decide(state, outcome)
	return b.finish(ctx, state, action, b.render(ctx, action, state))
}

// attachRecommendation scores the plan list when the turn warrants a
// proactive pick and rides it to the renderer on the outcome.
func (b *Bot) attachRecommendation(state *domain.DialogState, intent string, outcome *domain.ExecutionResult) {
	if b.rec == nil || intent != domain.IntentQueryPlans || outcome == nil || !outcome.Success {
		return
	}
	rec := b.rec.Recommend(state, outcome)
	if rec == nil {
		return
	}
	if outcome.Extra == nil {
		outcome.Extra = map[string]any{}
	}
	outcome.Extra["recommendation"] = rec
}

func (b *Bot) render(ctx context.Context, action domain.Action, state *domain.DialogState) string {
	if text, ok := b.cache.get(action); ok {
		return text
	}
	text := b.gen.Generate(ctx, action, state)
	b.cache.put(action, text)
	return text
}

// finish records the assistant turn, persists the state, and shapes the
// result. A save failure is logged but does not fail the turn: the user
// already has a reply.
func (b *Bot) finish(ctx context.Context, state *domain.DialogState, action domain.Action, reply string) (*ChatResult, error) {
	state.AddTurn("assistant", reply, action.Intent)
	if err := b.tracker.Save(ctx, state); err != nil {
		b.log.Error().Err(err).Str("session", state.SessionID).Msg("final state save failed")
	}
	return &ChatResult{
		SessionID: state.SessionID,
		Reply:     reply,
		Intent:    state.CurrentIntent,
		Action:    action.Type,
		TurnCount: state.TurnCount,
	}, nil
}

// State returns the stored dialog state for a session.
func (b *Bot) State(ctx context.Context, sessionID string) (*domain.DialogState, error) {
	return b.tracker.State(ctx, sessionID)
}

// Reset discards all stored state for a session.
func (b *Bot) Reset(ctx context.Context, sessionID string) error {
	b.locks.Lock(sessionID)
	defer b.locks.Unlock(sessionID)
	return b.tracker.Reset(ctx, sessionID)
}
