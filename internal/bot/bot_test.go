package bot

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/dst"
	"github.com/soyeahso/telcoassist/internal/logging"
	"github.com/soyeahso/telcoassist/internal/nlg"
	"github.com/soyeahso/telcoassist/internal/nlu"
	"github.com/soyeahso/telcoassist/internal/policy"
	"github.com/soyeahso/telcoassist/internal/recommend"
	"github.com/soyeahso/telcoassist/internal/session"
)

// fakeExecutor records every call and replies from a per-intent script.
// Unscripted intents succeed with a generic message.
type fakeExecutor struct {
	calls   []string
	slots   []map[string]any
	results map[string]*domain.ExecutionResult
}

func (f *fakeExecutor) Execute(_ context.Context, intent string, slots map[string]any) *domain.ExecutionResult {
	f.calls = append(f.calls, intent)
	f.slots = append(f.slots, slots)
	if r, ok := f.results[intent]; ok {
		return r
	}
	return &domain.ExecutionResult{Success: true, Message: "done"}
}

// scriptedNLU plays back understandings in order, falling back to small
// talk when the script runs out.
func scriptedNLU(script ...domain.Understanding) *nlu.MockEngine {
	i := 0
	return &nlu.MockEngine{
		UnderstandFunc: func(_ context.Context, input string, _ *domain.DialogState) (domain.Understanding, error) {
			if i >= len(script) {
				return domain.Understanding{
					Intent: domain.IntentSmallTalk, Parameters: map[string]any{},
					Confidence: 0.5, RawInput: input,
				}, nil
			}
			u := script[i]
			i++
			u.RawInput = input
			if u.Parameters == nil {
				u.Parameters = map[string]any{}
			}
			return u, nil
		},
	}
}

func understanding(intent string, params map[string]any) domain.Understanding {
	return domain.Understanding{Intent: intent, Parameters: params, Confidence: 0.9}
}

func newTestBot(engine nlu.Engine, exec *fakeExecutor) *Bot {
	log := logging.NewWriter(io.Discard, "error")
	tracker := dst.NewTracker(session.NewMemoryStore(time.Hour), log)
	pol := policy.NewEngine(policy.NewController(0, log), log)
	return New(tracker, pol, exec, engine, nlg.NewGenerator(nil, log), recommend.NewEngine(log), log)
}

func TestChatGeneratesSessionID(t *testing.T) {
	exec := &fakeExecutor{}
	b := newTestBot(scriptedNLU(understanding(domain.IntentSmallTalk, nil)), exec)

	res, err := b.Chat(context.Background(), "", "hi there")
	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, domain.ActionInform, res.Action)
	assert.Contains(t, res.Reply, "How can I help")
	assert.Equal(t, 2, res.TurnCount)
	assert.Empty(t, exec.calls, "small talk never reaches the executor")
}

func TestChatRequestsMissingSlot(t *testing.T) {
	exec := &fakeExecutor{}
	b := newTestBot(scriptedNLU(
		understanding(domain.IntentChangePlan, map[string]any{"new_package_name": "Voyager"}),
	), exec)

	res, err := b.Chat(context.Background(), "s1", "switch me to Voyager")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionRequest, res.Action)
	assert.Equal(t, "Could you share your phone number so I can look that up?", res.Reply)
	assert.Equal(t, domain.IntentChangePlan, res.Intent)
	assert.Empty(t, exec.calls)
}

func TestChatConfirmThenApprove(t *testing.T) {
	exec := &fakeExecutor{results: map[string]*domain.ExecutionResult{
		domain.IntentChangePlan: {Success: true, Message: "You're all set, the Voyager plan takes effect next cycle."},
	}}
	engine := scriptedNLU(understanding(domain.IntentChangePlan, map[string]any{
		"phone": "13812345678", "new_package_name": "Voyager",
	}))
	b := newTestBot(engine, exec)
	ctx := context.Background()

	res, err := b.Chat(ctx, "s1", "switch 13812345678 to Voyager")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionConfirm, res.Action)
	assert.Contains(t, res.Reply, "switch 13812345678 to the Voyager plan")
	assert.Empty(t, exec.calls, "nothing executes before approval")

	state, err := b.State(ctx, "s1")
	require.NoError(t, err)
	require.True(t, state.PendingConfirmation)

	res, err = b.Chat(ctx, "s1", "confirm")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionInform, res.Action)
	assert.Equal(t, "You're all set, the Voyager plan takes effect next cycle.", res.Reply)
	require.Equal(t, []string{domain.IntentChangePlan}, exec.calls)
	assert.Equal(t, "Voyager", exec.slots[0]["new_package_name"])
	assert.Len(t, engine.Calls, 1, "the approval turn skips understanding")

	state, err = b.State(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, state.PendingConfirmation)
}

func TestChatCancelPending(t *testing.T) {
	exec := &fakeExecutor{}
	b := newTestBot(scriptedNLU(understanding(domain.IntentChangePlan, map[string]any{
		"phone": "13812345678", "new_package_name": "Unlimited",
	})), exec)
	ctx := context.Background()

	_, err := b.Chat(ctx, "s1", "put me on Unlimited, 13812345678")
	require.NoError(t, err)

	res, err := b.Chat(ctx, "s1", "no, forget it")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionClose, res.Action)
	assert.Equal(t, nlg.CancelNotice(), res.Reply)
	assert.Empty(t, exec.calls)

	state, err := b.State(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, state.PendingConfirmation)
}

func TestChatExpiredPending(t *testing.T) {
	exec := &fakeExecutor{}
	b := newTestBot(scriptedNLU(understanding(domain.IntentChangePlan, map[string]any{
		"phone": "13812345678", "new_package_name": "Voyager",
	})), exec)
	ctx := context.Background()

	_, err := b.Chat(ctx, "s1", "switch me to Voyager, 13812345678")
	require.NoError(t, err)

	state, err := b.tracker.State(ctx, "s1")
	require.NoError(t, err)
	expired := time.Now().Add(-10 * time.Minute)
	state.ConfirmTimestamp = &expired
	require.NoError(t, b.tracker.Save(ctx, state))

	res, err := b.Chat(ctx, "s1", "confirm")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionApologize, res.Action)
	assert.Equal(t, nlg.ExpiryNotice(), res.Reply)
	assert.Empty(t, exec.calls, "an expired approval must not execute")

	state, err = b.State(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, state.PendingConfirmation)
}

func TestChatDigressionKeepsPendingAndReminds(t *testing.T) {
	exec := &fakeExecutor{results: map[string]*domain.ExecutionResult{
		domain.IntentQueryPlanDetail: {Success: true, Count: 1, Data: map[string]any{
			"name": "Voyager", "price": 180.0, "data_gb": 100.0,
			"voice_minutes": 500.0, "target_user": "everyone",
		}},
	}}
	b := newTestBot(scriptedNLU(
		understanding(domain.IntentChangePlan, map[string]any{"phone": "13812345678", "new_package_name": "Voyager"}),
		understanding(domain.IntentQueryPlanDetail, map[string]any{"package_name": "Voyager"}),
	), exec)
	ctx := context.Background()

	_, err := b.Chat(ctx, "s1", "switch 13812345678 to Voyager")
	require.NoError(t, err)

	res, err := b.Chat(ctx, "s1", "what does the Voyager plan include")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionInform, res.Action)
	assert.Contains(t, res.Reply, "Voyager")
	assert.Contains(t, res.Reply, "pending plan change awaiting confirmation")
	assert.Equal(t, []string{domain.IntentQueryPlanDetail}, exec.calls)

	state, err := b.State(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, state.PendingConfirmation, "a same-domain question keeps the confirmation alive")
}

func TestChatUnrelatedIntentClearsPending(t *testing.T) {
	exec := &fakeExecutor{results: map[string]*domain.ExecutionResult{
		domain.IntentQueryUsage: {Success: true, Data: map[string]any{
			"phone": "13812345678", "monthly_usage_gb": 4.2, "balance": 23.5,
		}},
	}}
	b := newTestBot(scriptedNLU(
		understanding(domain.IntentChangePlan, map[string]any{"phone": "13812345678", "new_package_name": "Voyager"}),
		understanding(domain.IntentQueryUsage, nil),
	), exec)
	ctx := context.Background()

	_, err := b.Chat(ctx, "s1", "switch 13812345678 to Voyager")
	require.NoError(t, err)

	res, err := b.Chat(ctx, "s1", "how much data do I have left")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionInform, res.Action)
	assert.NotContains(t, res.Reply, "pending plan change")
	assert.Equal(t, []string{domain.IntentQueryUsage}, exec.calls)
	// The tracked phone satisfies the usage lookup without re-asking.
	assert.Equal(t, "13812345678", exec.slots[0]["phone"])

	state, err := b.State(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, state.PendingConfirmation)
}

func TestChatUnderstandingErrorApologizes(t *testing.T) {
	exec := &fakeExecutor{}
	engine := &nlu.MockEngine{
		UnderstandFunc: func(context.Context, string, *domain.DialogState) (domain.Understanding, error) {
			return domain.Understanding{}, errors.New("upstream timeout")
		},
	}
	b := newTestBot(engine, exec)

	res, err := b.Chat(context.Background(), "s1", "hello")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionApologize, res.Action)
	assert.Contains(t, res.Reply, "the system ran into a problem")
	assert.Equal(t, 2, res.TurnCount, "the failed turn is still recorded")
	assert.Empty(t, exec.calls)
}

func TestChatAttachesRecommendation(t *testing.T) {
	plans := []map[string]any{
		{"name": "Campus", "price": 30.0, "data_gb": 30.0, "voice_minutes": 200.0, "target_user": "student"},
		{"name": "Economy", "price": 50.0, "data_gb": 10.0, "voice_minutes": 200.0, "target_user": "everyone"},
		{"name": "Voyager", "price": 180.0, "data_gb": 100.0, "voice_minutes": 500.0, "target_user": "everyone"},
		{"name": "Unlimited", "price": 300.0, "data_gb": 1000.0, "voice_minutes": 1000.0, "target_user": "everyone"},
	}
	exec := &fakeExecutor{results: map[string]*domain.ExecutionResult{
		domain.IntentQueryPlans: {Success: true, Count: 4, Data: plans},
	}}
	b := newTestBot(scriptedNLU(
		understanding(domain.IntentQueryPlans, map[string]any{"price_max": 200.0}),
	), exec)

	res, err := b.Chat(context.Background(), "s1", "plans under 200")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionInform, res.Action)
	assert.Contains(t, res.Reply, "I found 4 matching plan(s)")
	assert.Contains(t, res.Reply, "My pick for you")
}

func TestReset(t *testing.T) {
	exec := &fakeExecutor{}
	b := newTestBot(scriptedNLU(understanding(domain.IntentSmallTalk, nil)), exec)
	ctx := context.Background()

	_, err := b.Chat(ctx, "s1", "hi")
	require.NoError(t, err)
	require.NoError(t, b.Reset(ctx, "s1"))

	state, err := b.State(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, state.TurnCount)
}
