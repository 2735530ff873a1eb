package dst

import (
	"context"
	"time"

	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/logging"
	"github.com/soyeahso/telcoassist/internal/session"
)

const (
	// DefaultSessionTimeout discards state not updated within this window.
	DefaultSessionTimeout = 30 * time.Minute
	// DefaultConfirmTimeout expires an unanswered confirmation request.
	DefaultConfirmTimeout = 5 * time.Minute
)

// Tracker orchestrates per-turn state tracking: slot merging, context
// updates, clarification detection, and confirmation carry-over.
//
// Callers must serialize turns for the same session id; the tracker does
// not guard the load→mutate→save cycle itself.
type Tracker struct {
	store          session.Store
	log            *logging.Logger
	sessionTimeout time.Duration
	confirmTimeout time.Duration
}

// TrackerOption tweaks tracker construction.
type TrackerOption func(*Tracker)

// WithSessionTimeout overrides the session expiry window.
func WithSessionTimeout(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.sessionTimeout = d }
}

// WithConfirmTimeout overrides the confirmation expiry window.
func WithConfirmTimeout(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.confirmTimeout = d }
}

// NewTracker creates a tracker over the given session store.
func NewTracker(store session.Store, log *logging.Logger, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		store:          store,
		log:            log.Sub("dst"),
		sessionTimeout: DefaultSessionTimeout,
		confirmTimeout: DefaultConfirmTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track runs one state-tracking cycle for a turn and persists the result.
// The returned state is always non-nil; a store failure is returned
// alongside the best-effort state.
func (t *Tracker) Track(ctx context.Context, sessionID string, u domain.Understanding) (*domain.DialogState, error) {
	old, err := t.load(ctx, sessionID)
	if err != nil {
		t.log.Error().Err(err).Str("session", sessionID).Msg("state load failed, starting fresh")
		old = domain.NewDialogState(sessionID)
	}

	// Lazy confirmation expiry: an unanswered confirmation older than the
	// timeout is dropped before anything else looks at it.
	if old.ConfirmationExpired(t.confirmTimeout) {
		t.log.Info().Str("session", sessionID).Str("intent", old.ConfirmIntent).
			Msg("pending confirmation expired")
		old.ClearConfirmation()
	}

	if u.RawInput != "" {
		old.AddTurn("user", u.RawInput, u.Intent)
	}

	intentChanged := old.CurrentIntent != u.Intent
	if intentChanged && old.CurrentIntent != "" {
		t.log.Info().Str("session", sessionID).
			Str("from", old.CurrentIntent).Str("to", u.Intent).Msg("intent changed")
	}

	// An intent switch decides the fate of a pending confirmation: small
	// talk and same-domain follow-ups keep it alive, anything else drops it.
	if intentChanged && old.PendingConfirmation {
		if domain.IsSmallTalk(u.Intent) || domain.SameDomain(u.Intent, old.ConfirmIntent) {
			t.log.Debug().Str("session", sessionID).Str("pending", old.ConfirmIntent).
				Msg("pending confirmation preserved across intent switch")
		} else {
			t.log.Info().Str("session", sessionID).Str("pending", old.ConfirmIntent).
				Str("newIntent", u.Intent).Msg("pending confirmation cleared by unrelated intent")
			old.ClearConfirmation()
		}
	}

	slots := MergeSlots(old.Slots, u.Parameters, old.CurrentIntent, u.Intent)

	if intentChanged {
		for key, val := range ExtractIdentityEntities(old.ContextStack) {
			if _, present := slots[key]; !present {
				slots[key] = val
			}
		}
	}

	stack := UpdateContext(old.ContextStack, domain.ContextSnapshot{
		Intent:     u.Intent,
		Parameters: domain.CopySlots(u.Parameters),
		Confidence: u.Confidence,
		Timestamp:  time.Now(),
	})

	state := &domain.DialogState{
		SessionID:           sessionID,
		UserPhone:           stringSlot(slots, domain.SlotPhone, old.UserPhone),
		UserName:            stringSlot(slots, domain.SlotName, old.UserName),
		CurrentIntent:       u.Intent,
		PreviousIntent:      old.CurrentIntent,
		Slots:               slots,
		History:             old.History,
		ContextStack:        stack,
		TurnCount:           old.TurnCount,
		CreatedAt:           old.CreatedAt,
		UpdatedAt:           time.Now(),
		PendingConfirmation: old.PendingConfirmation,
		ConfirmIntent:       old.ConfirmIntent,
		ConfirmSlots:        old.ConfirmSlots,
		ConfirmTimestamp:    old.ConfirmTimestamp,
		UserProfile:         old.UserProfile,
	}

	missing := ValidateSlots(state.Slots, domain.RequiredSlots(state.CurrentIntent))
	state.MissingSlots = missing
	state.NeedsClarification = len(missing) > 0

	if issues := validateState(state); len(issues) > 0 {
		// Malformed state is logged, never fatal: the turn continues with
		// best-effort data.
		for _, issue := range issues {
			t.log.Warn().Str("session", sessionID).Str("issue", issue).Msg("state validation")
		}
	}

	if err := t.store.Save(ctx, sessionID, state); err != nil {
		t.log.Error().Err(err).Str("session", sessionID).Msg("state save failed")
		return state, err
	}

	t.log.Debug().Str("session", sessionID).Int("turn", state.TurnCount).
		Bool("needsClarification", state.NeedsClarification).Msg("state tracked")
	return state, nil
}

// load returns the stored state, or a fresh one when nothing is stored or
// the stored state has outlived the session timeout.
func (t *Tracker) load(ctx context.Context, sessionID string) (*domain.DialogState, error) {
	old, err := t.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return domain.NewDialogState(sessionID), nil
	}
	if old.Expired(t.sessionTimeout) {
		t.log.Info().Str("session", sessionID).Time("lastUpdate", old.UpdatedAt).
			Msg("session expired, discarding state")
		return domain.NewDialogState(sessionID), nil
	}
	if old.Slots == nil {
		old.Slots = map[string]any{}
	}
	if old.UserProfile == nil {
		old.UserProfile = map[string]any{}
	}
	return old, nil
}

// State returns the current state for a session without mutating it.
// A missing or expired session yields a fresh empty state.
func (t *Tracker) State(ctx context.Context, sessionID string) (*domain.DialogState, error) {
	return t.load(ctx, sessionID)
}

// Save persists a state mutated outside Track, such as after appending the
// assistant's reply to the history.
func (t *Tracker) Save(ctx context.Context, state *domain.DialogState) error {
	return t.store.Save(ctx, state.SessionID, state)
}

// Reset deletes all stored state for a session.
func (t *Tracker) Reset(ctx context.Context, sessionID string) error {
	return t.store.Delete(ctx, sessionID)
}

// SetUserInfo records identity fields on the stored state.
func (t *Tracker) SetUserInfo(ctx context.Context, sessionID, phone, name string) error {
	state, err := t.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if phone != "" {
		state.UserPhone = phone
		state.Slots[domain.SlotPhone] = phone
	}
	if name != "" {
		state.UserName = name
		state.Slots[domain.SlotName] = name
	}
	state.UpdatedAt = time.Now()
	return t.store.Save(ctx, sessionID, state)
}

func validateState(state *domain.DialogState) []string {
	var issues []string
	if state.SessionID == "" {
		issues = append(issues, "missing session id")
	}
	if state.TurnCount < 0 {
		issues = append(issues, "negative turn count")
	}
	if state.CreatedAt.After(time.Now().Add(time.Minute)) {
		issues = append(issues, "created_at in the future")
	}
	if state.PendingConfirmation && (state.ConfirmIntent == "" || state.ConfirmTimestamp == nil) {
		issues = append(issues, "pending confirmation missing intent or timestamp")
	}
	return issues
}

func stringSlot(slots map[string]any, key, fallback string) string {
	if v, ok := slots[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
