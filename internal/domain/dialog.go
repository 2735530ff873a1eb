package domain

import "time"

// HistoryCap is the maximum number of turns kept in DialogState.History.
// Older turns are dropped; TurnCount keeps counting past the cap.
const HistoryCap = 20

// Turn is a single utterance in the dialog history.
type Turn struct {
	TurnID    int       `json:"turnId"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ContextSnapshot records one understanding result on the context stack.
type ContextSnapshot struct {
	Intent     string         `json:"intent"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Confidence float64        `json:"confidence"`
	Timestamp  time.Time      `json:"timestamp"`
}

// DialogState is the per-session dialog state owned by the tracker.
// It must round-trip through JSON for the session store.
type DialogState struct {
	SessionID string `json:"sessionId"`

	UserPhone string `json:"userPhone,omitempty"`
	UserName  string `json:"userName,omitempty"`

	CurrentIntent  string `json:"currentIntent,omitempty"`
	PreviousIntent string `json:"previousIntent,omitempty"`

	Slots map[string]any `json:"slots,omitempty"`

	History      []Turn            `json:"history,omitempty"`
	ContextStack []ContextSnapshot `json:"contextStack,omitempty"`

	TurnCount int       `json:"turnCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	NeedsClarification bool     `json:"needsClarification"`
	MissingSlots       []string `json:"missingSlots,omitempty"`

	// Pending confirmation. The four fields are set and cleared together:
	// PendingConfirmation is true iff ConfirmIntent and ConfirmTimestamp
	// are populated.
	PendingConfirmation bool           `json:"pendingConfirmation"`
	ConfirmIntent       string         `json:"confirmIntent,omitempty"`
	ConfirmSlots        map[string]any `json:"confirmSlots,omitempty"`
	ConfirmTimestamp    *time.Time     `json:"confirmTimestamp,omitempty"`

	UserProfile map[string]any `json:"userProfile,omitempty"`
}

// NewDialogState initializes an empty state for a session.
func NewDialogState(sessionID string) *DialogState {
	now := time.Now()
	return &DialogState{
		SessionID:   sessionID,
		Slots:       map[string]any{},
		UserProfile: map[string]any{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddTurn appends an utterance to the history, bumps the turn counter, and
// truncates the history to the most recent HistoryCap entries.
func (s *DialogState) AddTurn(role, content, intent string) {
	s.TurnCount++
	s.History = append(s.History, Turn{
		TurnID:    s.TurnCount,
		Role:      role,
		Content:   content,
		Intent:    intent,
		Timestamp: time.Now(),
	})
	if len(s.History) > HistoryCap {
		s.History = s.History[len(s.History)-HistoryCap:]
	}
	s.UpdatedAt = time.Now()
}

// RecentHistory returns up to count most recent turns.
func (s *DialogState) RecentHistory(count int) []Turn {
	if len(s.History) <= count {
		return s.History
	}
	return s.History[len(s.History)-count:]
}

// SetConfirmation arms a pending confirmation, freezing a value copy of the
// given slots so later slot mutations cannot reach the pending action.
func (s *DialogState) SetConfirmation(intent string, slots map[string]any) {
	now := time.Now()
	s.PendingConfirmation = true
	s.ConfirmIntent = intent
	s.ConfirmSlots = CopySlots(slots)
	s.ConfirmTimestamp = &now
	s.UpdatedAt = now
}

// ClearConfirmation drops all pending-confirmation fields atomically.
func (s *DialogState) ClearConfirmation() {
	s.PendingConfirmation = false
	s.ConfirmIntent = ""
	s.ConfirmSlots = nil
	s.ConfirmTimestamp = nil
	s.UpdatedAt = time.Now()
}

// ConfirmationExpired reports whether the pending confirmation is older
// than the given timeout. False when no confirmation is pending.
func (s *DialogState) ConfirmationExpired(timeout time.Duration) bool {
	if !s.PendingConfirmation || s.ConfirmTimestamp == nil {
		return false
	}
	return time.Since(*s.ConfirmTimestamp) > timeout
}

// Expired reports whether the state itself is stale relative to the
// session timeout, measured from the last update.
func (s *DialogState) Expired(timeout time.Duration) bool {
	if s.UpdatedAt.IsZero() {
		return false
	}
	return time.Since(s.UpdatedAt) > timeout
}

// CopySlots makes a shallow value copy of a slot map. Slot values are
// scalars (strings, numbers, bools) so a shallow copy is a full copy.
func CopySlots(slots map[string]any) map[string]any {
	out := make(map[string]any, len(slots))
	for k, v := range slots {
		out[k] = v
	}
	return out
}
