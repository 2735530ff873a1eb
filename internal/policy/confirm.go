package policy

import (
	"regexp"
	"strings"
	"time"

	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/logging"
)

// ConfirmTimeout expires an unanswered confirmation request.
const ConfirmTimeout = 5 * time.Minute

// PriceThreshold is the monthly price above which a plan operation needs
// explicit confirmation even for non-risky intents.
const PriceThreshold = 200.0

// Outcome is the result of resolving a user reply against a pending
// confirmation.
type Outcome int

const (
	// NotAResponse means the utterance is neither approval nor refusal;
	// the pending confirmation stays untouched and the turn proceeds as a
	// fresh understanding cycle.
	NotAResponse Outcome = iota
	Confirmed
	Cancelled
	Expired
)

// Resolution carries the outcome plus the frozen action on approval.
type Resolution struct {
	Outcome Outcome
	Intent  string
	Slots   map[string]any
}

// Controller gates execution of risky actions behind explicit user
// confirmation.
type Controller struct {
	timeout time.Duration
	log     *logging.Logger
}

// NewController creates a confirmation controller. A zero timeout uses
// ConfirmTimeout.
func NewController(timeout time.Duration, log *logging.Logger) *Controller {
	if timeout <= 0 {
		timeout = ConfirmTimeout
	}
	return &Controller{timeout: timeout, log: log.Sub("confirm")}
}

// IsRisky reports whether the current state demands confirmation before
// execution. While a confirmation is pending, only a return to the frozen
// operation or another risky intent re-gates the turn; a harmless
// digression is answered and the reply carries a reminder instead.
func (c *Controller) IsRisky(state *domain.DialogState) bool {
	if state.PendingConfirmation {
		return state.CurrentIntent == state.ConfirmIntent || domain.IsRiskyIntent(state.CurrentIntent)
	}
	if domain.IsRiskyIntent(state.CurrentIntent) {
		return true
	}
	for _, key := range []string{"price", "new_package_price"} {
		if price, ok := numericSlot(state.Slots[key]); ok && price > PriceThreshold {
			return true
		}
	}
	return false
}

// Arm freezes the intent and a value copy of the slots on the state and
// stamps the confirmation time. Arming while a confirmation is already
// pending is a no-op; the first confirmation must resolve first.
func (c *Controller) Arm(state *domain.DialogState, intent string, slots map[string]any) {
	if state.PendingConfirmation {
		c.log.Warn().Str("session", state.SessionID).Str("pending", state.ConfirmIntent).
			Msg("arm requested while confirmation already pending")
		return
	}
	state.SetConfirmation(intent, slots)
	c.log.Info().Str("session", state.SessionID).Str("intent", intent).Msg("confirmation armed")
}

// Resolve classifies a user reply against the pending confirmation.
// Expiry wins over wording; an approval returns the frozen intent and
// slots and clears the pending fields; a refusal or expiry just clears
// them. Anything else leaves the confirmation untouched.
func (c *Controller) Resolve(state *domain.DialogState, utterance string) Resolution {
	if !state.PendingConfirmation {
		return Resolution{Outcome: NotAResponse}
	}

	if state.ConfirmationExpired(c.timeout) {
		c.log.Info().Str("session", state.SessionID).Str("intent", state.ConfirmIntent).
			Msg("confirmation expired")
		state.ClearConfirmation()
		return Resolution{Outcome: Expired}
	}

	switch {
	case IsAffirmative(utterance):
		intent := state.ConfirmIntent
		slots := state.ConfirmSlots
		state.ClearConfirmation()
		c.log.Info().Str("session", state.SessionID).Str("intent", intent).Msg("confirmation approved")
		return Resolution{Outcome: Confirmed, Intent: intent, Slots: slots}
	case IsNegative(utterance):
		c.log.Info().Str("session", state.SessionID).Str("intent", state.ConfirmIntent).
			Msg("confirmation cancelled")
		state.ClearConfirmation()
		return Resolution{Outcome: Cancelled}
	default:
		return Resolution{Outcome: NotAResponse}
	}
}

// Word lists for the reply classifiers. Matching is ordered so that
// consultation questions and entity-bearing utterances are never read as a
// bare approval.
var (
	questionMarkers = []string{
		"how", "what", "why", "when", "where", "which", "?",
		"can i", "could", "should i", "do you", "does", "is there", "tell me",
	}

	affirmativeWords = map[string]bool{
		"yes": true, "y": true, "yeah": true, "yep": true, "ok": true,
		"okay": true, "sure": true, "confirm": true, "confirmed": true,
		"correct": true, "affirmative": true, "go ahead": true,
	}

	affirmativePhrases = []string{
		"confirm, proceed", "yes please", "please proceed", "confirm it",
		"go ahead", "do it", "yes, confirm", "confirm the change",
	}

	minimalVerbs = map[string]bool{"go": true, "do": true, "ok": true, "k": true}

	negativeWords = []string{
		"cancel", "don't", "dont", "stop", "never mind", "nevermind",
		"forget it", "not now", "abort",
	}

	negativeExact = map[string]bool{"no": true, "nope": true, "nah": true, "n": true}

	phonePattern = regexp.MustCompile(`1[3-9]\d{9}`)
)

// IsAffirmative classifies an utterance as a bare approval of a pending
// confirmation. Precedence: question markers and business entities reject
// first, then exact words, compound phrases, and minimal short verbs.
func IsAffirmative(utterance string) bool {
	text := strings.ToLower(strings.TrimSpace(utterance))
	if text == "" {
		return false
	}

	for _, marker := range questionMarkers {
		if strings.Contains(text, marker) {
			return false
		}
	}

	if phonePattern.MatchString(text) {
		return false
	}
	for _, plan := range domain.PlanNames {
		if strings.Contains(text, strings.ToLower(plan)) {
			return false
		}
	}

	normalized := strings.Trim(text, ".!,")
	if affirmativeWords[normalized] {
		return true
	}
	for _, phrase := range affirmativePhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	if len(normalized) <= 3 && minimalVerbs[normalized] {
		return true
	}
	return false
}

// IsNegative classifies an utterance as a refusal.
func IsNegative(utterance string) bool {
	text := strings.ToLower(strings.TrimSpace(utterance))
	if negativeExact[strings.Trim(text, ".!,")] {
		return true
	}
	for _, word := range negativeWords {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func numericSlot(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
