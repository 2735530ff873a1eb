// Package dst implements dialog state tracking: slot merging, the context
// stack, and the per-turn tracker.
package dst

import (
	"github.com/soyeahso/telcoassist/internal/domain"
)

// MergeSlots combines the session's existing slots with newly extracted
// ones according to intent relatedness:
//
//   - same intent: union, new values win;
//   - same domain group: identity slots plus carry-over slots for the new
//     intent survive, then new values overlay;
//   - unrelated: only identity slots survive.
func MergeSlots(current, extracted map[string]any, prevIntent, newIntent string) map[string]any {
	merged := map[string]any{}

	switch {
	case prevIntent == newIntent:
		for k, v := range current {
			merged[k] = v
		}
	case domain.SameDomain(prevIntent, newIntent):
		for k, v := range current {
			if domain.IsIdentitySlot(k) || domain.CarriesOver(k, newIntent) {
				merged[k] = v
			}
		}
	default:
		for k, v := range current {
			if domain.IsIdentitySlot(k) {
				merged[k] = v
			}
		}
	}

	for k, v := range extracted {
		merged[k] = v
	}
	return merged
}

// ValidateSlots returns the required slots that are absent, nil, or empty
// strings, in required-list order.
func ValidateSlots(slots map[string]any, required []string) []string {
	var missing []string
	for _, name := range required {
		v, ok := slots[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// ClearSlots drops business slots, optionally keeping identity slots.
func ClearSlots(slots map[string]any, keepIdentity bool) map[string]any {
	out := map[string]any{}
	if !keepIdentity {
		return out
	}
	for k, v := range slots {
		if domain.IsIdentitySlot(k) {
			out[k] = v
		}
	}
	return out
}
