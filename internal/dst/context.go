package dst

import (
	"time"

	"github.com/soyeahso/telcoassist/internal/domain"
)

const (
	// ContextCap bounds the context stack length.
	ContextCap = 10
	// ContextTTL expires snapshots independently of the cap.
	ContextTTL = 5 * time.Minute
	// identityLookback bounds how far ExtractIdentityEntities scans.
	identityLookback = 5
)

// UpdateContext prunes expired snapshots, appends the new one, and
// truncates to the most recent ContextCap entries.
func UpdateContext(stack []domain.ContextSnapshot, snap domain.ContextSnapshot) []domain.ContextSnapshot {
	cutoff := time.Now().Add(-ContextTTL)

	kept := make([]domain.ContextSnapshot, 0, len(stack)+1)
	for _, s := range stack {
		if s.Timestamp.After(cutoff) {
			kept = append(kept, s)
		}
	}

	kept = append(kept, snap)
	if len(kept) > ContextCap {
		kept = kept[len(kept)-ContextCap:]
	}
	return kept
}

// FindByIntent returns the most recent snapshot for an intent, or nil.
func FindByIntent(stack []domain.ContextSnapshot, intent string) *domain.ContextSnapshot {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Intent == intent {
			return &stack[i]
		}
	}
	return nil
}

// ExtractIdentityEntities scans recent snapshots, most recent first, and
// returns the first non-empty value seen for each identity slot. A value
// found in a newer snapshot is not overwritten by an older one.
func ExtractIdentityEntities(stack []domain.ContextSnapshot) map[string]any {
	entities := map[string]any{}

	start := len(stack) - identityLookback
	if start < 0 {
		start = 0
	}
	for i := len(stack) - 1; i >= start; i-- {
		for key, val := range stack[i].Parameters {
			if !domain.IsIdentitySlot(key) {
				continue
			}
			if _, seen := entities[key]; seen {
				continue
			}
			if s, isStr := val.(string); isStr && s == "" {
				continue
			}
			if val != nil {
				entities[key] = val
			}
		}
	}
	return entities
}
