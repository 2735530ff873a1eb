// Package session provides keyed, expiring storage for dialog state.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/soyeahso/telcoassist/internal/domain"
)

// DefaultTTL is the session timeout applied to stored state.
const DefaultTTL = 30 * time.Minute

// ErrUnavailable reports that the backing store cannot be reached.
var ErrUnavailable = errors.New("session store unavailable")

// Store persists one DialogState per session with expiry.
//
// Load returns (nil, nil) when no state exists for the session. Every
// implementation must round-trip all DialogState fields.
type Store interface {
	Load(ctx context.Context, sessionID string) (*domain.DialogState, error)
	Save(ctx context.Context, sessionID string, state *domain.DialogState) error
	Delete(ctx context.Context, sessionID string) error
}
