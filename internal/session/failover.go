package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/soyeahso/telcoassist/internal/domain"
	"github.com/soyeahso/telcoassist/internal/logging"
)

// FailoverStore wraps a durable Store and degrades to an in-memory store
// for the remainder of the process lifetime on the first backend failure.
// The degradation is one-way: state written after failover is non-durable.
type FailoverStore struct {
	primary  Store
	fallback *MemoryStore
	log      *logging.Logger
	degraded atomic.Bool
	once     sync.Once
}

// NewFailoverStore wraps primary with an in-memory fallback.
func NewFailoverStore(primary Store, fallback *MemoryStore, log *logging.Logger) *FailoverStore {
	return &FailoverStore{primary: primary, fallback: fallback, log: log.Sub("session")}
}

func (f *FailoverStore) degrade(op string, err error) {
	f.once.Do(func() {
		f.degraded.Store(true)
		f.log.Error().Err(err).Str("op", op).
			Msg("session store unavailable, degrading to in-memory storage")
	})
}

// Degraded reports whether the store has fallen back to memory.
func (f *FailoverStore) Degraded() bool { return f.degraded.Load() }

func (f *FailoverStore) Load(ctx context.Context, sessionID string) (*domain.DialogState, error) {
	if !f.degraded.Load() {
		state, err := f.primary.Load(ctx, sessionID)
		if err == nil {
			return state, nil
		}
		f.degrade("load", err)
	}
	return f.fallback.Load(ctx, sessionID)
}

func (f *FailoverStore) Save(ctx context.Context, sessionID string, state *domain.DialogState) error {
	if !f.degraded.Load() {
		if err := f.primary.Save(ctx, sessionID, state); err == nil {
			return nil
		} else {
			f.degrade("save", err)
		}
	}
	return f.fallback.Save(ctx, sessionID, state)
}

func (f *FailoverStore) Delete(ctx context.Context, sessionID string) error {
	if !f.degraded.Load() {
		if err := f.primary.Delete(ctx, sessionID); err == nil {
			return f.fallback.Delete(ctx, sessionID)
		} else {
			f.degrade("delete", err)
		}
	}
	return f.fallback.Delete(ctx, sessionID)
}
