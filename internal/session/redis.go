package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soyeahso/telcoassist/internal/domain"
)

const (
	// userSessionsTTL bounds the per-user session index.
	userSessionsTTL = 7 * 24 * time.Hour
	// opTimeout bounds every Redis round trip so a slow store cannot
	// stall a turn.
	opTimeout = 5 * time.Second
)

// RedisStore persists dialog state in Redis, one JSON record per session
// under session:<id>:state with the session TTL. Sessions for a known user
// phone are additionally indexed in a per-user set.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func stateKey(sessionID string) string { return "session:" + sessionID + ":state" }

func userKey(phone string) string { return "user:" + phone + ":sessions" }

// Load fetches and decodes the stored state, or returns (nil, nil) when
// the key is absent.
func (r *RedisStore) Load(ctx context.Context, sessionID string) (*domain.DialogState, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	payload, err := r.client.Get(ctx, stateKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", sessionID, err)
	}

	var state domain.DialogState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", sessionID, err)
	}
	return &state, nil
}

// Save writes the state with the session TTL and refreshes the per-user
// session index in one pipeline.
func (r *RedisStore) Save(ctx context.Context, sessionID string, state *domain.DialogState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", sessionID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, stateKey(sessionID), payload, r.ttl)
	if state.UserPhone != "" {
		pipe.SAdd(ctx, userKey(state.UserPhone), sessionID)
		pipe.Expire(ctx, userKey(state.UserPhone), userSessionsTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save %s: %w", sessionID, err)
	}
	return nil
}

// Delete removes the stored state for a session.
func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := r.client.Del(ctx, stateKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", sessionID, err)
	}
	return nil
}

// UserSessions returns the session ids recorded for a user phone.
func (r *RedisStore) UserSessions(ctx context.Context, phone string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.client.SMembers(ctx, userKey(phone)).Result()
}

// Close releases the Redis connection pool.
func (r *RedisStore) Close() error { return r.client.Close() }
