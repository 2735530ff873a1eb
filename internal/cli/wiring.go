package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/soyeahso/telcoassist/internal/bot"
	"github.com/soyeahso/telcoassist/internal/config"
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

// loadConfig reads and validates the config file.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return cfg, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	issues := config.Validate(&cfg)
	if len(issues) > 0 {
		for _, issue := range issues {
			log.Error().Str("path", issue.Path).Msg(issue.Message)
		}
		return cfg, fmt.Errorf("config validation failed with %d issue(s)", len(issues))
	}
	return cfg, nil
}

// buildStore picks the session store: Redis with in-memory failover when
// configured and reachable, plain in-memory otherwise.
func buildStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (session.Store, func()) {
	ttl := time.Duration(cfg.Session.IdleMinutes) * time.Minute
	memory := session.NewMemoryStore(ttl)

	if !cfg.Redis.Enabled {
		logger.Info().Msg("using in-memory session store")
		return memory, func() {}
	}

	redis, err := session.NewRedisStore(ctx, session.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      ttl,
	})
	if err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).
			Msg("redis unavailable, falling back to in-memory sessions")
		return memory, func() {}
	}

	logger.Info().Str("addr", cfg.Redis.Addr).Msg("using redis session store")
	return session.NewFailoverStore(redis, memory, logger), func() { redis.Close() }
}

// unavailableEngine refuses every turn when no LLM provider is configured.
// The bot degrades each turn to a system apology.
type unavailableEngine struct{}

func (unavailableEngine) Understand(context.Context, string, *domain.DialogState) (domain.Understanding, error) {
	return domain.Understanding{}, fmt.Errorf("%w: no llm provider configured", nlu.ErrUnderstanding)
}

// buildBot wires the full turn pipeline from config. The returned cleanup
// closes the store and database.
func buildBot(ctx context.Context, cfg config.Config, logger *logging.Logger) (*bot.Bot, func(), error) {
	store, closeStore := buildStore(ctx, cfg, logger)

	dbPath := cfg.Database.Path
	if dbPath != ":memory:" && !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(paths.Data, dbPath)
	}
	db, err := executor.Open(dbPath, logger)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	tracker := dst.NewTracker(store, logger,
		dst.WithSessionTimeout(time.Duration(cfg.Session.IdleMinutes)*time.Minute),
		dst.WithConfirmTimeout(time.Duration(cfg.Session.ConfirmMinutes)*time.Minute),
	)

	confirm := policy.NewController(time.Duration(cfg.Session.ConfirmMinutes)*time.Minute, logger)
	engine := policy.NewEngine(confirm, logger)

	var understanding nlu.Engine
	var writer nlg.TextWriter
	if cfg.LLM.Provider == "none" || cfg.LLM.APIKey == "" {
		logger.Warn().Msg("no llm provider configured, chat turns will be refused")
		understanding = unavailableEngine{}
	} else {
		understanding, err = nlu.NewLLMEngine(nlu.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		}, logger)
		if err != nil {
			db.Close()
			closeStore()
			return nil, nil, fmt.Errorf("initializing nlu: %w", err)
		}
		writer = nlg.NewOpenAIWriter(nlg.WriterConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
		logger.Info().Str("provider", cfg.LLM.Provider).Str("model", cfg.LLM.Model).
			Msg("llm provider configured")
	}

	b := bot.New(
		tracker,
		engine,
		executor.NewSQLExecutor(db, logger),
		understanding,
		nlg.NewGenerator(writer, logger),
		recommend.NewEngine(logger),
		logger,
	)

	cleanup := func() {
		db.Close()
		closeStore()
	}
	return b, cleanup, nil
}
