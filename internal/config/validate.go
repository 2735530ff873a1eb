package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "server.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Server.Port),
		})
	}

	validBinds := []string{"loopback", "lan"}
	if cfg.Server.Bind != "" && !slices.Contains(validBinds, cfg.Server.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "server.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Server.Bind),
		})
	}

	validProviders := []string{"deepseek", "openai", "none"}
	if cfg.LLM.Provider != "" && !slices.Contains(validProviders, cfg.LLM.Provider) {
		issues = append(issues, ValidationIssue{
			Path:    "llm.provider",
			Message: fmt.Sprintf("must be one of %v, got %q", validProviders, cfg.LLM.Provider),
		})
	}
	if cfg.LLM.Provider != "" && cfg.LLM.Provider != "none" && cfg.LLM.APIKey == "" {
		issues = append(issues, ValidationIssue{
			Path:    "llm.apiKey",
			Message: fmt.Sprintf("required for provider %q", cfg.LLM.Provider),
		})
	}

	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		issues = append(issues, ValidationIssue{
			Path:    "redis.addr",
			Message: "required when redis is enabled",
		})
	}

	if cfg.Session.IdleMinutes < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "session.idleMinutes",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Session.IdleMinutes),
		})
	}
	if cfg.Session.ConfirmMinutes < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "session.confirmMinutes",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Session.ConfirmMinutes),
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	return issues
}
