package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 18790,
			Bind: "loopback",
		},
		LLM: LLMConfig{
			Provider: "deepseek",
			BaseURL:  "https://api.deepseek.com/v1",
			Model:    "deepseek-chat",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Database: DatabaseConfig{
			Path: "telco.db",
		},
		Session: SessionConfig{
			IdleMinutes:    30,
			ConfirmMinutes: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
