package config

// Config is the root configuration for telcoassist.
type Config struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	LLM      LLMConfig      `yaml:"llm,omitempty"`
	Redis    RedisConfig    `yaml:"redis,omitempty"`
	Database DatabaseConfig `yaml:"database,omitempty"`
	Session  SessionConfig  `yaml:"session,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// ServerConfig controls the HTTP/WebSocket gateway.
type ServerConfig struct {
	Port int    `yaml:"port,omitempty"`
	Bind string `yaml:"bind,omitempty"` // "loopback" | "lan"
}

// LLMConfig selects and configures the language-understanding provider.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"` // "deepseek" | "openai" | "none"
	APIKey   string `yaml:"apiKey,omitempty"`
	BaseURL  string `yaml:"baseUrl,omitempty"` // custom endpoint for OpenAI-compatible providers
	Model    string `yaml:"model,omitempty"`
}

// RedisConfig configures the session store. Disabled means sessions live
// in process memory only.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// DatabaseConfig configures the business database.
type DatabaseConfig struct {
	Path string `yaml:"path,omitempty"` // SQLite file path, ":memory:" for ephemeral
}

// SessionConfig defines dialog session behavior.
type SessionConfig struct {
	IdleMinutes    int `yaml:"idleMinutes,omitempty"`    // session expiry window
	ConfirmMinutes int `yaml:"confirmMinutes,omitempty"` // pending confirmation expiry window
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File  string `yaml:"file,omitempty"`
	JSON  bool   `yaml:"json,omitempty"`
}
