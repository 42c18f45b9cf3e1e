package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr" yaml:"addr" toml:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout" yaml:"read_header_timeout" toml:"read_header_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	// AllowedOrigins feeds the CORS middleware; empty means the local dev origins.
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty" toml:"allowed_origins,omitempty"`
}

type BackendConfig struct {
	BaseURL    string   `json:"base_url" yaml:"base_url" toml:"base_url"`
	Timeout    Duration `json:"timeout" yaml:"timeout" toml:"timeout"`
	MaxRetries int      `json:"max_retries" yaml:"max_retries" toml:"max_retries"`
}

type SessionConfig struct {
	// Token is the bearer credential handed out by the identity provider.
	Token  string `json:"token,omitempty" yaml:"token,omitempty" toml:"token,omitempty"`
	UserID string `json:"user_id,omitempty" yaml:"user_id,omitempty" toml:"user_id,omitempty"`
}

type RealtimeConfig struct {
	Enabled      bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	URL          string   `json:"url" yaml:"url" toml:"url"`
	MaxAttempts  int      `json:"max_attempts" yaml:"max_attempts" toml:"max_attempts"`
	BackoffUnit  Duration `json:"backoff_unit" yaml:"backoff_unit" toml:"backoff_unit"`
	EventLogSize int      `json:"event_log_size" yaml:"event_log_size" toml:"event_log_size"`
}

type AIConfig struct {
	// Provider is one of "none", "gemini", "openai".
	Provider  string   `json:"provider" yaml:"provider" toml:"provider"`
	APIKey    string   `json:"api_key,omitempty" yaml:"api_key,omitempty" toml:"api_key,omitempty"`
	Model     string   `json:"model,omitempty" yaml:"model,omitempty" toml:"model,omitempty"`
	BaseURL   string   `json:"base_url,omitempty" yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	Timeout   Duration `json:"timeout" yaml:"timeout" toml:"timeout"`
	CacheSize int      `json:"cache_size" yaml:"cache_size" toml:"cache_size"`
}

type StoreConfig struct {
	// Driver is one of "memory", "file", "sqlite", "postgres", "redis".
	// For "file" the DSN is a directory; for "redis" it is a redis:// URL.
	Driver     string `json:"driver" yaml:"driver" toml:"driver"`
	DSN        string `json:"dsn,omitempty" yaml:"dsn,omitempty" toml:"dsn,omitempty"`
	Key        string `json:"key" yaml:"key" toml:"key"`
	RankLadder string `json:"rank_ladder" yaml:"rank_ladder" toml:"rank_ladder"`
}

type SSEConfig struct {
	// RedisAddr enables cross-process fan-out of store events.
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty" toml:"redis_addr,omitempty"`
	Channel   string `json:"channel" yaml:"channel" toml:"channel"`
}

type TracingConfig struct {
	ServiceName string `json:"service_name" yaml:"service_name" toml:"service_name"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
}

type Config struct {
	Env      string         `json:"env" yaml:"env" toml:"env"`
	HTTP     HTTPConfig     `json:"http" yaml:"http" toml:"http"`
	Backend  BackendConfig  `json:"backend" yaml:"backend" toml:"backend"`
	Session  SessionConfig  `json:"session" yaml:"session" toml:"session"`
	Realtime RealtimeConfig `json:"realtime" yaml:"realtime" toml:"realtime"`
	AI       AIConfig       `json:"ai" yaml:"ai" toml:"ai"`
	Store    StoreConfig    `json:"store" yaml:"store" toml:"store"`
	SSE      SSEConfig      `json:"sse" yaml:"sse" toml:"sse"`
	Tracing  TracingConfig  `json:"tracing" yaml:"tracing" toml:"tracing"`
}
