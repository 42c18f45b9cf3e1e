package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/mentoro/internal/platform/envutil"
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		return d.parse(u)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got kind %d", node.Kind)
	}
	if node.ShortTag() == "!!int" {
		n, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return err
		}
		d.Duration = time.Duration(n)
		return nil
	}
	return d.parse(node.Value)
}

// UnmarshalText covers TOML, which hands string values to TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	return d.parse(string(b))
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

func (d *Duration) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              "127.0.0.1:8787",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Timeout: Duration{Duration: 5 * time.Second},
		},
		Realtime: RealtimeConfig{
			Enabled:      false,
			URL:          "ws://localhost:8000",
			MaxAttempts:  5,
			BackoffUnit:  Duration{Duration: time.Second},
			EventLogSize: 200,
		},
		AI: AIConfig{
			Provider:  "none",
			Timeout:   Duration{Duration: 30 * time.Second},
			CacheSize: 64,
		},
		Store: StoreConfig{
			Driver:     "file",
			DSN:        "data",
			Key:        "mentoro-game-store",
			RankLadder: "coding",
		},
		SSE: SSEConfig{
			Channel: "mentoro-sse",
		},
		Tracing: TracingConfig{
			ServiceName: "mentoro",
		},
	}
}

// Load resolves configuration from defaults, an optional .env file, an optional
// config file and environment overrides, in that order.
func Load() (*Config, error) {
	envFile := strings.TrimSpace(os.Getenv("MENTORO_ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfgPath := strings.TrimSpace(os.Getenv("MENTORO_CONFIG_PATH"))
	if cfgPath == "" {
		cfgPath = findDefaultConfigFile()
	}
	return LoadFile(cfgPath)
}

// LoadFile is Load without the .env step. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findDefaultConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.json", "config.yaml", "config.yml", "config.toml"} {
		p := filepath.Join(wd, "config", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func decodeFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, cfg)
	case ".toml":
		err = toml.Unmarshal(b, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("MENTORO_HTTP_ADDR", cfg.HTTP.Addr)

	cfg.Backend.BaseURL = envutil.String("MENTORO_BACKEND_URL", cfg.Backend.BaseURL)
	cfg.Backend.Timeout.Duration = envutil.Duration("MENTORO_BACKEND_TIMEOUT", cfg.Backend.Timeout.Duration)
	cfg.Backend.MaxRetries = envutil.Int("MENTORO_BACKEND_MAX_RETRIES", cfg.Backend.MaxRetries)

	cfg.Session.Token = envutil.String("MENTORO_SESSION_TOKEN", cfg.Session.Token)
	cfg.Session.UserID = envutil.String("MENTORO_USER_ID", cfg.Session.UserID)

	cfg.Realtime.Enabled = envutil.Bool("MENTORO_REALTIME_ENABLED", cfg.Realtime.Enabled)
	cfg.Realtime.URL = envutil.String("MENTORO_REALTIME_URL", cfg.Realtime.URL)
	cfg.Realtime.MaxAttempts = envutil.Int("MENTORO_REALTIME_MAX_ATTEMPTS", cfg.Realtime.MaxAttempts)

	cfg.AI.Provider = envutil.String("MENTORO_AI_PROVIDER", cfg.AI.Provider)
	cfg.AI.Model = envutil.String("MENTORO_AI_MODEL", cfg.AI.Model)
	cfg.AI.BaseURL = envutil.String("MENTORO_AI_BASE_URL", cfg.AI.BaseURL)
	cfg.AI.APIKey = envutil.String("MENTORO_AI_API_KEY", cfg.AI.APIKey)
	if cfg.AI.APIKey == "" && strings.EqualFold(cfg.AI.Provider, "gemini") {
		cfg.AI.APIKey = envutil.String("GEMINI_API_KEY", "")
	}
	if cfg.AI.APIKey == "" && strings.EqualFold(cfg.AI.Provider, "openai") {
		cfg.AI.APIKey = envutil.String("OPENAI_API_KEY", "")
	}

	cfg.Store.Driver = envutil.String("MENTORO_STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.DSN = envutil.String("MENTORO_STORE_DSN", cfg.Store.DSN)
	cfg.Store.Key = envutil.String("MENTORO_STORE_KEY", cfg.Store.Key)
	cfg.Store.RankLadder = envutil.String("MENTORO_RANK_LADDER", cfg.Store.RankLadder)

	cfg.SSE.RedisAddr = envutil.String("REDIS_ADDR", cfg.SSE.RedisAddr)
	cfg.SSE.Channel = envutil.String("MENTORO_SSE_CHANNEL", cfg.SSE.Channel)
}

func (cfg *Config) validate() error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return errors.New("http.addr is required")
	}
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Backend.BaseURL), "/")
	if cfg.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	if cfg.Backend.Timeout.Duration <= 0 {
		cfg.Backend.Timeout.Duration = 5 * time.Second
	}
	if cfg.Backend.MaxRetries < 0 {
		cfg.Backend.MaxRetries = 0
	}
	if cfg.Realtime.MaxAttempts < 0 {
		return fmt.Errorf("realtime.max_attempts must be >= 0, got %d", cfg.Realtime.MaxAttempts)
	}
	if cfg.Realtime.BackoffUnit.Duration <= 0 {
		cfg.Realtime.BackoffUnit.Duration = time.Second
	}
	cfg.Realtime.URL = strings.TrimRight(strings.TrimSpace(cfg.Realtime.URL), "/")

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	switch cfg.AI.Provider {
	case "", "none":
		cfg.AI.Provider = "none"
	case "gemini":
		if cfg.AI.Model == "" {
			cfg.AI.Model = "gemini-1.5-flash"
		}
	case "openai":
		if cfg.AI.BaseURL == "" {
			cfg.AI.BaseURL = "https://api.openai.com"
		}
		if cfg.AI.Model == "" {
			cfg.AI.Model = "gpt-4o-mini"
		}
	default:
		return fmt.Errorf("unknown ai.provider %q", cfg.AI.Provider)
	}

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	switch cfg.Store.Driver {
	case "memory":
	case "file", "sqlite", "postgres", "redis":
		if strings.TrimSpace(cfg.Store.DSN) == "" {
			return fmt.Errorf("store.dsn is required for driver %q", cfg.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store.driver %q", cfg.Store.Driver)
	}
	if strings.TrimSpace(cfg.Store.Key) == "" {
		cfg.Store.Key = "mentoro-game-store"
	}
	if strings.TrimSpace(cfg.SSE.Channel) == "" {
		cfg.SSE.Channel = "mentoro-sse"
	}
	return nil
}
