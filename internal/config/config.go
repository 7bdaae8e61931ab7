package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Addr            string        `env:"ADDR,default=:8080"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	GeminiAPIToken   string        `env:"GEMINI_API_TOKEN"`
	GeminiTokenParam string        `env:"GEMINI_TOKEN_PARAM"`
	GeminiModel      string        `env:"GEMINI_MODEL,default=gemini-2.5-flash-image"`
	GenerateTimeout  time.Duration `env:"GENERATE_TIMEOUT,default=120s"`
	ForcePNG         bool          `env:"FORCE_PNG,default=false"`

	HistoryBackend string        `env:"HISTORY_BACKEND,default=memory"`
	HistoryLimit   int           `env:"HISTORY_LIMIT,default=10"`
	HistoryTTL     time.Duration `env:"HISTORY_TTL,default=168h"`
	RedisAddr      string        `env:"REDIS_ADDR,default=localhost:6379"`
	HistoryBucket  string        `env:"HISTORY_BUCKET"`
	HistoryPrefix  string        `env:"HISTORY_PREFIX,default=sessions/"`

	CookieSecure bool   `env:"COOKIE_SECURE,default=false"`
	DebugDir     string `env:"DEBUG_DIR"`
}

// Load populates a Config from the environment and checks the combinations
// that cannot be expressed as struct tags.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.GeminiAPIToken == "" && c.GeminiTokenParam == "" {
		return fmt.Errorf("one of GEMINI_API_TOKEN or GEMINI_TOKEN_PARAM is required")
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be at least 1, got %d", c.HistoryLimit)
	}
	switch c.HistoryBackend {
	case "memory", "redis":
	case "s3":
		if c.HistoryBucket == "" {
			return fmt.Errorf("HISTORY_BUCKET is required when HISTORY_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unknown HISTORY_BACKEND %q", c.HistoryBackend)
	}
	return nil
}
