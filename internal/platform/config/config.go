package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	apperrors "github.com/lueurxax/tg-rent-finder/internal/core/errors"
)

const (
	hoursPerDay = 24

	// tbilisiOffset is used when the tz database is unavailable.
	tbilisiOffset = 4 * 60 * 60
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Telegram user client
	TGAPIID       int    `env:"TELEGRAM_API_ID"`
	TGAPIHash     string `env:"TELEGRAM_API_HASH"`
	TGPhone       string `env:"TELEGRAM_PHONE"`
	TG2FAPassword string `env:"TELEGRAM_2FA_PASSWORD"`
	TGSessionPath string `env:"TELEGRAM_SESSION" envDefault:"tg_rent_session"`

	// Selection policy
	USDMin        float64 `env:"USD_MIN" envDefault:"400"`
	USDMax        float64 `env:"USD_MAX" envDefault:"500"`
	GELPerUSD     float64 `env:"GEL_PER_USD" envDefault:"2.7"`
	LookbackDays  int     `env:"LOOKBACK_DAYS" envDefault:"7"`
	TermMinMonths int     `env:"TERM_MIN_MONTHS" envDefault:"6"`
	HistoryLimit  int     `env:"HISTORY_LIMIT" envDefault:"1200"`

	// Channel discovery
	DiscoverLimitPerQuery int `env:"DISCOVER_LIMIT_PER_QUERY" envDefault:"30"`
	DiscoverMinSubs       int `env:"DISCOVER_MIN_SUBS" envDefault:"300"`
	DiscoverMaxChannels   int `env:"DISCOVER_MAX_CHANNELS" envDefault:"40"`

	// LLM oracle
	LLMProvider      string        `env:"LLM_PROVIDER" envDefault:"ollama"`
	OllamaURL        string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434/api/chat"`
	OllamaModel      string        `env:"OLLAMA_MODEL" envDefault:"qwen2.5:3b-instruct"`
	LLMAPIKey        string        `env:"LLM_API_KEY"`
	LLMBaseURL       string        `env:"LLM_BASE_URL"`
	LLMModel         string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	LLMRPS           float64       `env:"LLM_RPS" envDefault:"0"`
	LLMMaxInputChars int           `env:"LLM_MAX_INPUT_CHARS" envDefault:"6000"`

	// Output
	CSVPath       string `env:"CSV_PATH" envDefault:"matches.csv"`
	TextLimit     int    `env:"TEXT_LIMIT" envDefault:"1800"`
	LocalTimezone string `env:"LOCAL_TIMEZONE" envDefault:"Asia/Tbilisi"`
	KeywordsFile  string `env:"KEYWORDS_FILE"`
	PostgresDSN   string `env:"POSTGRES_DSN"`
	BotToken      string `env:"BOT_TOKEN"`
	TargetChatID  int64  `env:"TARGET_CHAT_ID"`
	HealthPort    int    `env:"HEALTH_PORT" envDefault:"0"`

	// CollectInterval repeats collect runs; 0 runs once.
	CollectInterval time.Duration `env:"COLLECT_INTERVAL" envDefault:"0"`

	// Keywords is filled from defaults and KEYWORDS_FILE, not from the environment.
	Keywords Keywords `env:"-"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	keywords, err := LoadKeywords(cfg.KeywordsFile)
	if err != nil {
		return nil, err
	}

	cfg.Keywords = keywords

	if cfg.USDMin > cfg.USDMax {
		return nil, fmt.Errorf("%w: USD_MIN %.2f > USD_MAX %.2f", apperrors.ErrInvalidConfig, cfg.USDMin, cfg.USDMax)
	}

	if cfg.GELPerUSD <= 0 {
		return nil, fmt.Errorf("%w: GEL_PER_USD must be positive", apperrors.ErrInvalidConfig)
	}

	return cfg, nil
}

// ValidateTelegram reports missing user-client credentials.
func (c *Config) ValidateTelegram() error {
	var missing []string

	if c.TGAPIID == 0 {
		missing = append(missing, "TELEGRAM_API_ID")
	}

	if c.TGAPIHash == "" {
		missing = append(missing, "TELEGRAM_API_HASH")
	}

	if c.TGPhone == "" {
		missing = append(missing, "TELEGRAM_PHONE")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrMissingCredentials, strings.Join(missing, ", "))
	}

	return nil
}

// Lookback returns the history window as a duration.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * hoursPerDay * time.Hour
}

// Location resolves LOCAL_TIMEZONE, falling back to a fixed +04:00 zone.
func (c *Config) Location() *time.Location {
	if c.LocalTimezone != "" {
		if loc, err := time.LoadLocation(c.LocalTimezone); err == nil {
			return loc
		}
	}

	return time.FixedZone("+04", tbilisiOffset)
}

// NotifierEnabled reports whether the Telegram bot sink is configured.
func (c *Config) NotifierEnabled() bool {
	return c.BotToken != "" && c.TargetChatID != 0
}
