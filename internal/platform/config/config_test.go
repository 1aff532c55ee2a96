package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/lueurxax/tg-rent-finder/internal/core/errors"
)

// Test environment variable keys.
const (
	testEnvAPIID   = "TELEGRAM_API_ID"
	testEnvAPIHash = "TELEGRAM_API_HASH"
	testEnvPhone   = "TELEGRAM_PHONE"
)

// Test values.
const (
	testAPIID       = "12345"
	testAPIHash     = "abcdef123456"
	testPhone       = "+995555000111"
	testErrLoad     = "Load() error = %v"
	testDefaultEnv  = "local"
	testDefaultURL  = "http://localhost:11434/api/chat"
	testDefaultCSV  = "matches.csv"
	testDefaultSess = "tg_rent_session"
)

func setCredentials(t *testing.T) {
	t.Helper()

	t.Setenv(testEnvAPIID, testAPIID)
	t.Setenv(testEnvAPIHash, testAPIHash)
	t.Setenv(testEnvPhone, testPhone)
}

func TestLoad_Defaults(t *testing.T) {
	setCredentials(t)

	// Explicitly unset variables that might be in .env to test actual defaults
	for _, key := range []string{"APP_ENV", "USD_MIN", "USD_MAX", "GEL_PER_USD", "LOOKBACK_DAYS",
		"TERM_MIN_MONTHS", "LLM_PROVIDER", "OLLAMA_URL", "CSV_PATH", "TELEGRAM_SESSION", "KEYWORDS_FILE", "LLM_TIMEOUT"} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.AppEnv != testDefaultEnv {
		t.Errorf("AppEnv default = %q, want %q", cfg.AppEnv, testDefaultEnv)
	}

	if cfg.USDMin != 400 || cfg.USDMax != 500 {
		t.Errorf("price band default = [%v, %v], want [400, 500]", cfg.USDMin, cfg.USDMax)
	}

	if cfg.GELPerUSD != 2.7 {
		t.Errorf("GELPerUSD default = %v, want 2.7", cfg.GELPerUSD)
	}

	if cfg.LookbackDays != 7 {
		t.Errorf("LookbackDays default = %d, want 7", cfg.LookbackDays)
	}

	if cfg.TermMinMonths != 6 {
		t.Errorf("TermMinMonths default = %d, want 6", cfg.TermMinMonths)
	}

	if cfg.LLMProvider != "ollama" {
		t.Errorf("LLMProvider default = %q, want ollama", cfg.LLMProvider)
	}

	if cfg.OllamaURL != testDefaultURL {
		t.Errorf("OllamaURL default = %q, want %q", cfg.OllamaURL, testDefaultURL)
	}

	if cfg.CSVPath != testDefaultCSV {
		t.Errorf("CSVPath default = %q, want %q", cfg.CSVPath, testDefaultCSV)
	}

	if cfg.TGSessionPath != testDefaultSess {
		t.Errorf("TGSessionPath default = %q, want %q", cfg.TGSessionPath, testDefaultSess)
	}

	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("LLMTimeout default = %v, want 30s", cfg.LLMTimeout)
	}

	if cfg.Lookback() != 7*24*time.Hour {
		t.Errorf("Lookback() = %v, want 168h", cfg.Lookback())
	}

	if len(cfg.Keywords.Discover) == 0 || len(cfg.Keywords.Priority) == 0 {
		t.Error("default keyword lists should be populated")
	}
}

func TestLoad_InvalidNumeric(t *testing.T) {
	setCredentials(t)
	t.Setenv("USD_MIN", "not-a-number")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid USD_MIN")
	}
}

func TestLoad_InvertedBand(t *testing.T) {
	setCredentials(t)
	t.Setenv("USD_MIN", "600")
	t.Setenv("USD_MAX", "500")

	_, err := Load()
	if !errors.Is(err, apperrors.ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestValidateTelegram(t *testing.T) {
	cfg := &Config{TGAPIID: 1, TGAPIHash: "hash"}

	err := cfg.ValidateTelegram()
	if !errors.Is(err, apperrors.ErrMissingCredentials) {
		t.Fatalf("ValidateTelegram() error = %v, want ErrMissingCredentials", err)
	}

	cfg.TGPhone = testPhone
	if err := cfg.ValidateTelegram(); err != nil {
		t.Errorf("ValidateTelegram() unexpected error: %v", err)
	}
}

func TestLocation_Fallback(t *testing.T) {
	cfg := &Config{LocalTimezone: "Not/AZone"}
	loc := cfg.Location()

	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	if offset != tbilisiOffset {
		t.Errorf("fallback offset = %d, want %d", offset, tbilisiOffset)
	}
}

func TestLoadKeywords_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "priority:\n  - old town\nout_of_area:\n  - gonio\n  - sarpi\n"

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	kw, err := LoadKeywords(path)
	if err != nil {
		t.Fatalf("LoadKeywords() error = %v", err)
	}

	if len(kw.Priority) != 1 || kw.Priority[0] != "old town" {
		t.Errorf("Priority = %v, want [old town]", kw.Priority)
	}

	if len(kw.OutOfArea) != 2 {
		t.Errorf("OutOfArea = %v, want 2 entries", kw.OutOfArea)
	}

	defaults := DefaultKeywords()
	if len(kw.Daily) != len(defaults.Daily) {
		t.Errorf("Daily should keep defaults, got %v", kw.Daily)
	}
}

func TestLoadKeywords_MissingFile(t *testing.T) {
	if _, err := LoadKeywords(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing keywords file")
	}
}
