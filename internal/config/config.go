// Package config loads service configuration from an optional .env file and
// the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendBigQuery = "bigquery"
)

// Config is the runtime configuration shared by every binary.
type Config struct {
	Port           string
	StorageBackend string

	GCPProject string
	BQDataset  string
	GCSBucket  string

	SupabaseURL string
	SupabaseKey string

	NotionToken       string
	NotionSummaryDBID string
	NotionBudgetDBID  string

	UserID   string
	LogLevel string

	GenAIModel   string
	GenAIEnabled bool

	ProEnabled             bool
	MonthlyIncome          float64
	BudgetCycleStart       int
	IncomeClusterTolerance float64
}

// Load reads .env files (missing files are ignored) and then the environment.
// Variables already set in the environment win over .env values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("Load: reading %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:              getenv("PORT", "8080"),
		StorageBackend:    strings.ToLower(getenv("STORAGE_BACKEND", BackendMemory)),
		GCPProject:        os.Getenv("GCP_PROJECT"),
		BQDataset:         getenv("BQ_DATASET", "finance"),
		GCSBucket:         os.Getenv("GCS_BUCKET"),
		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseKey:       os.Getenv("SUPABASE_KEY"),
		NotionToken:       os.Getenv("NOTION_TOKEN"),
		NotionSummaryDBID: os.Getenv("NOTION_SUMMARY_DB_ID"),
		NotionBudgetDBID:  os.Getenv("NOTION_BUDGET_DB_ID"),
		UserID:            getenv("USER_ID", "default"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		GenAIModel:        os.Getenv("GENAI_MODEL"),
	}

	var err error
	if cfg.GenAIEnabled, err = boolEnv("GENAI_ENABLED"); err != nil {
		return nil, err
	}
	if cfg.ProEnabled, err = boolEnv("PRO_ENABLED"); err != nil {
		return nil, err
	}
	if cfg.MonthlyIncome, err = floatEnv("MONTHLY_INCOME"); err != nil {
		return nil, err
	}
	if cfg.IncomeClusterTolerance, err = floatEnv("INCOME_CLUSTER_TOLERANCE"); err != nil {
		return nil, err
	}
	if v := os.Getenv("BUDGET_CYCLE_START"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 31 {
			return nil, fmt.Errorf("FromEnv: BUDGET_CYCLE_START must be a day of month, got %q", v)
		}
		cfg.BudgetCycleStart = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendBigQuery:
		if c.GCPProject == "" {
			return fmt.Errorf("Validate: GCP_PROJECT is required for the bigquery backend")
		}
	default:
		return fmt.Errorf("Validate: unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if (c.SupabaseURL == "") != (c.SupabaseKey == "") {
		return fmt.Errorf("Validate: SUPABASE_URL and SUPABASE_KEY must be set together")
	}
	return nil
}

// SupabaseEnabled reports whether insight tables live in Supabase.
func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// NotionEnabled reports whether Notion export is configured.
func (c *Config) NotionEnabled() bool {
	return c.NotionToken != "" && (c.NotionSummaryDBID != "" || c.NotionBudgetDBID != "")
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func boolEnv(key string) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("FromEnv: %s: %w", key, err)
	}
	return b, nil
}

func floatEnv(key string) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("FromEnv: %s must be a non-negative number, got %q", key, v)
	}
	return f, nil
}
