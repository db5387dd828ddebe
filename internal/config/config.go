package config

import (
	"fmt"
	"os"
	"strconv"
)

// UnsetUUID is the sentinel value meaning "no default mockup configured".
const UnsetUUID = "00000000-0000-0000-0000-000000000000"

type Config struct {
	// Dynamic Mockups API
	DynamicMockupsAPIKey  string
	DynamicMockupsBaseURL string
	DefaultMockupUUID     string
	DefaultSmartUUID      string
	ExportFormat          string
	ExportSize            int

	// Supabase
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseJWTSecret  string

	// Storage buckets
	BucketArtwork string
	BucketMockups string
	BucketProofs  string

	// PDF rendering backend
	PDFRenderURL string

	// Database
	DatabaseURL string

	// Queue
	ProofConcurrency int

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	cfg := &Config{
		DynamicMockupsAPIKey:  getEnv("DYNAMIC_MOCKUPS_API_KEY", ""),
		DynamicMockupsBaseURL: getEnv("DYNAMIC_MOCKUPS_BASE_URL", "https://app.dynamicmockups.com/api/v1"),
		DefaultMockupUUID:     getEnv("DYNAMIC_MOCKUPS_DEFAULT_MOCKUP_UUID", ""),
		DefaultSmartUUID:      getEnv("DYNAMIC_MOCKUPS_DEFAULT_SMART_UUID", ""),
		ExportFormat:          getEnv("DYNAMIC_MOCKUPS_EXPORT_FORMAT", "jpg"),
		ExportSize:            getEnvInt("DYNAMIC_MOCKUPS_EXPORT_SIZE", 1500),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseJWTSecret:  getEnv("SUPABASE_JWT_SECRET", ""),

		BucketArtwork: getEnv("BUCKET_DESIGN", "design-files"),
		BucketMockups: getEnv("BUCKET_MOCKUPS", "mockups"),
		BucketProofs:  getEnv("BUCKET_PROOFS", "proofs"),

		PDFRenderURL: getEnv("PDF_RENDER_URL", "http://localhost:3000"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		ProofConcurrency: getEnvInt("PROOF_CONCURRENCY", 2),

		Port:        getEnv("PORT", "4001"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DynamicMockupsAPIKey == "" {
		return fmt.Errorf("DYNAMIC_MOCKUPS_API_KEY is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.ProofConcurrency < 1 {
		return fmt.Errorf("PROOF_CONCURRENCY must be at least 1")
	}
	return nil
}

// DefaultBindingConfigured reports whether a usable default mockup template is
// set. The zero UUID is treated the same as unset.
func (c *Config) DefaultBindingConfigured() bool {
	if c.DefaultMockupUUID == "" || c.DefaultSmartUUID == "" {
		return false
	}
	return c.DefaultMockupUUID != UnsetUUID
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
