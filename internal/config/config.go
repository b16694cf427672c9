package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendSQLite    = "sqlite"
	BackendPathstore = "pathstore"
	BackendMemory    = "memory"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	OutlineAPIKey string `yaml:"api_key"`

	// Document store
	StoreBackend string `yaml:"store_backend"`
	SQLitePath   string `yaml:"sqlite_path"`

	// Pathstore connection
	PathstoreURL    string `yaml:"pathstore_url"`
	PathstoreAPIKey string `yaml:"pathstore_api_key"`
	PathstorePrefix string `yaml:"pathstore_prefix"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`

	// Preview rendering
	RenderUnsafeHTML bool `yaml:"render_unsafe_html"`
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		OutlineAPIKey: os.Getenv("OUTLINE_API_KEY"),

		StoreBackend: envOr("STORE_BACKEND", BackendSQLite),
		SQLitePath:   envOr("SQLITE_PATH", "outline.db"),

		PathstoreURL:    envOr("PATHSTORE_URL", "http://localhost:8080"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),
		PathstorePrefix: envOr("PATHSTORE_PREFIX", "outline/documents"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
		RenderUnsafeHTML:     envBool("RENDER_UNSAFE_HTML", false),
	}
	cfg.applyDefaults()
	return cfg
}

// LoadFile loads the environment configuration and overlays the keys
// present in the YAML file at path.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 2
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 50
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 10485760
	}
	if c.JobTTL <= 0 {
		c.JobTTL = 1 * time.Hour
	}
}

// ValidateStore checks the settings every binary that opens a store needs.
func (c Config) ValidateStore() error {
	switch c.StoreBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendPathstore:
		if c.PathstoreAPIKey == "" {
			return fmt.Errorf("PATHSTORE_API_KEY is required for the pathstore backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

// Validate checks the settings the HTTP server needs.
func (c Config) Validate() error {
	if c.OutlineAPIKey == "" {
		return fmt.Errorf("OUTLINE_API_KEY is required")
	}
	return c.ValidateStore()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
