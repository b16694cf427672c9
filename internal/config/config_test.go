package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_BACKEND", "SQLITE_PATH", "WORKER_COUNT", "JOB_TTL", "PDF_FALLBACK_PDFTOTEXT", "RENDER_UNSAFE_HTML"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.StoreBackend != BackendSQLite {
		t.Errorf("expected backend %q, got %q", BackendSQLite, cfg.StoreBackend)
	}
	if cfg.SQLitePath != "outline.db" {
		t.Errorf("expected sqlite path outline.db, got %q", cfg.SQLitePath)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected job ttl 1h, got %v", cfg.JobTTL)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback on by default")
	}
	if cfg.RenderUnsafeHTML {
		t.Error("expected unsafe html off by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("JOB_TTL", "15m")
	t.Setenv("RENDER_UNSAFE_HTML", "true")
	t.Setenv("MAX_QUEUE_SIZE", "not-a-number")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.StoreBackend != BackendMemory {
		t.Errorf("expected backend memory, got %q", cfg.StoreBackend)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected non-positive worker count to fall back to 2, got %d", cfg.WorkerCount)
	}
	if cfg.MaxQueueSize != 50 {
		t.Errorf("expected unparsable queue size to fall back to 50, got %d", cfg.MaxQueueSize)
	}
	if cfg.MaxUploadBytes != 2048 {
		t.Errorf("expected 2048 upload bytes, got %d", cfg.MaxUploadBytes)
	}
	if cfg.JobTTL != 15*time.Minute {
		t.Errorf("expected 15m ttl, got %v", cfg.JobTTL)
	}
	if !cfg.RenderUnsafeHTML {
		t.Error("expected unsafe html on")
	}
}

func TestLoadFile_OverlaysYAML(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("PORT", "7000")
	path := filepath.Join(t.TempDir(), "outline.yaml")
	body := "store_backend: pathstore\npathstore_api_key: secret\njob_ttl: 30m\nworker_count: 5\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreBackend != BackendPathstore {
		t.Errorf("expected backend pathstore, got %q", cfg.StoreBackend)
	}
	if cfg.PathstoreAPIKey != "secret" {
		t.Errorf("expected pathstore key from file, got %q", cfg.PathstoreAPIKey)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("expected 30m ttl, got %v", cfg.JobTTL)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("expected 5 workers, got %d", cfg.WorkerCount)
	}
	if cfg.Port != "7000" {
		t.Errorf("expected env port to survive, got %q", cfg.Port)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("worker_count: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"ok sqlite", Config{OutlineAPIKey: "k", StoreBackend: BackendSQLite, SQLitePath: ":memory:"}, ""},
		{"ok memory", Config{OutlineAPIKey: "k", StoreBackend: BackendMemory}, ""},
		{"missing api key", Config{StoreBackend: BackendMemory}, "OUTLINE_API_KEY"},
		{"pathstore without key", Config{OutlineAPIKey: "k", StoreBackend: BackendPathstore}, "PATHSTORE_API_KEY"},
		{"sqlite without path", Config{OutlineAPIKey: "k", StoreBackend: BackendSQLite}, "SQLITE_PATH"},
		{"unknown backend", Config{OutlineAPIKey: "k", StoreBackend: "redis"}, "unknown STORE_BACKEND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
