package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dgallion1/docoutline/internal/config"
)

func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing doc, got %v", err)
	}

	doc, err := s.Save(ctx, "notes", "# A", 0)
	if err != nil {
		t.Fatalf("create: unexpected error: %v", err)
	}
	if doc.Version != 1 {
		t.Errorf("expected version 1 after create, got %d", doc.Version)
	}

	if _, err := s.Save(ctx, "notes", "# B", 0); !errors.Is(err, ErrVersionConflict) {
		t.Errorf("expected conflict creating an existing doc, got %v", err)
	}

	doc, err = s.Save(ctx, "notes", "# A\n## B", 1)
	if err != nil {
		t.Fatalf("update: unexpected error: %v", err)
	}
	if doc.Version != 2 || doc.Content != "# A\n## B" {
		t.Errorf("expected version 2 with new content, got %d %q", doc.Version, doc.Content)
	}

	if _, err := s.Save(ctx, "notes", "stale", 1); !errors.Is(err, ErrVersionConflict) {
		t.Errorf("expected conflict for stale version, got %v", err)
	}

	doc, err = s.Save(ctx, "notes", "forced", AnyVersion)
	if err != nil {
		t.Fatalf("overwrite: unexpected error: %v", err)
	}
	if doc.Version != 3 {
		t.Errorf("expected version 3 after overwrite, got %d", doc.Version)
	}

	loaded, err := s.Load(ctx, "notes")
	if err != nil {
		t.Fatalf("load: unexpected error: %v", err)
	}
	if loaded.Content != "forced" || loaded.Version != 3 {
		t.Errorf("expected loaded doc to match last save, got %q v%d", loaded.Content, loaded.Version)
	}

	if _, err := s.Save(ctx, "other", "x", AnyVersion); err != nil {
		t.Fatalf("save other: unexpected error: %v", err)
	}
	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: unexpected error: %v", err)
	}
	if len(docs) != 2 || docs[0].Key != "notes" || docs[1].Key != "other" {
		t.Errorf("expected [notes other], got %+v", docs)
	}

	if err := s.Delete(ctx, "notes"); err != nil {
		t.Fatalf("delete: unexpected error: %v", err)
	}
	if err := s.Delete(ctx, "notes"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}

	if _, err := s.Save(ctx, "../escape", "x", AnyVersion); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	storeContract(t, s)
}

func TestSQLiteStore_File(t *testing.T) {
	path := t.TempDir() + "/sub/outline.db"
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Save(context.Background(), "a", "# A", 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	doc, err := reopened.Load(context.Background(), "a")
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if doc.Content != "# A" {
		t.Errorf("expected %q, got %q", "# A", doc.Content)
	}
}

func TestSQLiteStore_ConcurrentSavesReturnOwnWrite(t *testing.T) {
	s, err := NewSQLiteStore(t.TempDir() + "/outline.db")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	const writers, saves = 8, 50
	ctx := context.Background()
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		versions = make(map[int64]bool)
	)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < saves; i++ {
				content := fmt.Sprintf("# writer %d save %d", w, i)
				doc, err := s.Save(ctx, "shared", content, AnyVersion)
				if err != nil {
					t.Errorf("save: %v", err)
					return
				}
				if doc.Content != content {
					t.Errorf("expected own content %q, got %q", content, doc.Content)
				}
				mu.Lock()
				if versions[doc.Version] {
					t.Errorf("version %d returned twice", doc.Version)
				}
				versions[doc.Version] = true
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	doc, err := s.Load(ctx, "shared")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Version != writers*saves {
		t.Errorf("expected version %d, got %d", writers*saves, doc.Version)
	}
}

func TestValidKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"notes", true},
		{"2024-01-01.post", true},
		{"a_b", true},
		{"", false},
		{".hidden", false},
		{"a/b", false},
		{"a b", false},
	}
	for _, tt := range tests {
		if got := ValidKey(tt.key); got != tt.want {
			t.Errorf("ValidKey(%q): expected %v, got %v", tt.key, tt.want, got)
		}
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		cfg     config.Config
		wantErr bool
	}{
		{config.Config{StoreBackend: config.BackendMemory}, false},
		{config.Config{StoreBackend: config.BackendSQLite, SQLitePath: ":memory:"}, false},
		{config.Config{StoreBackend: config.BackendPathstore, PathstoreURL: "http://localhost:1", PathstorePrefix: "p"}, false},
		{config.Config{StoreBackend: "redis"}, true},
	}
	for _, tt := range tests {
		s, err := Open(tt.cfg)
		if tt.wantErr {
			if err == nil {
				t.Errorf("backend %q: expected error", tt.cfg.StoreBackend)
			}
			continue
		}
		if err != nil {
			t.Errorf("backend %q: unexpected error: %v", tt.cfg.StoreBackend, err)
			continue
		}
		s.Close()
	}
}
