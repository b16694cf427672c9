package mcptools

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/editor"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestTools(t *testing.T, docs map[string]string) *Tools {
	t.Helper()
	s := store.NewMemoryStore()
	for k, v := range docs {
		if _, err := s.Save(context.Background(), k, v, 0); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}
	return New(editor.New(s, nil, slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestGetOutline(t *testing.T) {
	tools := newTestTools(t, map[string]string{"doc": "# A\n## B\ntext"})
	_, out, err := tools.GetOutline(context.Background(), nil, GetOutlineInput{Key: "doc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(out.IDs, ",") != "1,1.1" {
		t.Errorf("expected ids 1,1.1, got %v", out.IDs)
	}
	if out.Version != 1 {
		t.Errorf("expected version 1, got %d", out.Version)
	}
	if !strings.Contains(out.XML, `<h level="2" id="1.1">## B`) {
		t.Errorf("expected nested heading in xml, got %s", out.XML)
	}

	if _, _, err := tools.GetOutline(context.Background(), nil, GetOutlineInput{Key: "missing"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetSection(t *testing.T) {
	tools := newTestTools(t, map[string]string{"doc": "# A\n## B\ntext\n## C"})
	_, out, err := tools.GetSection(context.Background(), nil, GetSectionInput{Key: "doc", ID: "1.1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "## B\ntext" {
		t.Errorf("expected %q, got %q", "## B\ntext", out.Content)
	}

	if _, _, err := tools.GetSection(context.Background(), nil, GetSectionInput{Key: "doc", ID: "x"}); !errors.Is(err, doctree.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	if _, _, err := tools.GetSection(context.Background(), nil, GetSectionInput{Key: "doc", ID: "4"}); !errors.Is(err, outline.ErrSectionNotFound) {
		t.Errorf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestReplaceSection(t *testing.T) {
	tools := newTestTools(t, map[string]string{"doc": "# A\n## B\n## C"})
	v := int64(1)
	_, out, err := tools.ReplaceSection(context.Background(), nil, ReplaceSectionInput{
		Key: "doc", ID: "1.1", Content: "## X\n## Y", Version: &v,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Version != 2 {
		t.Errorf("expected version 2, got %d", out.Version)
	}
	if strings.Join(out.IDs, ",") != "1,1.1,1.2,1.3" {
		t.Errorf("expected re-parsed ids 1,1.1,1.2,1.3, got %v", out.IDs)
	}

	_, _, err = tools.ReplaceSection(context.Background(), nil, ReplaceSectionInput{
		Key: "doc", ID: "1.1", Content: "## Z", Version: &v,
	})
	if !errors.Is(err, store.ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict for stale version, got %v", err)
	}
}

func TestListDocuments(t *testing.T) {
	tools := newTestTools(t, map[string]string{"a": "# a", "b": "bb"})
	_, out, err := tools.ListDocuments(context.Background(), nil, ListDocumentsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(out.Documents))
	}
}

func TestRegister(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	// AddTool panics on a schema it cannot infer.
	newTestTools(t, nil).Register(server)
}
