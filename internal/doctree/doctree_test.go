package doctree

import (
	"errors"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1", "1", false},
		{"2.1.3", "2.1.3", false},
		{"0.0.1", "0.0.1", false},
		{" 1.2 ", "1.2", false},
		{"", "", true},
		{"1..2", "", true},
		{"a.b", "", true},
		{"1.-1", "", true},
		{"1.1.1.1.1.1.1", "", true},
	}
	for _, tt := range tests {
		id, err := ParseID(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidID) {
				t.Errorf("ParseID(%q): expected ErrInvalidID, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseID(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if id.String() != tt.want {
			t.Errorf("ParseID(%q): expected %q, got %q", tt.in, tt.want, id.String())
		}
	}
}

func TestID_Equal(t *testing.T) {
	if !(ID{1, 2}).Equal(ID{1, 2}) {
		t.Error("expected equal ids")
	}
	if (ID{1, 2}).Equal(ID{1, 2, 1}) {
		t.Error("expected prefix not to match")
	}
	if (ID{1, 2}).Equal(ID{1, 3}) {
		t.Error("expected different ids")
	}
}

func TestTree_AppendAndReindex(t *testing.T) {
	tree := New("\n")
	a := tree.Append(Root, Node{Kind: KindHeading, Depth: 1, Text: "# A", ID: ID{1}})
	p := tree.Append(a, Node{Kind: KindParagraph, Text: "body"})

	if parent, ok := tree.Parent(p); !ok || parent != a {
		t.Errorf("expected paragraph parent %d, got %d", a, parent)
	}
	if _, ok := tree.Parent(Root); ok {
		t.Error("expected root to have no parent")
	}

	tree.Detach(Root, 0)
	tree.Reindex()
	if _, ok := tree.Lookup(ID{1}); ok {
		t.Error("expected detached heading to leave the index")
	}
	if _, ok := tree.Parent(p); ok {
		t.Error("expected detached paragraph to leave the parent map")
	}
}

func TestTree_GraftPreservesOrder(t *testing.T) {
	dst := New("\n")
	dst.Append(Root, Node{Kind: KindParagraph, Text: "first"})
	dst.Append(Root, Node{Kind: KindParagraph, Text: "last"})

	src := New("\n")
	h := src.Append(Root, Node{Kind: KindHeading, Depth: 1, Text: "# X", ID: ID{1}})
	src.Append(h, Node{Kind: KindParagraph, Text: "x"})

	top := dst.Graft(Root, 1, src)
	dst.Reindex()
	if len(top) != 1 {
		t.Fatalf("expected 1 grafted node, got %d", len(top))
	}

	var texts []string
	dst.Walk(func(i int, n *Node) bool {
		if n.Kind != KindRoot {
			texts = append(texts, n.Text)
		}
		return true
	})
	want := []string{"first", "# X", "x", "last"}
	if len(texts) != len(want) {
		t.Fatalf("expected %v, got %v", want, texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], texts[i])
		}
	}
}
