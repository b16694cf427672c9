package outline

import (
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func mustParse(t *testing.T, text string) *doctree.Tree {
	t.Helper()
	tree, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return tree
}

func headingByText(t *testing.T, tree *doctree.Tree, text string) int {
	t.Helper()
	found := -1
	tree.Walk(func(i int, n *doctree.Node) bool {
		if found < 0 && n.IsHeading() && n.Text == text {
			found = i
		}
		return true
	})
	if found < 0 {
		t.Fatalf("heading %q not found", text)
	}
	return found
}

func TestBuild_HeadingHierarchy(t *testing.T) {
	input := "# Title\nIntro text.\n## Section A\nA content.\n### Subsection A1\n## Section B"
	tree := mustParse(t, input)

	top := tree.Children(doctree.Root)
	if len(top) != 1 {
		t.Fatalf("expected 1 top-level child, got %d", len(top))
	}
	title := tree.Node(top[0])
	if title.Text != "# Title" || title.ID.String() != "1" {
		t.Errorf("expected %q with id 1, got %q with id %s", "# Title", title.Text, title.ID)
	}

	kids := title.Children
	if len(kids) != 3 {
		t.Fatalf("expected 3 children under title (paragraph + 2 sections), got %d", len(kids))
	}
	if tree.Node(kids[0]).Kind != doctree.KindParagraph {
		t.Errorf("expected first child to be a paragraph, got %s", tree.Node(kids[0]).Kind)
	}

	secA := tree.Node(kids[1])
	if secA.ID.String() != "1.1" {
		t.Errorf("expected section A id %q, got %q", "1.1", secA.ID)
	}
	if len(secA.Children) != 2 {
		t.Fatalf("expected 2 children under section A, got %d", len(secA.Children))
	}
	sub := tree.Node(secA.Children[1])
	if sub.ID.String() != "1.1.1" {
		t.Errorf("expected subsection id %q, got %q", "1.1.1", sub.ID)
	}

	secB := tree.Node(kids[2])
	if secB.ID.String() != "1.2" {
		t.Errorf("expected section B id %q, got %q", "1.2", secB.ID)
	}
}

func TestBuild_AncestorAfterShallowerHeading(t *testing.T) {
	tree := mustParse(t, "## H1\n# H2\n## H3")

	h1 := headingByText(t, tree, "## H1")
	h2 := headingByText(t, tree, "# H2")
	h3 := headingByText(t, tree, "## H3")

	if p, _ := tree.Parent(h1); p != doctree.Root {
		t.Errorf("expected H1 under root, got parent %d", p)
	}
	if p, _ := tree.Parent(h3); p != h2 {
		t.Errorf("expected H3 under H2 (%d), got parent %d", h2, p)
	}
}

func TestBuild_VariedDepthSequences(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		parents map[string]string // heading -> parent heading ("" = root)
		ids     map[string]string
	}{
		{
			name:  "deep then back to middle",
			input: "# a\n## b\n### c\n#### d\n## e\n### f",
			parents: map[string]string{
				"# a": "", "## b": "# a", "### c": "## b", "#### d": "### c", "## e": "# a", "### f": "## e",
			},
			ids: map[string]string{
				"# a": "1", "## b": "1.1", "### c": "1.1.1", "#### d": "1.1.1.1", "## e": "1.2", "### f": "1.2.1",
			},
		},
		{
			name:  "skip levels then shallower",
			input: "# a\n#### b\n### c\n## d",
			parents: map[string]string{
				"# a": "", "#### b": "# a", "### c": "# a", "## d": "# a",
			},
			ids: map[string]string{
				"# a": "1", "#### b": "1.0.0.1", "### c": "1.0.1", "## d": "1.1",
			},
		},
		{
			name:  "leading subsection then top level",
			input: "### a\n## b\n# c\n### d",
			parents: map[string]string{
				"### a": "", "## b": "", "# c": "", "### d": "# c",
			},
			ids: map[string]string{
				"### a": "0.0.1", "## b": "0.1", "# c": "1", "### d": "1.0.1",
			},
		},
		{
			name:  "siblings at depth six",
			input: "###### a\n###### b\n# c",
			parents: map[string]string{
				"###### a": "", "###### b": "", "# c": "",
			},
			ids: map[string]string{
				"###### a": "0.0.0.0.0.1", "###### b": "0.0.0.0.0.2", "# c": "1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.input)
			for heading, wantParent := range tt.parents {
				i := headingByText(t, tree, heading)
				p, ok := tree.Parent(i)
				if !ok {
					t.Fatalf("%q: expected a parent", heading)
				}
				if wantParent == "" {
					if p != doctree.Root {
						t.Errorf("%q: expected root parent, got %q", heading, tree.Node(p).Text)
					}
					continue
				}
				if got := tree.Node(p).Text; got != wantParent {
					t.Errorf("%q: expected parent %q, got %q", heading, wantParent, got)
				}
			}
			for heading, wantID := range tt.ids {
				i := headingByText(t, tree, heading)
				if got := tree.Node(i).ID.String(); got != wantID {
					t.Errorf("%q: expected id %q, got %q", heading, wantID, got)
				}
			}
		})
	}
}

func TestBuild_ParagraphsAttachToLastHeading(t *testing.T) {
	tree := mustParse(t, "preamble\n# A\n## B\nunder b\n\nstill b")

	root := tree.Children(doctree.Root)
	if tree.Node(root[0]).Text != "preamble" {
		t.Errorf("expected preamble paragraph on root, got %q", tree.Node(root[0]).Text)
	}

	b := headingByText(t, tree, "## B")
	kids := tree.Children(b)
	if len(kids) != 3 {
		t.Fatalf("expected 3 paragraphs under B, got %d", len(kids))
	}
	if tree.Node(kids[1]).Text != "" {
		t.Errorf("expected blank line kept as paragraph, got %q", tree.Node(kids[1]).Text)
	}
	for _, k := range kids {
		if p, _ := tree.Parent(k); p != b {
			t.Errorf("expected paragraph parent %d, got %d", b, p)
		}
	}
}

func TestBuild_EmptyDocument(t *testing.T) {
	tree := mustParse(t, "")
	if n := len(tree.Children(doctree.Root)); n != 0 {
		t.Errorf("expected 0 children for empty input, got %d", n)
	}
	if got := Text(tree); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestBuild_IDIndexExcludesParagraphs(t *testing.T) {
	tree := mustParse(t, "# A\ntext\n## B")
	ids := tree.IDs()
	if strings.Join(ids, ",") != "1,1.1" {
		t.Errorf("expected ids [1 1.1], got %v", ids)
	}
	i, ok := tree.Lookup(doctree.ID{1, 1})
	if !ok || tree.Node(i).Text != "## B" {
		t.Errorf("expected index to map 1.1 to %q", "## B")
	}
}

func TestBuild_MonotonicIDs(t *testing.T) {
	tree := mustParse(t, "# a\n## b\n### c\n## d\n# e\n### f\n## g\n# h")
	var prev doctree.ID
	tree.Walk(func(i int, n *doctree.Node) bool {
		if !n.IsHeading() {
			return true
		}
		if prev != nil && !idLess(prev, n.ID) {
			t.Errorf("expected %s < %s", prev, n.ID)
		}
		prev = n.ID
		return true
	})
}

func idLess(a, b doctree.ID) bool {
	for k := 0; k < len(a) && k < len(b); k++ {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return len(a) < len(b)
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"# A\n\n## B\ntext\n\n\n### C\n# D",
		"no headings\nat all\n",
		"# A\r\nbody\r\n## B\r\n",
		"####### not a heading\n# real",
		"\n\n",
		"single",
	}
	for _, in := range inputs {
		tree := mustParse(t, in)
		if got := Text(tree); got != in {
			t.Errorf("round trip: expected %q, got %q", in, got)
		}
	}
}

func TestSplitLines_DetectsSeparator(t *testing.T) {
	lines, sep := SplitLines("a\r\nb")
	if sep != "\r\n" || len(lines) != 2 {
		t.Errorf("expected CRLF split into 2 lines, got sep %q and %d lines", sep, len(lines))
	}
	lines, sep = SplitLines("a\nb\n")
	if sep != "\n" || len(lines) != 3 {
		t.Errorf("expected LF split into 3 lines, got sep %q and %d lines", sep, len(lines))
	}
}
