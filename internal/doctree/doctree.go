package doctree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxDepth is the deepest heading level the outline recognizes.
const MaxDepth = 6

var (
	// ErrInvalidID is returned when a textual section ID cannot be parsed.
	ErrInvalidID = errors.New("invalid section id")
)

// Kind tags a Node as a heading or a paragraph.
type Kind int

const (
	KindRoot Kind = iota
	KindHeading
	KindParagraph
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ID is a hierarchical section identifier, one counter per depth level.
type ID []int

// String renders the ID dot-joined, e.g. "2.1.3".
func (id ID) String() string {
	parts := make([]string, len(id))
	for i, n := range id {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Equal reports exact sequence equality. Prefixes do not match.
func (id ID) Equal(other ID) bool {
	if len(id) != len(other) {
		return false
	}
	for i := range id {
		if id[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (id ID) Clone() ID {
	if id == nil {
		return nil
	}
	out := make(ID, len(id))
	copy(out, id)
	return out
}

// ParseID parses a dot-joined ID such as "1.0.2".
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidID)
	}
	parts := strings.Split(s, ".")
	if len(parts) > MaxDepth {
		return nil, fmt.Errorf("%w: %q has more than %d levels", ErrInvalidID, s, MaxDepth)
	}
	id := make(ID, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
		id[i] = n
	}
	return id, nil
}

// Node is one entry of a Tree's arena.
type Node struct {
	Kind     Kind
	Depth    int    // 1..6 for headings, 0 otherwise
	Text     string // the whole source line, heading markers included
	ID       ID     // headings only
	Children []int  // arena indexes, document order
}

// IsHeading reports whether the node is a heading.
func (n *Node) IsHeading() bool { return n.Kind == KindHeading }

// Root is the arena index of the synthetic root node.
const Root = 0

// Tree is a parsed document. Nodes live in an arena addressed by index;
// the parent relation and the ID index are derived lookups rebuilt
// whenever the tree changes shape.
type Tree struct {
	// Separator is the line terminator the document was split on.
	Separator string

	nodes  []Node
	parent map[int]int
	byID   map[string]int
}

// New returns a tree holding only the root.
func New(separator string) *Tree {
	return &Tree{
		Separator: separator,
		nodes:     []Node{{Kind: KindRoot}},
		parent:    make(map[int]int),
		byID:      make(map[string]int),
	}
}

// Node returns the node at arena index i.
func (t *Tree) Node(i int) *Node {
	return &t.nodes[i]
}

// Len returns the arena size, root included. Nodes detached by a splice
// stay in the arena but are unreachable from the root.
func (t *Tree) Len() int { return len(t.nodes) }

// Children returns the child indexes of node i.
func (t *Tree) Children(i int) []int {
	return t.nodes[i].Children
}

// Parent returns the parent index of node i. The root has no parent.
func (t *Tree) Parent(i int) (int, bool) {
	p, ok := t.parent[i]
	return p, ok
}

// Lookup returns the arena index of the heading indexed under id.
func (t *Tree) Lookup(id ID) (int, bool) {
	i, ok := t.byID[id.String()]
	return i, ok
}

// IDs returns the indexed heading IDs in document order.
func (t *Tree) IDs() []string {
	var out []string
	t.Walk(func(i int, n *Node) bool {
		if n.IsHeading() {
			if idx, ok := t.byID[n.ID.String()]; ok && idx == i {
				out = append(out, n.ID.String())
			}
		}
		return true
	})
	return out
}

// Append adds a node as the last child of parent and returns its index.
func (t *Tree) Append(parent int, n Node) int {
	idx := len(t.nodes)
	n.Children = nil
	t.nodes = append(t.nodes, n)
	t.nodes[parent].Children = append(t.nodes[parent].Children, idx)
	t.parent[idx] = parent
	if n.Kind == KindHeading {
		key := n.ID.String()
		if _, dup := t.byID[key]; !dup {
			t.byID[key] = idx
		}
	}
	return idx
}

// Walk visits reachable nodes in pre-order, root first. Returning false
// from fn skips that node's descendants.
func (t *Tree) Walk(fn func(i int, n *Node) bool) {
	stack := []int{Root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(i, &t.nodes[i]) {
			continue
		}
		kids := t.nodes[i].Children
		for k := len(kids) - 1; k >= 0; k-- {
			stack = append(stack, kids[k])
		}
	}
}

// Graft copies the reachable descendants of src's root into t, in order,
// as children of parent starting at child position pos. It returns the new
// arena indexes of the grafted top-level nodes.
func (t *Tree) Graft(parent, pos int, src *Tree) []int {
	var copyNode func(si int) int
	copyNode = func(si int) int {
		sn := src.nodes[si]
		idx := len(t.nodes)
		t.nodes = append(t.nodes, Node{Kind: sn.Kind, Depth: sn.Depth, Text: sn.Text, ID: sn.ID.Clone()})
		kids := make([]int, 0, len(sn.Children))
		for _, c := range sn.Children {
			kids = append(kids, copyNode(c))
		}
		t.nodes[idx].Children = kids
		return idx
	}

	top := make([]int, 0, len(src.nodes[Root].Children))
	for _, c := range src.nodes[Root].Children {
		top = append(top, copyNode(c))
	}

	old := t.nodes[parent].Children
	merged := make([]int, 0, len(old)+len(top))
	merged = append(merged, old[:pos]...)
	merged = append(merged, top...)
	merged = append(merged, old[pos:]...)
	t.nodes[parent].Children = merged
	return top
}

// Detach removes child position pos from parent's children.
func (t *Tree) Detach(parent, pos int) {
	old := t.nodes[parent].Children
	t.nodes[parent].Children = append(old[:pos:pos], old[pos+1:]...)
}

// Reindex rebuilds the parent map and the ID index from the reachable
// nodes. When two headings share an ID the first in document order wins.
func (t *Tree) Reindex() {
	t.parent = make(map[int]int, len(t.nodes))
	t.byID = make(map[string]int)
	t.Walk(func(i int, n *Node) bool {
		for _, c := range n.Children {
			t.parent[c] = i
		}
		if n.IsHeading() {
			key := n.ID.String()
			if _, dup := t.byID[key]; !dup {
				t.byID[key] = i
			}
		}
		return true
	})
}
