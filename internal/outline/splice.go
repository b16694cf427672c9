package outline

import (
	"errors"
	"fmt"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// ErrSectionNotFound is returned when no heading carries the requested ID.
// It is an expected outcome, typically a client holding a stale ID.
var ErrSectionNotFound = errors.New("section not found")

// Locate returns the arena index of the first heading, in document order,
// whose ID equals id exactly.
func Locate(tree *doctree.Tree, id doctree.ID) (int, error) {
	found := -1
	tree.Walk(func(i int, n *doctree.Node) bool {
		if found >= 0 {
			return false
		}
		if n.IsHeading() && n.ID.Equal(id) {
			found = i
			return false
		}
		return true
	})
	if found < 0 {
		return 0, fmt.Errorf("section %s: %w", id, ErrSectionNotFound)
	}
	return found, nil
}

// Replace swaps the heading identified by id, descendants included, for
// the top-level nodes of fragment, at the same position among its
// siblings. Everything outside the replaced subtree is left as is: later
// siblings keep their IDs even when the fragment adds or removes headings.
// Call Renumber to restore unique IDs.
//
// The fragment is grafted under the replaced heading's parent whatever its
// depth. A fragment heading shallower than the one it replaces still ends
// up as a child of that parent, its ID may equal a later sibling's, and
// Lookup then resolves to the fragment heading. The text is unaffected;
// re-parsing it yields the nesting the depths describe.
//
// Replace works on whatever snapshot it is given. A tree parsed from text
// that has since been rewritten elsewhere will silently overwrite that
// edit once serialized; callers that need consistency re-read and re-parse
// right before replacing.
func Replace(tree *doctree.Tree, id doctree.ID, fragment *doctree.Tree) error {
	target, err := Locate(tree, id)
	if err != nil {
		return err
	}
	parent, ok := tree.Parent(target)
	if !ok {
		return fmt.Errorf("section %s: %w", id, ErrSectionNotFound)
	}

	pos := -1
	for k, c := range tree.Children(parent) {
		if c == target {
			pos = k
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("section %s: %w", id, ErrSectionNotFound)
	}

	tree.Detach(parent, pos)
	tree.Graft(parent, pos, fragment)
	tree.Reindex()
	return nil
}

// Renumber reassigns every heading ID in document order as a fresh parse
// of the current text would, without changing the tree's shape.
func Renumber(tree *doctree.Tree) error {
	ids := NewAllocator(nil)
	var err error
	tree.Walk(func(i int, n *doctree.Node) bool {
		if err != nil || !n.IsHeading() {
			return err == nil
		}
		n.ID, err = ids.Next(n.Depth)
		return err == nil
	})
	if err != nil {
		return err
	}
	tree.Reindex()
	return nil
}
