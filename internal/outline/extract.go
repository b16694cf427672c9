package outline

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// ExtractText joins the raw lines of node i and its descendants in
// pre-order with sep. On the root it reproduces the whole document; on a
// heading, that heading's section. Blank paragraph lines are kept.
func ExtractText(tree *doctree.Tree, i int, sep string) string {
	var lines []string
	var walk func(n int)
	walk = func(n int) {
		node := tree.Node(n)
		if node.Kind != doctree.KindRoot {
			lines = append(lines, node.Text)
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	walk(i)
	return strings.Join(lines, sep)
}

// Text reassembles the whole document with the tree's own separator.
func Text(tree *doctree.Tree) string {
	return ExtractText(tree, doctree.Root, tree.Separator)
}
