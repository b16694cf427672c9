package outline

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// SplitLines splits a document into lines. Documents posted from HTML
// forms use "\r\n"; anything else is split on "\n". The separator is
// returned so the text can be reassembled exactly. The empty string has no
// lines.
func SplitLines(text string) ([]string, string) {
	sep := "\n"
	if strings.Contains(text, "\r\n") {
		sep = "\r\n"
	}
	if text == "" {
		return nil, sep
	}
	return strings.Split(text, sep), sep
}

// Parse builds the outline of a whole document.
func Parse(text string) (*doctree.Tree, error) {
	lines, sep := SplitLines(text)
	return Build(lines, sep, nil)
}

// Build turns lines into a section tree. Heading IDs continue from seed;
// a nil seed numbers from the start of the document.
//
// Paragraph lines attach to the most recent heading. A heading attaches to
// the nearest preceding heading of smaller depth, found by walking up the
// parent chain from the most recent heading.
func Build(lines []string, sep string, seed doctree.ID) (*doctree.Tree, error) {
	tree := doctree.New(sep)
	ids := NewAllocator(seed)
	last := doctree.Root

	for _, line := range lines {
		depth := HeadingDepth(line)
		if depth == 0 {
			tree.Append(last, doctree.Node{Kind: doctree.KindParagraph, Text: line})
			continue
		}

		id, err := ids.Next(depth)
		if err != nil {
			return nil, err
		}
		parent := findParent(tree, last, depth)
		last = tree.Append(parent, doctree.Node{
			Kind:  doctree.KindHeading,
			Depth: depth,
			Text:  line,
			ID:    id,
		})
	}
	return tree, nil
}

// findParent walks up from the most recent heading until it reaches a node
// shallower than depth, or the root. Each step climbs one level, so the
// walk ends after at most MaxDepth steps.
func findParent(tree *doctree.Tree, last, depth int) int {
	cur := last
	for range doctree.MaxDepth + 1 {
		if cur == doctree.Root {
			return cur
		}
		curDepth := tree.Node(cur).Depth
		if depth > curDepth {
			return cur
		}
		up, ok := tree.Parent(cur)
		if !ok {
			return doctree.Root
		}
		if depth == curDepth {
			return up
		}
		cur = up
	}
	return doctree.Root
}
