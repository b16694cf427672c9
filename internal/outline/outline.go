// Package outline builds heading-depth section trees from plain document
// text and edits one section at a time.
//
// Only lines starting with 1 to 6 '#' are structural. Every other line,
// blank lines included, is a paragraph of its own, so the text of any tree
// or subtree can be reassembled line for line.
//
// Everything here is synchronous and allocation-local; trees are built per
// request and never shared.
package outline

import (
	"github.com/dgallion1/docoutline/internal/doctree"
)

// SectionText returns the raw text of the section identified by id.
func SectionText(tree *doctree.Tree, id doctree.ID) (string, error) {
	i, err := Locate(tree, id)
	if err != nil {
		return "", err
	}
	return ExtractText(tree, i, tree.Separator), nil
}

// ReplaceSection parses edited as a fragment numbered from id's position,
// splices it over the section identified by id and returns the updated
// tree together with the full document text to persist. The tree is
// modified in place. Empty edited text deletes the section.
func ReplaceSection(tree *doctree.Tree, id doctree.ID, edited string) (*doctree.Tree, string, error) {
	if _, err := Locate(tree, id); err != nil {
		return nil, "", err
	}
	lines, _ := SplitLines(edited)
	fragment, err := Build(lines, tree.Separator, ContinuationSeed(id))
	if err != nil {
		return nil, "", err
	}
	if err := Replace(tree, id, fragment); err != nil {
		return nil, "", err
	}
	return tree, Text(tree), nil
}
