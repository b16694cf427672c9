package outline

import (
	"encoding/xml"
	"fmt"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Element is a structural view of a tree: "root", "h" or "p". Headings
// carry their level and ID; every element carries its raw line.
type Element struct {
	XMLName  xml.Name  `json:"-" yaml:"-"`
	Tag      string    `xml:"-" json:"tag" yaml:"tag"`
	Level    int       `xml:"level,attr,omitempty" json:"level,omitempty" yaml:"level,omitempty"`
	ID       string    `xml:"id,attr,omitempty" json:"id,omitempty" yaml:"id,omitempty"`
	Text     string    `xml:",chardata" json:"text" yaml:"text"`
	Children []Element `xml:",any" json:"children,omitempty" yaml:"children,omitempty"`
}

// Markup returns the element view of the whole tree.
func Markup(tree *doctree.Tree) Element {
	return element(tree, doctree.Root)
}

func element(tree *doctree.Tree, i int) Element {
	n := tree.Node(i)
	var e Element
	switch n.Kind {
	case doctree.KindRoot:
		e.Tag = "root"
	case doctree.KindHeading:
		e.Tag = "h"
		e.Level = n.Depth
		e.ID = n.ID.String()
		e.Text = n.Text
	default:
		e.Tag = "p"
		e.Text = n.Text
	}
	e.XMLName = xml.Name{Local: e.Tag}
	for _, c := range n.Children {
		e.Children = append(e.Children, element(tree, c))
	}
	return e
}

// RenderXML serializes the tree the way the section editor page consumes
// it, e.g. "## h2" becomes <root><h level="2" id="0.1">## h2</h></root>.
func RenderXML(tree *doctree.Tree, indent bool) ([]byte, error) {
	el := Markup(tree)
	var (
		out []byte
		err error
	)
	if indent {
		out, err = xml.MarshalIndent(el, "", "  ")
	} else {
		out, err = xml.Marshal(el)
	}
	if err != nil {
		return nil, fmt.Errorf("marshal outline: %w", err)
	}
	return out, nil
}
