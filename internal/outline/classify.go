package outline

import (
	"regexp"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// headingBody matches what may follow the leading '#' run. Backslash
// escapes must pair, so a line ending in a lone backslash is not a heading.
// Trailing '#' characters are covered by the same class.
var headingBody = regexp.MustCompile(`^(?:\\.|[^\\])*$`)

// IsHeading reports whether line is an ATX-style heading of depth 1..6.
// Lines with seven or more leading '#' are paragraphs.
func IsHeading(line string) bool {
	n := leadingHashes(line)
	if n < 1 || n > doctree.MaxDepth {
		return false
	}
	return headingBody.MatchString(line[n:])
}

// HeadingDepth returns the depth of a heading line, or 0 when line is not
// a heading.
func HeadingDepth(line string) int {
	if !IsHeading(line) {
		return 0
	}
	return leadingHashes(line)
}

func leadingHashes(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	return n
}
