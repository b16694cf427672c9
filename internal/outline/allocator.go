package outline

import (
	"errors"
	"fmt"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// ErrDepthOutOfRange is returned when an ID is requested for a depth
// outside 1..6. The classifier never produces such a depth, so this only
// signals a misuse of the API.
var ErrDepthOutOfRange = errors.New("heading depth out of range")

// Allocator hands out hierarchical IDs from a counter stack, one slot per
// open depth level.
//
// Skipped levels are zero-filled: "#" followed directly by "####" yields
// "1" then "1.0.0.1".
type Allocator struct {
	stack []int
}

// NewAllocator returns an allocator starting from seed. A nil seed starts
// a full-document parse.
func NewAllocator(seed doctree.ID) *Allocator {
	return &Allocator{stack: seed.Clone()}
}

// Next returns the ID for the next heading of the given depth.
func (a *Allocator) Next(depth int) (doctree.ID, error) {
	if depth < 1 || depth > doctree.MaxDepth {
		return nil, fmt.Errorf("%w: %d", ErrDepthOutOfRange, depth)
	}
	if depth > len(a.stack) {
		a.stack = append(a.stack, make([]int, depth-len(a.stack))...)
	} else {
		a.stack = a.stack[:depth]
	}
	a.stack[depth-1]++
	return doctree.ID(a.stack).Clone(), nil
}

// ContinuationSeed returns the seed that makes a replacement parse number
// its first heading exactly like the replaced one: the ID with its last
// component decremented, floored at zero.
func ContinuationSeed(id doctree.ID) doctree.ID {
	seed := id.Clone()
	if n := len(seed); n > 0 && seed[n-1] > 0 {
		seed[n-1]--
	}
	return seed
}
