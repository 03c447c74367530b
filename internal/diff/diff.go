// Package diff compares two trees and produces a tree holding only their
// differences.
package diff

import (
	"fmt"
	"sort"

	"github.com/climatevision/explorer/internal/tree"
	"github.com/climatevision/explorer/pkg/types"
)

// Kind tags a difference leaf.
type Kind uint8

const (
	LeftOnly Kind = iota
	RightOnly
	Unequal
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case LeftOnly:
		return "left-only"
	case RightOnly:
		return "right-only"
	case Unequal:
		return "unequal"
	default:
		return "unknown"
	}
}

// Entry is a leaf of a difference tree. Left is set for LeftOnly and
// Unequal, Right for RightOnly and Unequal.
type Entry[T any] struct {
	Kind  Kind
	Left  T
	Right T
}

// Swap exchanges the roles of both sides.
func (e Entry[T]) Swap() Entry[T] {
	switch e.Kind {
	case LeftOnly:
		return Entry[T]{Kind: RightOnly, Right: e.Left}
	case RightOnly:
		return Entry[T]{Kind: LeftOnly, Left: e.Right}
	default:
		return Entry[T]{Kind: Unequal, Left: e.Right, Right: e.Left}
	}
}

// Diff walks both trees key by key:
//   - a key on one side only yields LeftOnly/RightOnly leaves for every leaf
//     beneath it;
//   - two branches are diffed recursively and kept only if non-empty;
//   - two leaves yield Unequal unless isEqual holds;
//   - a leaf facing a branch yields the leaf as LeftOnly or RightOnly. The
//     branch side is dropped since both cannot live under one key.
//
// The result never contains an empty branch, and Diff never fails.
func Diff[T any](isEqual func(a, b T) bool, left, right tree.Tree[T]) tree.Tree[Entry[T]] {
	leftKeys, rightKeys := left.Keys(), right.Keys()
	out := make(tree.Tree[Entry[T]])

	i, j := 0, 0
	for i < len(leftKeys) || j < len(rightKeys) {
		switch {
		case j == len(rightKeys) || (i < len(leftKeys) && leftKeys[i] < rightKeys[j]):
			k := leftKeys[i]
			if n, ok := oneSided(isEqual, left[k], LeftOnly); ok {
				out[k] = n
			}
			i++
		case i == len(leftKeys) || rightKeys[j] < leftKeys[i]:
			k := rightKeys[j]
			if n, ok := oneSided(isEqual, right[k], RightOnly); ok {
				out[k] = n
			}
			j++
		default:
			k := leftKeys[i]
			if n, ok := both(isEqual, left[k], right[k]); ok {
				out[k] = n
			}
			i++
			j++
		}
	}
	return out
}

func oneSided[T any](isEqual func(a, b T) bool, n tree.Node[T], kind Kind) (tree.Node[Entry[T]], bool) {
	if sub, ok := n.Branch(); ok {
		var d tree.Tree[Entry[T]]
		if kind == LeftOnly {
			d = Diff(isEqual, sub, nil)
		} else {
			d = Diff(isEqual, nil, sub)
		}
		if d.IsEmpty() {
			return tree.Node[Entry[T]]{}, false
		}
		return tree.Branch(d), true
	}
	leaf, _ := n.Leaf()
	if kind == LeftOnly {
		return tree.Leaf(Entry[T]{Kind: LeftOnly, Left: leaf}), true
	}
	return tree.Leaf(Entry[T]{Kind: RightOnly, Right: leaf}), true
}

func both[T any](isEqual func(a, b T) bool, l, r tree.Node[T]) (tree.Node[Entry[T]], bool) {
	lSub, lBranch := l.Branch()
	rSub, rBranch := r.Branch()
	switch {
	case lBranch && rBranch:
		d := Diff(isEqual, lSub, rSub)
		if d.IsEmpty() {
			return tree.Node[Entry[T]]{}, false
		}
		return tree.Branch(d), true
	case !lBranch && !rBranch:
		lv, _ := l.Leaf()
		rv, _ := r.Leaf()
		if isEqual(lv, rv) {
			return tree.Node[Entry[T]]{}, false
		}
		return tree.Leaf(Entry[T]{Kind: Unequal, Left: lv, Right: rv}), true
	case !lBranch:
		return oneSided(isEqual, l, LeftOnly)
	default:
		return oneSided(isEqual, r, RightOnly)
	}
}

// Swap exchanges left and right throughout a difference tree, so that
// Swap(Diff(eq, a, b)) equals Diff(eq, b, a) for a symmetric eq.
func Swap[T any](d tree.Tree[Entry[T]]) tree.Tree[Entry[T]] {
	return tree.Map(d, func(_ types.Path, e Entry[T]) Entry[T] { return e.Swap() })
}

// Difference is one flattened entry of a difference tree.
type Difference[T any] struct {
	Path  types.Path
	Entry Entry[T]
}

// Flatten lists the differences sorted by path.
func Flatten[T any](d tree.Tree[Entry[T]]) []Difference[T] {
	var out []Difference[T]
	tree.Walk(d, func(p types.Path, e Entry[T]) {
		out = append(out, Difference[T]{Path: p, Entry: e})
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path.Compare(out[j].Path) < 0 })
	return out
}

// String renders a value difference for terminal output.
func (d Difference[T]) String() string {
	switch d.Entry.Kind {
	case LeftOnly:
		return fmt.Sprintf("%s: only left: %v", d.Path, d.Entry.Left)
	case RightOnly:
		return fmt.Sprintf("%s: only right: %v", d.Path, d.Entry.Right)
	default:
		return fmt.Sprintf("%s: %v != %v", d.Path, d.Entry.Left, d.Entry.Right)
	}
}
