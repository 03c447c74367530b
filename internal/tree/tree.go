// Package tree provides the recursive string-keyed tree used to hold one run's
// calculation output and every structure derived from it (filters, diffs).
//
// A Tree is always a branch at its root. Trees are treated as immutable:
// every operation returns a new tree and never modifies its inputs, so older
// versions stay valid for whoever still holds them.
package tree

import (
	"sort"

	"github.com/climatevision/explorer/pkg/types"
)

// Tree is a branch: a map from key to child node. Key order is irrelevant.
type Tree[T any] map[string]Node[T]

// Node is either a leaf holding a T or a branch holding a Tree.
type Node[T any] struct {
	branch   Tree[T]
	leaf     T
	isBranch bool
}

// Leaf returns a leaf node.
func Leaf[T any](v T) Node[T] {
	return Node[T]{leaf: v}
}

// Branch returns a branch node. A nil tree is treated as an empty branch.
func Branch[T any](t Tree[T]) Node[T] {
	if t == nil {
		t = Tree[T]{}
	}
	return Node[T]{branch: t, isBranch: true}
}

// IsBranch reports whether n is a branch.
func (n Node[T]) IsBranch() bool {
	return n.isBranch
}

// Leaf returns the leaf payload if n is a leaf.
func (n Node[T]) Leaf() (T, bool) {
	if n.isBranch {
		var zero T
		return zero, false
	}
	return n.leaf, true
}

// Branch returns the subtree if n is a branch.
func (n Node[T]) Branch() (Tree[T], bool) {
	if !n.isBranch {
		return nil, false
	}
	return n.branch, true
}

// Keys returns the keys of t in sorted order.
func (t Tree[T]) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether t has no children.
func (t Tree[T]) IsEmpty() bool {
	return len(t) == 0
}

// Find walks path and returns the node found there, leaf or branch.
// It fails if a key is missing or an intermediate node is a leaf.
// The empty path is not a location and never resolves.
func Find[T any](t Tree[T], path types.Path) (Node[T], bool) {
	if len(path) == 0 {
		return Node[T]{}, false
	}
	current := t
	for i, segment := range path {
		node, ok := current[segment]
		if !ok {
			return Node[T]{}, false
		}
		if i == len(path)-1 {
			return node, true
		}
		if !node.isBranch {
			return Node[T]{}, false
		}
		current = node.branch
	}
	return Node[T]{}, false
}

// Get returns the leaf at path. A branch at path is not a leaf and yields false.
func Get[T any](t Tree[T], path types.Path) (T, bool) {
	node, ok := Find(t, path)
	if !ok {
		var zero T
		return zero, false
	}
	return node.Leaf()
}

// Merge returns the key-wise union of a and b. On collision b's subtree
// replaces a's outright; colliding branches are not merged recursively.
func Merge[T any](a, b Tree[T]) Tree[T] {
	out := make(Tree[T], len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Wrap returns {name: Branch(t)}.
func Wrap[T any](name string, t Tree[T]) Tree[T] {
	return Tree[T]{name: Branch(t)}
}

// Expand lists the full path of every leaf, depth first with keys visited
// in sorted order.
func Expand[T any](t Tree[T]) []types.Path {
	var out []types.Path
	expandInto(t, nil, &out)
	return out
}

func expandInto[T any](t Tree[T], prefix types.Path, out *[]types.Path) {
	for _, k := range t.Keys() {
		node := t[k]
		p := prefix.Child(k)
		if node.isBranch {
			expandInto(node.branch, p, out)
			continue
		}
		*out = append(*out, p)
	}
}

// Insert returns a copy of t with leaf v stored at path. Nodes along the path
// are copied; a leaf standing where a branch is needed is replaced by a branch.
// An empty path returns t unchanged.
func Insert[T any](t Tree[T], path types.Path, v T) Tree[T] {
	if len(path) == 0 {
		return t
	}
	out := make(Tree[T], len(t)+1)
	for k, n := range t {
		out[k] = n
	}
	head := path[0]
	if len(path) == 1 {
		out[head] = Leaf(v)
		return out
	}
	var child Tree[T]
	if existing, ok := t[head]; ok && existing.isBranch {
		child = existing.branch
	}
	out[head] = Branch(Insert(child, path[1:], v))
	return out
}

// Map transforms every leaf, preserving shape.
func Map[T, U any](t Tree[T], fn func(path types.Path, v T) U) Tree[U] {
	return mapWithPrefix(t, nil, fn)
}

func mapWithPrefix[T, U any](t Tree[T], prefix types.Path, fn func(types.Path, T) U) Tree[U] {
	out := make(Tree[U], len(t))
	for k, node := range t {
		p := prefix.Child(k)
		if node.isBranch {
			out[k] = Branch(mapWithPrefix(node.branch, p, fn))
		} else {
			out[k] = Leaf(fn(p, node.leaf))
		}
	}
	return out
}

// Len counts the leaves of t.
func Len[T any](t Tree[T]) int {
	n := 0
	for _, node := range t {
		if node.isBranch {
			n += Len(node.branch)
		} else {
			n++
		}
	}
	return n
}

// Walk calls fn for every leaf in Expand order.
func Walk[T any](t Tree[T], fn func(path types.Path, v T)) {
	walkWithPrefix(t, nil, fn)
}

func walkWithPrefix[T any](t Tree[T], prefix types.Path, fn func(types.Path, T)) {
	for _, k := range t.Keys() {
		node := t[k]
		p := prefix.Child(k)
		if node.isBranch {
			walkWithPrefix(node.branch, p, fn)
		} else {
			fn(p, node.leaf)
		}
	}
}
