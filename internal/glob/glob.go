// Package glob filters trees by shell-style wildcard words.
package glob

import (
	"strings"

	"github.com/climatevision/explorer/internal/tree"
)

// Match reports whether text matches pattern, ignoring case. '?' matches
// exactly one character and '*' any run of characters, including none.
// No other character is special. Without wildcards this is case-insensitive
// equality.
func Match(pattern, text string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.EqualFold(pattern, text)
	}
	p := []rune(strings.ToLower(pattern))
	s := []rune(strings.ToLower(text))

	// Iterative matcher with single-star backtracking.
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == s[si]):
			pi++
			si++
		case pi < len(p) && p[pi] == '*':
			star = pi
			mark = si
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}

// FilterWord keeps every child whose key matches pattern, and every branch
// that still has children after filtering it recursively. Non-matching
// leaves are dropped. A matching branch is kept whole.
func FilterWord[T any](pattern string, t tree.Tree[T]) tree.Tree[T] {
	out := make(tree.Tree[T])
	for key, node := range t {
		if Match(pattern, key) {
			out[key] = node
			continue
		}
		sub, ok := node.Branch()
		if !ok {
			continue
		}
		if filtered := FilterWord(pattern, sub); !filtered.IsEmpty() {
			out[key] = tree.Branch(filtered)
		}
	}
	return out
}

// Filter splits query on whitespace and narrows t by each word in turn, so a
// path must satisfy every word. An empty query returns t unchanged.
func Filter[T any](query string, t tree.Tree[T]) tree.Tree[T] {
	words := strings.Fields(query)
	if len(words) == 0 {
		return t
	}
	out := t
	for _, w := range words {
		out = FilterWord(w, out)
	}
	return out
}
