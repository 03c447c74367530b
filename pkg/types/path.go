package types

import (
	"sort"
	"strconv"
	"strings"
)

// Path addresses a node inside a tree, root excluded.
// Paths are compared segment by segment, never by their dotted rendering.
type Path []string

// NewPath builds a Path from its segments.
func NewPath(segments ...string) Path {
	return append(Path(nil), segments...)
}

// ParsePath splits a dotted path. Segments that contain dots cannot be
// expressed this way; use NewPath for those.
func ParsePath(dotted string) Path {
	if dotted == "" {
		return nil
	}
	return Path(strings.Split(dotted, "."))
}

// String renders the path with "." separators.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Last returns the final segment, or "" for an empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child returns a new path with one more segment. p is not modified.
func (p Path) Child(segment string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = segment
	return out
}

// Equal reports whether both paths have identical segments.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Compare orders paths lexicographically per segment; a strict prefix sorts first.
func (p Path) Compare(other Path) int {
	for i := 0; i < len(p) && i < len(other); i++ {
		if c := strings.Compare(p[i], other[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(p) < len(other):
		return -1
	case len(p) > len(other):
		return 1
	default:
		return 0
	}
}

// Key returns a string that is unique for the segment sequence, suitable as
// a map key. Segments are length-prefixed so ["a.b"] and ["a","b"] differ.
func (p Path) Key() PathKey {
	var sb strings.Builder
	for _, s := range p {
		sb.WriteString(strconv.Itoa(len(s)))
		sb.WriteByte(':')
		sb.WriteString(s)
	}
	return PathKey(sb.String())
}

// PathKey is the comparable form of a Path.
type PathKey string

// Path decodes the key back into its segments.
func (k PathKey) Path() Path {
	s := string(k)
	var out Path
	for len(s) > 0 {
		colon := strings.IndexByte(s, ':')
		if colon < 0 {
			break
		}
		n, err := strconv.Atoi(s[:colon])
		if err != nil || colon+1+n > len(s) {
			break
		}
		out = append(out, s[colon+1:colon+1+n])
		s = s[colon+1+n:]
	}
	return out
}

// SortPaths sorts paths in place using Compare.
func SortPaths(paths []Path) {
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Compare(paths[j]) < 0
	})
}

// RunID identifies a stored run. IDs are positive, assigned in increasing
// order and never reused.
type RunID int

// FirstRunID is the ID of the first run ever stored. Persisted cells that
// carry only a path refer to it.
const FirstRunID RunID = 1

// String returns the decimal form of the id.
func (id RunID) String() string {
	return strconv.Itoa(int(id))
}

// SortRunIDs sorts ids in ascending order.
func SortRunIDs(ids []RunID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
