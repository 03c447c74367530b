package lens

import (
	"strings"

	"github.com/climatevision/explorer/pkg/types"
)

// GuessShortPathLabels picks a short, distinguishing label for every path.
//
// A single path is labelled with its last segment. Otherwise the last
// segments are split on "_" and the parts shared by all of them are dropped;
// the result replaces the last segment of each full path and the shared
// leading segments of the full paths are dropped as well. A path whose
// label would come out empty falls back to its dotted form.
func GuessShortPathLabels(paths []types.Path) map[types.PathKey]string {
	labels := make(map[types.PathKey]string, len(paths))
	switch len(paths) {
	case 0:
		return labels
	case 1:
		labels[paths[0].Key()] = paths[0].Last()
		return labels
	}

	tails := make([][]string, len(paths))
	for i, p := range paths {
		tails[i] = strings.Split(p.Last(), "_")
	}
	shortTails := shorten(tails)

	full := make([][]string, len(paths))
	for i, p := range paths {
		tail := strings.Join(shortTails[i], "_")
		if tail == "" {
			tail = p.Last()
		}
		segments := make([]string, 0, len(p))
		if len(p) > 0 {
			segments = append(segments, p[:len(p)-1]...)
		}
		full[i] = append(segments, tail)
	}
	shortFull := shorten(full)

	for i, p := range paths {
		label := strings.Join(shortFull[i], ".")
		if label == "" {
			label = p.String()
		}
		labels[p.Key()] = label
	}
	return labels
}

type mark uint8

const (
	skip mark = iota
	take
)

// shorten drops the positions at which every input agrees. Positions are
// compared while no input is exhausted; whatever follows in the longer
// inputs is kept.
func shorten(inputs [][]string) [][]string {
	var marks []mark
	for pos := 0; ; pos++ {
		if !allLonger(inputs, pos) {
			break
		}
		if allEqualAt(inputs, pos) {
			marks = append(marks, skip)
		} else {
			marks = append(marks, take)
		}
	}

	out := make([][]string, len(inputs))
	for i, in := range inputs {
		var kept []string
		for pos, m := range marks {
			if m == take {
				kept = append(kept, in[pos])
			}
		}
		kept = append(kept, in[len(marks):]...)
		out[i] = kept
	}
	return out
}

func allLonger(inputs [][]string, pos int) bool {
	for _, in := range inputs {
		if len(in) <= pos {
			return false
		}
	}
	return len(inputs) > 0
}

func allEqualAt(inputs [][]string, pos int) bool {
	for _, in := range inputs[1:] {
		if in[pos] != inputs[0][pos] {
			return false
		}
	}
	return true
}
