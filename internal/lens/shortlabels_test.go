package lens

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/climatevision/explorer/pkg/types"
)

func labelsOf(paths ...string) map[string]string {
	ps := make([]types.Path, len(paths))
	for i, p := range paths {
		ps[i] = types.ParsePath(p)
	}
	out := make(map[string]string)
	for k, v := range GuessShortPathLabels(ps) {
		out[k.Path().String()] = v
	}
	return out
}

func TestGuessShortPathLabels(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  map[string]string
	}{
		{
			name:  "no paths",
			paths: nil,
			want:  map[string]string{},
		},
		{
			name:  "single path uses its last segment",
			paths: []string{"result.h30.co2_total"},
			want:  map[string]string{"result.h30.co2_total": "co2_total"},
		},
		{
			name:  "shared prefixes are dropped from the tail",
			paths: []string{"result.h30.co2_total", "result.h30.co2_change"},
			want: map[string]string{
				"result.h30.co2_total":  "total",
				"result.h30.co2_change": "change",
			},
		},
		{
			name:  "identical tails keep the distinguishing parents",
			paths: []string{"entries.co2_total", "result.h30.co2_total"},
			want: map[string]string{
				"entries.co2_total":    "entries.co2_total",
				"result.h30.co2_total": "result.h30.co2_total",
			},
		},
		{
			name:  "only the differing segment survives",
			paths: []string{"result.h18.energy", "result.h30.energy"},
			want: map[string]string{
				"result.h18.energy": "h18",
				"result.h30.energy": "h30",
			},
		},
		{
			name:  "strict prefix falls back to the full path",
			paths: []string{"a.b", "a.b.c"},
			want: map[string]string{
				"a.b":   "a.b",
				"a.b.c": "c",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, labelsOf(tt.paths...))
		})
	}
}

func TestShorten(t *testing.T) {
	got := shorten([][]string{
		{"x", "a", "q"},
		{"x", "b", "q", "tail"},
	})
	assert.Equal(t, [][]string{{"a"}, {"b", "tail"}}, got)
}
