package run

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"

	"github.com/climatevision/explorer/internal/tree"
	"github.com/climatevision/explorer/pkg/types"
	"github.com/spaolacci/murmur3"
)

// Fingerprint is a 128-bit content hash of a run.
type Fingerprint [16]byte

// String returns the hex form of the fingerprint.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// ParseFingerprint decodes the hex form produced by String.
func ParseFingerprint(s string) (Fingerprint, bool) {
	var f Fingerprint
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(f) {
		return f, false
	}
	copy(f[:], b)
	return f, true
}

// FingerprintOf hashes inputs, entries, overrides and result values.
// Traces are not part of the fingerprint. Unlike EncodeRun it accepts
// non-finite numbers.
func FingerprintOf(r Run) Fingerprint {
	h := murmur3.New128()
	var buf [8]byte

	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	writeValue := func(v types.Value) {
		h.Write([]byte{byte(v.Kind())})
		switch v.Kind() {
		case types.KindNumber:
			f, _ := v.AsNumber()
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
			h.Write(buf[:])
		case types.KindText:
			s, _ := v.AsText()
			writeString(s)
		}
	}

	writeString(r.Inputs.AGS)
	binary.LittleEndian.PutUint64(buf[:], uint64(r.Inputs.Year))
	h.Write(buf[:])

	writeString("entries")
	for _, k := range sortedKeys(r.Entries) {
		writeString(k)
		writeValue(r.Entries[k].Value)
	}
	writeString("overrides")
	for _, k := range sortedKeys(r.Overrides) {
		writeString(k)
		writeValue(types.Number(r.Overrides[k]))
	}
	writeString("result")
	tree.Walk(r.Result, func(p types.Path, v types.ValueWithTrace) {
		writeString(string(p.Key()))
		writeValue(v.Value)
	})

	h1, h2 := h.Sum128()
	var f Fingerprint
	binary.BigEndian.PutUint64(f[:8], h1)
	binary.BigEndian.PutUint64(f[8:], h2)
	return f
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
