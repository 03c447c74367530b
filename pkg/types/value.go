// Package types holds the value types shared by every component of the explorer:
// calculation values, tree paths, run identifiers and calculation traces.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueKind discriminates the variants of a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindNumber
	KindText
)

// String returns the name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// absoluteEpsilon is the floor under the relative tolerance so that values
// close to zero still compare equal.
const absoluteEpsilon = 1e-12

// Value is a single calculation output: a number, a string or null.
// The zero Value is Null.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// Text returns a string Value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind returns the variant of v.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether v is Null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsText returns the string held by v.
func (v Value) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// String renders v for display. Null renders as "null".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	default:
		return "null"
	}
}

// IsEqual compares two values. Numbers are compared with a relative
// tolerance (a fraction, e.g. 0.01 for 1%) and an absolute floor of 1e-12;
// two NaNs are equal. Text compares exactly and Null only equals Null.
func IsEqual(tolerance float64, a, b Value) bool {
	switch a.kind {
	case KindNull:
		return b.kind == KindNull
	case KindText:
		return b.kind == KindText && a.text == b.text
	case KindNumber:
		if b.kind != KindNumber {
			return false
		}
		return numbersMatch(tolerance, a.num, b.num)
	default:
		return false
	}
}

func numbersMatch(tolerance, x, y float64) bool {
	xNaN, yNaN := math.IsNaN(x), math.IsNaN(y)
	if xNaN || yNaN {
		return xNaN && yNaN
	}
	if x == y {
		// covers equal infinities, where x-y would be NaN
		return true
	}
	if math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}
	bound := tolerance * math.Max(math.Abs(x), math.Abs(y))
	if bound < absoluteEpsilon {
		bound = absoluteEpsilon
	}
	return math.Abs(x-y) <= bound
}

// MarshalJSON encodes v as a bare JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("%w: %v", ErrNonFiniteNumber, v.num)
		}
		return []byte(strconv.FormatFloat(v.num, 'g', -1, 64)), nil
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a bare JSON scalar into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseScalar(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseScalar decodes a JSON number, string or null. Booleans are accepted
// as the numbers 1 and 0 because the calculation service emits flags that way.
func ParseScalar(data []byte) (Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Value{}, ErrInvalidScalar
	}
	switch trimmed[0] {
	case 'n':
		if string(trimmed) == "null" {
			return Null(), nil
		}
	case 't':
		if string(trimmed) == "true" {
			return Number(1), nil
		}
	case 'f':
		if string(trimmed) == "false" {
			return Number(0), nil
		}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidScalar, err)
		}
		return Text(s), nil
	default:
		f, err := strconv.ParseFloat(string(trimmed), 64)
		if err == nil {
			return Number(f), nil
		}
	}
	return Value{}, fmt.Errorf("%w: %s", ErrInvalidScalar, truncate(trimmed, 32))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
