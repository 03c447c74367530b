package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TraceKind discriminates the variants of a Trace.
type TraceKind uint8

const (
	TraceLiteral TraceKind = iota
	TraceName
	TraceData
	TraceFact
	TraceAssumption
	TraceUnary
	TraceBinary
)

// Trace records how a value was computed. Traces are display-only:
// equality and diffing ignore them.
type Trace struct {
	Kind TraceKind

	// Literal is set for TraceLiteral.
	Literal float64

	// Name is the referenced name (TraceName, TraceFact, TraceAssumption)
	// or the dataset (TraceData).
	Name string

	// Key and Column locate a row and column inside a dataset (TraceData).
	Key    string
	Column string

	// Value is the referenced value for the reference variants.
	Value Value

	// Op and operands for TraceUnary (A only) and TraceBinary (A and B).
	Op string
	A  *Trace
	B  *Trace
}

// LiteralTrace returns a literal number trace.
func LiteralTrace(f float64) *Trace {
	return &Trace{Kind: TraceLiteral, Literal: f}
}

// NameTrace returns a reference to another named value.
func NameTrace(name string, v Value) *Trace {
	return &Trace{Kind: TraceName, Name: name, Value: v}
}

// DataTrace returns a reference into a reference dataset.
func DataTrace(dataset, key, column string, v Value) *Trace {
	return &Trace{Kind: TraceData, Name: dataset, Key: key, Column: column, Value: v}
}

// FactTrace returns a reference to a fact.
func FactTrace(name string, v Value) *Trace {
	return &Trace{Kind: TraceFact, Name: name, Value: v}
}

// AssumptionTrace returns a reference to an assumption.
func AssumptionTrace(name string, v Value) *Trace {
	return &Trace{Kind: TraceAssumption, Name: name, Value: v}
}

// UnaryTrace applies op to a.
func UnaryTrace(op string, a *Trace) *Trace {
	return &Trace{Kind: TraceUnary, Op: op, A: a}
}

// BinaryTrace applies op to a and b.
func BinaryTrace(op string, a, b *Trace) *Trace {
	return &Trace{Kind: TraceBinary, Op: op, A: a, B: b}
}

// String renders the trace as an infix expression.
func (t *Trace) String() string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *Trace) write(sb *strings.Builder) {
	switch t.Kind {
	case TraceLiteral:
		sb.WriteString(strconv.FormatFloat(t.Literal, 'g', -1, 64))
	case TraceName, TraceFact, TraceAssumption:
		sb.WriteString(t.Name)
	case TraceData:
		fmt.Fprintf(sb, "%s[%s].%s", t.Name, t.Key, t.Column)
	case TraceUnary:
		sb.WriteString(t.Op)
		t.A.write(sb)
	case TraceBinary:
		sb.WriteByte('(')
		t.A.write(sb)
		sb.WriteString(" " + t.Op + " ")
		t.B.write(sb)
		sb.WriteByte(')')
	}
}

type traceJSON struct {
	Name   *string          `json:"name,omitempty"`
	Source *string          `json:"source,omitempty"`
	Key    string           `json:"key,omitempty"`
	Column string           `json:"column,omitempty"`
	Fact   *string          `json:"fact,omitempty"`
	Ass    *string          `json:"ass,omitempty"`
	Unary  *string          `json:"unary,omitempty"`
	Binary *string          `json:"binary,omitempty"`
	Value  *json.RawMessage `json:"value,omitempty"`
	A      *Trace           `json:"a,omitempty"`
	B      *Trace           `json:"b,omitempty"`
}

// MarshalJSON encodes the trace. Literals are bare numbers.
func (t *Trace) MarshalJSON() ([]byte, error) {
	if t.Kind == TraceLiteral {
		return Number(t.Literal).MarshalJSON()
	}
	var out traceJSON
	switch t.Kind {
	case TraceUnary:
		out.Unary, out.A = &t.Op, t.A
		return json.Marshal(out)
	case TraceBinary:
		out.Binary, out.A, out.B = &t.Op, t.A, t.B
		return json.Marshal(out)
	case TraceName:
		out.Name = &t.Name
	case TraceFact:
		out.Fact = &t.Name
	case TraceAssumption:
		out.Ass = &t.Name
	case TraceData:
		out.Source, out.Key, out.Column = &t.Name, t.Key, t.Column
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrInvalidTrace, t.Kind)
	}
	raw, err := t.Value.MarshalJSON()
	if err != nil {
		return nil, err
	}
	msg := json.RawMessage(raw)
	out.Value = &msg
	return json.Marshal(out)
}

// UnmarshalJSON decodes any of the trace shapes.
func (t *Trace) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		v, err := ParseScalar(trimmed)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTrace, err)
		}
		f, ok := v.AsNumber()
		if !ok {
			return fmt.Errorf("%w: literal must be a number", ErrInvalidTrace)
		}
		*t = Trace{Kind: TraceLiteral, Literal: f}
		return nil
	}

	var in traceJSON
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTrace, err)
	}

	switch {
	case in.Binary != nil:
		if in.A == nil || in.B == nil {
			return fmt.Errorf("%w: binary %q needs operands a and b", ErrInvalidTrace, *in.Binary)
		}
		*t = Trace{Kind: TraceBinary, Op: *in.Binary, A: in.A, B: in.B}
		return nil
	case in.Unary != nil:
		if in.A == nil {
			return fmt.Errorf("%w: unary %q needs operand a", ErrInvalidTrace, *in.Unary)
		}
		*t = Trace{Kind: TraceUnary, Op: *in.Unary, A: in.A}
		return nil
	}

	var value Value
	if in.Value != nil {
		v, err := ParseScalar(*in.Value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTrace, err)
		}
		value = v
	}

	switch {
	case in.Name != nil:
		*t = Trace{Kind: TraceName, Name: *in.Name, Value: value}
	case in.Fact != nil:
		*t = Trace{Kind: TraceFact, Name: *in.Fact, Value: value}
	case in.Ass != nil:
		*t = Trace{Kind: TraceAssumption, Name: *in.Ass, Value: value}
	case in.Source != nil:
		*t = Trace{Kind: TraceData, Name: *in.Source, Key: in.Key, Column: in.Column, Value: value}
	default:
		return ErrInvalidTrace
	}
	return nil
}

// ValueWithTrace is a tree leaf: a value and, optionally, how it was computed.
type ValueWithTrace struct {
	Value Value
	Trace *Trace
}

// Plain wraps a value without provenance.
func Plain(v Value) ValueWithTrace {
	return ValueWithTrace{Value: v}
}

// String renders the value; the trace is not shown.
func (v ValueWithTrace) String() string {
	return v.Value.String()
}

type valueWithTraceJSON struct {
	Value json.RawMessage `json:"value"`
	Trace *Trace          `json:"trace,omitempty"`
}

// MarshalJSON encodes a bare scalar when there is no trace, otherwise
// {"value": ..., "trace": ...}.
func (v ValueWithTrace) MarshalJSON() ([]byte, error) {
	raw, err := v.Value.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if v.Trace == nil {
		return raw, nil
	}
	return json.Marshal(valueWithTraceJSON{Value: raw, Trace: v.Trace})
}

// UnmarshalJSON accepts both leaf shapes.
func (v *ValueWithTrace) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		parsed, err := ParseScalar(trimmed)
		if err != nil {
			return err
		}
		*v = ValueWithTrace{Value: parsed}
		return nil
	}
	var in valueWithTraceJSON
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return err
	}
	parsed, err := ParseScalar(in.Value)
	if err != nil {
		return err
	}
	*v = ValueWithTrace{Value: parsed, Trace: in.Trace}
	return nil
}
