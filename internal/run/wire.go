package run

import (
	"encoding/json"
	"errors"

	apperrors "github.com/climatevision/explorer/internal/errors"
	"github.com/climatevision/explorer/internal/tree"
	"github.com/climatevision/explorer/pkg/types"
)

// decodeLeaf treats an object as a leaf when it has a "value" key and no
// keys besides "value" and "trace".
func decodeLeaf(raw json.RawMessage, object map[string]json.RawMessage) (types.ValueWithTrace, bool, error) {
	if object != nil {
		if _, ok := object["value"]; !ok {
			return types.ValueWithTrace{}, false, nil
		}
		for k := range object {
			if k != "value" && k != "trace" {
				return types.ValueWithTrace{}, false, nil
			}
		}
	}
	var v types.ValueWithTrace
	if err := v.UnmarshalJSON(raw); err != nil {
		return types.ValueWithTrace{}, false, err
	}
	return v, true, nil
}

// DecodeTree parses the calculation service's nested result object.
func DecodeTree(data []byte) (tree.Tree[types.ValueWithTrace], error) {
	t, err := tree.Decode[types.ValueWithTrace](data, decodeLeaf)
	if err != nil {
		return nil, treeError("", err)
	}
	return t, nil
}

// EncodeTree renders a tree in the same shape DecodeTree accepts.
func EncodeTree(t tree.Tree[types.ValueWithTrace]) ([]byte, error) {
	return t.MarshalJSON()
}

type runJSON struct {
	Inputs    Inputs                     `json:"inputs"`
	Entries   map[string]json.RawMessage `json:"entries"`
	Overrides map[string]float64         `json:"overrides,omitempty"`
	Result    json.RawMessage            `json:"result"`
}

// DecodeRun parses {inputs, entries, overrides, result}.
func DecodeRun(data []byte) (Run, error) {
	var in runJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return Run{}, apperrors.NewDecodeError(apperrors.CodeInvalidTree, "", "run must be an object", err)
	}

	entries := make(map[string]types.ValueWithTrace, len(in.Entries))
	for k, raw := range in.Entries {
		var v types.ValueWithTrace
		if err := v.UnmarshalJSON(raw); err != nil {
			return Run{}, leafError("entries."+k, err)
		}
		entries[k] = v
	}

	result := tree.Tree[types.ValueWithTrace]{}
	if len(in.Result) > 0 && string(in.Result) != "null" {
		t, err := tree.Decode[types.ValueWithTrace](in.Result, decodeLeaf)
		if err != nil {
			return Run{}, treeError("result", err)
		}
		result = t
	}

	overrides := in.Overrides
	if overrides == nil {
		overrides = map[string]float64{}
	}
	return Run{Inputs: in.Inputs, Entries: entries, Overrides: overrides, Result: result}, nil
}

// EncodeRun renders r in the shape DecodeRun accepts. Map keys are emitted
// in sorted order, so equal runs encode to equal bytes.
func EncodeRun(r Run) ([]byte, error) {
	entries := make(map[string]json.RawMessage, len(r.Entries))
	for k, v := range r.Entries {
		raw, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		entries[k] = raw
	}
	result, err := EncodeTree(r.Result)
	if err != nil {
		return nil, err
	}
	return json.Marshal(runJSON{
		Inputs:    r.Inputs,
		Entries:   entries,
		Overrides: r.Overrides,
		Result:    result,
	})
}

func treeError(prefix string, err error) error {
	var de *tree.DecodeError
	if errors.As(err, &de) {
		context := de.Path.String()
		if prefix != "" {
			context = joinContext(prefix, context)
		}
		return leafError(context, de.Err)
	}
	return apperrors.NewDecodeError(apperrors.CodeInvalidTree, prefix, "malformed tree", err)
}

func leafError(context string, err error) error {
	if errors.Is(err, types.ErrInvalidTrace) {
		return apperrors.NewDecodeError(apperrors.CodeInvalidTrace, context, "malformed trace", err)
	}
	return apperrors.NewDecodeError(apperrors.CodeInvalidTree, context, "malformed leaf", err)
}

func joinContext(prefix, rest string) string {
	if rest == "" {
		return prefix
	}
	return prefix + "." + rest
}
