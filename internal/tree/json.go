package tree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/climatevision/explorer/pkg/types"
)

// DecodeError reports where in a JSON tree decoding failed.
type DecodeError struct {
	Path types.Path
	Err  error
}

func (e *DecodeError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("tree: %v", e.Err)
	}
	return fmt.Sprintf("tree: at %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// LeafDecoder decodes one JSON value into a leaf. It is handed every
// non-object value, and every object for which it returns handled=true.
type LeafDecoder[T any] func(raw json.RawMessage, object map[string]json.RawMessage) (leaf T, handled bool, err error)

// Decode parses a nested JSON object into a Tree. Objects become branches
// unless the LeafDecoder claims them.
func Decode[T any](data []byte, decodeLeaf LeafDecoder[T]) (Tree[T], error) {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("root must be an object: %w", err)}
	}
	if object == nil {
		return Tree[T]{}, nil
	}
	return decodeObject(object, nil, decodeLeaf)
}

func decodeObject[T any](object map[string]json.RawMessage, prefix types.Path, decodeLeaf LeafDecoder[T]) (Tree[T], error) {
	out := make(Tree[T], len(object))
	for key, raw := range object {
		p := prefix.Child(key)
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			var child map[string]json.RawMessage
			if err := json.Unmarshal(trimmed, &child); err != nil {
				return nil, &DecodeError{Path: p, Err: err}
			}
			leaf, handled, err := decodeLeaf(trimmed, child)
			if err != nil {
				return nil, &DecodeError{Path: p, Err: err}
			}
			if handled {
				out[key] = Leaf(leaf)
				continue
			}
			sub, err := decodeObject(child, p, decodeLeaf)
			if err != nil {
				return nil, err
			}
			out[key] = Branch(sub)
			continue
		}
		leaf, _, err := decodeLeaf(trimmed, nil)
		if err != nil {
			return nil, &DecodeError{Path: p, Err: err}
		}
		out[key] = Leaf(leaf)
	}
	return out, nil
}

// MarshalJSON encodes branches as objects and leaves with their own encoding.
func (t Tree[T]) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	object := make(map[string]json.RawMessage, len(t))
	for k, node := range t {
		var raw []byte
		var err error
		if node.isBranch {
			raw, err = node.branch.MarshalJSON()
		} else {
			raw, err = json.Marshal(node.leaf)
		}
		if err != nil {
			return nil, fmt.Errorf("tree: encoding %q: %w", k, err)
		}
		object[k] = raw
	}
	return json.Marshal(object)
}
