package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object decodes b into v when b is a JSON object that fits v's shape.
// Anything else leaves v zero and reports no error, so one odd nested
// section never rejects the record that holds it. Callers decode into a
// method-less alias of their type to avoid recursing into themselves.
func Object[T any](b []byte, v *T) error {
	var zero T
	*v = zero
	if !isObject(b) {
		return nil
	}
	var out T
	if err := json.Unmarshal(b, &out); err == nil {
		*v = out
	}
	return nil
}

// List decodes a JSON array one element at a time and drops elements that
// are not objects or do not decode into T. Empty input and null are an empty
// list; any other non-array is an error.
func List[T any](b []byte) ([]T, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, nil
	}
	if b[0] != '[' {
		return nil, fmt.Errorf("expected array, got %.16q", b)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		if !isObject(r) {
			continue
		}
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func isObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}
