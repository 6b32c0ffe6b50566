package models

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TriState is a yes/no answer that may not have been given yet.
type TriState uint8

const (
	Unset TriState = iota
	Yes
	No
)

// FromBool converts a plain boolean into a set TriState.
func FromBool(b bool) TriState {
	if b {
		return Yes
	}
	return No
}

// IsSet reports whether the value is Yes or No.
func (t TriState) IsSet() bool {
	return t == Yes || t == No
}

// String returns the pattern-key text of the value: "true", "false" or "null".
func (t TriState) String() string {
	switch t {
	case Yes:
		return "true"
	case No:
		return "false"
	default:
		return "null"
	}
}

// MarshalJSON encodes Yes/No as JSON booleans and Unset as null.
func (t TriState) MarshalJSON() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalJSON accepts true, false or null.
func (t *TriState) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*t = Yes
	case "false":
		*t = No
	case "null":
		*t = Unset
	default:
		return fmt.Errorf("invalid parameter value %s: want true, false or null", data)
	}
	return nil
}

// MarshalYAML mirrors the JSON encoding.
func (t TriState) MarshalYAML() (interface{}, error) {
	switch t {
	case Yes:
		return true, nil
	case No:
		return false, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML accepts booleans and null.
func (t *TriState) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*t = Unset
		return nil
	}
	var b bool
	if err := node.Decode(&b); err != nil {
		return fmt.Errorf("invalid parameter value %q: %w", node.Value, err)
	}
	*t = FromBool(b)
	return nil
}
