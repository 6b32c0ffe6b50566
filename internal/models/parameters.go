package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParameterCount is the number of answers that characterize a trade setup.
const ParameterCount = 15

// ParameterKeys lists the parameter keys in their fixed order.
var ParameterKeys = [ParameterCount]string{
	"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8",
	"p9", "p10", "p11", "p12", "p13", "p14", "p15",
}

// Parameters is the vector of answers for p1..p15, indexed from zero.
type Parameters [ParameterCount]TriState

// KeyIndex returns the position of a parameter key, or -1 if the key is unknown.
func KeyIndex(key string) int {
	for i, k := range ParameterKeys {
		if k == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key.
func (p Parameters) Get(key string) (TriState, error) {
	i := KeyIndex(key)
	if i < 0 {
		return Unset, fmt.Errorf("unknown parameter %q", key)
	}
	return p[i], nil
}

// Set stores v under key.
func (p *Parameters) Set(key string, v TriState) error {
	i := KeyIndex(key)
	if i < 0 {
		return fmt.Errorf("unknown parameter %q", key)
	}
	p[i] = v
	return nil
}

// Key builds the exact-match grouping key "p1:v|p2:v|...|p15:v".
func (p Parameters) Key() string {
	var sb strings.Builder
	for i, k := range ParameterKeys {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(k)
		sb.WriteByte(':')
		sb.WriteString(p[i].String())
	}
	return sb.String()
}

// MarshalJSON encodes the vector as an object keyed p1..p15 in order.
func (p Parameters) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range ParameterKeys {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%s", k, p[i].String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keyed p1..p15. Missing keys stay Unset and
// unknown keys are ignored.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	*p = Parameters{}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parameters must be an object: %w", err)
	}
	for i, k := range ParameterKeys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		if err := p[i].UnmarshalJSON(v); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

// MarshalYAML encodes the vector as a mapping in key order.
func (p Parameters) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, k := range ParameterKeys {
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if p[i].IsSet() {
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: p[i].String()}
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			value,
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a mapping keyed p1..p15.
func (p *Parameters) UnmarshalYAML(node *yaml.Node) error {
	*p = Parameters{}
	var raw map[string]TriState
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("parameters must be a mapping: %w", err)
	}
	for i, k := range ParameterKeys {
		p[i] = raw[k]
	}
	return nil
}
