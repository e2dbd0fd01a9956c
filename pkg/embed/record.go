package focus

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Record is a struct instance on the Go side. Fields keep the declared
// order, which JSON and YAML output preserve.
type Record struct {
	TypeName string
	Fields   []Field
}

type Field struct {
	Name  string
	Value interface{}
}

// Get returns the value of the named field.
func (r Record) Get(name string) (interface{}, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Map returns the fields as a map, losing their order.
func (r Record) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.Fields))
	for _, f := range r.Fields {
		m[f.Name] = f.Value
	}
	return m
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if len(r.Fields) == 0 {
		node.Style = yaml.FlowStyle
	}
	for _, f := range r.Fields {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
		val := &yaml.Node{}
		if err := val.Encode(f.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}
