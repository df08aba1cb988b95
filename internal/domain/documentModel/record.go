package documentModel

import (
	"bytes"
	"encoding/json"
)

// Field holds a value copied verbatim from the extraction payload. Address
// values are map[string]any with exactly the AddressFields keys.
type Field struct {
	Name  string    `json:"name"`
	Kind  FieldKind `json:"kind"`
	Value any       `json:"value"`
	// Nested is set for Nested fields so consumers do not need the registry.
	Nested DocumentType `json:"nested,omitempty"`
}

// Record is a transformed document in canonical field order.
type Record struct {
	Type   DocumentType `json:"type"`
	Fields []Field      `json:"fields"`
}

// ModelRecord is the record one extraction model produced.
type ModelRecord struct {
	Model  string `json:"model"`
	Record Record `json:"record"`
}

type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func (t TokenUsage) Total() int {
	return t.InputTokens + t.OutputTokens
}

func (r Record) Get(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// OrderedJSON encodes the record as a JSON object whose keys follow the field
// order; address objects follow AddressFields.
func (r Record) OrderedJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, f.Name); err != nil {
			return nil, err
		}
		if f.Kind == Address {
			if err := writeAddress(&buf, f.Value); err != nil {
				return nil, err
			}
			continue
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}

func writeAddress(buf *bytes.Buffer, value any) error {
	m, _ := value.(map[string]any)
	buf.WriteByte('{')
	for i, name := range AddressFields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(buf, name); err != nil {
			return err
		}
		v, err := json.Marshal(m[name])
		if err != nil {
			return err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return nil
}
