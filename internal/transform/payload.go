package transform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/domain/errorModel"
)

// SingleModel names the record when the payload was not keyed by model.
const SingleModel = ""

// TransformPayload accepts the "data" member of an extraction response: a
// record, a JSON string holding a record, or an object of model -> record.
func TransformPayload(data json.RawMessage, docType documentModel.DocumentType) ([]documentModel.ModelRecord, error) {
	layout, err := documentModel.LayoutFor(docType)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, fmt.Errorf("decode string payload: %w", errorModel.ErrMalformedPayload)
		}
		data = bytes.TrimSpace([]byte(inner))
	}
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("payload is not an object: %w", errorModel.ErrMalformedPayload)
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("decode payload: %v: %w", err, errorModel.ErrMalformedPayload)
	}

	if !isModelMap(obj, layout) {
		record, err := Transform(obj, docType)
		if err != nil {
			return nil, err
		}
		return []documentModel.ModelRecord{{Model: SingleModel, Record: record}}, nil
	}

	keys, err := objectKeys(data)
	if err != nil {
		return nil, fmt.Errorf("read payload keys: %v: %w", err, errorModel.ErrMalformedPayload)
	}
	out := make([]documentModel.ModelRecord, 0, len(keys))
	for _, model := range keys {
		raw, _ := obj[model].(map[string]any)
		record, err := Transform(raw, docType)
		if err != nil {
			return nil, err
		}
		out = append(out, documentModel.ModelRecord{Model: model, Record: record})
	}
	return out, nil
}

// isModelMap: no canonical key at the top level and every value is an object
// or null (a model whose reply could not be parsed).
func isModelMap(obj map[string]any, layout documentModel.Layout) bool {
	if len(obj) == 0 {
		return false
	}
	sawObject := false
	for key, value := range obj {
		if layout.Has(key) {
			return false
		}
		switch value.(type) {
		case map[string]any:
			sawObject = true
		case nil:
		default:
			return false
		}
	}
	return sawObject
}

// objectKeys lists the top-level keys of a JSON object in document order.
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object")
	}
	var keys []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key")
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, nil
}
