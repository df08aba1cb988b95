// Package transform projects raw extraction payloads onto the canonical field
// order of a document type.
package transform

import (
	"github.com/akolanti/DocForm/internal/domain/documentModel"
)

// Transform copies every canonical field of docType out of raw, in order.
// Missing fields become nil, address fields always become a six-key object and
// keys outside the field order are dropped. Values are not type checked.
func Transform(raw map[string]any, docType documentModel.DocumentType) (documentModel.Record, error) {
	layout, err := documentModel.LayoutFor(docType)
	if err != nil {
		return documentModel.Record{}, err
	}

	record := documentModel.Record{
		Type:   docType,
		Fields: make([]documentModel.Field, 0, len(layout.Fields)),
	}
	for _, spec := range layout.Fields {
		value, present := raw[spec.Name]
		if spec.Kind == documentModel.Address {
			value = ExpandAddress(value)
		} else if !present {
			value = nil
		}
		record.Fields = append(record.Fields, documentModel.Field{
			Name:   spec.Name,
			Kind:   spec.Kind,
			Value:  value,
			Nested: spec.Nested,
		})
	}
	return record, nil
}

// ExpandAddress returns the fixed six-key address shape. Anything that is not
// an object yields an address whose every field is nil.
func ExpandAddress(value any) map[string]any {
	src, _ := value.(map[string]any)
	out := make(map[string]any, len(documentModel.AddressFields))
	for _, key := range documentModel.AddressFields {
		out[key] = src[key]
	}
	return out
}
