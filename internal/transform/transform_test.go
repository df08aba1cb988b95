package transform

import (
	"encoding/json"
	"testing"

	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/domain/errorModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_CanonicalFieldSet(t *testing.T) {
	for _, docType := range documentModel.DocumentTypes() {
		t.Run(string(docType), func(t *testing.T) {
			layout, err := documentModel.LayoutFor(docType)
			require.NoError(t, err)

			record, err := Transform(map[string]any{"unrelated": 1}, docType)
			require.NoError(t, err)

			names := make([]string, 0, len(record.Fields))
			for _, f := range record.Fields {
				names = append(names, f.Name)
			}
			assert.Equal(t, layout.FieldNames(), names)
			for _, f := range record.Fields {
				if f.Kind == documentModel.Address {
					assert.Len(t, f.Value, 6)
					continue
				}
				assert.Nil(t, f.Value, f.Name)
			}
		})
	}
}

func TestTransform_InvoiceScenario(t *testing.T) {
	raw := map[string]any{
		"vendor_name":     "Acme",
		"bill_to_address": map[string]any{"city": "Springfield"},
	}

	record, err := Transform(raw, documentModel.Invoice)
	require.NoError(t, err)

	assert.Len(t, record.Fields, 22)
	vendor, _ := record.Get("vendor_name")
	assert.Equal(t, "Acme", vendor)

	billTo, _ := record.Get("bill_to_address")
	assert.Equal(t, map[string]any{
		"company_name":   nil,
		"address_line_1": nil,
		"address_line_2": nil,
		"city":           "Springfield",
		"state":          nil,
		"zip":            nil,
	}, billTo)

	shipTo, _ := record.Get("ship_to_address")
	assert.NotNil(t, shipTo)
	for _, key := range documentModel.AddressFields {
		assert.Nil(t, shipTo.(map[string]any)[key])
	}
}

func TestTransform_ValuesAreVerbatim(t *testing.T) {
	items := []any{map[string]any{"description": "Chair"}}
	raw := map[string]any{
		"subtotal":      0.0,
		"terms":         "",
		"invoice_items": items,
		"total":         "1,204.50",
	}

	record, err := Transform(raw, documentModel.Invoice)
	require.NoError(t, err)

	subtotal, _ := record.Get("subtotal")
	assert.Equal(t, 0.0, subtotal)
	terms, _ := record.Get("terms")
	assert.Equal(t, "", terms)
	got, _ := record.Get("invoice_items")
	assert.Equal(t, items, got)
	total, _ := record.Get("total")
	assert.Equal(t, "1,204.50", total)
}

func TestTransform_NestedSpecTag(t *testing.T) {
	raw := map[string]any{"spec_tag": map[string]any{"tag": "FCH-002A"}}
	record, err := Transform(raw, documentModel.Submittal)
	require.NoError(t, err)

	for _, f := range record.Fields {
		if f.Name == "spec_tag" {
			assert.Equal(t, documentModel.Nested, f.Kind)
			assert.Equal(t, documentModel.Spec, f.Nested)
			assert.Equal(t, raw["spec_tag"], f.Value)
		}
	}
}

func TestTransform_UnsupportedType(t *testing.T) {
	_, err := Transform(map[string]any{}, "receipt")
	assert.ErrorIs(t, err, errorModel.ErrUnsupportedDocumentType)
}

func TestExpandAddress(t *testing.T) {
	tests := []struct {
		name  string
		value any
		city  any
	}{
		{"nil", nil, nil},
		{"string", "1 Main St", nil},
		{"partial", map[string]any{"city": "Austin", "extra": "dropped"}, "Austin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ExpandAddress(tt.value)
			assert.Len(t, out, 6)
			assert.Equal(t, tt.city, out["city"])
			assert.NotContains(t, out, "extra")
		})
	}
}

func TestTransformPayload_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		models []string
	}{
		{"single record", `{"vendor_name":"Acme"}`, []string{SingleModel}},
		{"string encoded", `"{\"vendor_name\":\"Acme\"}"`, []string{SingleModel}},
		{"model map keeps order", `{"deepseek":{"vendor_name":"A"},"openai":{"vendor_name":"B"},"anthropic":null}`,
			[]string{"deepseek", "openai", "anthropic"}},
		{"empty object", `{}`, []string{SingleModel}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := TransformPayload(json.RawMessage(tt.data), documentModel.Invoice)
			require.NoError(t, err)
			require.Len(t, records, len(tt.models))
			for i, m := range tt.models {
				assert.Equal(t, m, records[i].Model)
				assert.Len(t, records[i].Record.Fields, 22)
			}
		})
	}
}

func TestTransformPayload_ModelMapValues(t *testing.T) {
	data := `{"openai":{"vendor_name":"B","ship_to_address":{"zip":"62704"}}}`
	records, err := TransformPayload(json.RawMessage(data), documentModel.Invoice)
	require.NoError(t, err)
	require.Len(t, records, 1)

	vendor, _ := records[0].Record.Get("vendor_name")
	assert.Equal(t, "B", vendor)
	addr, _ := records[0].Record.Get("ship_to_address")
	require.IsType(t, map[string]any{}, addr)
	assert.Equal(t, "62704", addr.(map[string]any)["zip"])
}

func TestTransformPayload_Malformed(t *testing.T) {
	for _, data := range []string{``, `null`, `[1,2]`, `"not json"`, `{"broken":`, `42`} {
		_, err := TransformPayload(json.RawMessage(data), documentModel.Invoice)
		assert.ErrorIs(t, err, errorModel.ErrMalformedPayload, data)
	}
}

func TestTransformPayload_UnsupportedType(t *testing.T) {
	_, err := TransformPayload(json.RawMessage(`{}`), "receipt")
	assert.ErrorIs(t, err, errorModel.ErrUnsupportedDocumentType)
}
