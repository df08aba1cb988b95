package documentModel

import (
	"encoding/json"
	"testing"

	"github.com/akolanti/DocForm/internal/domain/errorModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentType(t *testing.T) {
	for _, name := range []string{"invoice", "spec", "quote", "submittal", " Invoice "} {
		_, err := ParseDocumentType(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseDocumentType("receipt")
	assert.ErrorIs(t, err, errorModel.ErrUnsupportedDocumentType)
}

func TestLayoutFor(t *testing.T) {
	tests := []struct {
		docType DocumentType
		count   int
		first   string
	}{
		{Invoice, 22, "vendor_name"},
		{Spec, 3, "tag"},
		{Quote, 6, "quote_number"},
		{Submittal, 3, "submittal_number"},
	}
	for _, tt := range tests {
		l, err := LayoutFor(tt.docType)
		require.NoError(t, err)
		assert.Len(t, l.Fields, tt.count, tt.docType)
		assert.Equal(t, tt.first, l.Fields[0].Name)
	}

	_, err := LayoutFor("receipt")
	assert.ErrorIs(t, err, errorModel.ErrUnsupportedDocumentType)
}

func TestAddressKindMatchesName(t *testing.T) {
	for _, dt := range DocumentTypes() {
		l, _ := LayoutFor(dt)
		for _, f := range l.Fields {
			if f.Kind == Address {
				assert.Contains(t, f.Name, "address")
			}
		}
	}
}

func TestDocumentTypes_Copy(t *testing.T) {
	types := DocumentTypes()
	types[0] = "mutated"
	assert.Equal(t, Invoice, DocumentTypes()[0])
	assert.Equal(t, []string{"invoice", "spec", "quote", "submittal"}, DocumentTypeNames())
}

func TestRecord_OrderedJSON(t *testing.T) {
	r := Record{Type: Quote, Fields: []Field{
		{Name: "quote_number", Kind: Text, Value: "Q-1"},
		{Name: "customer_address", Kind: Address, Value: map[string]any{"city": "Springfield", "zip": nil}},
		{Name: "line_items", Kind: LineItems, Value: nil},
	}}

	out, err := r.OrderedJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"quote_number":"Q-1","customer_address":{"company_name":null,"address_line_1":null,"address_line_2":null,"city":"Springfield","state":null,"zip":null},"line_items":null}`,
		string(out))
	assert.True(t, json.Valid(out))
}

func TestTokenUsage_Total(t *testing.T) {
	assert.Equal(t, 15, TokenUsage{InputTokens: 10, OutputTokens: 5}.Total())
}
