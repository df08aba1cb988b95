package documentModel

import (
	"fmt"
	"strings"

	"github.com/akolanti/DocForm/internal/domain/errorModel"
)

type DocumentType string

const (
	Invoice   DocumentType = "invoice"
	Spec      DocumentType = "spec"
	Quote     DocumentType = "quote"
	Submittal DocumentType = "submittal"
)

type FieldKind string

const (
	Text      FieldKind = "text"
	Date      FieldKind = "date"
	Currency  FieldKind = "currency"
	Address   FieldKind = "address"
	LineItems FieldKind = "line_items"
	Nested    FieldKind = "nested"
)

// FieldSpec is one slot in a canonical field order. Nested points at the layout
// used for Nested fields.
type FieldSpec struct {
	Name   string
	Kind   FieldKind
	Nested DocumentType
}

type Layout struct {
	Type   DocumentType
	Fields []FieldSpec
}

var AddressFields = []string{
	"company_name",
	"address_line_1",
	"address_line_2",
	"city",
	"state",
	"zip",
}

var LineItemFields = []FieldSpec{
	{Name: "spec_tag", Kind: Text},
	{Name: "description", Kind: Text},
	{Name: "quantity", Kind: Text},
	{Name: "units", Kind: Text},
	{Name: "overage", Kind: Text},
	{Name: "discount", Kind: Text},
	{Name: "unit_price", Kind: Currency},
	{Name: "extended_price", Kind: Currency},
	{Name: "fob", Kind: Text},
}

var invoiceLayout = Layout{Type: Invoice, Fields: []FieldSpec{
	{Name: "vendor_name", Kind: Text},
	{Name: "invoice_date", Kind: Date},
	{Name: "due_date", Kind: Date},
	{Name: "ship_date", Kind: Date},
	{Name: "invoice_number", Kind: Text},
	{Name: "vendor_order_number", Kind: Text},
	{Name: "account_number", Kind: Text},
	{Name: "po_number", Kind: Text},
	{Name: "terms", Kind: Text},
	{Name: "banking_info", Kind: Text},
	{Name: "currency", Kind: Text},
	{Name: "bill_to_address", Kind: Address},
	{Name: "ship_to_address", Kind: Address},
	{Name: "invoice_items", Kind: LineItems},
	{Name: "subtotal", Kind: Currency},
	{Name: "packaging_fee", Kind: Currency},
	{Name: "freight", Kind: Currency},
	{Name: "sales_tax", Kind: Currency},
	{Name: "sales_tax_rate", Kind: Text},
	{Name: "total", Kind: Currency},
	{Name: "prepayments_deposit", Kind: Currency},
	{Name: "balance_due", Kind: Currency},
}}

var specLayout = Layout{Type: Spec, Fields: []FieldSpec{
	{Name: "tag", Kind: Text},
	{Name: "description", Kind: Text},
	{Name: "quantity", Kind: Text},
}}

var quoteLayout = Layout{Type: Quote, Fields: []FieldSpec{
	{Name: "quote_number", Kind: Text},
	{Name: "quote_date", Kind: Date},
	{Name: "expiration_date", Kind: Date},
	{Name: "customer_name", Kind: Text},
	{Name: "customer_address", Kind: Address},
	{Name: "line_items", Kind: LineItems},
}}

var submittalLayout = Layout{Type: Submittal, Fields: []FieldSpec{
	{Name: "submittal_number", Kind: Text},
	{Name: "submittal_date", Kind: Date},
	{Name: "spec_tag", Kind: Nested, Nested: Spec},
}}

var layouts = map[DocumentType]Layout{
	Invoice:   invoiceLayout,
	Spec:      specLayout,
	Quote:     quoteLayout,
	Submittal: submittalLayout,
}

var documentTypes = []DocumentType{Invoice, Spec, Quote, Submittal}

func DocumentTypes() []DocumentType {
	out := make([]DocumentType, len(documentTypes))
	copy(out, documentTypes)
	return out
}

func DocumentTypeNames() []string {
	out := make([]string, 0, len(documentTypes))
	for _, t := range documentTypes {
		out = append(out, string(t))
	}
	return out
}

func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := layouts[t]; !ok {
		return "", fmt.Errorf("%q: %w", s, errorModel.ErrUnsupportedDocumentType)
	}
	return t, nil
}

// LayoutFor returns the canonical field order registered for t.
func LayoutFor(t DocumentType) (Layout, error) {
	l, ok := layouts[t]
	if !ok {
		return Layout{}, fmt.Errorf("no field order for %q: %w", t, errorModel.ErrUnsupportedDocumentType)
	}
	return l, nil
}

func (l Layout) FieldNames() []string {
	names := make([]string, 0, len(l.Fields))
	for _, f := range l.Fields {
		names = append(names, f.Name)
	}
	return names
}

func (l Layout) Has(name string) bool {
	for _, f := range l.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}
