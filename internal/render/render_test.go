package render

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"vendor_name":         "Vendor Name",
		"address_line_1":      "Address Line 1",
		"po_number":           "Po Number",
		"prepayments_deposit": "Prepayments Deposit",
		"fob":                 "Fob",
		"":                    "",
	}
	for key, want := range tests {
		assert.Equal(t, want, Label(key), key)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		numeric bool
	}{
		{"nil", nil, "", true},
		{"float", 1204.5, "1204.50", true},
		{"zero", 0.0, "0.00", true},
		{"rounding", 9.126, "9.13", true},
		{"json number", json.Number("12"), "12.00", true},
		{"numeric string", "$1,204.5", "1204.50", true},
		{"text", "TBD", "TBD", false},
		{"empty string", "", "", false},
		{"nan text", "NaN", "NaN", false},
		{"inf text", "-Inf", "-Inf", false},
		{"infinity text", "Infinity", "Infinity", false},
		{"inf float", math.Inf(1), "+Inf", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatCurrency(tt.value)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.numeric, ok)
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
		ok    bool
	}{
		{"nil", nil, "", true},
		{"iso", "2024-03-01", "2024-03-01", true},
		{"iso with time", "2024-03-01T10:22:00Z", "2024-03-01", true},
		{"us slashes", "03/01/2024", "2024-03-01", true},
		{"long form", "March 1, 2024", "2024-03-01", true},
		{"us slashes with time", "01/15/2024 10:30", "2024-01-15", true},
		{"us slashes with seconds", "01/15/2024 10:30:05", "2024-01-15", true},
		{"us slashes with clock", "01/15/2024 9:05 PM", "2024-01-15", true},
		{"year first with time", "2024/01/15 10:30:05", "2024-01-15", true},
		{"garbage", "next tuesday", "next tuesday", false},
		{"number", 20240301.0, "20240301", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatDate(tt.value)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestFormatText(t *testing.T) {
	assert.Equal(t, "", FormatText(nil))
	assert.Equal(t, "0", FormatText(0.0))
	assert.Equal(t, "false", FormatText(false))
	assert.Equal(t, "32", FormatText(32.0))
	assert.Equal(t, `{"a":1}`, FormatText(map[string]any{"a": 1.0}))
}

func invoiceRecord(t *testing.T) documentModel.Record {
	t.Helper()
	raw := map[string]any{
		"vendor_name":     "Acme",
		"invoice_date":    "2024-03-01T00:00:00",
		"bill_to_address": map[string]any{"city": "Springfield", "zip": "62704"},
		"invoice_items": []any{
			map[string]any{"description": "Chair", "quantity": 2.0, "unit_price": 45.5, "color": "red"},
		},
		"total": 91.0,
	}
	record, err := transform.Transform(raw, documentModel.Invoice)
	require.NoError(t, err)
	return record
}

func findEntry(t *testing.T, form Form, name string) Entry {
	t.Helper()
	for _, e := range form.Entries {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("entry %s not found", name)
	return Entry{}
}

func TestRender_Strategies(t *testing.T) {
	form := Render(invoiceRecord(t), nil, Options{})

	require.Len(t, form.Entries, 22)
	assert.Equal(t, "vendor_name", form.Entries[0].Name)
	assert.Equal(t, DefaultTitle, form.Title)

	vendor := findEntry(t, form, "vendor_name")
	require.True(t, vendor.IsInput())
	assert.Equal(t, InputText, vendor.Input.Type)
	assert.Equal(t, "Acme", vendor.Input.Value)

	date := findEntry(t, form, "invoice_date")
	assert.Equal(t, InputDate, date.Input.Type)
	assert.Equal(t, "2024-03-01", date.Input.Value)

	total := findEntry(t, form, "total")
	assert.Equal(t, InputNumber, total.Input.Type)
	assert.Equal(t, "91.00", total.Input.Value)

	terms := findEntry(t, form, "terms")
	assert.Equal(t, "", terms.Input.Value)

	billTo := findEntry(t, form, "bill_to_address")
	require.True(t, billTo.IsGroup())
	assert.Equal(t, "Bill To Address", billTo.Group.Label)
	require.Len(t, billTo.Group.Inputs, 3)
	require.Len(t, billTo.Group.Row, 3)
	assert.Equal(t, "Company Name", billTo.Group.Inputs[0].Label)
	assert.Equal(t, "ZIP", billTo.Group.Row[2].Label)
	assert.Equal(t, "Springfield", billTo.Group.Row[0].Value)
	assert.Equal(t, "bill_to_address.city", billTo.Group.Row[0].Name)

	items := findEntry(t, form, "invoice_items")
	require.Len(t, items.Items, 1)
	item := items.Items[0]
	assert.Equal(t, "Item 1", item.Label)
	require.Len(t, item.Inputs, len(documentModel.LineItemFields)+1)
	assert.Equal(t, "Spec Tag", item.Inputs[0].Label)
	assert.Equal(t, "45.50", item.Inputs[6].Value)
	assert.Equal(t, InputNumber, item.Inputs[6].Type)
	assert.Equal(t, "Color", item.Inputs[len(item.Inputs)-1].Label)
}

func TestRender_AbsentLineItemsFallsBackToText(t *testing.T) {
	record, err := transform.Transform(map[string]any{}, documentModel.Quote)
	require.NoError(t, err)

	form := Render(record, nil, Options{})
	items := findEntry(t, form, "line_items")
	require.True(t, items.IsInput())
	assert.Equal(t, "", items.Input.Value)

	// addresses are always expanded, so they render as a group even when empty
	addr := findEntry(t, form, "customer_address")
	assert.True(t, addr.IsGroup())
}

func TestRender_NestedSpecTag(t *testing.T) {
	record, err := transform.Transform(map[string]any{
		"spec_tag": map[string]any{"tag": "FCH-002A", "quantity": 4.0},
	}, documentModel.Submittal)
	require.NoError(t, err)

	form := Render(record, nil, Options{})
	tag := findEntry(t, form, "spec_tag")
	require.True(t, tag.IsGroup())
	require.Len(t, tag.Group.Inputs, 3)
	assert.Equal(t, "FCH-002A", tag.Group.Inputs[0].Value)
	assert.Equal(t, "4", tag.Group.Inputs[2].Value)
}

func TestRender_ReadOnly(t *testing.T) {
	form := Render(invoiceRecord(t), nil, Options{ReadOnly: true})
	for _, e := range form.Entries {
		switch {
		case e.IsInput():
			assert.True(t, e.Input.ReadOnly, e.Name)
		case e.IsGroup():
			for _, in := range append(e.Group.Inputs, e.Group.Row...) {
				assert.True(t, in.ReadOnly, in.Name)
			}
		default:
			for _, g := range e.Items {
				for _, in := range g.Inputs {
					assert.True(t, in.ReadOnly, in.Name)
				}
			}
		}
	}
}

func TestRenderSet(t *testing.T) {
	records, err := transform.TransformPayload(
		json.RawMessage(`{"deepseek":{"vendor_name":"A"},"openai":{"vendor_name":"B"}}`),
		documentModel.Invoice)
	require.NoError(t, err)
	tokens := &documentModel.TokenUsage{InputTokens: 100, OutputTokens: 20}

	panes := RenderSet(records, tokens, Options{})
	require.Len(t, panes, 2)
	assert.Equal(t, "pane-0", panes[0].ID)
	assert.Equal(t, "deepseek", panes[0].Form.Title)
	assert.Equal(t, "openai", panes[1].Model)
	assert.Equal(t, "Tokens: 100 input / 20 output (120 total)", panes[1].Form.TokenLine())
}

func TestTemplates_Page(t *testing.T) {
	tpl, err := NewTemplates()
	require.NoError(t, err)

	data := PageData{
		DocumentTypes: documentModel.DocumentTypeNames(),
		SelectedType:  "quote",
		Status:        "success",
		FileName:      "invoice.pdf",
		Viewer: ViewerView{
			Status: "loaded", Page: 1, PageCount: 3, ScalePercent: 100,
			DocumentURL: "/document#page=1&zoom=100",
		},
		Panes: RenderSet([]documentModel.ModelRecord{{Record: invoiceRecord(t)}}, nil, Options{}),
	}

	var buf bytes.Buffer
	require.NoError(t, tpl.Page(&buf, data))
	html := buf.String()
	assert.Contains(t, html, `<option value="quote" selected>`)
	assert.Contains(t, html, "Page 1 of 3")
	assert.Contains(t, html, `value="Springfield"`)
	assert.Contains(t, html, "Bill To Address")
	assert.Contains(t, html, `type="date" value="2024-03-01"`)
}

func TestTemplates_ErrorAndEmpty(t *testing.T) {
	tpl, err := NewTemplates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tpl.Page(&buf, PageData{
		Error:  "Unsupported file",
		Viewer: ViewerView{Status: "no_file"},
	}))
	assert.Contains(t, buf.String(), "Unsupported file")
	assert.Contains(t, buf.String(), "No document selected")
}
