// Package render turns ordered records into form views and HTML pages.
package render

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/akolanti/DocForm/internal/domain/documentModel"
)

const DefaultTitle = "Extracted Data"

type InputType string

const (
	InputText   InputType = "text"
	InputNumber InputType = "number"
	InputDate   InputType = "date"
)

type Options struct {
	ReadOnly bool
}

// Input is one labelled form control. Name is the dotted path of the value in
// the record, e.g. bill_to_address.city or invoice_items.0.unit_price.
type Input struct {
	Name     string
	Label    string
	Type     InputType
	Value    string
	ReadOnly bool
}

// Group is a labelled block of inputs. Row holds the inputs laid out on one
// line (city, state and zip for addresses).
type Group struct {
	Name   string
	Label  string
	Inputs []Input
	Row    []Input
}

// Entry is one top-level field of the form. Exactly one of Input, Group or
// Items is meaningful, selected by Kind.
type Entry struct {
	Name  string
	Label string
	Kind  documentModel.FieldKind
	Input *Input
	Group *Group
	Items []Group
}

func (e Entry) IsInput() bool { return e.Input != nil }
func (e Entry) IsGroup() bool { return e.Group != nil }

type Form struct {
	Title   string
	Entries []Entry
	Tokens  *documentModel.TokenUsage
}

// Pane is the form of one extraction model.
type Pane struct {
	ID    string
	Model string
	Form  Form
}

var addressLabels = map[string]string{
	"company_name":   "Company Name",
	"address_line_1": "Address Line 1",
	"address_line_2": "Address Line 2",
	"city":           "City",
	"state":          "State",
	"zip":            "ZIP",
}

var addressRow = map[string]bool{"city": true, "state": true, "zip": true}

// Label derives display text from a field key: underscores become spaces and
// every word starts upper case.
func Label(key string) string {
	runes := []rune(strings.ReplaceAll(key, "_", " "))
	prevWord := false
	for i, r := range runes {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r)
		if isWord && !prevWord {
			runes[i] = unicode.ToUpper(r)
		}
		prevWord = isWord
	}
	return string(runes)
}

// Render walks the record in order and picks a strategy per field kind.
func Render(record documentModel.Record, tokens *documentModel.TokenUsage, opts Options) Form {
	form := Form{Title: DefaultTitle, Tokens: tokens}
	for _, f := range record.Fields {
		form.Entries = append(form.Entries, renderField(f, opts))
	}
	return form
}

// RenderSet renders one pane per model, in payload order.
func RenderSet(records []documentModel.ModelRecord, tokens *documentModel.TokenUsage, opts Options) []Pane {
	panes := make([]Pane, 0, len(records))
	for i, mr := range records {
		form := Render(mr.Record, tokens, opts)
		if mr.Model != "" {
			form.Title = mr.Model
		}
		panes = append(panes, Pane{
			ID:    fmt.Sprintf("pane-%d", i),
			Model: mr.Model,
			Form:  form,
		})
	}
	return panes
}

func renderField(f documentModel.Field, opts Options) Entry {
	entry := Entry{Name: f.Name, Label: Label(f.Name), Kind: f.Kind}

	switch f.Kind {
	case documentModel.Address:
		if m, ok := f.Value.(map[string]any); ok {
			entry.Group = addressGroup(f.Name, entry.Label, m, opts)
			return entry
		}
	case documentModel.LineItems:
		if f.Value != nil {
			entry.Items = lineItemGroups(f.Name, f.Value, opts)
			return entry
		}
	case documentModel.Nested:
		if m, ok := f.Value.(map[string]any); ok {
			entry.Group = nestedGroup(f.Name, entry.Label, f.Nested, m, opts)
			return entry
		}
	}

	in := scalarInput(f.Name, entry.Label, f.Kind, f.Value, opts)
	entry.Input = &in
	return entry
}

func scalarInput(name, label string, kind documentModel.FieldKind, value any, opts Options) Input {
	in := Input{Name: name, Label: label, Type: InputText, ReadOnly: opts.ReadOnly}
	switch kind {
	case documentModel.Currency:
		v, ok := FormatCurrency(value)
		in.Value = v
		if ok {
			in.Type = InputNumber
		}
	case documentModel.Date:
		v, ok := FormatDate(value)
		in.Value = v
		if ok {
			in.Type = InputDate
		}
	default:
		in.Value = FormatText(value)
	}
	return in
}

func addressGroup(name, label string, value map[string]any, opts Options) *Group {
	g := &Group{Name: name, Label: label}
	for _, key := range documentModel.AddressFields {
		in := Input{
			Name:     name + "." + key,
			Label:    addressLabels[key],
			Type:     InputText,
			Value:    FormatText(value[key]),
			ReadOnly: opts.ReadOnly,
		}
		if addressRow[key] {
			g.Row = append(g.Row, in)
		} else {
			g.Inputs = append(g.Inputs, in)
		}
	}
	return g
}

// lineItemGroups renders one group per element. Known item keys come first in
// their fixed order; any other keys follow alphabetically.
func lineItemGroups(name string, value any, opts Options) []Group {
	arr, _ := value.([]any)
	groups := make([]Group, 0, len(arr))
	for i, el := range arr {
		item, _ := el.(map[string]any)
		prefix := fmt.Sprintf("%s.%d", name, i)
		g := Group{Name: prefix, Label: fmt.Sprintf("Item %d", i+1)}

		known := make(map[string]bool, len(documentModel.LineItemFields))
		for _, spec := range documentModel.LineItemFields {
			known[spec.Name] = true
			g.Inputs = append(g.Inputs,
				scalarInput(prefix+"."+spec.Name, Label(spec.Name), spec.Kind, item[spec.Name], opts))
		}
		var extra []string
		for key := range item {
			if !known[key] {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)
		for _, key := range extra {
			g.Inputs = append(g.Inputs,
				scalarInput(prefix+"."+key, Label(key), documentModel.Text, item[key], opts))
		}
		groups = append(groups, g)
	}
	return groups
}

func nestedGroup(name, label string, docType documentModel.DocumentType, value map[string]any, opts Options) *Group {
	g := &Group{Name: name, Label: label}
	layout, err := documentModel.LayoutFor(docType)
	if err != nil {
		return g
	}
	for _, spec := range layout.Fields {
		g.Inputs = append(g.Inputs,
			scalarInput(name+"."+spec.Name, Label(spec.Name), spec.Kind, value[spec.Name], opts))
	}
	return g
}
