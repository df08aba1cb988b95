// Package export writes extraction results as an xlsx workbook.
package export

import (
	"fmt"
	"slices"
	"strings"

	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/render"
	"github.com/xuri/excelize/v2"
)

const (
	maxSheetName = 31
	defaultSheet = "Sheet1"
)

var sheetNameReplacer = strings.NewReplacer(
	"[", "(", "]", ")", ":", "-", "*", "-", "?", "", "/", "-", "\\", "-",
)

// Workbook returns one sheet per model record. Each sheet lists the fields in
// form order followed by a table per line-item field.
func Workbook(records []documentModel.ModelRecord, tokens *documentModel.TokenUsage) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	panes := render.RenderSet(records, tokens, render.Options{ReadOnly: true})
	used := make(map[string]bool, len(panes))
	for i, pane := range panes {
		sheet := uniqueSheetName(pane.Form.Title, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}
		if err := writeForm(f, sheet, pane.Form); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) line(values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	if len(values) > 0 {
		w.err = w.f.SetSheetRow(w.sheet, cell, &values)
	}
	w.row++
}

func writeForm(f *excelize.File, sheet string, form render.Form) error {
	w := &sheetWriter{f: f, sheet: sheet, row: 1}
	w.line("Field", "Value")

	var tables []render.Entry
	for _, entry := range form.Entries {
		switch {
		case entry.IsInput():
			w.line(entry.Label, entry.Input.Value)
		case entry.IsGroup():
			for _, in := range slices.Concat(entry.Group.Inputs, entry.Group.Row) {
				w.line(entry.Label+" - "+in.Label, in.Value)
			}
		default:
			tables = append(tables, entry)
		}
	}

	for _, entry := range tables {
		w.line()
		w.line(entry.Label)
		headers := itemHeaders(entry.Items)
		w.line(toAny(headers)...)
		for _, item := range entry.Items {
			values := make(map[string]string, len(item.Inputs))
			for _, in := range item.Inputs {
				values[in.Label] = in.Value
			}
			row := make([]any, len(headers))
			for i, h := range headers {
				row[i] = values[h]
			}
			w.line(row...)
		}
	}

	if line := form.TokenLine(); line != "" {
		w.line()
		w.line(line)
	}
	if w.err != nil {
		return fmt.Errorf("write sheet %q: %w", sheet, w.err)
	}

	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "B", "F", 20)
	return nil
}

// itemHeaders is the union of the item labels in first-seen order.
func itemHeaders(items []render.Group) []string {
	var headers []string
	seen := make(map[string]bool)
	for _, item := range items {
		for _, in := range item.Inputs {
			if !seen[in.Label] {
				seen[in.Label] = true
				headers = append(headers, in.Label)
			}
		}
	}
	return headers
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func uniqueSheetName(title string, used map[string]bool) string {
	base := strings.TrimSpace(sheetNameReplacer.Replace(title))
	if base == "" {
		base = render.DefaultTitle
	}
	base = truncate(base, maxSheetName)
	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// FileName is the download name for a result of docType.
func FileName(docType documentModel.DocumentType) string {
	return fmt.Sprintf("docform-%s.xlsx", docType)
}
