package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/akolanti/DocForm/internal/domain/documentModel"
)

//go:embed templates/*.html
var templateFS embed.FS

// ViewerView is the preview state as the page shows it.
type ViewerView struct {
	Status       string
	Message      string
	Page         int
	PageCount    int
	ScalePercent int
	DocumentURL  string
}

type PageData struct {
	DocumentTypes []string
	SelectedType  string
	Status        string
	Error         string
	FileName      string
	Viewer        ViewerView
	Panes         []Pane
}

func (p PageData) Uploading() bool { return p.Status == "uploading" }

// TokenLine is the informational usage text, empty when the backend sent none.
func (f Form) TokenLine() string {
	return TokenLine(f.Tokens)
}

func TokenLine(t *documentModel.TokenUsage) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("Tokens: %d input / %d output (%d total)", t.InputTokens, t.OutputTokens, t.Total())
}

type Templates struct {
	set *template.Template
}

func NewTemplates() (*Templates, error) {
	set, err := template.New("docform").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{set: set}, nil
}

func (t *Templates) Page(w io.Writer, data PageData) error {
	return t.set.ExecuteTemplate(w, "page.html", data)
}

// Panes renders only the result panes, for partial refreshes.
func (t *Templates) Panes(w io.Writer, panes []Pane) error {
	return t.set.ExecuteTemplate(w, "panes", panes)
}
