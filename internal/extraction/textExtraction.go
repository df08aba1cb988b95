package extraction

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/domain/errorModel"
	"github.com/dslipak/pdf"
	"github.com/gabriel-vasile/mimetype"
	"github.com/lu4p/cat"
)

type sourceKind int

const (
	sourceUnknown sourceKind = iota
	sourcePDF
	sourceOffice
)

var ErrNoText = errors.New("no text could be extracted from the document")

func getSourceKind(name string, data []byte) sourceKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return sourcePDF
	case ".docx", ".odt", ".rtf", ".txt":
		return sourceOffice
	}
	if mimetype.Detect(data).Is(config.AcceptedMIMEType) {
		return sourcePDF
	}
	return sourceUnknown
}

// ExtractText returns the text of a PDF page by page, or of an office or
// plain text document in one piece.
func ExtractText(name string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch getSourceKind(name, data) {
	case sourcePDF:
		text, err = extractPDF(data)
	case sourceOffice:
		text, err = extractDocxTxtRtf(name, data)
	default:
		return "", fmt.Errorf("%w: %s", errorModel.ErrUnsupportedFile, name)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: read pdf: %v", errorModel.ErrUnsupportedFile, rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: failed to open pdf: %v", errorModel.ErrUnsupportedFile, err)
	}

	var b strings.Builder
	numPages := r.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := protectExtract(page)
		if err != nil {
			// keep the pages that could be read
			logger.Warn("Error parsing page content", "page", i, "err", err)
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// cat only reads from disk, so the upload is written to a temporary file with
// its original extension.
func extractDocxTxtRtf(name string, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "docform-*"+strings.ToLower(filepath.Ext(name)))
	if err != nil {
		return "", fmt.Errorf("storage error: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write error: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write error: %w", err)
	}

	text, err := cat.File(tmp.Name())
	if err != nil {
		return "", fmt.Errorf("%w: failed to extract %s: %v", errorModel.ErrUnsupportedFile, name, err)
	}
	return text, nil
}

func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				resChan <- result{err: fmt.Errorf("page text: %v", rec)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.PageExtractTimeout):
		return "", errors.New("page extraction timed out")
	}
}
