// Package shelltest holds doubles for the shell's collaborators.
package shelltest

import (
	"context"

	"github.com/akolanti/DocForm/internal/apiClient"
	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/upload"
)

// MockExtractor implements shell.Extractor
type MockExtractor struct {
	OnProcessDocument func(ctx context.Context, file upload.File, docType documentModel.DocumentType) (apiClient.Extraction, error)
	OnDocumentTypes   func(ctx context.Context) ([]string, error)
}

func (m *MockExtractor) ProcessDocument(ctx context.Context, file upload.File, docType documentModel.DocumentType) (apiClient.Extraction, error) {
	if m.OnProcessDocument != nil {
		return m.OnProcessDocument(ctx, file, docType)
	}
	return apiClient.Extraction{Data: []byte(`{}`)}, nil
}

func (m *MockExtractor) DocumentTypes(ctx context.Context) ([]string, error) {
	if m.OnDocumentTypes != nil {
		return m.OnDocumentTypes(ctx)
	}
	return documentModel.DocumentTypeNames(), nil
}

// Returning answers every extraction with data and tokens.
func Returning(data string, tokens *documentModel.TokenUsage) *MockExtractor {
	return &MockExtractor{
		OnProcessDocument: func(ctx context.Context, file upload.File, docType documentModel.DocumentType) (apiClient.Extraction, error) {
			return apiClient.Extraction{Data: []byte(data), Tokens: tokens}, nil
		},
	}
}

// Failing answers every extraction with err.
func Failing(err error) *MockExtractor {
	return &MockExtractor{
		OnProcessDocument: func(ctx context.Context, file upload.File, docType documentModel.DocumentType) (apiClient.Extraction, error) {
			return apiClient.Extraction{}, err
		},
	}
}
