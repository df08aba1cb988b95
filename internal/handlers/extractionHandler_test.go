package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/DocForm/internal/api"
	"github.com/akolanti/DocForm/internal/apiClient"
	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/domain/errorModel"
	"github.com/akolanti/DocForm/internal/extraction"
	"github.com/akolanti/DocForm/internal/extraction/llm"
	"github.com/akolanti/DocForm/internal/handlers"
	"github.com/akolanti/DocForm/internal/server"
	"github.com/akolanti/DocForm/internal/testutil"
	"github.com/akolanti/DocForm/internal/transform"
	"github.com/akolanti/DocForm/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	name, reply string
	err         error

	mu   sync.Mutex
	user string
}

func (s *stubModel) Name() string { return s.name }

func (s *stubModel) Complete(_ context.Context, _, user string) (llm.Completion, error) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return llm.Completion{Text: s.reply}, s.err
}

func (s *stubModel) lastUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func newExtractor(t *testing.T, models ...llm.Provider) *httptest.Server {
	t.Helper()
	svc := extraction.NewService(models, nil, nil)
	srv := httptest.NewServer(server.ExtractorRoutes(handlers.NewExtractionHandler(svc)))
	t.Cleanup(srv.Close)
	return srv
}

func postDocument(t *testing.T, url, name string, data []byte, fields map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if name != "-" {
		part, err := mw.CreateFormFile(upload.FormField, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+config.ProcessDocumentPath, mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestExtractor_ProcessDocument(t *testing.T) {
	model := &stubModel{name: "gpt-4o", reply: `{"vendor_name":"Acme"}`}
	srv := newExtractor(t, model, &stubModel{name: "broken", err: assert.AnError})

	resp, out := postDocument(t, srv.URL, "quote.txt", []byte("Quote Q-7 for Acme"), map[string]string{"type": "quote"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, true, out["success"])
	assert.Equal(t, map[string]any{"gpt-4o": map[string]any{"vendor_name": "Acme"}, "broken": nil}, out["data"])
	assert.Contains(t, out, "tokens")
	assert.Contains(t, model.lastUser(), "Quote Q-7 for Acme")
	assert.Contains(t, model.lastUser(), "quote_number")
}

func TestExtractor_UnknownTypeUsesInvoice(t *testing.T) {
	model := &stubModel{name: "m", reply: `{}`}
	srv := newExtractor(t, model)

	resp, _ := postDocument(t, srv.URL, "a.txt", []byte("text"), map[string]string{"type": "receipt"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, model.lastUser(), "invoice_number")
}

func TestExtractor_Errors(t *testing.T) {
	srv := newExtractor(t, &stubModel{name: "m", reply: "{}"})
	tests := []struct {
		name    string
		file    string
		data    []byte
		status  int
		message string
	}{
		{"no file field", "-", nil, http.StatusBadRequest, "No file provided"},
		{"unsupported file", "photo.png", []byte("\x89PNG...."), http.StatusBadRequest, "Unsupported file"},
		{"empty text", "blank.txt", []byte("   "), http.StatusBadRequest, "No text could be extracted from the document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := postDocument(t, srv.URL, tt.file, tt.data, nil)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, false, out["success"])
			assert.Equal(t, tt.message, out["error"])
		})
	}

	failing := newExtractor(t, &stubModel{name: "m", err: assert.AnError})
	resp, out := postDocument(t, failing.URL, "a.txt", []byte("text"), nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Every extraction model failed", out["error"])
}

func TestExtractor_DocumentTypes(t *testing.T) {
	srv := newExtractor(t)
	resp, err := http.Get(srv.URL + config.DocumentTypesPath)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out api.DocumentTypesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Equal(t, documentModel.DocumentTypeNames(), out.DocumentTypes)
}

// The web app client against the reference backend, through the transformer.
func TestExtractor_WithAPIClient(t *testing.T) {
	srv := newExtractor(t,
		&stubModel{name: "gpt-4o", reply: `{"vendor_name":"Acme","bill_to_address":{"city":"Springfield"}}`},
		&stubModel{name: "gemini-2.5-flash", reply: "no data"},
	)
	client, err := apiClient.New(apiClient.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	file := upload.File{Name: "invoice.pdf", MIME: config.AcceptedMIMEType, Data: testutil.MinimalPDF(1, "Acme invoice")}
	file.Size = int64(len(file.Data))

	ext, err := client.ProcessDocument(context.Background(), file, documentModel.Invoice)
	require.NoError(t, err)
	require.NotNil(t, ext.Tokens)

	records, err := transform.TransformPayload(ext.Data, documentModel.Invoice)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "gpt-4o", records[0].Model)
	assert.Equal(t, "gemini-2.5-flash", records[1].Model)
	vendor, _ := records[0].Record.Get("vendor_name")
	assert.Equal(t, "Acme", vendor)
	vendor, _ = records[1].Record.Get("vendor_name")
	assert.Nil(t, vendor)

	types, err := client.DocumentTypes(context.Background())
	require.NoError(t, err)
	assert.Contains(t, types, "submittal")

	_, err = client.ProcessDocument(context.Background(), upload.File{Name: "x.pdf", Data: []byte("%PDF-1.4 junk")}, documentModel.Invoice)
	assert.Equal(t, "Unsupported file", errorModel.UserMessage(err))
}
