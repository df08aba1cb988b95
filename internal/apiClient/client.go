// Package apiClient talks to the document extraction service.
package apiClient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/customHttpClient"
	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/domain/errorModel"
	"github.com/akolanti/DocForm/internal/metrics"
	"github.com/akolanti/DocForm/internal/upload"
	"github.com/akolanti/DocForm/pkg/logger_i"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responses larger than this are not an extraction result
const maxResponseSize = 8 << 20

type Options struct {
	BaseURL string
	Timeout time.Duration
	// Headers are sent with every request, on top of Accept: application/json.
	Headers    map[string]string
	HTTPClient *http.Client
}

// Client is built once at startup and handed to whoever needs the service.
type Client struct {
	baseURL    string
	http       *http.Client
	headers    http.Header
	envelope   *jsonschema.Schema
	typesShape *jsonschema.Schema
	logger     *logger_i.Logger
}

// Extraction is a successful answer. Data is still in wire form: a record, a
// JSON string holding one, or an object of model -> record.
type Extraction struct {
	Data   json.RawMessage
	Tokens *documentModel.TokenUsage
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = config.DefaultExtractionAPIURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = config.ExtractionAPITimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = customHttpClient.NewClient(opts.Timeout)
	}

	headers := make(http.Header)
	headers.Set("Accept", "application/json")
	for k, v := range opts.Headers {
		headers.Set(k, v)
	}

	envelope, err := compileSchema(envelopeSchemaURL, envelopeSchema)
	if err != nil {
		return nil, err
	}
	typesShape, err := compileSchema(documentTypesSchemaURL, documentTypesSchema)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		http:       httpClient,
		headers:    headers,
		envelope:   envelope,
		typesShape: typesShape,
		logger:     logger_i.NewLogger("apiClient"),
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ProcessDocument uploads file with the document type and returns the payload.
func (c *Client) ProcessDocument(ctx context.Context, file upload.File, docType documentModel.DocumentType) (Extraction, error) {
	body, contentType, err := multipartBody(file, docType)
	if err != nil {
		return Extraction{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, config.ProcessDocumentPath, body)
	if err != nil {
		return Extraction{}, err
	}
	req.Header.Set("Content-Type", contentType)

	log := c.logger.FromContext(ctx)
	log.Info("sending document", "file", file.Name, "size", file.Size, "type", docType)

	start := time.Now()
	status, raw, err := c.do(req)
	metrics.ObserveDependency("extraction_api", start)
	if err != nil {
		return Extraction{}, err
	}

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Tokens  json.RawMessage `json:"tokens"`
		Error   *string         `json:"error"`
	}
	if err := c.decode(c.envelope, raw, &env); err != nil {
		if !ok(status) {
			return Extraction{}, apiError(status, raw)
		}
		log.Warn("invalid extraction envelope", "status", status, "err", err)
		return Extraction{}, err
	}

	if !env.Success || !ok(status) {
		apiErr := &errorModel.APIError{Status: status}
		if env.Error != nil {
			apiErr.Message = *env.Error
		}
		log.Warn("extraction rejected", "status", status, "error", apiErr.Message)
		return Extraction{}, apiErr
	}

	log.Info("extraction received", "status", status, "bytes", len(raw))
	return Extraction{Data: env.Data, Tokens: parseTokens(env.Tokens)}, nil
}

// DocumentTypes lists the types the service knows about.
func (c *Client) DocumentTypes(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, config.DocumentTypesPath, nil)
	if err != nil {
		return nil, err
	}
	status, raw, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, apiError(status, raw)
	}

	var resp struct {
		DocumentTypes []string `json:"document_types"`
	}
	if err := c.decode(c.typesShape, raw, &resp); err != nil {
		return nil, err
	}
	return resp.DocumentTypes, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}
	if traceID := config.TraceID(ctx); traceID != "" {
		req.Header.Set(config.TraceHeader, traceID)
	}
	return req, nil
}

// do sends the request and reads the body. Cancellation is returned as the
// context error so callers can tell it apart from an unreachable service.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			return 0, nil, ctxErr
		}
		return 0, nil, fmt.Errorf("%w: %v", errorModel.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: read body: %v", errorModel.ErrTransport, err)
	}
	return resp.StatusCode, raw, nil
}

func (c *Client) decode(schema *jsonschema.Schema, raw []byte, out any) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", errorModel.ErrMalformedPayload, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", errorModel.ErrMalformedPayload, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", errorModel.ErrMalformedPayload, err)
	}
	return nil
}

func multipartBody(file upload.File, docType documentModel.DocumentType) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, upload.FormField, file.Name))
	h.Set("Content-Type", config.AcceptedMIMEType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("build upload: %w", err)
	}
	if err := mw.WriteField("type", string(docType)); err != nil {
		return nil, "", fmt.Errorf("build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("build upload: %w", err)
	}
	return &body, mw.FormDataContentType(), nil
}

// parseTokens keeps usage objects and drops the legacy integer placeholder.
func parseTokens(raw json.RawMessage) *documentModel.TokenUsage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var usage documentModel.TokenUsage
	if err := json.Unmarshal(raw, &usage); err != nil {
		return nil
	}
	return &usage
}

// apiError keeps the server text of an error body when there is one.
func apiError(status int, raw []byte) *errorModel.APIError {
	var e struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(raw, &e)
	return &errorModel.APIError{Status: status, Message: e.Error}
}

func ok(status int) bool {
	return status >= 200 && status < 300
}
