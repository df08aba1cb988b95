package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/akolanti/DocForm/internal/api"
	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/data/store"
	"github.com/akolanti/DocForm/internal/domain/errorModel"
	"github.com/akolanti/DocForm/internal/handlers"
	"github.com/akolanti/DocForm/internal/middleware"
	"github.com/akolanti/DocForm/internal/render"
	"github.com/akolanti/DocForm/internal/scrollsync"
	"github.com/akolanti/DocForm/internal/server"
	"github.com/akolanti/DocForm/internal/shell"
	"github.com/akolanti/DocForm/internal/shell/shelltest"
	"github.com/akolanti/DocForm/internal/testutil"
	"github.com/akolanti/DocForm/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type testApp struct {
	srv    *httptest.Server
	client *http.Client
}

func newApp(t *testing.T, ext shell.Extractor, limiter *middleware.IPRateLimiter) *testApp {
	t.Helper()
	spooler, err := upload.NewSpooler(t.TempDir())
	require.NoError(t, err)
	templates, err := render.NewTemplates()
	require.NoError(t, err)

	svc := shell.InitService(shell.ServiceConfig{
		Store:     store.InitInMemorySessionStore(),
		Extractor: ext,
		Spooler:   spooler,
	})
	if limiter == nil {
		limiter = middleware.NewIPRateLimiter(rate.Inf, 1)
	}
	h := handlers.NewWebHandler(svc, templates, scrollsync.NewHub())
	srv := httptest.NewServer(server.WebRoutes(h, limiter))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testApp{srv: srv, client: client}
}

func (a *testApp) do(t *testing.T, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, body)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testApp) upload(t *testing.T, name string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return a.do(t, http.MethodPost, "/upload", &body, map[string]string{
		"Content-Type": mw.FormDataContentType(),
		"Accept":       "application/json",
	})
}

func (a *testApp) postJSON(t *testing.T, path string, v any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return a.do(t, http.MethodPost, path, bytes.NewReader(raw), map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	})
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestIndex_IssuesSession(t *testing.T) {
	app := newApp(t, &shelltest.MockExtractor{}, nil)
	resp := app.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == config.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.NotEmpty(t, resp.Header.Get(config.TraceHeader))

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "No document selected")
	assert.Contains(t, string(body), `<option value="invoice" selected>`)
}

func TestUpload_Success(t *testing.T) {
	app := newApp(t, shelltest.Returning(`{"vendor_name":"Acme"}`, nil), nil)
	doc := testutil.MinimalPDF(2, "hello")

	resp := app.upload(t, "invoice.pdf", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decode[api.SessionResponse](t, resp)
	assert.Equal(t, "success", session.Status)
	assert.Equal(t, "invoice.pdf", session.FileName)
	require.Len(t, session.Records, 1)

	resp = app.do(t, http.MethodGet, "/api/session", nil, nil)
	assert.Equal(t, "success", decode[api.SessionResponse](t, resp).Status)

	resp = app.do(t, http.MethodGet, "/document", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	got, _ := io.ReadAll(resp.Body)
	assert.Equal(t, doc, got)

	resp = app.do(t, http.MethodGet, "/", nil, nil)
	page, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(page), `value="Acme"`)

	resp = app.do(t, http.MethodGet, "/export.xlsx", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "docform-invoice.xlsx")
}

func TestClearDocument(t *testing.T) {
	app := newApp(t, shelltest.Returning(`{"vendor_name":"Acme"}`, nil), nil)
	require.Equal(t, http.StatusOK, app.upload(t, "invoice.pdf", testutil.MinimalPDF(1, "x")).StatusCode)

	resp := app.do(t, http.MethodPost, "/document/clear", nil, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/api/session", nil, nil)
	session := decode[api.SessionResponse](t, resp)
	assert.Equal(t, "idle", session.Status)
	assert.Empty(t, session.FileName)
	assert.Empty(t, session.Records)

	resp = app.do(t, http.MethodGet, "/document", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = app.do(t, http.MethodGet, "/export.xlsx", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpload_Rejected(t *testing.T) {
	app := newApp(t, &shelltest.MockExtractor{}, nil)
	resp := app.upload(t, "notes.pdf", []byte("plain text"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decode[api.ErrorResponse](t, resp)
	assert.False(t, e.Success)
	assert.Equal(t, errorModel.UnsupportedFileMessage, e.Error)
}

func TestUpload_ExtractionFailure(t *testing.T) {
	app := newApp(t, shelltest.Failing(&errorModel.APIError{Status: 200, Message: "Unsupported file"}), nil)
	resp := app.upload(t, "invoice.pdf", testutil.MinimalPDF(1, "x"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decode[api.SessionResponse](t, resp)
	assert.Equal(t, "failure", session.Status)
	assert.Equal(t, "Unsupported file", session.Error)

	resp = app.do(t, http.MethodGet, "/", nil, nil)
	page, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(page), "Unsupported file")

	resp = app.do(t, http.MethodGet, "/export.xlsx", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpload_RateLimited(t *testing.T) {
	app := newApp(t, &shelltest.MockExtractor{}, middleware.NewIPRateLimiter(rate.Limit(0), 1))
	doc := testutil.MinimalPDF(1, "x")

	assert.Equal(t, http.StatusOK, app.upload(t, "a.pdf", doc).StatusCode)
	resp := app.upload(t, "b.pdf", doc)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestSelectDocumentType(t *testing.T) {
	app := newApp(t, &shelltest.MockExtractor{}, nil)
	form := url.Values{"type": {"quote"}}
	resp := app.do(t, http.MethodPost, "/document-type", strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/api/session", nil, nil)
	assert.Equal(t, "quote", decode[api.SessionResponse](t, resp).DocumentType)

	form = url.Values{"type": {"receipt"}}
	resp = app.do(t, http.MethodPost, "/document-type", strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded", "Accept": "application/json"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, errorModel.UnsupportedDocumentMessage, decode[api.ErrorResponse](t, resp).Error)
}

func TestViewerEndpoints(t *testing.T) {
	app := newApp(t, shelltest.Returning(`{}`, nil), nil)

	resp := app.postJSON(t, "/viewer/loaded", api.LoadedRequest{ContainerWidth: 816})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	require.Equal(t, http.StatusOK, app.upload(t, "invoice.pdf", testutil.MinimalPDF(2, "x")).StatusCode)

	resp = app.postJSON(t, "/viewer/loaded", api.LoadedRequest{ContainerWidth: 816})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decode[api.ViewerResponse](t, resp)
	assert.Equal(t, "loaded", string(v.Status))
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 2, v.PageCount)
	assert.Equal(t, 100, v.ScalePercent)
	assert.Contains(t, v.DocumentURL, "#page=1&zoom=100")

	form := url.Values{"action": {"next"}}
	resp = app.do(t, http.MethodPost, "/viewer/page", strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded", "Accept": "application/json"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[api.ViewerResponse](t, resp).Page)

	resp = app.postJSON(t, "/viewer/zoom", map[string]any{
		"direction": "in",
		"viewport": map[string]float64{
			"scroll_left": 0, "scroll_top": 0,
			"client_width": 400, "client_height": 300,
			"scroll_width": 800, "scroll_height": 600,
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decode[api.ViewerResponse](t, resp)
	assert.Equal(t, 110, v.ScalePercent)
	require.NotNil(t, v.Scroll)
	assert.InDelta(t, 20, v.Scroll.Left, 0.01)
	assert.InDelta(t, 15, v.Scroll.Top, 0.01)

	resp = app.postJSON(t, "/viewer/zoom", map[string]any{"direction": "sideways"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDocumentTypesAndHealth(t *testing.T) {
	app := newApp(t, &shelltest.MockExtractor{}, nil)

	resp := app.do(t, http.MethodGet, "/api/document-types", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	types := decode[api.DocumentTypesResponse](t, resp)
	assert.True(t, types.Success)
	assert.Equal(t, []string{"invoice", "spec", "quote", "submittal"}, types.DocumentTypes)

	resp = app.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/document", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
