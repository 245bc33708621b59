package app

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/dunamismax/hypermedia/internal/config"
	"github.com/dunamismax/hypermedia/internal/repo/repotest"
	"github.com/dunamismax/hypermedia/internal/service"
	"github.com/dunamismax/hypermedia/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.App.Env = "test"
	cfg.App.Version = "1.2.3"
	cfg.HTTP.AllowOrigins = []string{"*"}
	cfg.Upload.MaxBytes = 1 << 20
	return cfg
}

func newTodoApp(t *testing.T, ping pingFunc) *gin.Engine {
	t.Helper()
	svc := service.NewTodoService(repotest.NewTodoRepo(), nil, zap.NewNop())
	r, err := todoRouter(testConfig(), svc, ping, zap.NewNop())
	require.NoError(t, err)
	return r
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestTodoRouter_FullFlow(t *testing.T) {
	r := newTodoApp(t, nil)

	form := url.Values{"content": {"Buy milk"}}
	req := httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Buy milk")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = serve(r, httptest.NewRequest(http.MethodPatch, "/todos/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "completed")

	rec = serve(r, httptest.NewRequest(http.MethodDelete, "/todos/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Buy milk")
}

func TestRouter_Health(t *testing.T) {
	r := newTodoApp(t, func(context.Context) error { return nil })
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"env":"test"}`, rec.Body.String())

	r = newTodoApp(t, func(context.Context) error { return errors.New("postgres: down") })
	rec = serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "postgres: down")
}

func TestRouter_VersionMetricsStatic(t *testing.T) {
	r := newTodoApp(t, nil)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"1.2.3"}`, rec.Body.String())

	serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	rec = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}

func TestRouter_UnknownRouteIsNotFound(t *testing.T) {
	r := newTodoApp(t, nil)
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGalleryRouter_UploadThenServe(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStore(dir)
	require.NoError(t, err)
	svc := service.NewGalleryService(repotest.NewImageRepo(), store, nil, zap.NewNop())
	r, err := galleryRouter(testConfig(), svc, store.Dir(), nil, zap.NewNop())
	require.NoError(t, err)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "Sunset"))
	fw, err := w.CreateFormFile("file", "sunset.png")
	require.NoError(t, err)
	_, err = fw.Write(png)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sunset")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/uploads/"+entries[0].Name(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, png, rec.Body.Bytes())

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "Todo App", KindTodo.title())
	assert.Equal(t, "Image Gallery", KindGallery.title())
	assert.EqualValues(t, "todo", KindTodo.migrations())
	assert.EqualValues(t, "gallery", KindGallery.migrations())
}
