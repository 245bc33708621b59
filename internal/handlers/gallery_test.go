package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/dunamismax/hypermedia/internal/repo/repotest"
	"github.com/dunamismax/hypermedia/internal/service"
	"github.com/dunamismax/hypermedia/internal/storage"
	"github.com/dunamismax/hypermedia/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type galleryFixture struct {
	engine *gin.Engine
	repo   *repotest.ImageRepo
	dir    string
}

func newGalleryRouter(t *testing.T, maxBytes int64) galleryFixture {
	t.Helper()
	tmpl, err := view.ParseGallery()
	require.NoError(t, err)

	dir := t.TempDir()
	store, err := storage.NewStore(dir)
	require.NoError(t, err)
	r := repotest.NewImageRepo()
	h := NewGalleryHandler(service.NewGalleryService(r, store, nil, nil), "Gallery", maxBytes, nil)

	e := gin.New()
	e.SetHTMLTemplate(tmpl)
	e.GET("/", h.Index)
	e.POST("/upload", h.Upload)
	return galleryFixture{engine: e, repo: r, dir: dir}
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (f galleryFixture) upload(t *testing.T, fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func (f galleryFixture) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestGallery_UploadReturnsGrid(t *testing.T) {
	f := newGalleryRouter(t, 1<<20)

	rec := f.upload(t, map[string]string{"title": "Sunset", "description": "warm"}, "sunset.png", pngBytes)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, EventImageUploaded, rec.Header().Get(HeaderTrigger))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, `<section id="gallery"`), "grid fragment, not full page")
	assert.Contains(t, body, "Sunset")

	files := f.files(t)
	require.Len(t, files, 1)
	assert.NotEqual(t, "sunset.png", files[0])
	assert.Contains(t, body, `src="/uploads/`+files[0]+`"`)
}

func TestGallery_SameFilenameDoesNotOverwrite(t *testing.T) {
	f := newGalleryRouter(t, 1<<20)

	require.Equal(t, http.StatusOK, f.upload(t, map[string]string{"title": "one"}, "cat.png", pngBytes).Code)
	require.Equal(t, http.StatusOK, f.upload(t, map[string]string{"title": "two"}, "cat.png", pngBytes).Code)

	assert.Len(t, f.files(t), 2)
	assert.Equal(t, 2, f.repo.Len())
}

func TestGallery_TraversalFilenameStaysInside(t *testing.T) {
	f := newGalleryRouter(t, 1<<20)

	rec := f.upload(t, map[string]string{"title": "evil"}, "../../../tmp/evil.png", pngBytes)
	require.Equal(t, http.StatusOK, rec.Code)
	files := f.files(t)
	require.Len(t, files, 1)
	assert.NotContains(t, files[0], "evil")
}

func TestGallery_UploadValidation(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		content  []byte
		status   int
	}{
		{"blank title", map[string]string{"title": "  "}, "a.png", pngBytes, http.StatusBadRequest},
		{"missing file", map[string]string{"title": "t"}, "", nil, http.StatusBadRequest},
		{"not an image", map[string]string{"title": "t"}, "a.png", []byte("plain text, not pixels"), http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGalleryRouter(t, 1<<20)
			rec := f.upload(t, tt.fields, tt.filename, tt.content)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `class="error"`)
			assert.Equal(t, "#form-error", rec.Header().Get(HeaderRetarget))
			assert.Zero(t, f.repo.Len())
			assert.Empty(t, f.files(t))
		})
	}
}

func TestGallery_UploadTooLarge(t *testing.T) {
	f := newGalleryRouter(t, 1024)

	big := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 4096)...)
	rec := f.upload(t, map[string]string{"title": "big"}, "big.png", big)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, f.repo.Len())
	assert.Empty(t, f.files(t))
}

func TestGallery_IndexNewestFirst(t *testing.T) {
	f := newGalleryRouter(t, 1<<20)
	require.Equal(t, http.StatusOK, f.upload(t, map[string]string{"title": "older"}, "a.png", pngBytes).Code)
	require.Equal(t, http.StatusOK, f.upload(t, map[string]string{"title": "newer"}, "b.png", pngBytes).Code)

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Less(t, strings.Index(body, "newer"), strings.Index(body, "older"))
}
