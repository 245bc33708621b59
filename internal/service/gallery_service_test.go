package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dunamismax/hypermedia/internal/repo/repotest"
	"github.com/dunamismax/hypermedia/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func newGallery(t *testing.T) (*GalleryService, *repotest.ImageRepo, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewStore(dir)
	require.NoError(t, err)
	r := repotest.NewImageRepo()
	return NewGalleryService(r, store, nil, nil), r, dir
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestGalleryService_UploadStoresUnderGeneratedKey(t *testing.T) {
	svc, _, dir := newGallery(t)

	img, err := svc.Upload(context.Background(), Upload{
		Title:       " Sunset ",
		Description: " evening ",
		Filename:    "../../etc/passwd.html",
		Body:        bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)

	assert.Equal(t, "Sunset", img.Title)
	assert.Equal(t, "evening", img.Description)
	assert.Equal(t, "passwd.html", img.OriginalName)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, int64(len(pngHeader)), img.SizeBytes)
	assert.True(t, strings.HasSuffix(img.StorageKey, ".png"), "extension follows sniffed type")
	assert.NotContains(t, img.StorageKey, "passwd")

	data, err := os.ReadFile(filepath.Join(dir, img.StorageKey))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestGalleryService_SameFilenameTwice(t *testing.T) {
	svc, r, dir := newGallery(t)
	ctx := context.Background()

	a, err := svc.Upload(ctx, Upload{Title: "a", Filename: "cat.png", Body: bytes.NewReader(pngHeader)})
	require.NoError(t, err)
	b, err := svc.Upload(ctx, Upload{Title: "b", Filename: "cat.png", Body: bytes.NewReader(pngHeader)})
	require.NoError(t, err)

	assert.NotEqual(t, a.StorageKey, b.StorageKey)
	assert.Equal(t, 2, countFiles(t, dir))
	assert.Equal(t, 2, r.Len())

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID, "newest first")
}

func TestGalleryService_Validation(t *testing.T) {
	tests := []struct {
		name   string
		upload Upload
		want   error
	}{
		{"blank title", Upload{Title: "  ", Body: bytes.NewReader(pngHeader)}, ErrEmptyTitle},
		{"long title", Upload{Title: strings.Repeat("t", MaxTitleLen+1), Body: bytes.NewReader(pngHeader)}, ErrTitleTooLong},
		{"long description", Upload{Title: "ok", Description: strings.Repeat("d", MaxDescriptionLen+1), Body: bytes.NewReader(pngHeader)}, ErrDescriptionTooLong},
		{"no body", Upload{Title: "ok"}, ErrMissingFile},
		{"empty body", Upload{Title: "ok", Body: bytes.NewReader(nil)}, ErrMissingFile},
		{"not an image", Upload{Title: "ok", Filename: "x.png", Body: strings.NewReader("<html><script>alert(1)</script>")}, ErrUnsupportedMedia},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, r, dir := newGallery(t)
			_, err := svc.Upload(context.Background(), tt.upload)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, r.Len())
			assert.Zero(t, countFiles(t, dir))
		})
	}
}

func TestGalleryService_RepoFailureRemovesFile(t *testing.T) {
	svc, r, dir := newGallery(t)
	r.Err = errors.New("db down")

	_, err := svc.Upload(context.Background(), Upload{Title: "a", Body: bytes.NewReader(pngHeader)})
	require.Error(t, err)
	assert.Zero(t, countFiles(t, dir))
}

func TestGalleryService_DuplicateKeyIsConflict(t *testing.T) {
	svc, r, _ := newGallery(t)
	r.Err = &pgconn.PgError{Code: "23505"}

	_, err := svc.Upload(context.Background(), Upload{Title: "a", Body: bytes.NewReader(pngHeader)})
	assert.ErrorIs(t, err, ErrConflict)
}
