package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	dom "github.com/dunamismax/hypermedia/internal/domain"
	"github.com/dunamismax/hypermedia/internal/repo"
	"github.com/dunamismax/hypermedia/internal/storage"
	"github.com/dunamismax/hypermedia/internal/utils"

	"go.uber.org/zap"
)

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
	sniffLen          = 512
)

var (
	ErrEmptyTitle         = errors.New("title must not be empty")
	ErrTitleTooLong       = fmt.Errorf("title must be at most %d characters", MaxTitleLen)
	ErrDescriptionTooLong = fmt.Errorf("description must be at most %d characters", MaxDescriptionLen)
	ErrMissingFile        = errors.New("an image file is required")
	ErrUnsupportedMedia   = errors.New("only image files can be uploaded")
)

// FileStore stores upload bodies under generated keys.
type FileStore interface {
	Save(ctx context.Context, ext string, r io.Reader) (storage.Object, error)
	Remove(key string) error
}

// Upload is one image submission.
type Upload struct {
	Title       string
	Description string
	Filename    string
	Body        io.Reader
}

// GalleryService handles image uploads and listing.
type GalleryService struct {
	repo  repo.ImageRepo
	files FileStore
	lists *listCache[dom.Image]
	log   *zap.Logger
}

// NewGalleryService returns a GalleryService. If c is nil, caching is disabled.
func NewGalleryService(r repo.ImageRepo, files FileStore, c ListCache[dom.Image], log *zap.Logger) *GalleryService {
	log = orNop(log)
	return &GalleryService{repo: r, files: files, lists: newListCache("gallery:list", c, log), log: log}
}

// List returns all images, newest first.
func (s *GalleryService) List(ctx context.Context) ([]dom.Image, error) {
	list, err := s.lists.list(ctx, s.repo.List)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return list, nil
}

// Upload validates u, stores the body under a fresh key and records it.
// The stored file is removed again if the record cannot be written.
func (s *GalleryService) Upload(ctx context.Context, u Upload) (dom.Image, error) {
	title := strings.TrimSpace(u.Title)
	desc := strings.TrimSpace(u.Description)
	switch {
	case title == "":
		return dom.Image{}, ErrEmptyTitle
	case utf8.RuneCountInString(title) > MaxTitleLen:
		return dom.Image{}, ErrTitleTooLong
	case utf8.RuneCountInString(desc) > MaxDescriptionLen:
		return dom.Image{}, ErrDescriptionTooLong
	case u.Body == nil:
		return dom.Image{}, ErrMissingFile
	}

	br := bufio.NewReaderSize(u.Body, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return dom.Image{}, fmt.Errorf("read upload: %w", err)
	}
	if len(head) == 0 {
		return dom.Image{}, ErrMissingFile
	}
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return dom.Image{}, fmt.Errorf("%w: got %s", ErrUnsupportedMedia, contentType)
	}

	obj, err := s.files.Save(ctx, storage.Ext(contentType, u.Filename), br)
	if err != nil {
		return dom.Image{}, fmt.Errorf("save upload: %w", err)
	}

	img, err := s.repo.Create(ctx, dom.Image{
		Title:        title,
		Description:  desc,
		StorageKey:   obj.Key,
		OriginalName: storage.DisplayName(u.Filename),
		ContentType:  contentType,
		SizeBytes:    obj.Size,
	})
	if err != nil {
		if rerr := s.files.Remove(obj.Key); rerr != nil {
			s.log.Warn("remove orphaned upload", zap.String("key", obj.Key), zap.Error(rerr))
		}
		if utils.IsPGUniqueViolation(err) {
			return dom.Image{}, fmt.Errorf("%w: storage key %s already recorded", ErrConflict, obj.Key)
		}
		return dom.Image{}, fmt.Errorf("record image: %w", err)
	}
	s.lists.invalidate(ctx)
	return img, nil
}
