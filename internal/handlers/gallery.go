package handlers

import (
	"errors"
	"net/http"

	"github.com/dunamismax/hypermedia/internal/dto"
	"github.com/dunamismax/hypermedia/internal/service"
	"github.com/dunamismax/hypermedia/internal/view"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const EventImageUploaded = "image-uploaded"

// GalleryHandler serves the image gallery.
type GalleryHandler struct {
	svc      *service.GalleryService
	title    string
	maxBytes int64
	log      *zap.Logger
}

// NewGalleryHandler returns a GalleryHandler accepting request bodies up to maxBytes.
func NewGalleryHandler(svc *service.GalleryService, title string, maxBytes int64, log *zap.Logger) *GalleryHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &GalleryHandler{svc: svc, title: title, maxBytes: maxBytes, log: log}
}

// Index renders the full gallery page.
func (h *GalleryHandler) Index(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		renderInternal(c, h.log, err)
		return
	}
	c.HTML(http.StatusOK, view.GalleryPage, view.NewGallery(h.title, list))
}

// Upload stores one image and returns the refreshed gallery grid.
func (h *GalleryHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	var form dto.UploadImageForm
	if err := c.ShouldBind(&form); err != nil {
		if isBodyTooLarge(err) {
			renderError(c, http.StatusRequestEntityTooLarge, "file is too large")
			return
		}
		renderError(c, http.StatusBadRequest, "invalid upload form")
		return
	}
	if form.File == nil {
		renderError(c, http.StatusBadRequest, service.ErrMissingFile.Error())
		return
	}

	f, err := form.File.Open()
	if err != nil {
		renderInternal(c, h.log, err)
		return
	}
	defer f.Close()

	_, err = h.svc.Upload(c.Request.Context(), service.Upload{
		Title:       form.Title,
		Description: form.Description,
		Filename:    form.File.Filename,
		Body:        f,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyTitle),
			errors.Is(err, service.ErrTitleTooLong),
			errors.Is(err, service.ErrDescriptionTooLong),
			errors.Is(err, service.ErrMissingFile):
			renderError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUnsupportedMedia):
			renderError(c, http.StatusUnsupportedMediaType, service.ErrUnsupportedMedia.Error())
		case errors.Is(err, service.ErrConflict):
			renderError(c, http.StatusConflict, "upload conflicted with an existing image, please retry")
		case isBodyTooLarge(err):
			renderError(c, http.StatusRequestEntityTooLarge, "file is too large")
		default:
			renderInternal(c, h.log, err)
		}
		return
	}

	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		renderInternal(c, h.log, err)
		return
	}
	c.Header(HeaderTrigger, EventImageUploaded)
	c.HTML(http.StatusOK, view.GalleryGrid, view.NewGallery(h.title, list))
}
