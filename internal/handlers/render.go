package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dunamismax/hypermedia/internal/middleware"
	"github.com/dunamismax/hypermedia/internal/view"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// htmx response headers.
const (
	HeaderTrigger  = "HX-Trigger"
	HeaderRetarget = "HX-Retarget"
	HeaderReswap   = "HX-Reswap"

	errorTarget = "#form-error"
)

// renderError writes an inline error fragment and points htmx at the page's error slot.
func renderError(c *gin.Context, status int, msg string) {
	c.Header(HeaderRetarget, errorTarget)
	c.Header(HeaderReswap, "innerHTML")
	c.HTML(status, view.ErrorMessage, view.Error{Message: msg})
}

// renderInternal logs err and answers 500 without leaking details.
func renderInternal(c *gin.Context, log *zap.Logger, err error) {
	_ = c.Error(err)
	log.Error("request failed",
		zap.Error(err),
		zap.String("route", c.FullPath()),
		zap.String("request_id", middleware.RequestIDFromContext(c)),
	)
	renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		renderError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
