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

// Signal events raised on the requesting element after a swap.
const (
	EventTodoAdded   = "todo-added"
	EventTodoToggled = "todo-toggled"
	EventTodoDeleted = "todo-deleted"
)

type TodoHandler struct {
	svc   *service.TodoService
	title string
	log   *zap.Logger
}

func NewTodoHandler(svc *service.TodoService, title string, log *zap.Logger) *TodoHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TodoHandler{svc: svc, title: title, log: log}
}

// Index renders the full page, newest items first.
func (h *TodoHandler) Index(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		renderInternal(c, h.log, err)
		return
	}
	c.HTML(http.StatusOK, view.TodoPage, view.NewTodoList(h.title, list))
}

// Remaining renders the open-items counter; the page refetches it after each change.
func (h *TodoHandler) Remaining(c *gin.Context) {
	n, err := h.svc.Remaining(c.Request.Context())
	if err != nil {
		renderInternal(c, h.log, err)
		return
	}
	c.HTML(http.StatusOK, view.TodoCounter, view.NewRemaining(n))
}

// Create adds an item and returns its fragment for prepending.
func (h *TodoHandler) Create(c *gin.Context) {
	var form dto.CreateTodoForm
	if err := c.ShouldBind(&form); err != nil {
		renderError(c, http.StatusBadRequest, "invalid form")
		return
	}

	t, err := h.svc.Create(c.Request.Context(), form.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyContent), errors.Is(err, service.ErrContentTooLong):
			renderError(c, http.StatusBadRequest, err.Error())
		default:
			renderInternal(c, h.log, err)
		}
		return
	}

	c.Header(HeaderTrigger, EventTodoAdded)
	c.HTML(http.StatusOK, view.TodoItem, view.NewTodo(t))
}

// Toggle flips completion and returns the updated fragment.
func (h *TodoHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Toggle(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			renderError(c, http.StatusNotFound, "item not found")
			return
		}
		renderInternal(c, h.log, err)
		return
	}
	c.Header(HeaderTrigger, EventTodoToggled)
	c.HTML(http.StatusOK, view.TodoItem, view.NewTodo(t))
}

// Delete removes the item; the empty 200 body makes htmx drop the element.
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			renderError(c, http.StatusNotFound, "item not found")
			return
		}
		renderInternal(c, h.log, err)
		return
	}
	c.Header(HeaderTrigger, EventTodoDeleted)
	c.Status(http.StatusOK)
}
