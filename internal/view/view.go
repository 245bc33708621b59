// Package view holds the view models rendered by the HTML templates. Handlers
// never pass domain entities to templates; each response shape has its own struct.
package view

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	dom "github.com/dunamismax/hypermedia/internal/domain"
	"github.com/dunamismax/hypermedia/web"
)

// Template names.
const (
	TodoPage     = "todo/index"
	TodoItem     = "todo/item"
	TodoCounter  = "todo/remaining"
	GalleryPage  = "gallery/index"
	GalleryGrid  = "gallery/grid"
	ErrorMessage = "error"
)

// Todo renders one list row.
type Todo struct {
	ID        int64
	DOMID     string
	Content   string
	Completed bool
	ToggleURL string
	DeleteURL string
}

// TodoList is the full to-do page.
type TodoList struct {
	Title     string
	Items     []Todo
	Remaining Remaining
}

// Remaining is the open-items counter. It refreshes itself when a row changes.
type Remaining struct {
	Count int
	URL   string
}

// Image renders one gallery card.
type Image struct {
	ID          int64
	Title       string
	Description string
	URL         string
	Alt         string
}

// Gallery is both the full gallery page and the grid fragment.
type Gallery struct {
	Title  string
	Images []Image
}

// Error is an inline error fragment.
type Error struct {
	Message string
}

func NewTodo(t dom.Todo) Todo {
	return Todo{
		ID:        t.ID,
		DOMID:     fmt.Sprintf("todo-%d", t.ID),
		Content:   t.Content,
		Completed: t.IsCompleted,
		ToggleURL: fmt.Sprintf("/todos/%d", t.ID),
		DeleteURL: fmt.Sprintf("/todos/%d", t.ID),
	}
}

func NewTodoList(title string, list []dom.Todo) TodoList {
	out := TodoList{Title: title, Items: make([]Todo, len(list))}
	n := 0
	for i := range list {
		out.Items[i] = NewTodo(list[i])
		if !list[i].IsCompleted {
			n++
		}
	}
	out.Remaining = NewRemaining(n)
	return out
}

func NewRemaining(n int) Remaining {
	return Remaining{Count: n, URL: "/todos/remaining"}
}

func NewImage(img dom.Image) Image {
	alt := img.Description
	if alt == "" {
		alt = img.Title
	}
	return Image{
		ID:          img.ID,
		Title:       img.Title,
		Description: img.Description,
		URL:         "/uploads/" + img.StorageKey,
		Alt:         alt,
	}
}

func NewGallery(title string, list []dom.Image) Gallery {
	out := Gallery{Title: title, Images: make([]Image, len(list))}
	for i := range list {
		out.Images[i] = NewImage(list[i])
	}
	return out
}

// ParseTodo parses the layout, shared partials and to-do templates.
func ParseTodo() (*template.Template, error) {
	return parse("templates/*.html", "templates/todo/*.html")
}

// ParseGallery parses the layout, shared partials and gallery templates.
func ParseGallery() (*template.Template, error) {
	return parse("templates/*.html", "templates/gallery/*.html")
}

func parse(patterns ...string) (*template.Template, error) {
	t, err := template.New("").ParseFS(web.TemplateFiles, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// StaticFS returns the embedded static assets rooted at static/.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(web.StaticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
