package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	dom "github.com/dunamismax/hypermedia/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTodoList(t *testing.T) {
	got := NewTodoList("Todos", []dom.Todo{
		{ID: 3, Content: "c", IsCompleted: true},
		{ID: 1, Content: "a"},
	})
	want := TodoList{
		Title: "Todos",
		Items: []Todo{
			{ID: 3, DOMID: "todo-3", Content: "c", Completed: true, ToggleURL: "/todos/3", DeleteURL: "/todos/3"},
			{ID: 1, DOMID: "todo-1", Content: "a", ToggleURL: "/todos/1", DeleteURL: "/todos/1"},
		},
		Remaining: Remaining{Count: 1, URL: "/todos/remaining"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewTodoList mismatch (-want +got):\n%s", diff)
	}
}

func TestNewGallery(t *testing.T) {
	got := NewGallery("Gallery", []dom.Image{
		{ID: 2, Title: "Cat", StorageKey: "k2.png", CreatedAt: time.Now()},
		{ID: 1, Title: "Dog", Description: "good boy", StorageKey: "k1.jpg"},
	})
	want := Gallery{
		Title: "Gallery",
		Images: []Image{
			{ID: 2, Title: "Cat", URL: "/uploads/k2.png", Alt: "Cat"},
			{ID: 1, Title: "Dog", Description: "good boy", URL: "/uploads/k1.jpg", Alt: "good boy"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewGallery mismatch (-want +got):\n%s", diff)
	}
}

func TestTodoTemplates(t *testing.T) {
	tmpl, err := ParseTodo()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, TodoItem, NewTodo(dom.Todo{ID: 7, Content: "<b>milk</b>", IsCompleted: true})))
	out := buf.String()
	assert.Contains(t, out, `id="todo-7"`)
	assert.Contains(t, out, `hx-patch="/todos/7"`)
	assert.Contains(t, out, `hx-delete="/todos/7"`)
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "&lt;b&gt;milk&lt;/b&gt;", "content is escaped")

	buf.Reset()
	require.NoError(t, tmpl.ExecuteTemplate(&buf, TodoPage, NewTodoList("Todos", []dom.Todo{{ID: 1, Content: "a"}})))
	page := buf.String()
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, `<title>Todos</title>`)
	assert.Contains(t, page, `id="todo-1"`)
	assert.Contains(t, page, `hx-post="/todos"`)

	buf.Reset()
	require.NoError(t, tmpl.ExecuteTemplate(&buf, ErrorMessage, Error{Message: "content must not be empty"}))
	assert.Contains(t, buf.String(), "content must not be empty")
}

func TestGalleryTemplates(t *testing.T) {
	tmpl, err := ParseGallery()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, GalleryGrid, NewGallery("G", nil)))
	assert.Contains(t, buf.String(), "No images yet.")

	buf.Reset()
	g := NewGallery("G", []dom.Image{{ID: 4, Title: "Cat", StorageKey: "abc.png"}})
	require.NoError(t, tmpl.ExecuteTemplate(&buf, GalleryPage, g))
	page := buf.String()
	assert.Contains(t, page, `src="/uploads/abc.png"`)
	assert.Contains(t, page, `id="gallery"`)
	assert.Contains(t, page, `hx-post="/upload"`)
	assert.Nil(t, tmpl.Lookup(TodoItem), "gallery set excludes to-do templates")
}

func TestStaticFS(t *testing.T) {
	f, err := StaticFS().Open("/css/app.css")
	require.NoError(t, err)
	defer f.Close()
	st, err := f.Stat()
	require.NoError(t, err)
	assert.Positive(t, st.Size())
}

func TestTodoCounterTemplate(t *testing.T) {
	tmpl, err := ParseTodo()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, TodoCounter, NewRemaining(4)))
	out := buf.String()
	assert.Contains(t, out, `id="remaining"`)
	assert.Contains(t, out, `hx-get="/todos/remaining"`)
	assert.Contains(t, out, "todo-added from:body")
	assert.Contains(t, out, "todo-deleted from:body")
	assert.Contains(t, out, ">4</span>")
}

func TestLayoutSwapsErrorFragments(t *testing.T) {
	tmpl, err := ParseTodo()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, TodoPage, NewTodoList("Todos", nil)))
	out := buf.String()
	assert.Contains(t, out, `{"code":"4..","swap":true,"error":true}`)
	assert.Contains(t, out, `{"code":"5..","swap":true,"error":true}`)
}
