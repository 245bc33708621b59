// Package repotest provides in-memory repositories for tests. They follow the
// same contract as the Postgres repositories: newest first, pgx.ErrNoRows for
// absent ids, ids never reused.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "github.com/dunamismax/hypermedia/internal/domain"

	"github.com/jackc/pgx/v5"
)

// TodoRepo is an in-memory repo.TodoRepo. Setting Err makes every call fail with it.
type TodoRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]dom.Todo
	Err    error
	Calls  int
}

func NewTodoRepo() *TodoRepo {
	return &TodoRepo{items: make(map[int64]dom.Todo)}
}

func (r *TodoRepo) Create(_ context.Context, content string) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return dom.Todo{}, r.Err
	}
	r.nextID++
	t := dom.Todo{ID: r.nextID, Content: content}
	r.items[t.ID] = t
	return t, nil
}

func (r *TodoRepo) List(_ context.Context) ([]dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	list := make([]dom.Todo, 0, len(r.items))
	for _, t := range r.items {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r *TodoRepo) Toggle(_ context.Context, id int64) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return dom.Todo{}, r.Err
	}
	t, ok := r.items[id]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.IsCompleted = !t.IsCompleted
	r.items[id] = t
	return t, nil
}

func (r *TodoRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

// Len returns the number of stored items.
func (r *TodoRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// ImageRepo is an in-memory repo.ImageRepo.
type ImageRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]dom.Image
	Err    error
	Now    func() time.Time
}

func NewImageRepo() *ImageRepo {
	return &ImageRepo{items: make(map[int64]dom.Image), Now: time.Now}
}

func (r *ImageRepo) Create(_ context.Context, img dom.Image) (dom.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return dom.Image{}, r.Err
	}
	r.nextID++
	img.ID = r.nextID
	img.CreatedAt = r.Now().UTC()
	r.items[img.ID] = img
	return img, nil
}

func (r *ImageRepo) List(_ context.Context) ([]dom.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	list := make([]dom.Image, 0, len(r.items))
	for _, img := range r.items {
		list = append(list, img)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

// Len returns the number of stored images.
func (r *ImageRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
