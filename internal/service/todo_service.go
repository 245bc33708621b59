package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	dom "github.com/dunamismax/hypermedia/internal/domain"
	"github.com/dunamismax/hypermedia/internal/repo"
	"github.com/dunamismax/hypermedia/internal/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// MaxContentLen is the longest accepted to-do content, in characters.
const MaxContentLen = 500

var (
	ErrEmptyContent   = errors.New("content must not be empty")
	ErrContentTooLong = fmt.Errorf("content must be at most %d characters", MaxContentLen)
)

type TodoService struct {
	repo  repo.TodoRepo
	lists *listCache[dom.Todo]
	log   *zap.Logger
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c ListCache[dom.Todo], log *zap.Logger) *TodoService {
	log = orNop(log)
	return &TodoService{repo: r, lists: newListCache("todo:list", c, log), log: log}
}

// ValidateContent trims content and checks it is non-empty and not too long.
func ValidateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLen {
		return "", ErrContentTooLong
	}
	return content, nil
}

func (s *TodoService) Create(ctx context.Context, content string) (dom.Todo, error) {
	content, err := ValidateContent(content)
	if err != nil {
		return dom.Todo{}, err
	}
	t, err := s.repo.Create(ctx, content)
	if err != nil {
		if utils.IsPGCheckViolation(err) {
			return dom.Todo{}, ErrEmptyContent
		}
		return dom.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	s.lists.invalidate(ctx)
	return t, nil
}

// List returns every item, newest first.
func (s *TodoService) List(ctx context.Context) ([]dom.Todo, error) {
	list, err := s.lists.list(ctx, s.repo.List)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return list, nil
}

// Remaining counts the items not yet completed.
func (s *TodoService) Remaining(ctx context.Context) (int, error) {
	list, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range list {
		if !t.IsCompleted {
			n++
		}
	}
	return n, nil
}

// Toggle flips the completion flag of item id.
func (s *TodoService) Toggle(ctx context.Context, id int64) (dom.Todo, error) {
	t, err := s.repo.Toggle(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, fmt.Errorf("toggle todo %d: %w", id, err)
	}
	s.lists.invalidate(ctx)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	s.lists.invalidate(ctx)
	return nil
}
