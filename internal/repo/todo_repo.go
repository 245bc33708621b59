package repo

import (
	"context"

	dom "github.com/dunamismax/hypermedia/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TodoRepo persists to-do items. Lookups of absent ids return pgx.ErrNoRows.
type TodoRepo interface {
	Create(ctx context.Context, content string) (dom.Todo, error)
	List(ctx context.Context) ([]dom.Todo, error)
	Toggle(ctx context.Context, id int64) (dom.Todo, error)
	Delete(ctx context.Context, id int64) error
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Create(ctx context.Context, content string) (dom.Todo, error) {
	query := `
		INSERT INTO todos (content)
		VALUES ($1)
		RETURNING id, content, is_completed`
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, content).Scan(&out.ID, &out.Content, &out.IsCompleted)
	return out, err
}

// List returns all items, newest first.
func (r *PGTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	query := `SELECT id, content, is_completed FROM todos ORDER BY id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]dom.Todo, 0)
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.Content, &t.IsCompleted); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Toggle flips is_completed in a single statement.
func (r *PGTodoRepo) Toggle(ctx context.Context, id int64) (dom.Todo, error) {
	query := `
		UPDATE todos SET is_completed = NOT is_completed
		WHERE id = $1
		RETURNING id, content, is_completed`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Content, &t.IsCompleted)
	return t, err
}

func (r *PGTodoRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
