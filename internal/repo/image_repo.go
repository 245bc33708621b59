package repo

import (
	"context"

	dom "github.com/dunamismax/hypermedia/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ImageRepo persists gallery images.
type ImageRepo interface {
	Create(ctx context.Context, img dom.Image) (dom.Image, error)
	List(ctx context.Context) ([]dom.Image, error)
}

// PGImageRepo implements ImageRepo with Postgres.
type PGImageRepo struct {
	db *pgxpool.Pool
}

// NewPGImageRepo returns a new PGImageRepo.
func NewPGImageRepo(db *pgxpool.Pool) *PGImageRepo {
	return &PGImageRepo{db: db}
}

const imageColumns = `id, title, description, storage_key, original_name, content_type, size_bytes, created_at`

// Create inserts img and returns the stored row.
func (r *PGImageRepo) Create(ctx context.Context, img dom.Image) (dom.Image, error) {
	query := `
		INSERT INTO images (title, description, storage_key, original_name, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + imageColumns
	var out dom.Image
	err := r.db.QueryRow(ctx, query,
		img.Title, img.Description, img.StorageKey, img.OriginalName, img.ContentType, img.SizeBytes,
	).Scan(
		&out.ID, &out.Title, &out.Description, &out.StorageKey,
		&out.OriginalName, &out.ContentType, &out.SizeBytes, &out.CreatedAt,
	)
	return out, err
}

// List returns all images, newest first.
func (r *PGImageRepo) List(ctx context.Context) ([]dom.Image, error) {
	rows, err := r.db.Query(ctx, `SELECT `+imageColumns+` FROM images ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]dom.Image, 0)
	for rows.Next() {
		var img dom.Image
		if err := rows.Scan(&img.ID, &img.Title, &img.Description, &img.StorageKey,
			&img.OriginalName, &img.ContentType, &img.SizeBytes, &img.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, img)
	}
	return list, rows.Err()
}
