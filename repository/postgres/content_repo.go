package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/repository"
)

type contentRepository struct {
	pool *pgxpool.Pool
}

// NewContentRepository instantiates a Postgres-backed hub content repository.
func NewContentRepository(pool *pgxpool.Pool) repository.ContentRepository {
	return &contentRepository{pool: pool}
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*domain.ContentItem, error) {
	const query = `
	SELECT id, title, description, image_url, category, date_created, is_active
	FROM hub_content
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var item domain.ContentItem
	if err := row.Scan(&item.ID, &item.Title, &item.Description, &item.ImageURL,
		&item.Category, &item.DateCreated, &item.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContentNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *contentRepository) List(ctx context.Context) ([]domain.ContentItem, error) {
	const query = `
	SELECT id, title, description, image_url, category, date_created, is_active
	FROM hub_content
	ORDER BY date_created DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ContentItem
	for rows.Next() {
		var item domain.ContentItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.ImageURL,
			&item.Category, &item.DateCreated, &item.IsActive); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *contentRepository) Upsert(ctx context.Context, item *domain.ContentItem) error {
	if item == nil || item.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO hub_content (id, title, description, image_url, category, date_created, is_active)
	VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()), $7)
	ON CONFLICT (id) DO UPDATE
	SET title = EXCLUDED.title,
		description = EXCLUDED.description,
		image_url = EXCLUDED.image_url,
		category = EXCLUDED.category,
		is_active = EXCLUDED.is_active
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.ImageURL,
		item.Category,
		nullTime(item.DateCreated),
		item.IsActive,
	)
	return err
}
