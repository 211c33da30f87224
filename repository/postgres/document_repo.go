package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/repository"
)

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository returns a Postgres-backed implementation of DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) repository.DocumentRepository {
	return &documentRepository{pool: pool}
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	const query = `
	SELECT id, title, description, doc_type, status, due_date, priority,
	       date_created, last_modified, user_response, admin_note, review_date
	FROM documents
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanDocument(row)
}

func (r *documentRepository) List(ctx context.Context) ([]domain.Document, error) {
	const query = `
	SELECT id, title, description, doc_type, status, due_date, priority,
	       date_created, last_modified, user_response, admin_note, review_date
	FROM documents
	ORDER BY date_created DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (r *documentRepository) Upsert(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO documents (id, title, description, doc_type, status, due_date, priority,
	                       date_created, last_modified, user_response, admin_note, review_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO UPDATE
	SET title = EXCLUDED.title,
		description = EXCLUDED.description,
		doc_type = EXCLUDED.doc_type,
		status = EXCLUDED.status,
		due_date = EXCLUDED.due_date,
		priority = EXCLUDED.priority,
		last_modified = EXCLUDED.last_modified,
		user_response = EXCLUDED.user_response,
		admin_note = EXCLUDED.admin_note,
		review_date = EXCLUDED.review_date
	`

	_, err := r.pool.Exec(ctx, query,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.Type,
		doc.Status,
		doc.DueDate,
		doc.Priority,
		doc.DateCreated,
		doc.LastModified,
		doc.UserResponse,
		doc.AdminNote,
		nullTimePtr(doc.ReviewDate),
	)
	return err
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func scanDocument(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Document, error) {
	var doc domain.Document
	var review *time.Time

	if err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Description,
		&doc.Type,
		&doc.Status,
		&doc.DueDate,
		&doc.Priority,
		&doc.DateCreated,
		&doc.LastModified,
		&doc.UserResponse,
		&doc.AdminNote,
		&review,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}

	doc.ReviewDate = review
	return &doc, nil
}
