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

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT id, title, description, resources, due_date, priority, status,
	       date_created, last_modified, completion_date, user_response
	FROM tasks
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	const query = `
	SELECT id, title, description, resources, due_date, priority, status,
	       date_created, last_modified, completion_date, user_response
	FROM tasks
	ORDER BY date_created DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Upsert(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (id, title, description, resources, due_date, priority, status,
	                   date_created, last_modified, completion_date, user_response)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE
	SET title = EXCLUDED.title,
		description = EXCLUDED.description,
		resources = EXCLUDED.resources,
		due_date = EXCLUDED.due_date,
		priority = EXCLUDED.priority,
		status = EXCLUDED.status,
		last_modified = EXCLUDED.last_modified,
		completion_date = EXCLUDED.completion_date,
		user_response = EXCLUDED.user_response
	`

	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Resources,
		task.DueDate,
		task.Priority,
		task.Status,
		task.DateCreated,
		task.LastModified,
		nullTimePtr(task.CompletionDate),
		task.UserResponse,
	)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var completion *time.Time

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Resources,
		&task.DueDate,
		&task.Priority,
		&task.Status,
		&task.DateCreated,
		&task.LastModified,
		&completion,
		&task.UserResponse,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.CompletionDate = completion
	return &task, nil
}
