package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed profile repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
	SELECT email, name, role, password_hash, date_created
	FROM profiles
	WHERE lower(email) = lower($1)
	`
	row := r.pool.QueryRow(ctx, query, email)

	var user domain.User
	if err := row.Scan(&user.Email, &user.Name, &user.Role, &user.PasswordHash, &user.DateCreated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
	SELECT email, name, role, password_hash, date_created
	FROM profiles
	ORDER BY date_created
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.Email, &user.Name, &user.Role, &user.PasswordHash, &user.DateCreated); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.Email == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO profiles (email, name, role, password_hash, date_created)
	VALUES (lower($1), $2, $3, $4, COALESCE($5, NOW()))
	ON CONFLICT (email) DO UPDATE
	SET name = EXCLUDED.name,
		role = EXCLUDED.role,
		password_hash = EXCLUDED.password_hash
	`

	_, err := r.pool.Exec(ctx, query,
		user.Email,
		user.Name,
		user.Role,
		user.PasswordHash,
		nullTime(user.DateCreated),
	)
	return err
}

func (r *userRepository) Delete(ctx context.Context, email string) error {
	const query = `DELETE FROM profiles WHERE lower(email) = lower($1)`
	tag, err := r.pool.Exec(ctx, query, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
