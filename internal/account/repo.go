package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) CreateUser(ctx context.Context, u *User) error {
	err := r.Pool.QueryRow(
		ctx,
		`INSERT INTO users (username, email, password_hash, is_active, is_staff, is_superuser)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id::text, created_at`,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.IsActive,
		u.IsStaff,
		u.IsSuperuser,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repository) UserByUsername(ctx context.Context, username string) (*User, error) {
	return r.scanOne(ctx, `WHERE username = $1`, username)
}

func (r *Repository) UserByID(ctx context.Context, id string) (*User, error) {
	return r.scanOne(ctx, `WHERE id = $1::uuid`, id)
}

func (r *Repository) scanOne(ctx context.Context, where string, arg any) (*User, error) {
	var u User
	err := r.Pool.QueryRow(ctx, `
		SELECT id::text, username, email, password_hash, is_active, is_staff, is_superuser, created_at
		FROM users `+where, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsStaff,
		&u.IsSuperuser,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id::text, username, email, password_hash, is_active, is_staff, is_superuser, created_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID,
			&u.Username,
			&u.Email,
			&u.PasswordHash,
			&u.IsActive,
			&u.IsStaff,
			&u.IsSuperuser,
			&u.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// DeleteUser relies on ON DELETE CASCADE for budgets and goals.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
