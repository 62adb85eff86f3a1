package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbuddy/backend/internal/money"
)

const goalColumns = `g.id::text, g.user_id::text, u.username, g.name, g.target_amount::text,
	       g.saved_amount::text, g.deadline, g.status, g.notes, g.created_at`

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) ListGoals(ctx context.Context, userID string) ([]Goal, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+goalColumns+`
		FROM goals g
		JOIN users u ON u.id = g.user_id
		WHERE g.user_id = $1::uuid
		ORDER BY g.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *Repository) GoalByID(ctx context.Context, id string) (*Goal, error) {
	g, err := scanGoal(r.Pool.QueryRow(ctx, `
		SELECT `+goalColumns+`
		FROM goals g
		JOIN users u ON u.id = g.user_id
		WHERE g.id = $1::uuid
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

func (r *Repository) InsertGoal(ctx context.Context, g *Goal) error {
	err := r.Pool.QueryRow(
		ctx,
		`WITH ins AS (
             INSERT INTO goals (user_id, name, target_amount, saved_amount, deadline, status, notes)
             VALUES ($1::uuid, $2, $3::numeric, 0, $4, $5, $6)
             RETURNING id, user_id, created_at
         )
         SELECT ins.id::text, u.username, ins.created_at
         FROM ins JOIN users u ON u.id = ins.user_id`,
		g.UserID,
		g.Name,
		g.TargetAmount.String(),
		g.Deadline.Time,
		string(g.Status),
		g.Notes,
	).Scan(&g.ID, &g.Username, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	g.SavedAmount = money.NewAmount(decimal.Zero)
	return nil
}

func (r *Repository) UpdateGoal(ctx context.Context, g *Goal) error {
	var saved string
	err := r.Pool.QueryRow(
		ctx,
		`UPDATE goals
         SET name = $3, target_amount = $4::numeric, deadline = $5, status = $6, notes = $7
         WHERE id = $1::uuid AND user_id = $2::uuid
         RETURNING saved_amount::text`,
		g.ID,
		g.UserID,
		g.Name,
		g.TargetAmount.String(),
		g.Deadline.Time,
		string(g.Status),
		g.Notes,
	).Scan(&saved)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}

	d, err := money.Parse(saved)
	if err != nil {
		return fmt.Errorf("goal %s saved_amount: %w", g.ID, err)
	}
	g.SavedAmount = money.NewAmount(d)
	return nil
}

func (r *Repository) DeleteGoal(ctx context.Context, userID, id string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM goals WHERE id = $1::uuid AND user_id = $2::uuid`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddSavedAmount increments in a single statement so concurrent additions
// never lose an update. The bound is checked against the row being written.
func (r *Repository) AddSavedAmount(ctx context.Context, userID, id string, delta decimal.Decimal) (*Goal, error) {
	g, err := scanGoal(r.Pool.QueryRow(ctx, `
		WITH upd AS (
			UPDATE goals
			SET saved_amount = saved_amount + $3::numeric
			WHERE id = $1::uuid AND user_id = $2::uuid
			  AND saved_amount + $3::numeric < $4::numeric
			RETURNING *
		)
		SELECT `+goalColumns+`
		FROM upd g
		JOIN users u ON u.id = g.user_id
	`, id, userID, money.Format(delta), money.MaxAmount.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.missingOrFull(ctx, userID, id)
	}
	if err != nil {
		return nil, fmt.Errorf("add saved amount: %w", err)
	}
	return g, nil
}

// missingOrFull explains why AddSavedAmount matched no row.
func (r *Repository) missingOrFull(ctx context.Context, userID, id string) error {
	var exists bool
	err := r.Pool.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM goals WHERE id = $1::uuid AND user_id = $2::uuid)`,
		id, userID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("add saved amount: %w", err)
	}
	if exists {
		return ErrAmountTooLarge
	}
	return ErrNotFound
}

func scanGoal(row pgx.Row) (*Goal, error) {
	var (
		g             Goal
		target, saved string
		deadline      time.Time
		status        string
	)
	if err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Username,
		&g.Name,
		&target,
		&saved,
		&deadline,
		&status,
		&g.Notes,
		&g.CreatedAt,
	); err != nil {
		return nil, err
	}

	t, err := money.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("goal %s target_amount: %w", g.ID, err)
	}
	s, err := money.Parse(saved)
	if err != nil {
		return nil, fmt.Errorf("goal %s saved_amount: %w", g.ID, err)
	}
	g.TargetAmount = money.NewAmount(t)
	g.SavedAmount = money.NewAmount(s)
	g.Deadline = NewDate(deadline)
	g.Status = Status(status)
	return &g, nil
}
