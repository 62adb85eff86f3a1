package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbuddy/backend/internal/money"
)

const selectBudget = `
	SELECT b.id::text, b.user_id::text, u.username, b.income::text, b.expenses::text,
	       b.month, b.category, b.notes, b.created_at
	FROM budgets b
	JOIN users u ON u.id = b.user_id`

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) ListBudgets(ctx context.Context, userID string, f Filter) ([]Budget, error) {
	query := selectBudget + ` WHERE b.user_id = $1::uuid`
	args := []any{userID}
	if f.Month != nil {
		query += ` AND b.month = $2`
		args = append(args, f.Month.Date())
	}
	query += ` ORDER BY b.created_at DESC`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *Repository) BudgetByID(ctx context.Context, id string) (*Budget, error) {
	b, err := scanBudget(r.Pool.QueryRow(ctx, selectBudget+` WHERE b.id = $1::uuid`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *Repository) InsertBudget(ctx context.Context, b *Budget) error {
	err := r.Pool.QueryRow(
		ctx,
		`WITH ins AS (
             INSERT INTO budgets (user_id, income, expenses, month, category, notes)
             VALUES ($1::uuid, $2::numeric, $3::numeric, $4, $5, $6)
             RETURNING id, user_id, created_at
         )
         SELECT ins.id::text, u.username, ins.created_at
         FROM ins JOIN users u ON u.id = ins.user_id`,
		b.UserID,
		b.Income.String(),
		b.Expenses.String(),
		b.Month.Date(),
		string(b.Category),
		b.Notes,
	).Scan(&b.ID, &b.Username, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (r *Repository) UpdateBudget(ctx context.Context, b *Budget) error {
	ct, err := r.Pool.Exec(
		ctx,
		`UPDATE budgets
         SET income = $3::numeric, expenses = $4::numeric, month = $5, category = $6, notes = $7
         WHERE id = $1::uuid AND user_id = $2::uuid`,
		b.ID,
		b.UserID,
		b.Income.String(),
		b.Expenses.String(),
		b.Month.Date(),
		string(b.Category),
		b.Notes,
	)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteBudget(ctx context.Context, userID, id string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1::uuid AND user_id = $2::uuid`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBudget(row pgx.Row) (*Budget, error) {
	var (
		b                Budget
		income, expenses string
		month            time.Time
		category         string
	)
	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Username,
		&income,
		&expenses,
		&month,
		&category,
		&b.Notes,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}

	in, err := money.Parse(income)
	if err != nil {
		return nil, fmt.Errorf("budget %s income: %w", b.ID, err)
	}
	out, err := money.Parse(expenses)
	if err != nil {
		return nil, fmt.Errorf("budget %s expenses: %w", b.ID, err)
	}
	b.Income = money.NewAmount(in)
	b.Expenses = money.NewAmount(out)
	b.Month = MonthOf(month)
	b.Category = Category(category)
	return &b, nil
}
