package budget

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("budget not found")

// Store persists budgets. BudgetByID is unscoped; the service
// performs the ownership check. Writes are additionally scoped by UserID.
type Store interface {
	ListBudgets(ctx context.Context, userID string, f Filter) ([]Budget, error)
	BudgetByID(ctx context.Context, id string) (*Budget, error)
	InsertBudget(ctx context.Context, b *Budget) error
	UpdateBudget(ctx context.Context, b *Budget) error
	DeleteBudget(ctx context.Context, userID, id string) error
}
