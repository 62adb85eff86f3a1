package goal

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("goal not found")

// Store persists goals. GoalByID is unscoped; every write is scoped by owner.
// UpdateGoal never touches saved_amount and reports the stored value back.
// AddSavedAmount applies the delta atomically and returns ErrAmountTooLarge,
// leaving the row unchanged, when the new total would reach money.MaxAmount.
type Store interface {
	ListGoals(ctx context.Context, userID string) ([]Goal, error)
	GoalByID(ctx context.Context, id string) (*Goal, error)
	InsertGoal(ctx context.Context, g *Goal) error
	UpdateGoal(ctx context.Context, g *Goal) error
	DeleteGoal(ctx context.Context, userID, id string) error
	AddSavedAmount(ctx context.Context, userID, id string, delta decimal.Decimal) (*Goal, error)
}
