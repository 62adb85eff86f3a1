package goal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbuddy/backend/internal/money"
	"github.com/finbuddy/backend/internal/validation"
)

var (
	ErrAmountRequired = validation.Message("Amount is required.")
	ErrAmountFormat   = validation.Message("Invalid amount format.")
	ErrAmountPositive = validation.Message("Amount must be a positive number.")
	ErrAmountTooLarge = validation.Message("Saved amount would exceed the maximum storable value.")
)

type Service struct {
	store    Store
	validate *validator.Validate
}

func NewService(store Store, validate *validator.Validate) *Service {
	return &Service{store: store, validate: validate}
}

func (s *Service) List(ctx context.Context, userID string) ([]Goal, error) {
	return s.store.ListGoals(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (*Goal, error) {
	g := &Goal{UserID: userID, Status: StatusOngoing}
	if err := s.apply(g, in); err != nil {
		return nil, err
	}
	if err := s.store.InsertGoal(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Goal, error) {
	return s.authorize(ctx, userID, id)
}

func (s *Service) Update(ctx context.Context, userID, id string, in Input) (*Goal, error) {
	g, err := s.authorize(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(g, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.authorize(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteGoal(ctx, userID, id)
}

// AddSavedAmount adds a strictly positive amount to the goal's savings. Status
// is left alone even when the target is reached.
func (s *Service) AddSavedAmount(ctx context.Context, userID, id string, raw money.Raw) (*Progress, error) {
	g, err := s.authorize(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if !raw.Present() {
		return nil, ErrAmountRequired
	}
	amount, err := raw.Decimal()
	if err != nil {
		return nil, ErrAmountFormat
	}
	if !amount.IsPositive() {
		return nil, ErrAmountPositive
	}
	if g.SavedAmount.Add(amount).GreaterThanOrEqual(money.MaxAmount) {
		return nil, ErrAmountTooLarge
	}

	// The store rechecks the bound against the row it updates.

	updated, err := s.store.AddSavedAmount(ctx, userID, id, amount)
	if err != nil {
		return nil, err
	}

	p := &Progress{SavedAmount: updated.SavedAmount.String()}
	if updated.SavedAmount.GreaterThanOrEqual(updated.TargetAmount.Decimal) {
		p.Reached = true
		p.Message = fmt.Sprintf("🎉 Congrats! You have reached your goal of %s.", updated.TargetAmount)
	} else {
		p.Message = fmt.Sprintf("Added %s. Current saved: %s.", money.Format(amount), updated.SavedAmount)
	}
	return p, nil
}

func (s *Service) authorize(ctx context.Context, userID, id string) (*Goal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	g, err := s.store.GoalByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, ErrNotFound
	}
	return g, nil
}

func (s *Service) apply(g *Goal, in Input) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	errs := validation.Struct(s.validate, in)

	var target decimal.Decimal
	if !in.TargetAmount.Present() {
		errs.Add("target_amount", "This field is required.")
	} else if d, err := in.TargetAmount.Decimal(); err != nil {
		switch {
		case errors.Is(err, money.ErrTooManyPlaces):
			errs.Add("target_amount", "Ensure that there are no more than 2 decimal places.")
		case errors.Is(err, money.ErrTooLarge):
			errs.Add("target_amount", "Ensure that there are no more than 10 digits in total.")
		default:
			errs.Add("target_amount", "A valid number is required.")
		}
	} else {
		target = d
	}

	deadline := strings.TrimSpace(in.Deadline)
	var due Date
	if deadline == "" {
		errs.Add("deadline", "This field is required.")
	} else if d, err := ParseDate(deadline); err != nil {
		errs.Add("deadline", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	} else {
		due = d
	}

	if err := errs.Err(); err != nil {
		return err
	}

	g.Name = in.Name
	g.TargetAmount = money.NewAmount(target)
	g.Deadline = due
	if in.Status != "" {
		g.Status = Status(in.Status)
	}
	g.Notes = in.Notes
	return nil
}
