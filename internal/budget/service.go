package budget

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/finbuddy/backend/internal/money"
	"github.com/finbuddy/backend/internal/validation"
)

type Service struct {
	store    Store
	validate *validator.Validate
}

func NewService(store Store, validate *validator.Validate) *Service {
	return &Service{store: store, validate: validate}
}

func (s *Service) List(ctx context.Context, userID string, f Filter) ([]Budget, error) {
	return s.store.ListBudgets(ctx, userID, f)
}

// Create stores a budget owned by userID, whatever the payload claims.
func (s *Service) Create(ctx context.Context, userID string, in Input) (*Budget, error) {
	b := &Budget{UserID: userID}
	if err := s.apply(b, in); err != nil {
		return nil, err
	}
	if err := s.store.InsertBudget(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Budget, error) {
	return s.authorize(ctx, userID, id)
}

func (s *Service) Update(ctx context.Context, userID, id string, in Input) (*Budget, error) {
	b, err := s.authorize(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(b, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.authorize(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteBudget(ctx, userID, id)
}

// authorize loads a budget and hides it unless userID owns it. A foreign budget
// is reported exactly like a missing one.
func (s *Service) authorize(ctx context.Context, userID, id string) (*Budget, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	b, err := s.store.BudgetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *Service) apply(b *Budget, in Input) error {
	in.Category = strings.ToUpper(strings.TrimSpace(in.Category))
	errs := validation.Struct(s.validate, in)

	income, err := requiredAmount(in.Income)
	if err != nil {
		errs.Add("income", err.Error())
	}
	expenses, err := requiredAmount(in.Expenses)
	if err != nil {
		errs.Add("expenses", err.Error())
	}

	month, err := ParseMonth(strings.TrimSpace(in.Month))
	if strings.TrimSpace(in.Month) == "" {
		errs.Add("month", "This field is required.")
	} else if err != nil {
		errs.Add("month", "Enter a month in YYYY-MM format.")
	}

	if err := errs.Err(); err != nil {
		return err
	}

	b.Income = income
	b.Expenses = expenses
	b.Month = month
	b.Category = CategoryGeneral
	if in.Category != "" {
		b.Category = Category(in.Category)
	}
	b.Notes = in.Notes
	return nil
}

func requiredAmount(raw money.Raw) (money.Amount, error) {
	if !raw.Present() {
		return money.Amount{}, validation.Message("This field is required.")
	}
	d, err := raw.Decimal()
	switch {
	case errors.Is(err, money.ErrTooManyPlaces):
		return money.Amount{}, validation.Message("Ensure that there are no more than 2 decimal places.")
	case errors.Is(err, money.ErrTooLarge):
		return money.Amount{}, validation.Message("Ensure that there are no more than 10 digits in total.")
	case err != nil:
		return money.Amount{}, validation.Message("A valid number is required.")
	}
	return money.NewAmount(d), nil
}
