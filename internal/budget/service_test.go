package budget_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbuddy/backend/internal/account"
	"github.com/finbuddy/backend/internal/budget"
	"github.com/finbuddy/backend/internal/money"
	"github.com/finbuddy/backend/internal/storage/memory"
	"github.com/finbuddy/backend/internal/validation"
)

type fixture struct {
	svc   *budget.Service
	store *memory.Store
	alice string
	bob   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	alice := &account.User{Username: "alice", Email: "alice@example.com", IsActive: true}
	require.NoError(t, store.CreateUser(ctx, alice))
	bob := &account.User{Username: "bob", Email: "bob@example.com", IsActive: true}
	require.NoError(t, store.CreateUser(ctx, bob))

	return fixture{
		svc:   budget.NewService(store, validation.New()),
		store: store,
		alice: alice.ID,
		bob:   bob.ID,
	}
}

func input(income, expenses, month string) budget.Input {
	return budget.Input{Income: money.Raw(income), Expenses: money.Raw(expenses), Month: month}
}

func TestCreateBudget(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.Create(context.Background(), f.alice, input("3000", "2500.5", "2024-03"))
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, f.alice, b.UserID)
	assert.Equal(t, "alice", b.Username)
	assert.Equal(t, "3000.00", b.Income.String())
	assert.Equal(t, "2500.50", b.Expenses.String())
	assert.Equal(t, "2024-03", b.Month.String())
	assert.Equal(t, budget.CategoryGeneral, b.Category)
}

func TestCreateBudgetNormalisesCategory(t *testing.T) {
	f := newFixture(t)
	in := input("10", "5", "2024-1")
	in.Category = " food "

	b, err := f.svc.Create(context.Background(), f.alice, in)
	require.NoError(t, err)
	assert.Equal(t, budget.CategoryFood, b.Category)
	assert.Equal(t, "2024-01", b.Month.String())
}

func TestCreateBudgetValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    budget.Input
		field string
		msg   string
	}{
		{name: "missing income", in: input("", "1", "2024-01"), field: "income", msg: "This field is required."},
		{name: "bad expenses", in: input("1", "lots", "2024-01"), field: "expenses", msg: "A valid number is required."},
		{name: "three places", in: input("1.005", "1", "2024-01"), field: "income", msg: "Ensure that there are no more than 2 decimal places."},
		{name: "too large", in: input("100000000", "1", "2024-01"), field: "income", msg: "Ensure that there are no more than 10 digits in total."},
		{name: "missing month", in: input("1", "1", ""), field: "month", msg: "This field is required."},
		{name: "bad month", in: input("1", "1", "2024-13"), field: "month", msg: "Enter a month in YYYY-MM format."},
		{
			name:  "unknown category",
			in:    budget.Input{Income: "1", Expenses: "1", Month: "2024-01", Category: "yachts"},
			field: "category",
			msg:   `"YACHTS" is not a valid choice.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Create(context.Background(), f.alice, tt.in)

			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs[tt.field], tt.msg)

			items, err := f.svc.List(context.Background(), f.alice, budget.Filter{})
			require.NoError(t, err)
			assert.Empty(t, items)
		})
	}
}

func TestListBudgetsScopedAndFiltered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.alice, input("1", "1", "2024-01"))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.alice, input("2", "2", "2024-02"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.bob, input("3", "3", "2024-02"))
	require.NoError(t, err)

	all, err := f.svc.List(ctx, f.alice, budget.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	feb, err := budget.ParseMonth("2024-02")
	require.NoError(t, err)
	filtered, err := f.svc.List(ctx, f.alice, budget.Filter{Month: &feb})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, second.ID, filtered[0].ID)
}

func TestForeignBudgetIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.alice, input("100", "50", "2024-05"))
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.bob, b.ID)
	assert.ErrorIs(t, err, budget.ErrNotFound)

	_, err = f.svc.Update(ctx, f.bob, b.ID, input("1", "1", "2024-05"))
	assert.ErrorIs(t, err, budget.ErrNotFound)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.bob, b.ID), budget.ErrNotFound)

	got, err := f.svc.Get(ctx, f.alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.Income.String())
}

func TestGetMissingOrMalformedID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), f.alice, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, budget.ErrNotFound)

	_, err = f.svc.Get(context.Background(), f.alice, "42")
	assert.ErrorIs(t, err, budget.ErrNotFound)
}

func TestUpdateAndDeleteBudget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.alice, input("100", "50", "2024-05"))
	require.NoError(t, err)

	notes := "raise"
	in := input("120", "60.25", "2024-06")
	in.Notes = &notes
	updated, err := f.svc.Update(ctx, f.alice, b.ID, in)
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ID)
	assert.Equal(t, "120.00", updated.Income.String())
	assert.Equal(t, "2024-06", updated.Month.String())
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "raise", *updated.Notes)

	require.NoError(t, f.svc.Delete(ctx, f.alice, b.ID))
	_, err = f.svc.Get(ctx, f.alice, b.ID)
	assert.ErrorIs(t, err, budget.ErrNotFound)
}
