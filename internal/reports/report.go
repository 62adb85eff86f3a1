// Package reports renders a caller's budgets as a downloadable PDF statement.
package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finbuddy/backend/internal/budget"
)

type Row struct {
	Month    string
	Category string
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

type CategoryTotal struct {
	Category string
	Expenses decimal.Decimal
	Count    int
}

type Report struct {
	Period        string
	Rows          []Row
	Categories    []CategoryTotal
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Net           decimal.Decimal
}

// Build orders budgets by month and totals them. Categories are ranked by
// expenses, largest first.
func Build(period string, budgets []budget.Budget) Report {
	sorted := make([]budget.Budget, len(budgets))
	copy(sorted, budgets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Month.Date().Before(sorted[j].Month.Date())
	})

	r := Report{
		Period:        period,
		Rows:          make([]Row, 0, len(sorted)),
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	byCategory := map[string]*CategoryTotal{}
	for _, b := range sorted {
		income := b.Income.Decimal
		expenses := b.Expenses.Decimal
		r.Rows = append(r.Rows, Row{
			Month:    b.Month.String(),
			Category: string(b.Category),
			Income:   income,
			Expenses: expenses,
			Net:      income.Sub(expenses),
		})
		r.TotalIncome = r.TotalIncome.Add(income)
		r.TotalExpenses = r.TotalExpenses.Add(expenses)

		ct, ok := byCategory[string(b.Category)]
		if !ok {
			ct = &CategoryTotal{Category: string(b.Category), Expenses: decimal.Zero}
			byCategory[string(b.Category)] = ct
		}
		ct.Expenses = ct.Expenses.Add(expenses)
		ct.Count++
	}
	r.Net = r.TotalIncome.Sub(r.TotalExpenses)

	for _, ct := range byCategory {
		r.Categories = append(r.Categories, *ct)
	}
	sort.Slice(r.Categories, func(i, j int) bool {
		if !r.Categories[i].Expenses.Equal(r.Categories[j].Expenses) {
			return r.Categories[i].Expenses.GreaterThan(r.Categories[j].Expenses)
		}
		return r.Categories[i].Category < r.Categories[j].Category
	})
	return r
}
