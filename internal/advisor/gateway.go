package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/finbuddy/backend/internal/budget"
	"github.com/finbuddy/backend/internal/goal"
	"github.com/finbuddy/backend/internal/validation"
)

type Kind string

const (
	KindFinancialAdvice   Kind = "financial_advice"
	KindBudgetSuggestions Kind = "budget_suggestions"
	KindGoalProgress      Kind = "goal_progress"
	KindSpendingSummary   Kind = "spending_summary"
	KindLearningContent   Kind = "learning_content"
)

const NoSpendingData = "No spending data available."

var (
	ErrQuestionRequired = validation.Message("Question is required")
	ErrBudgetRequired   = validation.Message("Income and expenses are required")
	ErrNoGoals          = validation.Message("No goal data available.")
	ErrInvalidMonth     = validation.Message("Invalid month format.")
	ErrTopicRequired    = validation.Message("Topic is required.")
)

var systemRoles = map[Kind]string{
	KindFinancialAdvice:   "You are a helpful financial advisor.",
	KindBudgetSuggestions: "You are a financial assistant helping with budget planning.",
	KindGoalProgress:      "You are a financial assistant helping with goal tracking.",
	KindSpendingSummary:   "You are a financial assistant summarizing spending.",
	KindLearningContent:   "You are a helpful financial tutor.",
}

var apologies = map[Kind]string{
	KindFinancialAdvice:   "Sorry, I couldn't retrieve advice at the moment. Please try again later.",
	KindBudgetSuggestions: "Sorry, I couldn't retrieve budget suggestions at the moment.",
	KindGoalProgress:      "Sorry, I couldn't retrieve goal progress at the moment.",
	KindSpendingSummary:   "Sorry, I couldn't retrieve spending summary at the moment.",
	KindLearningContent:   "Sorry, I couldn't retrieve learning content at the moment.",
}

// Result is the outcome of one generation: either Text, or a caller-facing
// Reason when the model could not be reached.
type Result struct {
	Kind   Kind
	Text   string
	Reason string
}

func (r Result) Failed() bool {
	return r.Reason != ""
}

type ChartPoint struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type SpendingSummary struct {
	Result
	Data []ChartPoint
}

type GoalLister interface {
	List(ctx context.Context, userID string) ([]goal.Goal, error)
}

type BudgetLister interface {
	List(ctx context.Context, userID string, f budget.Filter) ([]budget.Budget, error)
}

type Gateway struct {
	completer Completer
	goals     GoalLister
	budgets   BudgetLister
	log       logrus.FieldLogger
}

func NewGateway(completer Completer, goals GoalLister, budgets BudgetLister, log logrus.FieldLogger) *Gateway {
	return &Gateway{completer: completer, goals: goals, budgets: budgets, log: log}
}

func (g *Gateway) FinancialAdvice(ctx context.Context, question string) (Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{}, ErrQuestionRequired
	}
	return g.generate(ctx, KindFinancialAdvice, question), nil
}

func (g *Gateway) BudgetSuggestions(ctx context.Context, income, expenses string) (Result, error) {
	if strings.TrimSpace(income) == "" || strings.TrimSpace(expenses) == "" {
		return Result{}, ErrBudgetRequired
	}
	data := fmt.Sprintf("Income: %s, Expenses: %s", strings.TrimSpace(income), strings.TrimSpace(expenses))
	return g.generate(ctx, KindBudgetSuggestions, "Give budget suggestions based on this data: "+data), nil
}

func (g *Gateway) GoalProgress(ctx context.Context, userID string) (Result, error) {
	goals, err := g.goals.List(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if len(goals) == 0 {
		return Result{}, ErrNoGoals
	}

	lines := make([]string, 0, len(goals))
	for _, gl := range goals {
		lines = append(lines, fmt.Sprintf("%s: Target = %s, Saved = %s, Deadline = %s",
			gl.Name, gl.TargetAmount, gl.SavedAmount, gl.Deadline))
	}
	return g.generate(ctx, KindGoalProgress, "Provide progress update based on: "+strings.Join(lines, "\n")), nil
}

// SpendingSummary summarises the caller's budgets, optionally for one "YYYY-MM"
// month. An empty selection is a successful answer and never reaches the model.
func (g *Gateway) SpendingSummary(ctx context.Context, userID, month string) (SpendingSummary, error) {
	var f budget.Filter
	if month = strings.TrimSpace(month); month != "" {
		m, err := budget.ParseMonth(month)
		if err != nil {
			return SpendingSummary{}, ErrInvalidMonth
		}
		f.Month = &m
	}

	budgets, err := g.budgets.List(ctx, userID, f)
	if err != nil {
		return SpendingSummary{}, err
	}
	if len(budgets) == 0 {
		return SpendingSummary{
			Result: Result{Kind: KindSpendingSummary, Text: NoSpendingData},
			Data:   []ChartPoint{},
		}, nil
	}

	sort.SliceStable(budgets, func(i, j int) bool {
		return budgets[i].Month.Date().Before(budgets[j].Month.Date())
	})

	lines := make([]string, 0, len(budgets))
	for _, b := range budgets {
		lines = append(lines, fmt.Sprintf("%s: Income = %s, Expenses = %s", b.Month, b.Income, b.Expenses))
	}

	res := g.generate(ctx, KindSpendingSummary, "Summarize spending based on: "+strings.Join(lines, "\n"))
	if res.Failed() {
		return SpendingSummary{Result: res, Data: []ChartPoint{}}, nil
	}
	return SpendingSummary{Result: res, Data: chartData(budgets)}, nil
}

func (g *Gateway) LearningContent(ctx context.Context, topic string) (Result, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Result{}, ErrTopicRequired
	}
	return g.generate(ctx, KindLearningContent, "Provide learning content about: "+topic), nil
}

func (g *Gateway) generate(ctx context.Context, kind Kind, userContent string) Result {
	text, err := g.completer.Complete(ctx, Prompt{System: systemRoles[kind], User: userContent})
	if err != nil {
		g.log.WithError(err).WithField("kind", kind).Error("advisor completion failed")
		return Result{Kind: kind, Reason: apologies[kind]}
	}
	return Result{Kind: kind, Text: text}
}

// chartData is presentation-only, so float64 is acceptable here.
func chartData(budgets []budget.Budget) []ChartPoint {
	out := make([]ChartPoint, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, ChartPoint{
			Month:    b.Month.String(),
			Income:   b.Income.InexactFloat64(),
			Expenses: b.Expenses.InexactFloat64(),
		})
	}
	return out
}

// Apology returns the fixed failure text for kind.
func Apology(kind Kind) string {
	return apologies[kind]
}
