package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/finbuddy/backend/internal/account"
	"github.com/finbuddy/backend/internal/admin"
	"github.com/finbuddy/backend/internal/advisor"
	"github.com/finbuddy/backend/internal/budget"
	"github.com/finbuddy/backend/internal/goal"
	"github.com/finbuddy/backend/internal/reports"
)

type Router struct {
	AccountHandler *account.Handler
	BudgetHandler  *budget.Handler
	GoalHandler    *goal.Handler
	AdvisorHandler *advisor.Handler
	ReportsHandler *reports.Handler
	AdminHandler   *admin.Handler

	AuthMW        fiber.Handler
	AdminMW       fiber.Handler
	AuthLimitMW   fiber.Handler
	AdviceLimitMW fiber.Handler
}

// RegisterRoutes mounts every endpoint. Routing is not strict, so each path
// also answers with a trailing slash.
func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	authLimit := orNext(r.AuthLimitMW)
	adviceLimit := orNext(r.AdviceLimitMW)

	if r.AccountHandler != nil {
		app.Post("/register", authLimit, r.AccountHandler.Register)
		app.Post("/token", authLimit, r.AccountHandler.Token)
		app.Post("/token/refresh", authLimit, r.AccountHandler.Refresh)
	}

	if r.BudgetHandler != nil {
		app.Get("/budgets", r.AuthMW, r.BudgetHandler.ListBudgets)
		app.Post("/budgets", r.AuthMW, r.BudgetHandler.CreateBudget)
		app.Get("/budgets/:id", r.AuthMW, r.BudgetHandler.GetBudget)
		app.Put("/budgets/:id", r.AuthMW, r.BudgetHandler.UpdateBudget)
		app.Delete("/budgets/:id", r.AuthMW, r.BudgetHandler.DeleteBudget)
	}

	if r.GoalHandler != nil {
		app.Get("/goals", r.AuthMW, r.GoalHandler.ListGoals)
		app.Post("/goals", r.AuthMW, r.GoalHandler.CreateGoal)
		app.Get("/goals/:id", r.AuthMW, r.GoalHandler.GetGoal)
		app.Put("/goals/:id", r.AuthMW, r.GoalHandler.UpdateGoal)
		app.Delete("/goals/:id", r.AuthMW, r.GoalHandler.DeleteGoal)
		app.Post("/goals/:id/add_saved_amount", r.AuthMW, r.GoalHandler.AddSavedAmount)
	}

	if r.AdvisorHandler != nil {
		app.Post("/advice", r.AuthMW, adviceLimit, r.AdvisorHandler.Advice)
		app.Post("/budget/suggestions", r.AuthMW, adviceLimit, r.AdvisorHandler.BudgetSuggestions)
		app.Get("/goal/progress", r.AuthMW, adviceLimit, r.AdvisorHandler.GoalProgress)
		app.Get("/spending/summary", r.AuthMW, adviceLimit, r.AdvisorHandler.SpendingSummary)
		app.Post("/learning/content", r.AuthMW, adviceLimit, r.AdvisorHandler.LearningContent)
	}

	if r.ReportsHandler != nil {
		app.Get("/spending/report", r.AuthMW, r.ReportsHandler.SpendingReport)
	}

	if r.AdminHandler != nil && r.AdminMW != nil {
		app.Get("/admin/users", r.AdminMW, r.AdminHandler.ListUsers)
		app.Delete("/admin/users/:id", r.AdminMW, r.AdminHandler.DeleteUser)
	}
}

func orNext(h fiber.Handler) fiber.Handler {
	if h != nil {
		return h
	}
	return func(c *fiber.Ctx) error { return c.Next() }
}
