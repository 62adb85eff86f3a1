package reports

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/finbuddy/backend/internal/auth"
	"github.com/finbuddy/backend/internal/budget"
)

type BudgetLister interface {
	List(ctx context.Context, userID string, f budget.Filter) ([]budget.Budget, error)
}

type Handler struct {
	Budgets BudgetLister
	Log     logrus.FieldLogger
	now     func() time.Time
}

func NewHandler(budgets BudgetLister, log logrus.FieldLogger) *Handler {
	return &Handler{Budgets: budgets, Log: log, now: time.Now}
}

// SpendingReport streams a PDF of the caller's budgets, optionally limited to
// one month given as ?month=YYYY-MM.
func (h *Handler) SpendingReport(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var f budget.Filter
	period := "All months"
	slug := "all"
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		m, err := budget.ParseMonth(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid month format.")
		}
		f.Month = &m
		period = m.String()
		slug = m.String()
	}

	items, err := h.Budgets.List(auth.UserContext(c), userID, f)
	if err != nil {
		return err
	}

	pdf, err := RenderPDF(Build(period, items), userID, h.now())
	if err != nil {
		h.Log.WithError(err).WithField("user_id", userID).Error("render spending report")
		return fiber.NewError(fiber.StatusInternalServerError, "pdf build failed")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="finbuddy-report-`+slug+`.pdf"`)
	return c.Send(pdf)
}
