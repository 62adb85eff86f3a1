package advisor

import (
	"github.com/gofiber/fiber/v2"

	"github.com/finbuddy/backend/internal/auth"
	"github.com/finbuddy/backend/internal/money"
)

type Handler struct {
	Gateway *Gateway
}

func NewHandler(gateway *Gateway) *Handler {
	return &Handler{Gateway: gateway}
}

type adviceRequest struct {
	Question string `json:"question"`
}

type suggestionsRequest struct {
	Income   money.Raw `json:"income"`
	Expenses money.Raw `json:"expenses"`
}

type learningRequest struct {
	Topic string `json:"topic"`
}

func (h *Handler) Advice(c *fiber.Ctx) error {
	var req adviceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	res, err := h.Gateway.FinancialAdvice(auth.UserContext(c), req.Question)
	if err != nil {
		return err
	}
	return respond(c, res, "advice")
}

func (h *Handler) BudgetSuggestions(c *fiber.Ctx) error {
	var req suggestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	res, err := h.Gateway.BudgetSuggestions(auth.UserContext(c), string(req.Income), string(req.Expenses))
	if err != nil {
		return err
	}
	return respond(c, res, "suggestions")
}

func (h *Handler) GoalProgress(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	res, err := h.Gateway.GoalProgress(auth.UserContext(c), userID)
	if err != nil {
		return err
	}
	return respond(c, res, "progress")
}

func (h *Handler) SpendingSummary(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	res, err := h.Gateway.SpendingSummary(auth.UserContext(c), userID, c.Query("month"))
	if err != nil {
		return err
	}
	if res.Failed() {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": res.Reason,
			"data":  res.Data,
		})
	}
	return c.JSON(fiber.Map{"summary": res.Text, "data": res.Data})
}

func (h *Handler) LearningContent(c *fiber.Ctx) error {
	var req learningRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	res, err := h.Gateway.LearningContent(auth.UserContext(c), req.Topic)
	if err != nil {
		return err
	}
	return respond(c, res, "content")
}

func respond(c *fiber.Ctx, res Result, key string) error {
	if res.Failed() {
		return fiber.NewError(fiber.StatusInternalServerError, res.Reason)
	}
	return c.JSON(fiber.Map{key: res.Text})
}
