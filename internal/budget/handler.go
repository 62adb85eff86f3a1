package budget

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/finbuddy/backend/internal/auth"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) ListBudgets(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var f Filter
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		m, err := ParseMonth(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid month format.")
		}
		f.Month = &m
	}

	items, err := h.Service.List(auth.UserContext(c), userID, f)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *Handler) CreateBudget(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var in Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	b, err := h.Service.Create(auth.UserContext(c), userID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *Handler) GetBudget(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	b, err := h.Service.Get(auth.UserContext(c), userID, c.Params("id"))
	if err != nil {
		return notFound(err)
	}
	return c.JSON(b)
}

func (h *Handler) UpdateBudget(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var in Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	b, err := h.Service.Update(auth.UserContext(c), userID, c.Params("id"), in)
	if err != nil {
		return notFound(err)
	}
	return c.JSON(b)
}

func (h *Handler) DeleteBudget(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.Service.Delete(auth.UserContext(c), userID, c.Params("id")); err != nil {
		return notFound(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Not found.")
	}
	return err
}
