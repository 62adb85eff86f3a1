package goal

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/finbuddy/backend/internal/auth"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) ListGoals(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Service.List(auth.UserContext(c), userID)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *Handler) CreateGoal(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var in Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	g, err := h.Service.Create(auth.UserContext(c), userID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(g)
}

func (h *Handler) GetGoal(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	g, err := h.Service.Get(auth.UserContext(c), userID, c.Params("id"))
	if err != nil {
		return notFound(err)
	}
	return c.JSON(g)
}

func (h *Handler) UpdateGoal(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var in Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	g, err := h.Service.Update(auth.UserContext(c), userID, c.Params("id"), in)
	if err != nil {
		return notFound(err)
	}
	return c.JSON(g)
}

func (h *Handler) DeleteGoal(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.Service.Delete(auth.UserContext(c), userID, c.Params("id")); err != nil {
		return notFound(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) AddSavedAmount(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req AddSavedAmountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid amount format.")
	}

	p, err := h.Service.AddSavedAmount(auth.UserContext(c), userID, c.Params("id"), req.Amount)
	if err != nil {
		return notFound(err)
	}
	return c.JSON(p)
}

func notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Not found.")
	}
	return err
}
