package account

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/finbuddy/backend/internal/auth"
	"github.com/finbuddy/backend/internal/validation"
)

type Handler struct {
	Service *Service
	Issuer  *auth.Issuer
}

func NewHandler(service *Service, issuer *auth.Issuer) *Handler {
	return &Handler{Service: service, Issuer: issuer}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if _, err := h.Service.Register(auth.UserContext(c), req); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{Message: "User created successfully"})
}

// Token exchanges username and password for an access/refresh pair.
func (h *Handler) Token(c *fiber.Ctx) error {
	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	errs := validation.Errors{}
	if strings.TrimSpace(req.Username) == "" {
		errs.Add("username", "This field is required.")
	}
	if req.Password == "" {
		errs.Add("password", "This field is required.")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	u, err := h.Service.Authenticate(auth.UserContext(c), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return fiber.NewError(fiber.StatusUnauthorized, "No active account found with the given credentials")
	}
	if err != nil {
		return err
	}

	pair, err := h.Issuer.IssuePair(u.ID)
	if err != nil {
		return err
	}
	return c.JSON(pair)
}

func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Refresh) == "" {
		return validation.Errors{"refresh": {"This field is required."}}
	}

	access, err := h.Issuer.Refresh(strings.TrimSpace(req.Refresh))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Token is invalid or expired")
	}
	return c.JSON(RefreshResponse{Access: access})
}
