package admin

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/finbuddy/backend/internal/account"
)

type Users interface {
	List(ctx context.Context) ([]account.User, error)
	Delete(ctx context.Context, userID string) error
}

type Handler struct {
	Users Users
	Log   logrus.FieldLogger
}

func NewHandler(users Users, log logrus.FieldLogger) *Handler {
	return &Handler{Users: users, Log: log}
}

type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, userView{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt})
	}
	return c.JSON(out)
}

// DeleteUser removes the account together with its budgets and goals.
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Users.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Not found.")
		}
		return err
	}
	h.Log.WithField("user_id", id).Info("admin deleted user")
	return c.SendStatus(fiber.StatusNoContent)
}
