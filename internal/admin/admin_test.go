package admin_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbuddy/backend/internal/account"
	"github.com/finbuddy/backend/internal/admin"
	"github.com/finbuddy/backend/internal/budget"
	"github.com/finbuddy/backend/internal/logging"
	"github.com/finbuddy/backend/internal/money"
	"github.com/finbuddy/backend/internal/storage/memory"
	"github.com/finbuddy/backend/internal/validation"
)

func newApp(key string, store *memory.Store) *fiber.App {
	users := account.NewService(store, validation.New())
	h := admin.NewHandler(users, logging.Discard())

	app := fiber.New()
	g := app.Group("/admin", admin.RequireAdminAPIKey(key))
	g.Get("/users", h.ListUsers)
	g.Delete("/users/:id", h.DeleteUser)
	return app
}

func request(t *testing.T, app *fiber.App, method, path, key string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set("X-Admin-Key", key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestAdminKeyRequired(t *testing.T) {
	app := newApp("top-secret", memory.New())

	status, _ := request(t, app, "GET", "/admin/users", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = request(t, app, "GET", "/admin/users", "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = request(t, app, "GET", "/admin/users", "top-secret")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestUnsetAdminKeyFailsClosed(t *testing.T) {
	app := newApp("", memory.New())

	status, _ := request(t, app, "GET", "/admin/users", "anything")
	assert.Equal(t, fiber.StatusInternalServerError, status)
}

func TestListAndDeleteUsers(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	u := &account.User{Username: "alice", Email: "alice@example.com", PasswordHash: "secret-hash", IsActive: true}
	require.NoError(t, store.CreateUser(ctx, u))

	month, err := budget.ParseMonth("2024-01")
	require.NoError(t, err)
	b := &budget.Budget{UserID: u.ID, Income: money.MustAmount("1"), Expenses: money.MustAmount("1"), Month: month}
	require.NoError(t, store.InsertBudget(ctx, b))

	app := newApp("k", store)

	status, body := request(t, app, "GET", "/admin/users", "k")
	require.Equal(t, fiber.StatusOK, status)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "alice", listed[0]["username"])
	assert.NotContains(t, listed[0], "password_hash")

	status, _ = request(t, app, "DELETE", "/admin/users/"+u.ID, "k")
	assert.Equal(t, fiber.StatusNoContent, status)

	_, err = store.BudgetByID(ctx, b.ID)
	assert.ErrorIs(t, err, budget.ErrNotFound)

	status, _ = request(t, app, "DELETE", "/admin/users/"+u.ID, "k")
	assert.Equal(t, fiber.StatusNotFound, status)
}
