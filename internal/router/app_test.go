package router

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbuddy/backend/internal/validation"
)

func TestErrorHandlerShapes(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := NewApp(logger, "*")
	app.Get("/fields", func(c *fiber.Ctx) error {
		return validation.Errors{"name": {"This field is required."}}
	})
	app.Get("/message", func(c *fiber.Ctx) error {
		return validation.Message("Topic is required.")
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found.")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: connection reset")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("unexpected")
	})

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/fields", 400, `{"name":["This field is required."]}`},
		{"/message", 400, `{"error":"Topic is required."}`},
		{"/fiber", 404, `{"error":"Not found."}`},
		{"/boom", 500, `{"error":"internal server error"}`},
		{"/panic", 500, `{"error":"internal server error"}`},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
		assert.JSONEq(t, tt.body, string(body), tt.path)
	}

	var sawInternal bool
	for _, e := range hook.AllEntries() {
		if e.Message == "unhandled request error" && e.Data["path"] == "/boom" {
			sawInternal = true
			assert.Equal(t, logrus.ErrorLevel, e.Level)
		}
	}
	assert.True(t, sawInternal, "internal errors are logged")
}

func TestRequestLoggerRecordsRenderedStatus(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := NewApp(logger, "*")
	app.Get("/missing", func(c *fiber.Ctx) error {
		c.Locals("user_id", "6f1c2a8e-0000-4000-8000-00000000abcd")
		return fiber.NewError(fiber.StatusNotFound, "Not found.")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "request", entry.Message)
	assert.Equal(t, fiber.StatusNotFound, entry.Data["status"])
	assert.Equal(t, "GET", entry.Data["method"])
	assert.Equal(t, "6f1c2a8e-0000-4000-8000-00000000abcd", entry.Data["user_id"])
}

func TestRequestLoggerKeepsPathsAcrossRequests(t *testing.T) {
	logger, hook := test.NewNullLogger()
	app := NewApp(logger, "*")
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	paths := []string{"/a", "/bbbbbbbb", "/cc", "/dddddddddddddddd"}
	for _, p := range paths {
		resp, err := app.Test(httptest.NewRequest("GET", p, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	entries := hook.AllEntries()
	require.Len(t, entries, len(paths))
	for i, e := range entries {
		assert.Equal(t, paths[i], e.Data["path"])
		assert.Equal(t, "GET", e.Data["method"])
	}
}
