package router

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"

	"github.com/finbuddy/backend/internal/auth"
	"github.com/finbuddy/backend/internal/validation"
)

// NewApp builds the Fiber app with the shared error handler and the global
// middleware stack. Routes are added by Router.RegisterRoutes.
func NewApp(log logrus.FieldLogger, corsOrigin string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "finbuddy",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(CorsMiddleware(corsOrigin))
	app.Use(RequestLogger(log))
	return app
}

// ErrorHandler renders every error as JSON. Field validation failures keep
// their per-field shape; anything unexpected becomes a bare 500.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fields validation.Errors
		if errors.As(err, &fields) {
			return c.Status(fiber.StatusBadRequest).JSON(fields)
		}

		var msg validation.Message
		if errors.As(err, &msg) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": string(msg)})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		log.WithError(err).WithFields(logrus.Fields{
			"method": utils.CopyString(c.Method()),
			"path":   utils.CopyString(c.Path()),
		}).Error("unhandled request error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}

// RequestLogger logs one line per request. Errors are rendered here so the
// logged status is the one the client sees.
func RequestLogger(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		// Method and Path alias the request buffer, which fasthttp reuses.
		fields := logrus.Fields{
			"method":  utils.CopyString(c.Method()),
			"path":    utils.CopyString(c.Path()),
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
		}
		if uid, err := auth.UserID(c); err == nil {
			fields["user_id"] = uid
		}
		log.WithFields(fields).Info("request")
		return nil
	}
}
