package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger logs each HTTP request through the global zerolog logger.
// Fields:
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path
// - status
// - latency (in milliseconds, as float)
func Logger() fiber.Handler {
	return loggerWith(func() *zerolog.Logger { return &log.Logger })
}

// LoggerWithWriter is Logger writing JSON lines to w instead.
func LoggerWithWriter(w io.Writer) fiber.Handler {
	l := zerolog.New(w).With().Timestamp().Logger()
	return loggerWith(func() *zerolog.Logger { return &l })
}

func loggerWith(logger func() *zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()

		ev := logger().Info()
		if status >= fiber.StatusInternalServerError {
			ev = logger().Error()
		}
		ev.Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Msg("request")

		return err
	}
}
