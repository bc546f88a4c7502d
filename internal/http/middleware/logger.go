package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger emits one structured access log entry per request with
// request_id, method, path, status and latency (milliseconds).
// Entries for 5xx responses are logged at error level. trace_id is added when a span is active.
func Logger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		resolveError(c, c.Next())
		status := c.Response().StatusCode()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		level := zapcore.InfoLevel
		if status >= fiber.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}
		if ce := log.Check(level, "http_request"); ce != nil {
			fields := []zap.Field{
				zap.String("request_id", rid),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
			}
			if sc := trace.SpanContextFromContext(c.UserContext()); sc.IsValid() {
				fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
			}
			ce.Write(fields...)
		}

		return nil
	}
}

// resolveError runs the app error handler immediately so the final status is visible here.
// The error is consumed; callers return nil.
func resolveError(c *fiber.Ctx, err error) {
	if err == nil {
		return
	}
	if herr := c.App().ErrorHandler(c, err); herr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}
