package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxRequestIDKey = "request_id"
)

// Middleware asigna un request id (o respeta el que venga en la cabecera),
// lo pone en el contexto de usuario de fasthttp y registra cada petición.
func Middleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(CtxRequestIDKey, requestID)
		c.SetUserContext(WithRequestID(c.UserContext(), requestID))
		c.Set(HeaderRequestID, requestID)

		err := c.Next()
		if err != nil {
			// que el error handler escriba la respuesta antes de leer el status
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}

		switch {
		case status >= 500:
			log.Error("HTTP", fields...)
		case status >= 400:
			log.Warn("HTTP", fields...)
		default:
			log.Info("HTTP", fields...)
		}
		return nil
	}
}
