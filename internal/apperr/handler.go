package apperr

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type errorBody struct {
	Error *Error `json:"error"`
}

// ErrorHandler traduce errores a JSON. Los de negocio conservan su tipo,
// los de fiber su status y todo lo demás sale como 500 genérico y se registra.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := As(err); ok {
			return c.Status(e.Kind.HTTPStatus()).JSON(errorBody{Error: e})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			kind := KindValidation
			switch fe.Code {
			case fiber.StatusUnauthorized, fiber.StatusForbidden:
				kind = KindAuthorization
			case fiber.StatusNotFound:
				kind = KindNotFound
			}
			if fe.Code >= fiber.StatusInternalServerError {
				log.Error("error interno", zap.Error(err), zap.String("path", c.Path()))
			}
			return c.Status(fe.Code).JSON(errorBody{Error: New(kind, CodeInvalidInput, fe.Message)})
		}

		log.Error("error interno", zap.Error(err), zap.String("path", c.Path()))
		return c.Status(fiber.StatusInternalServerError).JSON(errorBody{
			Error: &Error{Kind: "internal", Code: "INTERNAL", Message: "Error interno del servidor"},
		})
	}
}
