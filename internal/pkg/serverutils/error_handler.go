package serverutils

import (
	"errors"
	"log"

	"course-qa-be/internal/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := StatusFor(err)
		if code >= fiber.StatusInternalServerError {
			log.Printf("[ERROR] %s %s: %v", ctx.Method(), ctx.Path(), err)
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// StatusFor maps an error returned by a handler to an HTTP status and a
// client-safe message.
func StatusFor(err error) (int, string) {
	switch apperr.KindOf(err) {
	case apperr.KindInvalid:
		return fiber.StatusBadRequest, err.Error()
	case apperr.KindNotFound:
		return fiber.StatusNotFound, err.Error()
	case apperr.KindUnprocessable:
		return fiber.StatusUnprocessableEntity, err.Error()
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return fiber.StatusBadRequest, validationMessage(validationErrs)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, "internal server error"
}
