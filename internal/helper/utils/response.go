package utils

import (
	"errors"

	"github.com/SundayYogurt/application_service/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

// ResponseError writes the failure envelope {success:false, message}.
func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"message": msg,
	})
}

// ResponseSuccess writes {success:true, message?} merged with the named fields.
func ResponseSuccess(ctx *fiber.Ctx, status int, msg string, fields fiber.Map) error {
	body := fiber.Map{"success": true}
	if msg != "" {
		body["message"] = msg
	}
	for k, v := range fields {
		body[k] = v
	}
	return ctx.Status(status).JSON(body)
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrDuplicate):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, apperr.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

// ResponseAppError writes err with its mapped status. Validation errors carry
// every field violation under "errors".
func ResponseAppError(ctx *fiber.Ctx, err error) error {
	body := fiber.Map{
		"success": false,
		"message": apperr.Message(err),
	}
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		body["errors"] = verr.Fields
	}
	return ctx.Status(StatusOf(err)).JSON(body)
}
