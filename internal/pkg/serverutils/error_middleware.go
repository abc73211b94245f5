package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pillsee-be/pkg/pipeline"
)

// ErrorHandlerMiddleware converts errors returned by controllers into the
// standard error envelope. Pipeline input rejections become 400s, AppErrors
// keep their status, everything else is a 500 with a generic message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Code).JSON(ErrorResponse(appErr.Code, appErr.Message))
		}

		var invalidInput *pipeline.InvalidInputError
		if errors.As(err, &invalidInput) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, invalidInput.Reason))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
