package utils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nnypa/endorsement_service/internal/apperr"
)

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// ResponseFromError maps a service error onto its HTTP status.
func ResponseFromError(ctx *fiber.Ctx, err error) error {
	return ResponseError(ctx, apperr.HTTPStatus(err), err.Error())
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}
