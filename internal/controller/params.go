package controller

import (
	"strconv"

	"course-qa-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func weekParam(ctx *fiber.Ctx) (int, error) {
	week, err := strconv.Atoi(ctx.Params("week"))
	if err != nil {
		return 0, apperr.ErrInvalidWeek
	}
	return week, nil
}

// currentUserId is nil when the token carries no parsable user id.
func currentUserId(ctx *fiber.Ctx) *uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return nil
	}
	return &userId
}
