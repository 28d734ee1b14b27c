package controller

import (
	"course-qa-be/internal/dto"
	"course-qa-be/internal/pkg/logger"
	"course-qa-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type IOpsController interface {
	RegisterRoutes(r fiber.Router)
	GetLogs(ctx *fiber.Ctx) error
}

type opsController struct {
	logger logger.ILogger
}

func NewOpsController(logger logger.ILogger) IOpsController {
	return &opsController{logger: logger}
}

func (c *opsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ops")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.RequireRoles(serverutils.RoleAdmin))
	h.Get("logs", c.GetLogs)
}

func (c *opsController) GetLogs(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset := ctx.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := c.logger.GetLogs(logger.LogFilter{
		Level:  ctx.Query("level"),
		Module: ctx.Query("module"),
	}, limit, offset)
	if err != nil {
		return err
	}

	res := make([]dto.LogListResponse, len(entries))
	for i, e := range entries {
		res[i] = dto.LogListResponse{
			Id:        e.Id,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
			Timestamp: e.Timestamp,
			Details:   e.Details,
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}
