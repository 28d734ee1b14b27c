package controller

import (
	"course-qa-be/internal/pkg/apperr"
	"course-qa-be/internal/pkg/serverutils"
	"course-qa-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IExecutionController interface {
	RegisterRoutes(r fiber.Router)
	ListWeeks(ctx *fiber.Ctx) error
	ListDeviations(ctx *fiber.Ctx) error
	RefreshDeviations(ctx *fiber.Ctx) error
	ResolveDeviation(ctx *fiber.Ctx) error
	ListAudits(ctx *fiber.Ctx) error
}

type executionController struct {
	service service.IExecutionService
}

func NewExecutionController(service service.IExecutionService) IExecutionController {
	return &executionController{service: service}
}

func (c *executionController) RegisterRoutes(r fiber.Router) {
	staff := serverutils.RequireRoles(serverutils.RoleInstructor, serverutils.RoleFaculty, serverutils.RoleAdmin)

	// middleware is attached per route: Use on a shared "/courses" prefix
	// would leak into the other controllers' routes
	h := r.Group("/courses")
	h.Get(":course/execution", serverutils.JwtMiddleware, c.ListWeeks)
	h.Get(":course/deviations", serverutils.JwtMiddleware, c.ListDeviations)
	h.Post(":course/deviations/refresh", serverutils.JwtMiddleware, staff, c.RefreshDeviations)
	h.Get(":course/weeks/:week/audits", serverutils.JwtMiddleware, c.ListAudits)

	d := r.Group("/deviations")
	d.Patch(":id/resolve", serverutils.JwtMiddleware, staff, c.ResolveDeviation)
}

func (c *executionController) ListWeeks(ctx *fiber.Ctx) error {
	res, err := c.service.ListWeeks(ctx.UserContext(), ctx.Params("course"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get course execution", res))
}

func (c *executionController) ListDeviations(ctx *fiber.Ctx) error {
	includeResolved := ctx.QueryBool("include_resolved", false)
	res, err := c.service.ListDeviations(ctx.UserContext(), ctx.Params("course"), includeResolved)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get deviations", res))
}

func (c *executionController) RefreshDeviations(ctx *fiber.Ctx) error {
	res, err := c.service.RefreshDeviations(ctx.UserContext(), ctx.Params("course"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success refresh deviations", res))
}

func (c *executionController) ResolveDeviation(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.ErrDeviationNotFound
	}

	res, err := c.service.ResolveDeviation(ctx.UserContext(), id, currentUserId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success resolve deviation", res))
}

func (c *executionController) ListAudits(ctx *fiber.Ctx) error {
	week, err := weekParam(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.ListAudits(ctx.UserContext(), ctx.Params("course"), week)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get execution audits", res))
}
