package controller

import (
	"course-qa-be/internal/dto"
	"course-qa-be/internal/pkg/serverutils"
	"course-qa-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWeeklyPlanController interface {
	RegisterRoutes(r fiber.Router)
	UpsertWeeklyPlan(ctx *fiber.Ctx) error
	SetCourseGuide(ctx *fiber.Ctx) error
	GenerateFromGuide(ctx *fiber.Ctx) error
}

type weeklyPlanController struct {
	service service.IWeeklyPlanService
}

func NewWeeklyPlanController(service service.IWeeklyPlanService) IWeeklyPlanController {
	return &weeklyPlanController{service: service}
}

func (c *weeklyPlanController) RegisterRoutes(r fiber.Router) {
	staff := serverutils.RequireRoles(serverutils.RoleInstructor, serverutils.RoleFaculty, serverutils.RoleAdmin)

	h := r.Group("/courses")
	h.Put(":course/weeks/:week/plan", serverutils.JwtMiddleware, staff, c.UpsertWeeklyPlan)
	h.Put(":course/guide", serverutils.JwtMiddleware, staff, c.SetCourseGuide)
	h.Post(":course/weekly-plans/generate", serverutils.JwtMiddleware, staff, c.GenerateFromGuide)
}

func (c *weeklyPlanController) UpsertWeeklyPlan(ctx *fiber.Ctx) error {
	week, err := weekParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpsertWeeklyPlanRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpsertWeeklyPlan(ctx.UserContext(), ctx.Params("course"), week, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success save weekly plan", res))
}

func (c *weeklyPlanController) SetCourseGuide(ctx *fiber.Ctx) error {
	var req dto.SetCourseGuideRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetCourseGuide(ctx.UserContext(), ctx.Params("course"), req.GuideText)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success save course guide", res))
}

func (c *weeklyPlanController) GenerateFromGuide(ctx *fiber.Ctx) error {
	var req dto.GenerateWeeklyPlansRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GenerateFromGuide(ctx.UserContext(), ctx.Params("course"), req.Weeks)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate weekly plans", res))
}
