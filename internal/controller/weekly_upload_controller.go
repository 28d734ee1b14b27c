package controller

import (
	"io"

	"course-qa-be/internal/dto"
	"course-qa-be/internal/pkg/apperr"
	"course-qa-be/internal/pkg/serverutils"
	"course-qa-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWeeklyUploadController interface {
	RegisterRoutes(r fiber.Router)
	UploadWeeklyZip(ctx *fiber.Ctx) error
}

type weeklyUploadController struct {
	service service.IWeeklyUploadService
}

func NewWeeklyUploadController(service service.IWeeklyUploadService) IWeeklyUploadController {
	return &weeklyUploadController{service: service}
}

func (c *weeklyUploadController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/courses")
	h.Post(":course/weeks/:week/weekly-zip",
		serverutils.JwtMiddleware,
		serverutils.RequireRoles(serverutils.RoleInstructor, serverutils.RoleFaculty, serverutils.RoleAdmin),
		c.UploadWeeklyZip,
	)
}

func (c *weeklyUploadController) UploadWeeklyZip(ctx *fiber.Ctx) error {
	week, err := weekParam(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperr.ErrInvalidInput.With("multipart field 'file' is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.service.HandleWeeklyZipUpload(ctx.UserContext(), &dto.WeeklyUploadRequest{
		CourseKey:   ctx.Params("course"),
		WeekNo:      week,
		UploaderId:  currentUserId(ctx),
		ZipBytes:    data,
		ZipFilename: fileHeader.Filename,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success score weekly upload", res))
}
