package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course-qa-be/internal/dto"
	"course-qa-be/internal/pkg/apperr"
	"course-qa-be/internal/pkg/serverutils"
	"course-qa-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret"

type fakeUploadService struct {
	got *dto.WeeklyUploadRequest
	err error
}

func (f *fakeUploadService) HandleWeeklyZipUpload(_ context.Context, req *dto.WeeklyUploadRequest) (*dto.WeeklyUploadResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.WeeklyUploadResponse{
		WeekNo:          req.WeekNo,
		Status:          "on_track",
		CoveragePercent: 92.5,
		ManifestErrors:  []string{"scan.pdf: no extractable text"},
	}, nil
}

func token(t *testing.T, role string, userId string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func newUploadApp(svc *fakeUploadService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewWeeklyUploadController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func multipartZip(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile(field, "week5.zip")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestUploadWeeklyZip(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	svc := &fakeUploadService{}
	app := newUploadApp(svc)
	userId := uuid.New()

	body, contentType := multipartZip(t, "file", []byte("PK-fake"))
	req := httptest.NewRequest(http.MethodPost, "/api/courses/CS201/weeks/5/weekly-zip", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", token(t, serverutils.RoleInstructor, userId.String()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var res serverutils.BaseResponse[dto.WeeklyUploadResponse]
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.True(t, res.Success)
	assert.Equal(t, "on_track", res.Data.Status)

	var generic struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.JSONEq(t, `["scan.pdf: no extractable text"]`, string(generic.Data["manifest_errors"]))

	require.NotNil(t, svc.got)
	assert.Equal(t, "CS201", svc.got.CourseKey)
	assert.Equal(t, 5, svc.got.WeekNo)
	assert.Equal(t, "week5.zip", svc.got.ZipFilename)
	assert.Equal(t, []byte("PK-fake"), svc.got.ZipBytes)
	require.NotNil(t, svc.got.UploaderId)
	assert.Equal(t, userId, *svc.got.UploaderId)
}

func TestUploadWeeklyZip_Rejections(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cases := []struct {
		name   string
		path   string
		field  string
		auth   string
		svcErr error
		want   int
	}{
		{"no token", "/api/courses/CS201/weeks/5/weekly-zip", "file", "", nil, fiber.StatusUnauthorized},
		{"student role", "/api/courses/CS201/weeks/5/weekly-zip", "file", token(t, "student", ""), nil, fiber.StatusForbidden},
		{"week not a number", "/api/courses/CS201/weeks/five/weekly-zip", "file", token(t, serverutils.RoleFaculty, ""), nil, fiber.StatusBadRequest},
		{"wrong field", "/api/courses/CS201/weeks/5/weekly-zip", "upload", token(t, serverutils.RoleAdmin, ""), nil, fiber.StatusBadRequest},
		{"unknown course", "/api/courses/NOPE/weeks/5/weekly-zip", "file", token(t, serverutils.RoleAdmin, ""), apperr.ErrCourseNotFound, fiber.StatusNotFound},
		{"nothing extracted", "/api/courses/CS201/weeks/5/weekly-zip", "file", token(t, serverutils.RoleAdmin, ""), apperr.ErrNoTextExtracted, fiber.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newUploadApp(&fakeUploadService{err: tc.svcErr})
			body, contentType := multipartZip(t, tc.field, []byte("PK-fake"))
			req := httptest.NewRequest(http.MethodPost, tc.path, body)
			req.Header.Set("Content-Type", contentType)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

// fakeExecutionService implements only what the tests call.
type fakeExecutionService struct {
	service.IExecutionService
	includeResolved bool
}

func (f *fakeExecutionService) ListDeviations(_ context.Context, courseKey string, includeResolved bool) ([]dto.DeviationResponse, error) {
	f.includeResolved = includeResolved
	return []dto.DeviationResponse{{WeekNumber: 2, Type: "coverage_low", Details: json.RawMessage(`{}`)}}, nil
}

func TestListDeviations_IncludeResolvedQuery(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	svc := &fakeExecutionService{}
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewExecutionController(svc).RegisterRoutes(app.Group("/api"))

	req := httptest.NewRequest(http.MethodGet, "/api/courses/CS201/deviations?include_resolved=true", nil)
	req.Header.Set("Authorization", token(t, "viewer", ""))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, svc.includeResolved)

	req = httptest.NewRequest(http.MethodPost, "/api/courses/CS201/deviations/refresh", nil)
	req.Header.Set("Authorization", token(t, "viewer", ""))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
