package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"course-qa-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(handlerErr error) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/x", func(ctx *fiber.Ctx) error { return handlerErr })
	return app
}

func decode(t *testing.T, body io.Reader) BaseResponse[any] {
	t.Helper()
	var res BaseResponse[any]
	require.NoError(t, json.NewDecoder(body).Decode(&res))
	return res
}

func TestErrorHandler_MapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperr.ErrInvalidWeek, fiber.StatusBadRequest},
		{fmt.Errorf("resolve: %w", apperr.ErrCourseNotFound), fiber.StatusNotFound},
		{apperr.ErrNoTextExtracted, fiber.StatusUnprocessableEntity},
		{fiber.NewError(fiber.StatusConflict, "busy"), fiber.StatusConflict},
		{errors.New("db down"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		resp, err := newTestApp(tc.err).Test(httptest.NewRequest("GET", "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.code, resp.StatusCode)

		body := decode(t, resp.Body)
		assert.False(t, body.Success)
		assert.Equal(t, tc.code, body.Code)
	}
}

func TestErrorHandler_HidesInternalMessage(t *testing.T) {
	resp, err := newTestApp(errors.New("password=secret")).Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, "internal server error", decode(t, resp.Body).Message)
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Title string `validate:"required"`
	}
	err := ValidateRequest(req{})
	require.Error(t, err)

	code, msg := StatusFor(err)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, msg, "Title")
}

func signToken(t *testing.T, secret, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "5b1f1b59-6d5e-4bde-9d4f-2d9d1e6a3f10",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJwtMiddleware_RoleGuard(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	app := fiber.New()
	app.Post("/upload", JwtMiddleware, RequireRoles(RoleInstructor, RoleAdmin), func(ctx *fiber.Ctx) error {
		return ctx.SendString(ctx.Locals("user_id").(string))
	})

	req := httptest.NewRequest("POST", "/upload", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("POST", "/upload", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "student"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("POST", "/upload", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "instructor"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("POST", "/upload", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "admin"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
