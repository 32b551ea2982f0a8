package apperr

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKind_HTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:          400,
		KindAuthorization:       403,
		KindNotFound:            404,
		KindConflict:            409,
		KindState:               409,
		KindCreditLimitExceeded: 422,
		Kind("otro"):            500,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), string(kind))
	}
}

func TestAs_ThroughWrap(t *testing.T) {
	base := Conflict(CodeClosingExists, "ya existe")
	wrapped := errors.Wrap(base, "crear corte")

	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeClosingExists, e.Code)
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.True(t, HasCode(wrapped, CodeClosingExists))
	assert.False(t, IsKind(errors.New("x"), KindConflict))
}

func TestWithDetails_DoesNotMutate(t *testing.T) {
	base := State(CodeClosingCompleted, "cerrado")
	withDetails := base.WithDetails(map[string]uint{"id": 3})

	assert.Nil(t, base.Details)
	assert.NotNil(t, withDetails.Details)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return Conflict(CodeClosingExists, "ya existe").WithDetails(fiber.Map{"existing_id": 7})
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusUnauthorized, "sin token")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("db caída")
	})

	type body struct {
		Error struct {
			Kind    string         `json:"kind"`
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	call := func(path string) (int, body) {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		var b body
		require.NoError(t, json.Unmarshal(raw, &b))
		return resp.StatusCode, b
	}

	status, b := call("/conflict")
	assert.Equal(t, 409, status)
	assert.Equal(t, "conflict", b.Error.Kind)
	assert.Equal(t, float64(7), b.Error.Details["existing_id"])

	status, b = call("/fiber")
	assert.Equal(t, 401, status)
	assert.Equal(t, "authorization_error", b.Error.Kind)

	status, b = call("/boom")
	assert.Equal(t, 500, status)
	assert.NotContains(t, b.Error.Message, "db caída")
}
