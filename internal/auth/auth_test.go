package auth

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/luisrdz5/sistemahacienda-sub001/internal/apperr"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/database/dbtest"
	"github.com/luisrdz5/sistemahacienda-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func uintPtr(v uint) *uint { return &v }

func TestGenerateAndParseToken(t *testing.T) {
	user := &models.User{ID: 4, Email: "caja@hacienda.mx", Role: models.RoleBranchAdmin, BranchID: uintPtr(2)}

	tok, err := GenerateToken(secret, user, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, uint(4), claims.UserID)
	assert.Equal(t, models.RoleBranchAdmin, claims.Role)
	require.NotNil(t, claims.BranchID)
	assert.Equal(t, uint(2), *claims.BranchID)

	_, err = ParseToken("otro-secreto-otro-secreto-otro-se", tok)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	claims := &JWTCustomClaims{
		UserID: 1,
		Role:   models.RoleSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ParseToken(secret, tok)
	assert.Error(t, err)
}

func TestActor_ScopeBranch(t *testing.T) {
	admin := Actor{UserID: 1, Role: models.RoleSuperAdmin}
	scoped, err := admin.ScopeBranch(nil)
	require.NoError(t, err)
	assert.Nil(t, scoped)

	branchAdmin := Actor{UserID: 2, Role: models.RoleBranchAdmin, BranchID: uintPtr(3)}
	scoped, err = branchAdmin.ScopeBranch(nil)
	require.NoError(t, err)
	assert.Equal(t, uint(3), *scoped)

	_, err = branchAdmin.ScopeBranch(uintPtr(5))
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	_, err = admin.ResolveBranch(nil)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	assert.NoError(t, branchAdmin.CheckBranch(3))
	assert.Error(t, branchAdmin.CheckBranch(4))
	assert.NoError(t, admin.CheckBranch(4))
}

func TestJWTMiddleware(t *testing.T) {
	db := dbtest.New(t)
	branch := dbtest.Branch(t, db, "Centro", models.BranchTypePhysical, models.BranchPurposeSales)
	user := models.User{Name: "Rosa", Email: "rosa@hacienda.mx", Role: models.RoleBranchAdmin, BranchID: &branch.ID}
	require.NoError(t, db.Create(&user).Error)

	app := fiber.New()
	api := app.Group("/api", JWTMiddleware(secret))
	api.Get("/me", MeHandler(db))
	api.Get("/solo-admin", RequireRole(models.RoleSuperAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	tok, err := GenerateToken(secret, &user, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Rosa", body["name"])
	assert.Equal(t, "Centro", body["branch"].(map[string]any)["name"])

	req = httptest.NewRequest("GET", "/api/solo-admin", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
