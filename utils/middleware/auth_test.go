package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusjobs/jobboard-api/database/dbtest"
	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/utils/auth"
	"github.com/campusjobs/jobboard-api/utils/middleware"
	"github.com/campusjobs/jobboard-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authFixture struct {
	db  *gorm.DB
	jwt *auth.JWTManager
	app *fiber.App
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db := dbtest.Open(t)
	jwtManager := auth.NewJWTManager(auth.JWTConfig{Secret: "test-secret", Issuer: "test"})
	m := middleware.NewAuthMiddleware(jwtManager, db)

	app := fiber.New(fiber.Config{ErrorHandler: response.NewErrorHandler(false)})
	whoami := func(c *fiber.Ctx) error {
		user, err := middleware.MustUser(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": user.ID, "role": user.Role})
	}
	app.Get("/me", m.Required(), whoami)
	app.Get("/students", m.Students(), whoami)
	app.Get("/staff", m.AnyRole(model.RoleEmployer, model.RoleAdmin), whoami)
	app.Get("/cancelled", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(c.UserContext())
		cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}, m.Required(), whoami)

	return &authFixture{db: db, jwt: jwtManager, app: app}
}

func (f *authFixture) createUser(t *testing.T, email, role string) *model.User {
	t.Helper()
	user := &model.User{Name: "Test User", Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *authFixture) token(t *testing.T, user *model.User) (string, *auth.Principal) {
	t.Helper()
	token, principal, err := f.jwt.Issue(user.ID, user.Email, user.Role, user.TokenVersion, 0)
	require.NoError(t, err)
	return token, principal
}

func (f *authFixture) get(t *testing.T, path, authorization string) (int, response.ErrorBody) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body response.ErrorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestRequiredUsesRequestContext(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "ctx@campus.edu", model.RoleStudent)
	token, _ := f.token(t, user)

	status, _ := f.get(t, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)

	status, _ = f.get(t, "/cancelled", "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		token, ok := middleware.BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestRequiredAcceptsValidToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "student@campus.edu", model.RoleStudent)
	token, _ := f.token(t, user)

	status, _ := f.get(t, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
}

func TestRequiredRejectsMissingOrMalformedHeader(t *testing.T) {
	f := newAuthFixture(t)

	for _, header := range []string{"", "Token abc", "Bearer"} {
		status, body := f.get(t, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, status, header)
		assert.Equal(t, "Not authenticated", body.Error)
		assert.NotEmpty(t, body.Help)
	}
}

func TestRequiredRejectsTamperedToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "student@campus.edu", model.RoleStudent)
	token, _ := f.token(t, user)

	tampered := token[:len(token)-2] + "xx"
	status, body := f.get(t, "/me", "Bearer "+tampered)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", body.Detail)
}

func TestRequiredRejectsTokenOfDeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "gone@campus.edu", model.RoleStudent)
	token, _ := f.token(t, user)

	require.NoError(t, f.db.Delete(&model.User{}, user.ID).Error)

	status, body := f.get(t, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "User not found", body.Detail)
}

func TestRequiredRejectsRevokedToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "student@campus.edu", model.RoleStudent)
	token, principal := f.token(t, user)

	blacklist := auth.NewBlacklistService(f.db)
	require.NoError(t, blacklist.RevokeToken(context.Background(), principal.TokenID, user.ID, principal.ExpiresAt, "logout"))

	status, body := f.get(t, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token has been revoked", body.Detail)
}

func TestRequiredRejectsTokenAfterVersionBump(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "student@campus.edu", model.RoleStudent)
	token, _ := f.token(t, user)

	require.NoError(t, auth.NewBlacklistService(f.db).RevokeAllUserTokens(context.Background(), user.ID))

	status, _ := f.get(t, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRoleGates(t *testing.T) {
	f := newAuthFixture(t)
	student := f.createUser(t, "student@campus.edu", model.RoleStudent)
	employer := f.createUser(t, "hr@acme.com", model.RoleEmployer)
	admin := f.createUser(t, "admin@campus.edu", model.RoleAdmin)

	studentToken, _ := f.token(t, student)
	employerToken, _ := f.token(t, employer)
	adminToken, _ := f.token(t, admin)

	status, _ := f.get(t, "/students", "Bearer "+studentToken)
	assert.Equal(t, http.StatusOK, status)

	status, body := f.get(t, "/students", "Bearer "+employerToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Forbidden", body.Error)

	status, _ = f.get(t, "/staff", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, status)

	status, _ = f.get(t, "/staff", "Bearer "+studentToken)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRoleChangeTakesEffectImmediately(t *testing.T) {
	f := newAuthFixture(t)
	user := f.createUser(t, "student@campus.edu", model.RoleStudent)
	token, _ := f.token(t, user)

	require.NoError(t, f.db.Model(user).Update("role", model.RoleEmployer).Error)

	status, _ := f.get(t, "/students", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRequireRoleWithoutUser(t *testing.T) {
	err := middleware.RequireRole(nil, model.RoleAdmin)
	require.Error(t, err)
}
