package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusjobs/jobboard-api/model"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/auth"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	localsUser      = "user"
	localsPrincipal = "principal"
)

const bearerHelp = "Log in and send the token as 'Authorization: Bearer <token>'"

// AuthMiddleware resolves bearer tokens into users.
type AuthMiddleware struct {
	jwtManager       *auth.JWTManager
	blacklistService *auth.BlacklistService
	db               *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:       jwtManager,
		blacklistService: auth.NewBlacklistService(db),
		db:               db,
	}
}

// BearerToken extracts the token from an Authorization header value. A
// missing header or any scheme other than Bearer yields ok == false.
func BearerToken(header string) (token string, ok bool) {
	scheme, rest, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(rest)
	return token, token != ""
}

func unauthenticated(detail string) error {
	return apperror.Unauthenticated("Not authenticated", detail).WithHelp(bearerHelp)
}

// Authenticate resolves an Authorization header into the live user record.
// The user is always loaded fresh so deleted accounts and changed roles take
// effect immediately.
func (m *AuthMiddleware) Authenticate(ctx context.Context, header string) (*model.User, *auth.Principal, error) {
	tokenString, ok := BearerToken(header)
	if !ok {
		return nil, nil, unauthenticated("Missing or malformed bearer token")
	}

	principal, err := m.jwtManager.Verify(tokenString)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, nil, unauthenticated("Token has expired")
		}
		return nil, nil, unauthenticated("Invalid token")
	}

	revoked, err := m.blacklistService.IsTokenRevoked(ctx, principal.TokenID)
	if err != nil {
		return nil, nil, apperror.Internal(err, "Failed to check token status")
	}
	if revoked {
		return nil, nil, unauthenticated("Token has been revoked")
	}

	var user model.User
	if err := m.db.WithContext(ctx).First(&user, principal.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, unauthenticated("User not found")
		}
		return nil, nil, apperror.Internal(err, "Failed to load user")
	}

	if user.TokenVersion != principal.TokenVersion {
		return nil, nil, unauthenticated("Token has been invalidated")
	}

	return &user, principal, nil
}

// Required rejects requests without a valid token and stores the user and
// principal in the request locals.
func (m *AuthMiddleware) Required() fiber.Handler {
	return m.withRoles()
}

func (m *AuthMiddleware) withRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, principal, err := m.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}

		if len(roles) > 0 {
			if err := RequireRole(user, roles...); err != nil {
				return err
			}
		}

		c.Locals(localsUser, user)
		c.Locals(localsPrincipal, principal)

		return c.Next()
	}
}

// RequireRole fails with a forbidden error unless user holds one of roles.
func RequireRole(user *model.User, roles ...string) error {
	if user == nil {
		return unauthenticated("Authentication required")
	}
	for _, r := range roles {
		if user.Role == r {
			return nil
		}
	}
	return apperror.Forbidden("Forbidden",
		fmt.Sprintf("This action requires the %s role", strings.Join(roles, " or "))).
		WithHelp("Sign in with an account that has the required role")
}

// Students authenticates and admits only students.
func (m *AuthMiddleware) Students() fiber.Handler {
	return m.withRoles(model.RoleStudent)
}

// Employers authenticates and admits only employers.
func (m *AuthMiddleware) Employers() fiber.Handler {
	return m.withRoles(model.RoleEmployer)
}

// Admins authenticates and admits only admins.
func (m *AuthMiddleware) Admins() fiber.Handler {
	return m.withRoles(model.RoleAdmin)
}

// AnyRole authenticates and admits users holding one of roles.
func (m *AuthMiddleware) AnyRole(roles ...string) fiber.Handler {
	return m.withRoles(roles...)
}

// GetUser extracts the authenticated user from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	u, ok := c.Locals(localsUser).(*model.User)
	return u, ok && u != nil
}

// GetPrincipal extracts the verified token claims from context
func GetPrincipal(c *fiber.Ctx) (*auth.Principal, bool) {
	p, ok := c.Locals(localsPrincipal).(*auth.Principal)
	return p, ok && p != nil
}

// MustUser returns the authenticated user or an unauthenticated error.
func MustUser(c *fiber.Ctx) (*model.User, error) {
	user, ok := GetUser(c)
	if !ok {
		return nil, unauthenticated("Authentication required")
	}
	return user, nil
}
