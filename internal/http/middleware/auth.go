package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"ifinsure/internal/auth"
	"ifinsure/internal/model"
	"ifinsure/internal/session"
)

const (
	// UserIDLocalKey stores the authenticated user's id in Fiber locals.
	UserIDLocalKey = "user_id"
	// UserTypeLocalKey stores the authenticated user's type in Fiber locals.
	UserTypeLocalKey = "user_type"
	// SessionIDLocalKey stores the session id backing the token.
	SessionIDLocalKey = "session_id"
)

// RequireAuth verifies the Bearer token and checks the session it names
// still exists in the store, so a logout invalidates the token
// immediately. On success the user id, type and session id land in the
// request locals.
func RequireAuth(tokens *auth.TokenIssuer, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		if _, err := sessions.Get(c.UserContext(), claims.SessionID); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "session expired")
		}
		_ = sessions.Touch(c.UserContext(), claims.SessionID)

		c.Locals(UserIDLocalKey, claims.UserID)
		c.Locals(UserTypeLocalKey, claims.UserType)
		c.Locals(SessionIDLocalKey, claims.SessionID)
		return c.Next()
	}
}

// RequireRole allows only the named user types past. Admins always pass.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userType, _ := c.Locals(UserTypeLocalKey).(string)
		if userType == model.UserTypeAdmin {
			return c.Next()
		}
		for _, role := range roles {
			if userType == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// RequireBackOffice shortcuts the common agent-or-above guard.
func RequireBackOffice() fiber.Handler {
	return RequireRole(model.UserTypeAgent, model.UserTypeStaff, model.UserTypeAdmin)
}
