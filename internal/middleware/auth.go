package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"github.com/pvestal/vacavibes/internal/db"
)

// AuthMiddleware handles account authentication via sessions.
type AuthMiddleware struct {
	store *session.Store
	db    *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(store *session.Store, db *db.DB) *AuthMiddleware {
	return &AuthMiddleware{store: store, db: db}
}

// RequireAuth ensures the caller is authenticated, responding 401 if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	accountSub := sess.Get("account_sub")
	if accountSub == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	account, err := m.db.GetAccountBySub(c.Context(), accountSub.(string))
	if err != nil {
		sess.Destroy()
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	c.Locals("account", account)
	return c.Next()
}

// OptionalAuth loads the account if authenticated, but doesn't require it.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return c.Next()
	}

	accountSub := sess.Get("account_sub")
	if accountSub == nil {
		return c.Next()
	}

	account, err := m.db.GetAccountBySub(c.Context(), accountSub.(string))
	if err == nil {
		c.Locals("account", account)
	}

	return c.Next()
}
