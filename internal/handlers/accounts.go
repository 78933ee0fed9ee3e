package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/pvestal/vacavibes/internal/db"
	"github.com/pvestal/vacavibes/internal/models"
	"github.com/pvestal/vacavibes/internal/validation"
)

// AccountHandler handles account directory operations.
type AccountHandler struct {
	db *db.DB
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(database *db.DB) *AccountHandler {
	return &AccountHandler{db: database}
}

// accountResponse is the public projection of an account. The sub claim
// stays internal.
type accountResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

func toAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:      a.ID.String(),
		Email:   a.Email,
		Name:    a.Name,
		Picture: a.Picture,
	}
}

// Me returns the authenticated account's own profile.
func (h *AccountHandler) Me(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return jsonSuccess(c, toAccountResponse(account))
}

// Lookup finds an account by exact email address.
func (h *AccountHandler) Lookup(c fiber.Ctx) error {
	if _, ok := c.Locals("account").(*models.Account); !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	email := validation.NormalizeEmail(c.Query("email"))
	if !validation.ValidateEmail(email) {
		return jsonError(c, fiber.StatusBadRequest, "invalid email address")
	}

	found, err := h.db.GetAccountByEmail(c.Context(), email)
	if err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			return jsonError(c, fiber.StatusNotFound, "no account with that email")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to look up account")
	}

	return jsonSuccess(c, toAccountResponse(found))
}

// Search finds accounts matching a name or email fragment, excluding the
// caller.
func (h *AccountHandler) Search(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	query := strings.TrimSpace(c.Query("q"))
	if len(query) < 2 {
		return jsonError(c, fiber.StatusBadRequest, "search query must be at least 2 characters")
	}

	results, err := h.db.SearchAccounts(c.Context(), query, account.ID, 20)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "search failed")
	}

	out := make([]accountResponse, 0, len(results))
	for i := range results {
		out = append(out, toAccountResponse(&results[i]))
	}
	return jsonSuccess(c, out)
}
