package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/pvestal/vacavibes/internal/db"
	"github.com/pvestal/vacavibes/internal/email"
	"github.com/pvestal/vacavibes/internal/metrics"
	"github.com/pvestal/vacavibes/internal/models"
	"github.com/pvestal/vacavibes/internal/validation"
)

// LinkHandler handles link relationship operations.
type LinkHandler struct {
	db       *db.DB
	notifier *email.Notifier
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(database *db.DB, notifier *email.Notifier) *LinkHandler {
	return &LinkHandler{db: database, notifier: notifier}
}

type linkRequestBody struct {
	Email string `json:"email"`
}

type linkEdgeResponse struct {
	ID          string `json:"id"`
	RequesterID string `json:"requester_id"`
	RecipientID string `json:"recipient_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	RespondedAt string `json:"responded_at,omitempty"`
}

func toLinkEdgeResponse(e *models.LinkEdge) linkEdgeResponse {
	resp := linkEdgeResponse{
		ID:          e.ID.String(),
		RequesterID: e.RequesterID.String(),
		RecipientID: e.RecipientID.String(),
		Status:      e.Status,
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if e.RespondedAt != nil {
		resp.RespondedAt = e.RespondedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// List returns the caller's approved links. Unauthenticated callers get an
// empty set rather than an error so the directory page renders cleanly.
func (h *LinkHandler) List(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonSuccess(c, []models.LinkedAccount{})
	}

	linked, err := h.db.GetLinkedAccounts(c.Context(), account.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch links")
	}
	return jsonSuccess(c, linked)
}

// Incoming returns pending requests where the caller is the recipient.
func (h *LinkHandler) Incoming(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	requests, err := h.db.GetIncomingRequests(c.Context(), account.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch requests")
	}
	return jsonSuccess(c, requests)
}

// Outgoing returns requests the caller has sent, pending or denied.
func (h *LinkHandler) Outgoing(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	requests, err := h.db.GetOutgoingRequests(c.Context(), account.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch requests")
	}
	return jsonSuccess(c, requests)
}

// Request sends a link request to the account with the given email.
// If that account already has a pending request toward the caller, the two
// requests merge into an approved link.
func (h *LinkHandler) Request(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body linkRequestBody
	if err := c.Bind().Body(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	target := validation.NormalizeEmail(body.Email)
	if !validation.ValidateEmail(target) {
		return jsonError(c, fiber.StatusBadRequest, "invalid email address")
	}

	recipient, err := h.db.GetAccountByEmail(c.Context(), target)
	if err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			return jsonError(c, fiber.StatusNotFound, "no account with that email")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to look up account")
	}

	edge, err := h.db.CreateLinkRequest(c.Context(), account.ID, recipient.ID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrSelfLink):
			metrics.RecordLinkOutcome("request", "self_link")
			return jsonError(c, fiber.StatusBadRequest, "you cannot link to yourself")
		case errors.Is(err, db.ErrDuplicateLink):
			metrics.RecordLinkOutcome("request", "duplicate")
			return jsonError(c, fiber.StatusConflict, "a link with this account already exists")
		default:
			metrics.RecordLinkOutcome("request", "error")
			return jsonError(c, fiber.StatusInternalServerError, "failed to create link request")
		}
	}

	if edge.IsApproved() {
		// Crossing requests merged into an immediate link.
		metrics.RecordLinkOutcome("request", "merged")
		h.notifier.LinkApproved(recipient, account)
	} else {
		metrics.RecordLinkOutcome("request", "created")
		h.notifier.LinkRequested(recipient, account)
	}

	return jsonCreated(c, toLinkEdgeResponse(edge))
}

// Approve accepts a pending link request. Only the recipient may approve.
func (h *LinkHandler) Approve(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	edgeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	edge, err := h.db.ApproveLinkRequest(c.Context(), edgeID, account.ID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrLinkNotFound):
			metrics.RecordLinkOutcome("approve", "not_found")
			return jsonError(c, fiber.StatusNotFound, "link request not found")
		case errors.Is(err, db.ErrNotRecipient):
			metrics.RecordLinkOutcome("approve", "forbidden")
			return jsonError(c, fiber.StatusForbidden, "only the recipient can approve a request")
		case errors.Is(err, db.ErrNotPending):
			metrics.RecordLinkOutcome("approve", "not_pending")
			return jsonError(c, fiber.StatusConflict, "request is not pending")
		default:
			metrics.RecordLinkOutcome("approve", "error")
			return jsonError(c, fiber.StatusInternalServerError, "failed to approve request")
		}
	}
	metrics.RecordLinkOutcome("approve", "ok")

	if requester, err := h.db.GetAccountByID(c.Context(), edge.RequesterID); err == nil {
		h.notifier.LinkApproved(requester, account)
	}

	return jsonSuccess(c, toLinkEdgeResponse(edge))
}

// Deny rejects a pending link request. Only the recipient may deny.
func (h *LinkHandler) Deny(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	edgeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	edge, err := h.db.DenyLinkRequest(c.Context(), edgeID, account.ID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrLinkNotFound):
			metrics.RecordLinkOutcome("deny", "not_found")
			return jsonError(c, fiber.StatusNotFound, "link request not found")
		case errors.Is(err, db.ErrNotRecipient):
			metrics.RecordLinkOutcome("deny", "forbidden")
			return jsonError(c, fiber.StatusForbidden, "only the recipient can deny a request")
		case errors.Is(err, db.ErrNotPending):
			metrics.RecordLinkOutcome("deny", "not_pending")
			return jsonError(c, fiber.StatusConflict, "request is not pending")
		default:
			metrics.RecordLinkOutcome("deny", "error")
			return jsonError(c, fiber.StatusInternalServerError, "failed to deny request")
		}
	}
	metrics.RecordLinkOutcome("deny", "ok")

	return jsonSuccess(c, toLinkEdgeResponse(edge))
}

// Delete removes the link between the caller and another account. Works on
// approved links, pending requests, and denied tombstones alike.
func (h *LinkHandler) Delete(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	otherID, err := uuid.Parse(c.Params("accountID"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid account id")
	}

	if err := h.db.DeleteLinkEdge(c.Context(), account.ID, otherID); err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			metrics.RecordLinkOutcome("delete", "not_found")
			return jsonError(c, fiber.StatusNotFound, "no link with that account")
		}
		metrics.RecordLinkOutcome("delete", "error")
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete link")
	}
	metrics.RecordLinkOutcome("delete", "ok")

	return jsonSuccess(c, fiber.Map{"deleted": true})
}
