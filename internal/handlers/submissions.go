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

// SubmissionHandler handles submission CRUD and scoring.
type SubmissionHandler struct {
	db       *db.DB
	notifier *email.Notifier
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(database *db.DB, notifier *email.Notifier) *SubmissionHandler {
	return &SubmissionHandler{db: database, notifier: notifier}
}

type createSubmissionBody struct {
	Title       string  `json:"title"`
	Preferences string  `json:"preferences"`
	Score       float64 `json:"score"`
}

type scoreBody struct {
	Score float64 `json:"score"`
}

// List returns every submission visible to the caller: their own plus those
// shared with them through approved links at submission time.
func (h *SubmissionHandler) List(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	subs, err := h.db.GetSubmissionsVisibleTo(c.Context(), account.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch submissions")
	}
	return jsonSuccess(c, subs)
}

// Get returns a single submission if the caller may see it.
func (h *SubmissionHandler) Get(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	sub, err := h.db.GetSubmissionByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrSubmissionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "submission not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch submission")
	}

	if !sub.VisibleToAccount(account.ID) {
		// Hide existence from accounts outside the visibility set.
		return jsonError(c, fiber.StatusNotFound, "submission not found")
	}

	return jsonSuccess(c, sub)
}

// Create records a new submission. The visibility set is snapshotted from
// the caller's approved links at this moment and never changes afterwards.
func (h *SubmissionHandler) Create(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body createSubmissionBody
	if err := c.Bind().Body(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if valid, msg := validation.ValidateTitle(body.Title); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if body.Score != 0 {
		if valid, msg := validation.ValidateScore(body.Score); !valid {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
	}

	sub := &models.Submission{
		SubmittedBy:    account.ID,
		Title:          body.Title,
		Preferences:    body.Preferences,
		SubmitterScore: body.Score,
	}
	if err := h.db.CreateSubmission(c.Context(), sub); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create submission")
	}

	if linked, err := h.db.GetAccountsByIDs(c.Context(), sub.VisibleTo); err == nil {
		h.notifier.RatingRequested(linked, account, sub)
	}

	return jsonCreated(c, sub)
}

// UpdateScore records a score on a submission. The caller's relationship to
// the submission decides which score slot is written: submitters revise
// their own score, visible linked accounts rate.
func (h *SubmissionHandler) UpdateScore(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var body scoreBody
	if err := c.Bind().Body(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := validation.ValidateScore(body.Score); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	sub, err := h.db.GetSubmissionByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrSubmissionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "submission not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch submission")
	}

	role := sub.ResolveScoreRole(account.ID)
	switch role {
	case models.RoleSubmitter:
		updated, err := h.db.UpdateSubmitterScore(c.Context(), id, body.Score)
		if err != nil {
			metrics.RecordScoreOutcome("submitter", "error")
			return jsonError(c, fiber.StatusInternalServerError, "failed to update score")
		}
		metrics.RecordScoreOutcome("submitter", "ok")
		return jsonSuccess(c, updated)

	case models.RoleRater:
		updated, err := h.db.UpdateRaterScore(c.Context(), id, account.ID, body.Score)
		if err != nil {
			metrics.RecordScoreOutcome("rater", "error")
			return jsonError(c, fiber.StatusInternalServerError, "failed to update score")
		}
		metrics.RecordScoreOutcome("rater", "ok")

		if submitter, err := h.db.GetAccountByID(c.Context(), updated.SubmittedBy); err == nil {
			h.notifier.SubmissionRated(submitter, account, updated)
		}
		return jsonSuccess(c, updated)

	default:
		metrics.RecordScoreOutcome("none", "forbidden")
		return jsonError(c, fiber.StatusNotFound, "submission not found")
	}
}

// Delete removes a submission. Only the submitter may delete.
func (h *SubmissionHandler) Delete(c fiber.Ctx) error {
	account, ok := c.Locals("account").(*models.Account)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	if err := h.db.DeleteSubmission(c.Context(), id, account.ID); err != nil {
		if errors.Is(err, db.ErrSubmissionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "submission not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete submission")
	}

	return jsonSuccess(c, fiber.Map{"deleted": true})
}
