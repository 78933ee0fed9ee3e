package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pvestal/vacavibes/internal/models"
)

const submissionColumns = `id, submitted_by, rated_by, title, preferences,
	submitter_score, rater_score, average_score, status, visible_to,
	created_at, last_modified`

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(
		&s.ID,
		&s.SubmittedBy,
		&s.RatedBy,
		&s.Title,
		&s.Preferences,
		&s.SubmitterScore,
		&s.RaterScore,
		&s.AverageScore,
		&s.Status,
		&s.VisibleTo,
		&s.CreatedAt,
		&s.LastModified,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSubmission inserts a new submission. The visibility snapshot is
// taken from the submitter's approved links inside the same transaction, so
// the stored visible_to set matches the link graph at the moment of
// creation and never changes afterwards.
func (d *DB) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT CASE WHEN requester_id = $1 THEN recipient_id ELSE requester_id END
		FROM link_edges
		WHERE (requester_id = $1 OR recipient_id = $1) AND status = $2
	`, sub.SubmittedBy, models.LinkStatusApproved)
	if err != nil {
		return err
	}

	visibleTo := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		visibleTo = append(visibleTo, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	sub.VisibleTo = visibleTo
	sub.AverageScore = models.AverageScore(sub.SubmitterScore, sub.RaterScore)

	err = tx.QueryRow(ctx, `
		INSERT INTO submissions (submitted_by, title, preferences, submitter_score, average_score, visible_to)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at, last_modified
	`, sub.SubmittedBy, sub.Title, sub.Preferences, sub.SubmitterScore, sub.AverageScore, visibleTo).
		Scan(&sub.ID, &sub.Status, &sub.CreatedAt, &sub.LastModified)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetSubmissionByID returns a single submission.
func (d *DB) GetSubmissionByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	return scanSubmission(d.Pool.QueryRow(ctx, `
		SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id))
}

// GetSubmissionsVisibleTo returns the submissions the account may view:
// its own, plus those whose snapshot includes it.
func (d *DB) GetSubmissionsVisibleTo(ctx context.Context, accountID uuid.UUID) ([]models.Submission, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE submitted_by = $1 OR $1 = ANY(visible_to)
		ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(
			&s.ID, &s.SubmittedBy, &s.RatedBy, &s.Title, &s.Preferences,
			&s.SubmitterScore, &s.RaterScore, &s.AverageScore, &s.Status,
			&s.VisibleTo, &s.CreatedAt, &s.LastModified,
		); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}

	return subs, rows.Err()
}

// UpdateSubmitterScore sets the submitter's own score and recomputes the
// stored average. Only the original submitter takes this path.
func (d *DB) UpdateSubmitterScore(ctx context.Context, id uuid.UUID, score float64) (*models.Submission, error) {
	return d.updateScore(ctx, id, `
		UPDATE submissions
		SET submitter_score = $2,
		    average_score = CASE
		        WHEN $2 > 0 AND rater_score > 0 THEN ($2 + rater_score) / 2
		        WHEN $2 > 0 THEN $2
		        ELSE rater_score
		    END,
		    last_modified = NOW()
		WHERE id = $1
		RETURNING `+submissionColumns, score)
}

// UpdateRaterScore records a linked account's score, marks the submission
// reviewed, and recomputes the stored average.
func (d *DB) UpdateRaterScore(ctx context.Context, id, raterID uuid.UUID, score float64) (*models.Submission, error) {
	return d.updateScore(ctx, id, `
		UPDATE submissions
		SET rater_score = $2,
		    rated_by = $3,
		    status = 'reviewed',
		    average_score = CASE
		        WHEN submitter_score > 0 AND $2 > 0 THEN (submitter_score + $2) / 2
		        WHEN submitter_score > 0 THEN submitter_score
		        ELSE $2
		    END,
		    last_modified = NOW()
		WHERE id = $1
		RETURNING `+submissionColumns, score, raterID)
}

func (d *DB) updateScore(ctx context.Context, id uuid.UUID, query string, args ...any) (*models.Submission, error) {
	allArgs := append([]any{id}, args...)
	return scanSubmission(d.Pool.QueryRow(ctx, query, allArgs...))
}

// DeleteSubmission removes a submission owned by actorID.
func (d *DB) DeleteSubmission(ctx context.Context, id, actorID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `
		DELETE FROM submissions WHERE id = $1 AND submitted_by = $2
	`, id, actorID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

// GetSubmissionCountsByStatus returns submission counts grouped by status.
func (d *DB) GetSubmissionCountsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT status, COUNT(*) FROM submissions GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	return counts, rows.Err()
}
