package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pvestal/vacavibes/internal/models"
)

const linkEdgeColumns = `id, requester_id, recipient_id, status, created_at, responded_at`

func scanLinkEdge(row pgx.Row) (*models.LinkEdge, error) {
	var e models.LinkEdge
	err := row.Scan(
		&e.ID,
		&e.RequesterID,
		&e.RecipientID,
		&e.Status,
		&e.CreatedAt,
		&e.RespondedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateLinkRequest creates a pending link edge from requester to recipient.
// A single row represents the relationship for both parties.
//
// When a pending request already exists in the opposite direction the new
// request is treated as an implicit approval of the existing one. Any other
// existing edge between the pair is a duplicate. All steps run in one
// transaction so the edge can never be observed half-written.
func (d *DB) CreateLinkRequest(ctx context.Context, requesterID, recipientID uuid.UUID) (*models.LinkEdge, error) {
	if requesterID == recipientID {
		return nil, ErrSelfLink
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock any existing edge between the pair.
	existing, err := scanLinkEdge(tx.QueryRow(ctx, `
		SELECT `+linkEdgeColumns+` FROM link_edges
		WHERE LEAST(requester_id, recipient_id) = LEAST($1::uuid, $2::uuid)
		  AND GREATEST(requester_id, recipient_id) = GREATEST($1::uuid, $2::uuid)
		FOR UPDATE
	`, requesterID, recipientID))

	switch {
	case err == nil:
		switch {
		case existing.Status == models.LinkStatusPending && existing.RequesterID == recipientID:
			// Crossing requests: the other side already asked. Merge into
			// a single approved edge instead of rejecting.
			edge, err := approveLockedEdge(ctx, tx, existing.ID)
			if err != nil {
				return nil, err
			}
			return edge, tx.Commit(ctx)
		case existing.Status == models.LinkStatusDenied:
			// A denied edge does not block a fresh request; reuse the row
			// so the pair-uniqueness index keeps holding.
			edge, err := scanLinkEdge(tx.QueryRow(ctx, `
				UPDATE link_edges
				SET requester_id = $2, recipient_id = $3, status = $4,
				    created_at = NOW(), responded_at = NULL
				WHERE id = $1
				RETURNING `+linkEdgeColumns, existing.ID, requesterID, recipientID, models.LinkStatusPending))
			if err != nil {
				return nil, err
			}
			return edge, tx.Commit(ctx)
		default:
			return nil, ErrDuplicateLink
		}
	case errors.Is(err, ErrLinkNotFound):
		// No edge yet; fall through to insert.
	default:
		return nil, err
	}

	edge, err := scanLinkEdge(tx.QueryRow(ctx, `
		INSERT INTO link_edges (requester_id, recipient_id)
		VALUES ($1, $2)
		RETURNING `+linkEdgeColumns, requesterID, recipientID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return nil, ErrDuplicateLink
			}
			if pgErr.Code == "23514" && pgErr.ConstraintName == "no_self_link" {
				return nil, ErrSelfLink
			}
		}
		return nil, err
	}

	return edge, tx.Commit(ctx)
}

// approveLockedEdge flips an already-locked pending edge to approved.
func approveLockedEdge(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.LinkEdge, error) {
	return scanLinkEdge(tx.QueryRow(ctx, `
		UPDATE link_edges
		SET status = $2, responded_at = NOW()
		WHERE id = $1
		RETURNING `+linkEdgeColumns, id, models.LinkStatusApproved))
}

// GetLinkEdgeByID returns a single link edge.
func (d *DB) GetLinkEdgeByID(ctx context.Context, id uuid.UUID) (*models.LinkEdge, error) {
	return scanLinkEdge(d.Pool.QueryRow(ctx, `
		SELECT `+linkEdgeColumns+` FROM link_edges WHERE id = $1`, id))
}

// GetLinkEdgeBetween returns the edge between two accounts, if any.
func (d *DB) GetLinkEdgeBetween(ctx context.Context, a, b uuid.UUID) (*models.LinkEdge, error) {
	return scanLinkEdge(d.Pool.QueryRow(ctx, `
		SELECT `+linkEdgeColumns+` FROM link_edges
		WHERE LEAST(requester_id, recipient_id) = LEAST($1::uuid, $2::uuid)
		  AND GREATEST(requester_id, recipient_id) = GREATEST($1::uuid, $2::uuid)
	`, a, b))
}

// ApproveLinkRequest transitions a pending edge to approved. Only the
// recipient of the request may approve, and only from the pending state.
// Because there is a single row per pair, both parties observe the approval
// at once.
func (d *DB) ApproveLinkRequest(ctx context.Context, edgeID, actorID uuid.UUID) (*models.LinkEdge, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	edge, err := scanLinkEdge(tx.QueryRow(ctx, `
		SELECT `+linkEdgeColumns+` FROM link_edges WHERE id = $1 FOR UPDATE`, edgeID))
	if err != nil {
		return nil, err
	}

	if edge.RecipientID != actorID {
		return nil, ErrNotRecipient
	}
	if !edge.IsPending() {
		return nil, ErrNotPending
	}

	edge, err = approveLockedEdge(ctx, tx, edge.ID)
	if err != nil {
		return nil, err
	}

	return edge, tx.Commit(ctx)
}

// DenyLinkRequest transitions a pending edge to denied. Only the recipient
// may deny. The denied row is kept so the requester can see the outcome; it
// stops counting as a relationship everywhere and a later request between
// the pair replaces it.
func (d *DB) DenyLinkRequest(ctx context.Context, edgeID, actorID uuid.UUID) (*models.LinkEdge, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	edge, err := scanLinkEdge(tx.QueryRow(ctx, `
		SELECT `+linkEdgeColumns+` FROM link_edges WHERE id = $1 FOR UPDATE`, edgeID))
	if err != nil {
		return nil, err
	}

	if edge.RecipientID != actorID {
		return nil, ErrNotRecipient
	}
	if !edge.IsPending() {
		return nil, ErrNotPending
	}

	edge, err = scanLinkEdge(tx.QueryRow(ctx, `
		UPDATE link_edges
		SET status = $2, responded_at = NOW()
		WHERE id = $1
		RETURNING `+linkEdgeColumns, edge.ID, models.LinkStatusDenied))
	if err != nil {
		return nil, err
	}

	return edge, tx.Commit(ctx)
}

// DeleteLinkEdge removes the edge between actor and other entirely, in any
// state. Either party may remove it; both sides stop seeing it at once.
func (d *DB) DeleteLinkEdge(ctx context.Context, actorID, otherID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `
		DELETE FROM link_edges
		WHERE LEAST(requester_id, recipient_id) = LEAST($1::uuid, $2::uuid)
		  AND GREATEST(requester_id, recipient_id) = GREATEST($1::uuid, $2::uuid)
		  AND (requester_id = $1 OR recipient_id = $1)
	`, actorID, otherID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// GetLinkedAccounts returns the accounts linked (approved) to accountID,
// projected from accountID's point of view.
func (d *DB) GetLinkedAccounts(ctx context.Context, accountID uuid.UUID) ([]models.LinkedAccount, error) {
	return d.queryEdgeProjection(ctx, `
		SELECT e.id, a.id, a.name, a.email, a.picture, e.status,
		       e.requester_id = $1, a.last_login_at, e.created_at
		FROM link_edges e
		JOIN accounts a ON a.id = CASE WHEN e.requester_id = $1 THEN e.recipient_id ELSE e.requester_id END
		WHERE (e.requester_id = $1 OR e.recipient_id = $1) AND e.status = $2
		ORDER BY a.name ASC
	`, accountID, models.LinkStatusApproved)
}

// GetIncomingRequests returns pending requests awaiting accountID's response.
func (d *DB) GetIncomingRequests(ctx context.Context, accountID uuid.UUID) ([]models.LinkedAccount, error) {
	return d.queryEdgeProjection(ctx, `
		SELECT e.id, a.id, a.name, a.email, a.picture, e.status,
		       false, a.last_login_at, e.created_at
		FROM link_edges e
		JOIN accounts a ON a.id = e.requester_id
		WHERE e.recipient_id = $1 AND e.status = $2
		ORDER BY e.created_at DESC
	`, accountID, models.LinkStatusPending)
}

// GetOutgoingRequests returns requests accountID has sent that are still
// pending or were denied.
func (d *DB) GetOutgoingRequests(ctx context.Context, accountID uuid.UUID) ([]models.LinkedAccount, error) {
	return d.queryEdgeProjection(ctx, `
		SELECT e.id, a.id, a.name, a.email, a.picture, e.status,
		       true, a.last_login_at, e.created_at
		FROM link_edges e
		JOIN accounts a ON a.id = e.recipient_id
		WHERE e.requester_id = $1 AND e.status IN ($2, $3)
		ORDER BY e.created_at DESC
	`, accountID, models.LinkStatusPending, models.LinkStatusDenied)
}

func (d *DB) queryEdgeProjection(ctx context.Context, query string, args ...any) ([]models.LinkedAccount, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.LinkedAccount
	for rows.Next() {
		var l models.LinkedAccount
		if err := rows.Scan(
			&l.EdgeID, &l.AccountID, &l.Name, &l.Email, &l.Picture,
			&l.Status, &l.Requested, &l.LastLoginAt, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

// GetLinkedAccountIDs returns just the ids of accounts linked to accountID.
// Used to snapshot submission visibility.
func (d *DB) GetLinkedAccountIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT CASE WHEN requester_id = $1 THEN recipient_id ELSE requester_id END
		FROM link_edges
		WHERE (requester_id = $1 OR recipient_id = $1) AND status = $2
	`, accountID, models.LinkStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// StaleRequest is a pending request that has gone unanswered, with the
// recipient's address for reminder delivery.
type StaleRequest struct {
	EdgeID         uuid.UUID
	RequesterName  string
	RecipientEmail string
	RecipientName  string
	CreatedAt      time.Time
}

// GetStaleRequests returns pending requests created before the cutoff.
func (d *DB) GetStaleRequests(ctx context.Context, olderThan time.Duration, limit int) ([]StaleRequest, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT e.id, req.name, rec.email, rec.name, e.created_at
		FROM link_edges e
		JOIN accounts req ON req.id = e.requester_id
		JOIN accounts rec ON rec.id = e.recipient_id
		WHERE e.status = $1 AND e.created_at < $2
		ORDER BY e.created_at ASC
		LIMIT $3
	`, models.LinkStatusPending, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stale []StaleRequest
	for rows.Next() {
		var s StaleRequest
		if err := rows.Scan(&s.EdgeID, &s.RequesterName, &s.RecipientEmail, &s.RecipientName, &s.CreatedAt); err != nil {
			return nil, err
		}
		stale = append(stale, s)
	}

	return stale, rows.Err()
}

// GetLinkEdgeCountsByStatus returns edge counts grouped by status.
func (d *DB) GetLinkEdgeCountsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT status, COUNT(*) FROM link_edges GROUP BY status
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
