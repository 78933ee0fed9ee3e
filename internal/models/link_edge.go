package models

import (
	"time"

	"github.com/google/uuid"
)

// Link edge status constants
const (
	LinkStatusPending  = "pending"
	LinkStatusApproved = "approved"
	LinkStatusDenied   = "denied"
)

// LinkEdge is the single record of a relationship between two accounts.
// Both parties observe the same row; there is no per-side copy to keep in
// sync. The requester is the account that sent the link request.
type LinkEdge struct {
	ID          uuid.UUID  `json:"id"`
	RequesterID uuid.UUID  `json:"requester_id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	Status      string     `json:"status"` // pending, approved, denied
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at"`
}

// IsPending returns true if the edge is awaiting a response.
func (e *LinkEdge) IsPending() bool {
	return e.Status == LinkStatusPending
}

// IsApproved returns true if both parties are linked.
func (e *LinkEdge) IsApproved() bool {
	return e.Status == LinkStatusApproved
}

// Involves returns true if the given account is on either side of the edge.
func (e *LinkEdge) Involves(accountID uuid.UUID) bool {
	return e.RequesterID == accountID || e.RecipientID == accountID
}

// OtherSide returns the account on the opposite side of the edge from
// accountID, and false if accountID is not part of the edge.
func (e *LinkEdge) OtherSide(accountID uuid.UUID) (uuid.UUID, bool) {
	switch accountID {
	case e.RequesterID:
		return e.RecipientID, true
	case e.RecipientID:
		return e.RequesterID, true
	}
	return uuid.Nil, false
}

// CanApprove reports whether accountID may approve this edge. Only the
// recipient of a pending request can approve it.
func (e *LinkEdge) CanApprove(accountID uuid.UUID) bool {
	return e.Status == LinkStatusPending && e.RecipientID == accountID
}

// ValidLinkTransition reports whether a status change is allowed.
// Edges start pending; pending can become approved or denied; approved and
// denied are terminal (removal is deletion, not a status).
func ValidLinkTransition(from, to string) bool {
	if from == LinkStatusPending {
		return to == LinkStatusApproved || to == LinkStatusDenied
	}
	return false
}

// LinkedAccount is an edge projected from one account's point of view,
// joined with the other party's directory info.
type LinkedAccount struct {
	EdgeID      uuid.UUID `json:"edge_id"`
	AccountID   uuid.UUID `json:"account_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Picture     string    `json:"picture"`
	Status      string    `json:"status"`
	Requested   bool      `json:"requested_by_me"` // true if the viewer sent the request
	LastLoginAt time.Time `json:"last_login_at"`
	CreatedAt   time.Time `json:"created_at"`
}
