package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission status constants
const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusReviewed  = "reviewed"
)

// Submission is a rating record created by one account and optionally
// co-rated by a linked account. VisibleTo is a snapshot of the submitter's
// approved links taken when the record is created; later changes to the
// link graph do not alter it.
type Submission struct {
	ID             uuid.UUID   `json:"id"`
	SubmittedBy    uuid.UUID   `json:"submitted_by"`
	RatedBy        *uuid.UUID  `json:"rated_by"`
	Title          string      `json:"title"`
	Preferences    string      `json:"preferences"`
	SubmitterScore float64     `json:"submitter_score"`
	RaterScore     float64     `json:"rater_score"`
	AverageScore   float64     `json:"average_score"`
	Status         string      `json:"status"` // submitted, reviewed
	VisibleTo      []uuid.UUID `json:"visible_to"`
	CreatedAt      time.Time   `json:"created_at"`
	LastModified   time.Time   `json:"last_modified"`
}

// VisibleToAccount returns true if the account may view this submission.
func (s *Submission) VisibleToAccount(accountID uuid.UUID) bool {
	if s.SubmittedBy == accountID {
		return true
	}
	for _, id := range s.VisibleTo {
		if id == accountID {
			return true
		}
	}
	return false
}

// Submission roles resolved by ResolveScoreRole.
const (
	RoleSubmitter = "submitter"
	RoleRater     = "rater"
	RoleNone      = "none"
)

// ResolveScoreRole determines which score the acting account may supply.
// The original submitter updates the submitter score; any other account in
// the visibility snapshot acts as the rater; everyone else gets no role.
func (s *Submission) ResolveScoreRole(accountID uuid.UUID) string {
	if s.SubmittedBy == accountID {
		return RoleSubmitter
	}
	if s.VisibleToAccount(accountID) {
		return RoleRater
	}
	return RoleNone
}

// AverageScore computes the derived average of the two rating scores.
// Scores are averaged only when both are present (> 0); with a single
// present score the average equals that score; with neither it is 0.
func AverageScore(submitterScore, raterScore float64) float64 {
	if submitterScore > 0 && raterScore > 0 {
		return (submitterScore + raterScore) / 2
	}
	if submitterScore > 0 {
		return submitterScore
	}
	if raterScore > 0 {
		return raterScore
	}
	return 0
}
