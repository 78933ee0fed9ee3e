package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestAverageScore(t *testing.T) {
	tests := []struct {
		name           string
		submitterScore float64
		raterScore     float64
		expected       float64
	}{
		{"both scores present", 4, 5, 4.5},
		{"equal scores", 3, 3, 3},
		{"only submitter score", 4, 0, 4},
		{"only rater score", 0, 5, 5},
		{"neither score", 0, 0, 0},
		{"fractional average", 3.5, 4, 3.75},
		{"max scores", 5, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AverageScore(tt.submitterScore, tt.raterScore)
			if got != tt.expected {
				t.Errorf("AverageScore(%v, %v) = %v, want %v",
					tt.submitterScore, tt.raterScore, got, tt.expected)
			}
		})
	}
}

func TestResolveScoreRole(t *testing.T) {
	submitter := uuid.New()
	linked := uuid.New()
	stranger := uuid.New()

	sub := &Submission{
		SubmittedBy: submitter,
		VisibleTo:   []uuid.UUID{linked},
	}

	tests := []struct {
		name     string
		account  uuid.UUID
		expected string
	}{
		{"submitter updates own score", submitter, RoleSubmitter},
		{"linked account rates", linked, RoleRater},
		{"stranger has no role", stranger, RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sub.ResolveScoreRole(tt.account); got != tt.expected {
				t.Errorf("ResolveScoreRole() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestVisibleToAccount(t *testing.T) {
	submitter := uuid.New()
	viewer := uuid.New()
	stranger := uuid.New()

	sub := &Submission{
		SubmittedBy: submitter,
		VisibleTo:   []uuid.UUID{viewer},
	}

	if !sub.VisibleToAccount(submitter) {
		t.Error("submitter should always see their own submission")
	}
	if !sub.VisibleToAccount(viewer) {
		t.Error("snapshotted viewer should see the submission")
	}
	if sub.VisibleToAccount(stranger) {
		t.Error("stranger should not see the submission")
	}
}
