package db

import (
	"context"
	"testing"

	"github.com/pvestal/vacavibes/internal/models"
)

func linkAccounts(t *testing.T, db *DB, a, b *models.Account) {
	t.Helper()
	ctx := context.Background()

	edge, err := db.CreateLinkRequest(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("CreateLinkRequest() error = %v", err)
	}
	if _, err := db.ApproveLinkRequest(ctx, edge.ID, b.ID); err != nil {
		t.Fatalf("ApproveLinkRequest() error = %v", err)
	}
}

func TestCreateSubmission_SnapshotsVisibility(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	u1 := createTestAccount(t, db, "sub-u1", "u1@x.com", "U1")
	u2 := createTestAccount(t, db, "sub-u2", "u2@x.com", "U2")
	stranger := createTestAccount(t, db, "sub-u3", "u3@x.com", "U3")
	linkAccounts(t, db, u1, u2)

	sub := &models.Submission{
		SubmittedBy:    u1.ID,
		Title:          "Beach week",
		SubmitterScore: 4,
	}
	if err := db.CreateSubmission(ctx, sub); err != nil {
		t.Fatalf("CreateSubmission() error = %v", err)
	}

	if len(sub.VisibleTo) != 1 || sub.VisibleTo[0] != u2.ID {
		t.Errorf("visible_to = %v, want [%v]", sub.VisibleTo, u2.ID)
	}
	if sub.AverageScore != 4 {
		t.Errorf("average with one score = %v, want 4", sub.AverageScore)
	}

	visible, err := db.GetSubmissionsVisibleTo(ctx, u2.ID)
	if err != nil {
		t.Fatalf("GetSubmissionsVisibleTo(u2) error = %v", err)
	}
	if len(visible) != 1 {
		t.Errorf("u2 should see 1 submission, got %d", len(visible))
	}

	hidden, err := db.GetSubmissionsVisibleTo(ctx, stranger.ID)
	if err != nil {
		t.Fatalf("GetSubmissionsVisibleTo(stranger) error = %v", err)
	}
	if len(hidden) != 0 {
		t.Errorf("stranger should see 0 submissions, got %d", len(hidden))
	}
}

func TestSubmissionVisibility_SurvivesUnlink(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	u1 := createTestAccount(t, db, "sub-u1", "u1@x.com", "U1")
	u2 := createTestAccount(t, db, "sub-u2", "u2@x.com", "U2")
	linkAccounts(t, db, u1, u2)

	sub := &models.Submission{SubmittedBy: u1.ID, Title: "Trip", SubmitterScore: 3}
	if err := db.CreateSubmission(ctx, sub); err != nil {
		t.Fatalf("CreateSubmission() error = %v", err)
	}

	// Unlinking afterwards must not rewrite the snapshot.
	if err := db.DeleteLinkEdge(ctx, u1.ID, u2.ID); err != nil {
		t.Fatalf("DeleteLinkEdge() error = %v", err)
	}

	visible, err := db.GetSubmissionsVisibleTo(ctx, u2.ID)
	if err != nil {
		t.Fatalf("GetSubmissionsVisibleTo() error = %v", err)
	}
	if len(visible) != 1 {
		t.Errorf("unlinked viewer lost access to an existing submission: got %d, want 1", len(visible))
	}

	// But a submission created after the unlink excludes u2.
	later := &models.Submission{SubmittedBy: u1.ID, Title: "Later trip", SubmitterScore: 2}
	if err := db.CreateSubmission(ctx, later); err != nil {
		t.Fatalf("CreateSubmission() error = %v", err)
	}
	if len(later.VisibleTo) != 0 {
		t.Errorf("post-unlink submission visible_to = %v, want empty", later.VisibleTo)
	}
}

func TestScoreReconciliation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	u1 := createTestAccount(t, db, "sub-u1", "u1@x.com", "U1")
	u2 := createTestAccount(t, db, "sub-u2", "u2@x.com", "U2")
	linkAccounts(t, db, u1, u2)

	sub := &models.Submission{SubmittedBy: u1.ID, Title: "Cabin", SubmitterScore: 4}
	if err := db.CreateSubmission(ctx, sub); err != nil {
		t.Fatalf("CreateSubmission() error = %v", err)
	}
	if sub.Status != models.SubmissionStatusSubmitted {
		t.Errorf("new submission status = %q, want submitted", sub.Status)
	}

	// The linked account rates it 5: average 4.5, status reviewed.
	rated, err := db.UpdateRaterScore(ctx, sub.ID, u2.ID, 5)
	if err != nil {
		t.Fatalf("UpdateRaterScore() error = %v", err)
	}
	if rated.AverageScore != 4.5 {
		t.Errorf("average = %v, want 4.5", rated.AverageScore)
	}
	if rated.Status != models.SubmissionStatusReviewed {
		t.Errorf("status = %q, want reviewed", rated.Status)
	}
	if rated.RatedBy == nil || *rated.RatedBy != u2.ID {
		t.Errorf("rated_by = %v, want %v", rated.RatedBy, u2.ID)
	}

	// The submitter revises their score; the average follows.
	revised, err := db.UpdateSubmitterScore(ctx, sub.ID, 3)
	if err != nil {
		t.Fatalf("UpdateSubmitterScore() error = %v", err)
	}
	if revised.AverageScore != 4 {
		t.Errorf("revised average = %v, want 4", revised.AverageScore)
	}
}

func TestDeleteSubmission_OwnerOnly(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	u1 := createTestAccount(t, db, "sub-u1", "u1@x.com", "U1")
	u2 := createTestAccount(t, db, "sub-u2", "u2@x.com", "U2")
	linkAccounts(t, db, u1, u2)

	sub := &models.Submission{SubmittedBy: u1.ID, Title: "Lake", SubmitterScore: 4}
	if err := db.CreateSubmission(ctx, sub); err != nil {
		t.Fatalf("CreateSubmission() error = %v", err)
	}

	if err := db.DeleteSubmission(ctx, sub.ID, u2.ID); err != ErrSubmissionNotFound {
		t.Errorf("non-owner delete error = %v, want ErrSubmissionNotFound", err)
	}
	if err := db.DeleteSubmission(ctx, sub.ID, u1.ID); err != nil {
		t.Errorf("owner delete error = %v", err)
	}
}
