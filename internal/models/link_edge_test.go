package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestValidLinkTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected bool
	}{
		{"pending to approved", LinkStatusPending, LinkStatusApproved, true},
		{"pending to denied", LinkStatusPending, LinkStatusDenied, true},
		{"approved to denied", LinkStatusApproved, LinkStatusDenied, false},
		{"approved to pending", LinkStatusApproved, LinkStatusPending, false},
		{"denied to approved", LinkStatusDenied, LinkStatusApproved, false},
		{"pending to pending", LinkStatusPending, LinkStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidLinkTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("ValidLinkTransition(%q, %q) = %v, want %v",
					tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestCanApprove(t *testing.T) {
	requester := uuid.New()
	recipient := uuid.New()
	stranger := uuid.New()

	pending := &LinkEdge{RequesterID: requester, RecipientID: recipient, Status: LinkStatusPending}
	approved := &LinkEdge{RequesterID: requester, RecipientID: recipient, Status: LinkStatusApproved}

	if !pending.CanApprove(recipient) {
		t.Error("recipient should be able to approve a pending edge")
	}
	if pending.CanApprove(requester) {
		t.Error("requester must not approve their own request")
	}
	if pending.CanApprove(stranger) {
		t.Error("unrelated account must not approve")
	}
	if approved.CanApprove(recipient) {
		t.Error("approved edge cannot be approved again")
	}
}

func TestOtherSide(t *testing.T) {
	requester := uuid.New()
	recipient := uuid.New()
	edge := &LinkEdge{RequesterID: requester, RecipientID: recipient}

	if other, ok := edge.OtherSide(requester); !ok || other != recipient {
		t.Errorf("OtherSide(requester) = %v, %v, want %v, true", other, ok, recipient)
	}
	if other, ok := edge.OtherSide(recipient); !ok || other != requester {
		t.Errorf("OtherSide(recipient) = %v, %v, want %v, true", other, ok, requester)
	}
	if _, ok := edge.OtherSide(uuid.New()); ok {
		t.Error("OtherSide() should report false for an unrelated account")
	}
}
