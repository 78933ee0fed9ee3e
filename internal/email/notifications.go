package email

import (
	"log"
	"time"

	"github.com/pvestal/vacavibes/internal/models"
)

// Notifier sends domain notifications, honoring the per-event toggles in
// the configuration. Every method is safe to call on a nil receiver and
// never blocks the caller.
type Notifier struct {
	svc *Service
}

// NewNotifier creates a notifier backed by the given service.
func NewNotifier(svc *Service) *Notifier {
	return &Notifier{svc: svc}
}

// LinkRequested notifies the recipient that a link request arrived.
func (n *Notifier) LinkRequested(recipient, requester *models.Account) {
	if n == nil || !n.svc.cfg.EmailNotifyOnLinkRequest {
		return
	}
	if recipient.Email == "" {
		log.Printf("Skipping link request notification: account %s has no email", recipient.ID)
		return
	}

	subject, htmlBody, textBody := n.svc.LinkRequestTemplate(recipient.DisplayName(), requester.DisplayName())
	n.svc.SendAsync([]string{recipient.Email}, subject, htmlBody, textBody)
}

// LinkApproved notifies both parties that the link now exists: the
// requester that their request was approved, the approver with a
// confirmation.
func (n *Notifier) LinkApproved(requester, approver *models.Account) {
	if n == nil || !n.svc.cfg.EmailNotifyOnLinkApproval {
		return
	}

	if requester.Email != "" {
		subject, htmlBody, textBody := n.svc.LinkApprovedTemplate(requester.DisplayName(), approver.DisplayName())
		n.svc.SendAsync([]string{requester.Email}, subject, htmlBody, textBody)
	} else {
		log.Printf("Skipping approval notification: account %s has no email", requester.ID)
	}

	if approver.Email != "" {
		subject, htmlBody, textBody := n.svc.LinkConfirmationTemplate(approver.DisplayName(), requester.DisplayName())
		n.svc.SendAsync([]string{approver.Email}, subject, htmlBody, textBody)
	}
}

// RatingRequested notifies the linked accounts that a new submission is
// waiting for their score.
func (n *Notifier) RatingRequested(linked []models.Account, submitter *models.Account, sub *models.Submission) {
	if n == nil || !n.svc.cfg.EmailNotifyOnRating {
		return
	}

	for i := range linked {
		if linked[i].ID == submitter.ID || linked[i].Email == "" {
			continue
		}
		subject, htmlBody, textBody := n.svc.RatingRequestedTemplate(
			linked[i].DisplayName(), submitter.DisplayName(), sub.Title)
		n.svc.SendAsync([]string{linked[i].Email}, subject, htmlBody, textBody)
	}
}

// SubmissionRated notifies the submitter that a linked account rated
// their submission.
func (n *Notifier) SubmissionRated(submitter, rater *models.Account, sub *models.Submission) {
	if n == nil || !n.svc.cfg.EmailNotifyOnRating {
		return
	}
	if submitter.Email == "" {
		log.Printf("Skipping rating notification: account %s has no email", submitter.ID)
		return
	}

	subject, htmlBody, textBody := n.svc.SubmissionRatedTemplate(
		submitter.DisplayName(), rater.DisplayName(), sub.Title, sub.AverageScore)
	n.svc.SendAsync([]string{submitter.Email}, subject, htmlBody, textBody)
}

// StaleRequestReminder nudges a recipient about a pending request.
func (n *Notifier) StaleRequestReminder(recipientName, recipientEmail, requesterName string, requestedAt time.Time) {
	if n == nil || !n.svc.cfg.EmailNotifyOnLinkRequest {
		return
	}
	if recipientEmail == "" {
		return
	}

	days := int(time.Since(requestedAt).Hours() / 24)
	if days < 1 {
		days = 1
	}

	subject, htmlBody, textBody := n.svc.StaleRequestTemplate(recipientName, requesterName, days)
	n.svc.SendAsync([]string{recipientEmail}, subject, htmlBody, textBody)
}
