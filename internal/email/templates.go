package email

import (
	"fmt"
	"strings"
)

// wrapHTML wraps body content in the shared email layout.
func (s *Service) wrapHTML(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: -apple-system, Segoe UI, Roboto, sans-serif; color: #2d3748; margin: 0; padding: 0; background: #f7fafc; }
.container { max-width: 560px; margin: 24px auto; background: #ffffff; border-radius: 8px; overflow: hidden; }
.header { background: #2b6cb0; color: #ffffff; padding: 20px 28px; }
.header h1 { margin: 0; font-size: 20px; }
.content { padding: 24px 28px; }
.button { display: inline-block; background: #2b6cb0; color: #ffffff; padding: 10px 22px; border-radius: 6px; text-decoration: none; margin-top: 12px; }
.footer { padding: 16px 28px; font-size: 12px; color: #718096; }
</style>
</head>
<body>
<div class="container">
<div class="header"><h1>%s</h1></div>
<div class="content">%s</div>
<div class="footer">You are receiving this because you have an account on %s.</div>
</div>
</body>
</html>`, title, body, s.cfg.SiteTitle)
}

// LinkRequestTemplate builds the email sent to the recipient of a new
// link request.
func (s *Service) LinkRequestTemplate(recipientName, requesterName string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("%s wants to connect on %s", requesterName, s.cfg.SiteTitle)

	body := fmt.Sprintf(`<p>Hi %s,</p>
<p><strong>%s</strong> sent you a link request. Once you approve it, you will see each other's submissions.</p>
<p><a class="button" href="%s/links">Review request</a></p>`,
		recipientName, requesterName, s.cfg.BaseURL)
	htmlBody = s.wrapHTML("New link request", body)

	textBody = fmt.Sprintf(`Hi %s,

%s sent you a link request on %s. Once you approve it, you will see each other's submissions.

Review it at %s/links
`, recipientName, requesterName, s.cfg.SiteTitle, s.cfg.BaseURL)

	return subject, htmlBody, textBody
}

// LinkApprovedTemplate builds the email sent to the original requester
// when their link request is approved.
func (s *Service) LinkApprovedTemplate(requesterName, approverName string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("%s approved your link request", approverName)

	body := fmt.Sprintf(`<p>Hi %s,</p>
<p><strong>%s</strong> approved your link request. You are now connected and can see each other's submissions.</p>
<p><a class="button" href="%s/submissions">View submissions</a></p>`,
		requesterName, approverName, s.cfg.BaseURL)
	htmlBody = s.wrapHTML("Link request approved", body)

	textBody = fmt.Sprintf(`Hi %s,

%s approved your link request on %s. You are now connected and can see each other's submissions.

View submissions at %s/submissions
`, requesterName, approverName, s.cfg.SiteTitle, s.cfg.BaseURL)

	return subject, htmlBody, textBody
}

// LinkConfirmationTemplate builds the email sent to the approver after they
// accept a request, confirming the new link.
func (s *Service) LinkConfirmationTemplate(approverName, requesterName string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("You are now linked with %s", requesterName)

	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>You approved the link request from <strong>%s</strong>. You can now see each other's submissions.</p>
<p><a class="button" href="%s/submissions">View submissions</a></p>`,
		approverName, requesterName, s.cfg.BaseURL)
	htmlBody = s.wrapHTML("Link confirmed", body)

	textBody = fmt.Sprintf(`Hi %s,

You approved the link request from %s on %s. You can now see each other's submissions.

View submissions at %s/submissions
`, approverName, requesterName, s.cfg.SiteTitle, s.cfg.BaseURL)

	return subject, htmlBody, textBody
}

// RatingRequestedTemplate builds the email sent to linked accounts when a
// new submission is waiting for their rating.
func (s *Service) RatingRequestedTemplate(linkedName, submitterName, title string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("%s wants your rating on %q", submitterName, truncate(title, 60))

	body := fmt.Sprintf(`<p>Hi %s,</p>
<p><strong>%s</strong> added a new submission, <strong>%s</strong>, and shared it with you.</p>
<p><a class="button" href="%s/submissions">Rate it</a></p>`,
		linkedName, submitterName, title, s.cfg.BaseURL)
	htmlBody = s.wrapHTML("Rating requested", body)

	textBody = fmt.Sprintf(`Hi %s,

%s added a new submission, %q, on %s and shared it with you.

Rate it at %s/submissions
`, linkedName, submitterName, title, s.cfg.SiteTitle, s.cfg.BaseURL)

	return subject, htmlBody, textBody
}

// SubmissionRatedTemplate builds the email sent to a submitter when a
// linked account rates their submission.
func (s *Service) SubmissionRatedTemplate(submitterName, raterName, title string, averageScore float64) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("%s rated %q", raterName, truncate(title, 60))

	body := fmt.Sprintf(`<p>Hi %s,</p>
<p><strong>%s</strong> rated your submission <strong>%s</strong>.</p>
<p>The combined score is now <strong>%.2f</strong>.</p>
<p><a class="button" href="%s/submissions">See details</a></p>`,
		submitterName, raterName, title, averageScore, s.cfg.BaseURL)
	htmlBody = s.wrapHTML("New rating", body)

	textBody = fmt.Sprintf(`Hi %s,

%s rated your submission %q on %s. The combined score is now %.2f.

See details at %s/submissions
`, submitterName, raterName, title, s.cfg.SiteTitle, averageScore, s.cfg.BaseURL)

	return subject, htmlBody, textBody
}

// StaleRequestTemplate builds the reminder email for a pending link
// request that has not been answered.
func (s *Service) StaleRequestTemplate(recipientName, requesterName string, pendingDays int) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Reminder: %s is waiting to connect", requesterName)

	body := fmt.Sprintf(`<p>Hi %s,</p>
<p><strong>%s</strong> sent you a link request %d day(s) ago and it is still pending.</p>
<p><a class="button" href="%s/links">Approve or deny</a></p>`,
		recipientName, requesterName, pendingDays, s.cfg.BaseURL)
	htmlBody = s.wrapHTML("Pending link request", body)

	textBody = fmt.Sprintf(`Hi %s,

%s sent you a link request %d day(s) ago on %s and it is still pending.

Approve or deny it at %s/links
`, recipientName, requesterName, pendingDays, s.cfg.SiteTitle, s.cfg.BaseURL)

	return subject, htmlBody, textBody
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}
