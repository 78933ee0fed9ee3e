package email

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pvestal/vacavibes/internal/config"
	"github.com/pvestal/vacavibes/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:                   "https://vibes.example.com",
		SiteTitle:                 "VacaVibes",
		SMTPHost:                  "smtp.example.com",
		SMTPPort:                  587,
		SMTPFrom:                  "noreply@example.com",
		SMTPFromName:              "VacaVibes",
		SMTPTLS:                   "starttls",
		EmailNotifyOnLinkRequest:  true,
		EmailNotifyOnLinkApproval: true,
		EmailNotifyOnRating:       true,
	}
}

func TestServiceDisabledWithoutSMTP(t *testing.T) {
	cfg := testConfig()
	cfg.SMTPHost = ""

	svc := NewService(cfg)
	if svc.IsEnabled() {
		t.Error("expected service to be disabled without SMTP host")
	}
	if err := svc.SendEmail([]string{"a@example.com"}, "subject", "<p>hi</p>", "hi"); err != nil {
		t.Errorf("disabled send should be a no-op, got: %v", err)
	}
}

func TestBuildMessage(t *testing.T) {
	svc := NewService(testConfig())

	msg := svc.buildMessage([]string{"a@example.com", "b@example.com"}, "Hello", "<p>html part</p>", "text part")

	for _, want := range []string{
		"From: VacaVibes <noreply@example.com>",
		"To: a@example.com, b@example.com",
		"Subject: Hello",
		"multipart/alternative",
		"text/plain",
		"text/html",
		"html part",
		"text part",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestLinkRequestTemplate(t *testing.T) {
	svc := NewService(testConfig())

	subject, htmlBody, textBody := svc.LinkRequestTemplate("Alice", "Bob")
	if !strings.Contains(subject, "Bob") {
		t.Errorf("subject should name the requester, got %q", subject)
	}
	if !strings.Contains(htmlBody, "Alice") || !strings.Contains(htmlBody, "Bob") {
		t.Error("html body should name both parties")
	}
	if !strings.Contains(htmlBody, "https://vibes.example.com/links") {
		t.Error("html body should link to the review page")
	}
	if !strings.Contains(textBody, "Bob sent you a link request") {
		t.Errorf("unexpected text body: %q", textBody)
	}
}

func TestSubmissionRatedTemplate(t *testing.T) {
	svc := NewService(testConfig())

	subject, htmlBody, _ := svc.SubmissionRatedTemplate("Alice", "Bob", "Beach week in Lisbon", 4.5)
	if !strings.Contains(subject, "Beach week in Lisbon") {
		t.Errorf("subject should include the title, got %q", subject)
	}
	if !strings.Contains(htmlBody, "4.50") {
		t.Error("html body should include the average score")
	}
}

func TestNotifierHonorsToggles(t *testing.T) {
	cfg := testConfig()
	cfg.EmailNotifyOnLinkRequest = false

	svc := NewService(cfg)
	sent := 0
	svc.send = func(to []string, msg string) error {
		sent++
		return nil
	}

	n := NewNotifier(svc)
	alice := &models.Account{Name: "Alice", Email: "alice@example.com"}
	bob := &models.Account{Name: "Bob", Email: "bob@example.com"}

	n.LinkRequested(alice, bob)
	if sent != 0 {
		t.Error("link request notification should be suppressed by the toggle")
	}
}

func TestNotifierSkipsAccountsWithoutEmail(t *testing.T) {
	svc := NewService(testConfig())
	sent := 0
	svc.send = func(to []string, msg string) error {
		sent++
		return nil
	}

	n := NewNotifier(svc)
	ghost := &models.Account{Name: "Ghost"}
	wraith := &models.Account{Name: "Wraith"}

	n.LinkRequested(ghost, wraith)
	n.LinkApproved(ghost, wraith)
	if sent != 0 {
		t.Error("notifications to accounts without email should be skipped")
	}
}

func TestRatingRequestedFanOut(t *testing.T) {
	svc := NewService(testConfig())

	var mu sync.Mutex
	var recipients []string
	done := make(chan struct{}, 8)
	svc.send = func(to []string, msg string) error {
		mu.Lock()
		recipients = append(recipients, to...)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	n := NewNotifier(svc)
	alice := &models.Account{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"}
	linked := []models.Account{
		{ID: uuid.New(), Name: "Bob", Email: "bob@example.com"},
		{ID: alice.ID, Name: "Alice", Email: "alice@example.com"}, // submitter, skipped
		{ID: uuid.New(), Name: "Ghost"},                           // no email, skipped
	}
	sub := &models.Submission{Title: "Road trip"}

	n.RatingRequested(linked, alice, sub)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("no email sent")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(recipients) != 1 || recipients[0] != "bob@example.com" {
		t.Errorf("recipients = %v, want only bob@example.com", recipients)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 60); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	long := strings.Repeat("a", 80)
	got := truncate(long, 60)
	if len(got) != 60 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate(long) = %q (len %d)", got, len(got))
	}
}
