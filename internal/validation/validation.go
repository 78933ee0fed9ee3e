package validation

import (
	"net/mail"
	"strings"
)

// Score bounds for submission ratings.
const (
	MinScore = 0
	MaxScore = 5
)

// ValidateEmail checks whether the string is a plausible email address.
func ValidateEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Reject "Name <addr>" forms; we want the bare address.
	return addr.Address == email
}

// NormalizeEmail lowercases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateScore checks a rating score. Zero means "not provided" and is
// allowed; positive scores must stay within the rating scale.
func ValidateScore(score float64) (bool, string) {
	if score < MinScore {
		return false, "score cannot be negative"
	}
	if score > MaxScore {
		return false, "score cannot exceed 5"
	}
	return true, ""
}

// ValidateTitle checks a submission title.
func ValidateTitle(title string) (bool, string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return false, "title is required"
	}
	if len(title) > 200 {
		return false, "title is too long (max 200 characters)"
	}
	return true, ""
}
