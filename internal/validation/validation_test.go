package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"simple address", "b@x.com", true},
		{"subdomain", "user@mail.example.org", true},
		{"plus tag", "user+tag@example.com", true},
		{"empty", "", false},
		{"no at sign", "userexample.com", false},
		{"display name form", "User <user@example.com>", false},
		{"spaces", "user @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateEmail(tt.email); got != tt.valid {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.valid)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  B@X.Com "); got != "b@x.com" {
		t.Errorf("NormalizeEmail() = %q, want b@x.com", got)
	}
}

func TestValidateScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		valid bool
	}{
		{"zero means unset", 0, true},
		{"mid scale", 3.5, true},
		{"max", 5, true},
		{"negative", -1, false},
		{"over max", 5.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := ValidateScore(tt.score); got != tt.valid {
				t.Errorf("ValidateScore(%v) = %v, want %v", tt.score, got, tt.valid)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	if ok, _ := ValidateTitle("Beach week"); !ok {
		t.Error("plain title should be valid")
	}
	if ok, _ := ValidateTitle("   "); ok {
		t.Error("whitespace-only title should be invalid")
	}
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	if ok, _ := ValidateTitle(string(long)); ok {
		t.Error("overlong title should be invalid")
	}
}
