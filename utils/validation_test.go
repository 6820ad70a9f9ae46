package utils

import "testing"

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain digits", "15550100", "+15550100", false},
		{"with plus", "+15550100", "+15550100", false},
		{"with separators", "+1-555-0100", "+15550100", false},
		{"with spaces and parens", "(961) 3 123 456", "+9613123456", false},
		{"empty", "", "", true},
		{"too short", "123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePhone(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizePhone(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhoneDigits(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+1-555-0100", "15550100"},
		{"555 0100", "5550100"},
		{"(961) 3 123456", "9613123456"},
		{"no digits", ""},
	}

	for _, tt := range tests {
		if got := NormalizePhoneDigits(tt.input); got != tt.want {
			t.Errorf("NormalizePhoneDigits(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeEmail(t *testing.T) {
	got, err := SanitizeEmail("  Agent@TripNest.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "agent@tripnest.com" {
		t.Errorf("SanitizeEmail() = %q, want %q", got, "agent@tripnest.com")
	}

	for _, bad := range []string{"", "not-an-email", "a@b"} {
		if _, err := SanitizeEmail(bad); err == nil {
			t.Errorf("SanitizeEmail(%q) expected error, got nil", bad)
		}
	}
}

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"sunset-tours", "sunset-tours", false},
		{"Sunset-Tours", "sunset-tours", false},
		{"agency42", "agency42", false},
		{"-leading", "", true},
		{"trailing-", "", true},
		{"two--hyphens", "", true},
		{"under_score", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := SanitizeSlug(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("SanitizeSlug(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("SanitizeSlug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizePlanCode(t *testing.T) {
	got, err := SanitizePlanCode("pro_plus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "PRO_PLUS" {
		t.Errorf("SanitizePlanCode() = %q, want %q", got, "PRO_PLUS")
	}

	if _, err := SanitizePlanCode("bad code!"); err == nil {
		t.Error("SanitizePlanCode with invalid characters expected error, got nil")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello  "); got != "hello" {
		t.Errorf("SanitizeInput trim = %q", got)
	}
	got := SanitizeInput("<script>alert(1)</script>safe")
	if got != "&lt;script&gt;alert(1)&lt;/script&gt;safe" {
		t.Errorf("SanitizeInput escape = %q", got)
	}
}
