// utils/validation.go
package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
)

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	// Trim spaces
	input = strings.TrimSpace(input)

	// HTML escape
	input = html.EscapeString(input)

	// Remove control characters
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	// Remove any potential script tags
	scriptRegex := regexp.MustCompile(`<script[^>]*>.*?</script>`)
	input = scriptRegex.ReplaceAllString(input, "")

	return input
}

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}

	return email, nil
}

// SanitizePhone sanitizes and validates a phone number
func SanitizePhone(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", errors.New("phone number is required")
	}

	// Remove all non-numeric characters except +
	phone = regexp.MustCompile(`[^\d+]`).ReplaceAllString(phone, "")

	// Ensure phone number starts with +
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	// Basic validation for international phone number
	if len(phone) < 8 || len(phone) > 15 {
		return "", errors.New("invalid phone number length")
	}

	return phone, nil
}

// NormalizePhoneDigits strips everything but digits. Lead dedup search
// compares digit sequences so "+1-555-0100" matches a "555-0100" query.
func NormalizePhoneDigits(phone string) string {
	return regexp.MustCompile(`\D`).ReplaceAllString(phone, "")
}

// SanitizeSlug validates a tenant slug: lowercase letters, digits and
// hyphens, no leading/trailing hyphen
func SanitizeSlug(slug string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	slugRegex := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	if !slugRegex.MatchString(slug) {
		return "", errors.New("slug may contain lowercase letters, digits and hyphens only")
	}
	return slug, nil
}

// SanitizePlanCode validates a plan code: uppercase letters, digits and
// underscores
func SanitizePlanCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	codeRegex := regexp.MustCompile(`^[A-Z0-9_]{2,32}$`)
	if !codeRegex.MatchString(code) {
		return "", errors.New("plan code may contain uppercase letters, digits and underscores only")
	}
	return code, nil
}
