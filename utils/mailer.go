// utils/mailer.go
package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

func smtpDialer() (*gomail.Dialer, string, error) {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = smtpUser
	}

	if smtpHost == "" || smtpUser == "" {
		return nil, "", fmt.Errorf("SMTP is not configured")
	}

	smtpPort := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			smtpPort = port
		}
	}

	return gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass), from, nil
}

// SendPasswordResetEmail mails a reset link containing the one-time token
func SendPasswordResetEmail(email, name, token string) error {
	d, from, err := smtpDialer()
	if err != nil {
		return err
	}

	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", baseURL, token)

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Reset your password")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>Click the link below to reset your password. The link expires in 15 minutes.</p><p><a href=\"%s\">Reset password</a></p>",
		name, resetLink,
	))

	return d.DialAndSend(m)
}

// SendAgentInviteEmail notifies a newly created agent of their account
func SendAgentInviteEmail(email, name, tenantName string) error {
	d, from, err := smtpDialer()
	if err != nil {
		return err
	}

	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("You have been added to %s", tenantName))
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>An account has been created for you at %s. Sign in at <a href=\"%s/login\">%s/login</a> with the password you were given.</p>",
		name, tenantName, baseURL, baseURL,
	))

	return d.DialAndSend(m)
}
