package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendAlertEmail delivers a plain-text operational alert through the
// configured SMTP relay. Used by the inventory check for low stock notices.
func SendAlertEmail(emailTo, subject, body string) error {
	from := os.Getenv("FROM_EMAIL")
	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, emailTo, subject, body,
	)

	auth := smtp.PlainAuth(
		"",
		from,
		os.Getenv("FROM_EMAIL_PASSWORD"),
		os.Getenv("FROM_EMAIL_SMTP"),
	)

	if err := smtp.SendMail(os.Getenv("SMTP_ADDRESS"), auth, from, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
