package auth

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

func SendVerificationEmail(to string, token string) error {
	from := os.Getenv("SMTP_FROM")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")

	link := fmt.Sprintf("%s/verify?token=%s", os.Getenv("API_URL"), token)

	if host == "" {
		// No SMTP configured (local dev): log the link instead of failing
		// the registration.
		log.Println("SMTP not configured, verification link:", link)
		return nil
	}

	auth := smtp.PlainAuth("", from, password, host)

	subject := "Verify Your Recruit-IQ Account"
	body := fmt.Sprintf("Click the following link to verify your account:\n\n%s", link)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	err := smtp.SendMail(host+":"+port, auth, from, []string{to}, message)
	if err != nil {
		log.Println("SMTP error:", err)
	}
	return err
}
