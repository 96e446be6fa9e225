package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendResetCodeEmail emails a password reset code to an expert portal user.
func SendResetCodeEmail(email, code string) error {
	fromEmail := os.Getenv("SMTP_USER")

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Password Reset Code")
	m.SetBody("text/plain", "Your password reset code is: "+code)

	return dialAndSend(m)
}

// SendFollowupEmail emails a copy of the remeasurement reminder to a
// guardian. Callers only invoke this when a guardian email is on file.
func SendFollowupEmail(email, childName, dueDate string) error {
	fromEmail := os.Getenv("SMTP_USER")

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Jadwal Pengukuran Ulang")
	m.SetBody("text/plain", fmt.Sprintf(
		"Saatnya melakukan pengukuran ulang pertumbuhan %s pada %s. Jangan lupa datang ke Posyandu terdekat.",
		childName, dueDate))

	return dialAndSend(m)
}

func dialAndSend(m *gomail.Message) error {
	host := os.Getenv("SMTP_HOST")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")

	d := gomail.NewDialer(host, port, user, pass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}
	return nil
}
