// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	NotifyAdmin(subject, message string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	adminEmail  string
}

func NewEmailService(host string, port int, username, password, senderEmail, adminEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		adminEmail:  adminEmail,
	}
}

// NotifyAdmin mails the operator. Used for startup status, invalid
// environment, and upload audit alerts.
func (s *emailService) NotifyAdmin(subject, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.adminEmail)
	m.SetHeader("Subject", subject)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<pre style="white-space: pre-wrap;">%s</pre>
		</div>
	`, subject, message)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to notify admin: %v\n", err)
		return err
	}

	fmt.Printf("[MAILER] Admin notified: %s\n", subject)
	return nil
}
