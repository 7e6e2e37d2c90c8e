package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	// SendFeedback пересылает сообщение формы обратной связи на
	// служебный ящик; Reply-To указывает на автора.
	SendFeedback(name, email, subject, message string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, feedbackTo string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
		to:     feedbackTo,
	}
}

func (s *emailService) SendFeedback(name, email, subject, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Reply-To", m.FormatAddress(email, name))
	m.SetHeader("Subject", "Обратная связь: "+subject)

	body := fmt.Sprintf(`
		<h3>Новое сообщение с формы обратной связи</h3>
		<p><strong>Имя:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Тема:</strong> %s</p>
		<p>%s</p>
	`, name, email, subject, message)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send feedback email: %w", err)
	}

	return nil
}
