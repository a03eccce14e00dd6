package email

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/vitavet/vitavet-api/internal/model"
)

// Sender delivers appointment reminder emails.
type Sender interface {
	SendReminder(candidate *model.ReminderCandidate) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) SendReminder(candidate *model.ReminderCandidate) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", candidate.OwnerEmail)
	m.SetHeader("Subject", fmt.Sprintf("Reminder: appointment for %s", candidate.AnimalName))
	m.SetBody("text/plain", reminderBody(candidate))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	return nil
}

func reminderBody(c *model.ReminderCandidate) string {
	return fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder that %s has an appointment at %s on %s.\n\nSee you soon,\n%s",
		c.OwnerName,
		c.AnimalName,
		c.ClinicName,
		c.StartsAt.Format(time.RFC1123),
		c.ClinicName,
	)
}
