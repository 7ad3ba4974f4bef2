// Package email delivers transactional mail (OTP codes, booking
// confirmations).  Delivery is best-effort: callers log failures and carry
// on.
package email

import (
	"crypto/tls"
	"log"

	mail "github.com/go-mail/mail"
)

// Sender delivers one message.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends plain-text mail over SMTP.
type SMTPSender struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

func NewSMTPSender(host string, port int, from, user, pass string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, From: from, User: user, Pass: pass}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{ServerName: s.Host}
	return d.DialAndSend(m)
}

// LogSender is the dev fallback used when SMTP is not configured: it writes
// the message to the log instead of sending it.
type LogSender struct{}

func (LogSender) Send(to, subject, body string) error {
	log.Printf("mail (not sent): to=%s subject=%q body=%q", to, subject, body)
	return nil
}
