package mailer

import (
	"fmt"
	"net/smtp"

	"glam-commerce/pkg/utils"

	"go.uber.org/zap"
)

// Notifier is the fire-and-forget email collaborator consumed by the
// workflows. Failures never propagate into request handling.
type Notifier interface {
	Send(to, subject, body string)
}

type smtpNotifier struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func NewSMTPNotifier(config utils.EmailConfig, log *zap.Logger) Notifier {
	return &smtpNotifier{
		config: config,
		log:    log.With(zap.String("component", "mailer")),
	}
}

func (m *smtpNotifier) Send(to, subject, body string) {
	// Delivery happens off the request path.
	go func() {
		addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
		msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
			m.config.From, to, subject, body))

		var auth smtp.Auth
		if m.config.User != "" {
			auth = smtp.PlainAuth("", m.config.User, m.config.Password, m.config.Host)
		}

		if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, msg); err != nil {
			m.log.Error("Failed to send email",
				zap.Error(err),
				zap.String("to", to),
				zap.String("subject", subject),
			)
			return
		}

		m.log.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	}()
}
