// Package mailer delivers one-time verification codes by email. Delivery is
// best-effort: a mail outage must never block registration or login, so every
// failure is logged and swallowed here.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"gramly/internal/middleware"
)

// Sender dispatches a one-time code to a recipient.
type Sender interface {
	SendCode(ctx context.Context, to string, code int, name string)
}

// SMTPSender sends OTP mail through a plain SMTP relay.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPSender builds a sender for host:port. user may be empty for
// unauthenticated relays (local dev mailcatchers).
func NewSMTPSender(host, port, user, pass, from string) *SMTPSender {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &SMTPSender{
		addr: host + ":" + port,
		auth: auth,
		from: from,
	}
}

// SendCode dispatches the code. Errors are counted and logged, never returned.
func (s *SMTPSender) SendCode(ctx context.Context, to string, code int, name string) {
	body := fmt.Sprintf(
		"From: Gramly <%s>\r\nTo: %s\r\nSubject: Verify your email\r\n\r\nHi %s,\r\n\r\nYour verification code is %d.\r\n",
		s.from, to, name, code,
	)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(body)); err != nil {
		middleware.MailDeliveries.WithLabelValues("error").Inc()
		middleware.Logger.WarnContext(ctx, "otp mail delivery failed",
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
		return
	}
	middleware.MailDeliveries.WithLabelValues("ok").Inc()
	middleware.Logger.InfoContext(ctx, "otp mail sent", slog.String("to", to))
}

// LogSender writes the code to the log instead of sending mail; used in
// development and tests.
type LogSender struct{}

// SendCode logs the code.
func (LogSender) SendCode(ctx context.Context, to string, code int, name string) {
	middleware.Logger.InfoContext(ctx, "otp issued",
		slog.String("to", to),
		slog.Int("code", code),
	)
}
