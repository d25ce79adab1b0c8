// Package mailer sends submission confirmations over authenticated SMTP.
// A failed send is reported to the caller as an error but never rolls back
// the already-committed row; callers log it as a warning.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Mailer sends from a fixed identity with a fixed CC recipient.
type Mailer struct {
	host      string
	port      int
	user      string
	password  string
	fromEmail string
	fromName  string
	cc        string
}

func New(host string, port int, user, password, fromEmail, fromName, cc string) *Mailer {
	return &Mailer{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromEmail: fromEmail,
		fromName:  fromName,
		cc:        cc,
	}
}

// Enabled reports whether SMTP credentials are configured. When they are
// not, sends are skipped rather than failed.
func (m *Mailer) Enabled() bool {
	return m.user != "" && m.password != "" && m.fromEmail != ""
}

// Send delivers one HTML message (with a plain-text fallback) to the
// submitter, CC to the fixed recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.fromEmail); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	if m.cc != "" {
		if err := msg.Cc(m.cc); err != nil {
			return fmt.Errorf("cc address: %w", err)
		}
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, "This email requires an HTML-capable client.")
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.user),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	return nil
}
