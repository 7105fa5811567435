package mail

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/phenrril/balkon/internal/domain"
)

var ErrNotConfigured = errors.New("smtp not configured")

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends domain emails over SMTP with gomail.
type Mailer struct {
	from   string
	dialer dialer
}

// New returns a mailer; with an empty host or user every Send reports
// ErrNotConfigured.
func New(host string, port int, user, pass, from string) *Mailer {
	if from == "" {
		from = user
	}
	m := &Mailer{from: from}
	if host != "" && user != "" {
		m.dialer = gomail.NewDialer(host, port, user, pass)
	}
	return m
}

func (m *Mailer) Send(ctx context.Context, e domain.Email) error {
	if m.dialer == nil {
		log.Warn().Str("subject", e.Subject).Msg("SMTP not configured, email skipped")
		return ErrNotConfigured
	}
	if len(e.To) == 0 {
		return errors.New("email without recipient")
	}
	msg, err := m.build(e)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (m *Mailer) build(e domain.Email) (*gomail.Message, error) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", e.To...)
	msg.SetHeader("Subject", e.Subject)
	switch {
	case e.Text != "" && e.HTML != "":
		msg.SetBody("text/plain", e.Text)
		msg.AddAlternative("text/html", e.HTML)
	case e.HTML != "":
		msg.SetBody("text/html", e.HTML)
	default:
		msg.SetBody("text/plain", e.Text)
	}
	for _, a := range e.Attachments {
		content, err := NormalizeAttachment(a.Content)
		if err != nil {
			return nil, fmt.Errorf("attachment %s: %w", a.Filename, err)
		}
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		msg.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {ct}}),
		)
	}
	return msg, nil
}
