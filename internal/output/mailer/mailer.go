// Package mailer delivers the rendered digest to subscribers over
// SMTP-SSL as a multipart text/html message.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/dailybrief/daily-brief-bot/internal/platform/observability"
	"github.com/dailybrief/daily-brief-bot/internal/platform/worker"
)

const (
	sendAttempts = 3
	sendBackoff  = 2 * time.Second

	statusSent   = "sent"
	statusFailed = "failed"
)

// Message is one rendered digest, ready to send.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Result reports the delivery outcome for a single recipient.
type Result struct {
	Recipient string
	Err       error
}

type Sender struct {
	host       string
	port       int
	from       string
	password   string
	recipients []string
	logger     *zerolog.Logger
}

func New(host string, port int, from, password string, recipients []string, logger *zerolog.Logger) *Sender {
	return &Sender{
		host:       host,
		port:       port,
		from:       from,
		password:   password,
		recipients: recipients,
		logger:     logger,
	}
}

// Send delivers the message to every configured subscriber. One failing
// recipient does not block the rest; the caller gets a per-recipient
// result.
func (s *Sender) Send(ctx context.Context, msg Message) []Result {
	results := make([]Result, 0, len(s.recipients))

	for _, recipient := range s.recipients {
		err := s.sendOne(ctx, msg, recipient)
		if err != nil {
			observability.DigestsSent.WithLabelValues(statusFailed).Inc()

			s.logger.Error().Err(err).Str("recipient", recipient).Msg("digest delivery failed")
		} else {
			observability.DigestsSent.WithLabelValues(statusSent).Inc()

			s.logger.Info().Str("recipient", recipient).Msg("digest delivered")
		}

		results = append(results, Result{Recipient: recipient, Err: err})
	}

	return results
}

func (s *Sender) sendOne(ctx context.Context, msg Message, recipient string) error {
	m, err := s.buildMessage(msg, recipient)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.from),
		mail.WithPassword(s.password),
		mail.WithSSL(),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	var lastErr error

	for attempt := 1; attempt <= sendAttempts; attempt++ {
		lastErr = client.DialAndSendWithContext(ctx, m)
		if lastErr == nil {
			return nil
		}

		s.logger.Warn().
			Err(lastErr).
			Str("recipient", recipient).
			Int("attempt", attempt).
			Msg("smtp send failed")

		if attempt < sendAttempts {
			if err := worker.Wait(ctx, time.Duration(attempt)*sendBackoff); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("send to %s after %d attempts: %w", recipient, sendAttempts, lastErr)
}

func (s *Sender) buildMessage(msg Message, recipient string) (*mail.Msg, error) {
	m := mail.NewMsg()

	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}

	if err := m.To(recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	return m, nil
}
