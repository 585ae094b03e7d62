package email

import (
	"context"
	"log/slog"
)

// Sender is a stand-in delivery channel that records outgoing mail in the
// log. Swapping in an SMTP or provider-backed implementation only requires
// satisfying application.Sender.
type Sender struct {
	log  *slog.Logger
	from string
}

func NewSender(log *slog.Logger, from string) *Sender {
	return &Sender{log: log, from: from}
}

func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	s.log.Info("email sent", "from", s.from, "to", to, "subject", subject, "bytes", len(body))
	return nil
}
