package notifier

import (
	"context"
	"errors"
	"time"

	"newsagent/internal/runlog"
	"newsagent/models"
)

// Service builds and sends the digest for one cycle's accepted items.
type Service struct {
	mailer    Mailer
	recipient string
	rl        *runlog.Log
}

func NewService(mailer Mailer, recipient string, rl *runlog.Log) *Service {
	return &Service{mailer: mailer, recipient: recipient, rl: rl}
}

// Notify renders the digest and submits it to the configured recipient.
// The orchestrator guards against empty input; calling with zero items
// is a caller bug and returns an error without sending.
func (s *Service) Notify(ctx context.Context, items []models.NewsItem) error {
	if len(items) == 0 {
		return errors.New("notify called with no items")
	}
	subject, body := BuildDigest(items, time.Now())
	if err := s.mailer.Send(ctx, subject, body); err != nil {
		return &NotifyError{Err: err}
	}
	s.rl.Success("Sent digest with %d items to %s", len(items), s.recipient)
	return nil
}
