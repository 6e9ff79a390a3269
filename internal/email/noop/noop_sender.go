package noop

import (
	"context"

	"github.com/rs/zerolog/log"

	"faxfhir/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs review notifications
// instead of sending them.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendReviewNotification(_ context.Context, to string, n port.ReviewNotification) error {
	log.Info().
		Str("to", to).
		Str("document_id", n.DocumentID).
		Str("filename", n.Filename).
		Int("score", n.Score).
		Msg("review notification suppressed (noop email sender)")
	return nil
}
