package port

import "context"

// ReviewNotification is sent when a processed document is flagged for
// manual review.
type ReviewNotification struct {
	DocumentID string
	Filename   string
	Score      int
	Comments   []string
}

// EmailSender delivers review notifications. A noop implementation is used
// when no provider is configured.
type EmailSender interface {
	SendReviewNotification(ctx context.Context, to string, n ReviewNotification) error
}
