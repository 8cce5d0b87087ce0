// Package notify delivers fire-and-forget owner notifications on listing
// approval and rejection.
package notify

import (
	"context"
	"log"
)

// LogNotifier writes notifications to the service log. It is the fallback
// when no message broker is configured.
type LogNotifier struct {
	logger *log.Logger
}

func NewLog(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) ListingApproved(_ context.Context, ownerID, title string) error {
	n.logger.Printf("notify %s: listing %q approved", ownerID, title)
	return nil
}

func (n *LogNotifier) ListingRejected(_ context.Context, ownerID, title, reason string) error {
	n.logger.Printf("notify %s: listing %q rejected: %s", ownerID, title, reason)
	return nil
}
