// Package push delivers notification text to registered device targets.
package push

import "context"

// Sender fans a single message out to a list of device tokens.
type Sender interface {
	Send(ctx context.Context, deviceTokens []string, title, body string) error
}

// Noop discards every message. Used when no push credentials are configured.
type Noop struct{}

func (Noop) Send(ctx context.Context, deviceTokens []string, title, body string) error {
	return nil
}
