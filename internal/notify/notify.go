// Package notify delivers moderation alerts. Notifiers never surface
// transport errors to callers: a failed or unconfigured channel reports
// false and logs, nothing more.
package notify

import "context"

type Notifier interface {
	// Channel names the delivery channel for logging and metrics.
	Channel() string
	// Notify attempts delivery and reports whether it succeeded.
	Notify(ctx context.Context, recipient, message string) bool
}
