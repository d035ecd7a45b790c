package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/teamauth/internal/auth/mail"
	"github.com/aussiebroadwan/teamauth/pkg/slogx"
)

// notifier wraps a mail.Sender with the best-effort delivery policy:
// failures are logged and collected as warnings, never returned.
type notifier struct {
	sender   mail.Sender
	warnings []string
}

func newNotifier(sender mail.Sender) *notifier {
	return &notifier{sender: sender}
}

func (n *notifier) send(ctx context.Context, msg mail.Message) {
	if n.sender == nil {
		return
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		slogx.FromContext(ctx).Warn("email delivery failed",
			slog.String("template", msg.Template),
			slog.String("to", msg.To),
			slog.Any("error", err),
		)
		n.warnings = append(n.warnings, fmt.Sprintf("%s: %s", ErrEmailDelivery, msg.Template))
	}
}

func (n *notifier) Warnings() []string { return n.warnings }
