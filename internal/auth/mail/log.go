package mail

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/teamauth/pkg/slogx"
)

// LogSender writes messages to the request logger instead of delivering
// them. Used when no SMTP host is configured.
type LogSender struct {
	renderer *Renderer
}

func NewLogSender(renderer *Renderer) *LogSender {
	return &LogSender{renderer: renderer}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if _, err := s.renderer.Render(msg); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("email not delivered, no smtp configured",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("template", msg.Template),
		slog.Any("data", msg.Data),
	)
	return nil
}
