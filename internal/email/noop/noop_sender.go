package noop

import (
	"context"

	"gdocs/internal/logger"
	"gdocs/internal/port"
)

type noopSender struct {
	log *logger.Logger
}

// NewNoopSender creates an EmailSender that only writes the message to the
// process log.
func NewNoopSender(log *logger.Logger) port.EmailSender {
	if log == nil {
		log = logger.Nop()
	}
	return &noopSender{log: log}
}

func (s *noopSender) SendNotification(_ context.Context, toEmail, toName, title, message string) error {
	s.log.Info().
		Str("to", toEmail).
		Str("name", toName).
		Str("title", title).
		Msg("[NOOP EMAIL] " + message)
	return nil
}
