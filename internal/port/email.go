package port

import "context"

// EmailSender mirrors targeted notifications to the recipient's mailbox.
type EmailSender interface {
	SendNotification(ctx context.Context, toEmail, toName, title, message string) error
}
