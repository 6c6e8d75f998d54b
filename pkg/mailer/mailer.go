// Package mailer is the outbound email collaborator. The core only needs a
// success/failure signal; transport details stay behind EmailSender.
package mailer

import (
	"context"

	"github.com/spf13/viper"
)

// EmailSender dispatches a single HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// FromConfig picks the provider named by MAIL_PROVIDER ("ses" or "resend",
// defaulting to resend).
func FromConfig() EmailSender {
	switch viper.GetString("MAIL_PROVIDER") {
	case "ses":
		return NewSESSender()
	default:
		return NewResendSender()
	}
}
