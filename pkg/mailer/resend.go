package mailer

import (
	"context"

	"github.com/resend/resend-go/v2"
	"github.com/spf13/viper"

	"media-platform/pkg/logger"
)

// ResendSender sends email through the Resend API.
type ResendSender struct{}

func NewResendSender() *ResendSender {
	return &ResendSender{}
}

func (s *ResendSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	log := logger.Get().WithComponent("mailer")

	params := &resend.SendEmailRequest{
		From:    viper.GetString("EMAIL_FROM"),
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}

	client := resend.NewClient(viper.GetString("RESEND_API"))

	sent, err := client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Error("Failed to send email", err, logger.Provider("resend"))
		return err
	}

	log.Info("Email sent", logger.Provider("resend"), logger.String("message_id", sent.Id))
	return nil
}
