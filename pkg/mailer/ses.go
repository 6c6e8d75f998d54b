package mailer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/spf13/viper"

	"media-platform/pkg/logger"
)

const sesCharset = "UTF-8"

// SESSender sends email through Amazon SES.
type SESSender struct {
	client *ses.Client
}

func NewSESSender() *SESSender {
	return &SESSender{}
}

func (s *SESSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	log := logger.Get().WithComponent("mailer")

	client, err := s.getClient(ctx)
	if err != nil {
		log.Error("Failed to initialize SES client", err, logger.Provider("ses"))
		return err
	}

	input := &ses.SendEmailInput{
		Source: aws.String(viper.GetString("EMAIL_FROM")),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String(sesCharset),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String(sesCharset),
				},
			},
		},
	}

	out, err := client.SendEmail(ctx, input)
	if err != nil {
		log.Error("Failed to send email", err, logger.Provider("ses"))
		return err
	}

	log.Info("Email sent", logger.Provider("ses"), logger.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

func (s *SESSender) getClient(ctx context.Context) (*ses.Client, error) {
	if s.client != nil {
		return s.client, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(viper.GetString("AWS_REGION")),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("AWS_ACCESS_KEY"),
			viper.GetString("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	s.client = ses.NewFromConfig(cfg)
	return s.client, nil
}
