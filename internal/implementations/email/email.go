package email

import (
	"context"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/logging"
	"happystack/internal/core/domain/notifier"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charset = "UTF-8"

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SES delivers plain text messages through Amazon SES.
type SES struct {
	log    logging.Logger
	client sesAPI
	// This address must be verified with Amazon SES.
	sender string
}

func NewSES(log logging.Logger, awsConfig aws.Config, sender string) *SES {
	return newSES(log, ses.NewFromConfig(awsConfig), sender)
}

func newSES(log logging.Logger, client sesAPI, sender string) *SES {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if client == nil {
		panic(e.NewNilArgumentError("client"))
	}
	if sender == "" {
		panic("sender must not be empty")
	}
	return &SES{log: log, client: client, sender: sender}
}

func (s *SES) Send(ctx context.Context, msg notifier.Message) error {
	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{string(msg.To)},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charset)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String(charset)},
			},
		},
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "Email has been sent.", logging.Entry("messageID", aws.ToString(out.MessageId)))
	return nil
}
