package push

import (
	"context"
	"fmt"
	"os"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender delivers notifications as SMS messages; the stored device
// token is the recipient's phone number.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSenderFromEnv builds a sender from TWILIO_ACCOUNT_SID,
// TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER. Returns nil when the account SID
// is unset so callers can fall back to Noop.
func NewTwilioSenderFromEnv() *TwilioSender {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	if sid == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: os.Getenv("TWILIO_AUTH_TOKEN"),
	})
	return &TwilioSender{
		client: client,
		from:   os.Getenv("TWILIO_FROM_NUMBER"),
	}
}

func (s *TwilioSender) Send(ctx context.Context, deviceTokens []string, title, body string) error {
	message := fmt.Sprintf("%s: %s", title, body)
	for _, to := range deviceTokens {
		params := &openapi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(s.from)
		params.SetBody(message)
		if _, err := s.client.Api.CreateMessage(params); err != nil {
			return fmt.Errorf("send to %s: %w", to, err)
		}
	}
	return nil
}
