package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"buildestate/internal/config"
)

// SmsService is the delivery capability: send a text to a phone number and
// get back a delivery id. Failures surface to the caller untouched; the
// issuer decides what a failed send means.
type SmsService interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// OTPMessage renders the SMS body for a challenge code.
func OTPMessage(code string) string {
	return fmt.Sprintf("Your BuildEstate verification code is %s. It expires in 5 minutes.", code)
}

// NewSmsService returns the Twilio sender when credentials are configured and
// a log-only sender otherwise, so local environments work without an account.
func NewSmsService(cfg *config.Config) SmsService {
	if cfg.TwilioEnabled() {
		return NewTwilioSmsService(cfg)
	}
	log.Warn().Msg("Twilio credentials not configured, SMS delivery is log-only")
	return NewLogSmsService()
}

type twilioSmsService struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSmsService(cfg *config.Config) SmsService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &twilioSmsService{client: client, from: cfg.TwilioPhoneNumber}
}

func (s *twilioSmsService) Send(ctx context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Error().Err(err).Str("to", to).Msg("Failed to send SMS")
		return "", fmt.Errorf("failed to send SMS: %w", err)
	}

	var sid string
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	log.Info().Str("to", to).Str("sid", sid).Msg("SMS sent")
	return sid, nil
}

// logSmsService writes the message to the log instead of delivering it.
type logSmsService struct{}

func NewLogSmsService() SmsService {
	return &logSmsService{}
}

func (s *logSmsService) Send(_ context.Context, to, body string) (string, error) {
	deliveryID := uuid.NewString()
	log.Info().Str("to", to).Str("delivery_id", deliveryID).Str("body", body).Msg("SMS (log-only)")
	return deliveryID, nil
}
