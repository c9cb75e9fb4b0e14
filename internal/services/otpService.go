package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"buildestate/internal/config"
	"buildestate/internal/metrics"
	"buildestate/internal/models"
	"buildestate/internal/repositories"
	"buildestate/internal/utils"
)

const DefaultCity = "Unknown"

var validate = validator.New()

// OtpService owns the OTP challenge lifecycle: issuing codes for the
// registration and login flows and consuming them on verification.
type OtpService interface {
	SendRegisterOTP(ctx context.Context, mobile string) error
	VerifyRegisterOTP(ctx context.Context, req *models.VerifyRegisterOTPRequest) (*models.AuthResult, error)
	SendLoginOTP(ctx context.Context, mobile string) error
	VerifyLoginOTP(ctx context.Context, mobile, otp string) (*models.AuthResult, error)
}

type otpService struct {
	userRepo  repositories.UserRepository
	sms       SmsService
	auth      AuthService
	generate  utils.CodeGenerator
	otpTTL    time.Duration
	otpLength int
}

func NewOtpService(userRepo repositories.UserRepository, sms SmsService, auth AuthService, cfg *config.Config) OtpService {
	generate := utils.CodeGenerator(utils.GenerateSecureOTP)
	if cfg.OTPFixedCode != "" {
		// Sandbox escape hatch. Never the default: a predictable code
		// defeats the whole challenge.
		log.Warn().Msg("OTP_FIXED_CODE is set, all OTP challenges use a constant code")
		generate = utils.FixedCodeGenerator(cfg.OTPFixedCode)
	}
	return &otpService{
		userRepo:  userRepo,
		sms:       sms,
		auth:      auth,
		generate:  generate,
		otpTTL:    cfg.OTPTTL,
		otpLength: cfg.OTPLength,
	}
}

// SendRegisterOTP creates a provisional identity carrying a fresh challenge
// and texts the code. Creation is a single insert guarded by the unique
// mobile index, so two concurrent registrations cannot both win.
func (s *otpService) SendRegisterOTP(ctx context.Context, mobile string) error {
	if err := validate.Var(mobile, "required,e164"); err != nil {
		log.Warn().Str("mobile", mobile).Msg("Invalid mobile number for registration OTP")
		return ErrInvalidMobile
	}

	code, err := s.generate(s.otpLength)
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	expiresAt := time.Now().Add(s.otpTTL)

	user := &models.User{
		Mobile:     mobile,
		OTP:        code,
		OTPExpires: &expiresAt,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn().Str("mobile", mobile).Msg("Mobile already registered")
			return ErrMobileRegistered
		}
		return err
	}
	log.Info().Str("mobile", mobile).Time("expires_at", expiresAt).Msg("Provisional user created with OTP challenge")

	// The provisional record stays even when delivery fails; the sweeper
	// reclaims it once the challenge lapses.
	if _, err := s.sms.Send(ctx, mobile, OTPMessage(code)); err != nil {
		metrics.OTPSentTotal.WithLabelValues("register", "delivery_failed").Inc()
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	metrics.OTPSentTotal.WithLabelValues("register", "success").Inc()
	return nil
}

// VerifyRegisterOTP consumes the challenge and completes registration: the
// name and location land on the identity in the same atomic update that
// clears the code.
func (s *otpService) VerifyRegisterOTP(ctx context.Context, req *models.VerifyRegisterOTPRequest) (*models.AuthResult, error) {
	if req.Name == "" {
		log.Warn().Str("mobile", req.Mobile).Msg("Name missing for registration verification")
		return nil, ErrNameRequired
	}

	city := req.City
	if city == "" {
		city = DefaultCity
	}
	set := bson.M{
		"name": req.Name,
		"location": models.Location{
			City: city,
			Coordinates: models.Coordinates{
				Latitude:  req.Latitude,
				Longitude: req.Longitude,
			},
		},
	}

	user, err := s.userRepo.ConsumeChallenge(ctx, req.Mobile, req.OTP, time.Now(), set)
	if err != nil {
		return nil, err
	}
	if user == nil {
		metrics.OTPVerifiedTotal.WithLabelValues("register", "failed").Inc()
		log.Warn().Str("mobile", req.Mobile).Msg("Invalid or expired OTP for registration")
		return nil, ErrInvalidOrExpiredOTP
	}

	token, err := s.auth.CreateUserToken(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Could not generate token after registration")
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	metrics.OTPVerifiedTotal.WithLabelValues("register", "success").Inc()
	metrics.NewUsersTotal.Inc()
	log.Info().Str("user_id", user.ID.Hex()).Str("mobile", user.Mobile).Msg("User registered successfully")
	return &models.AuthResult{Token: token, User: user.PublicProfile()}, nil
}

// SendLoginOTP refreshes the challenge on an existing identity and texts the
// code. Name and location are untouched.
func (s *otpService) SendLoginOTP(ctx context.Context, mobile string) error {
	if err := validate.Var(mobile, "required,e164"); err != nil {
		log.Warn().Str("mobile", mobile).Msg("Invalid mobile number for login OTP")
		return ErrInvalidMobile
	}

	code, err := s.generate(s.otpLength)
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	expiresAt := time.Now().Add(s.otpTTL)

	matched, err := s.userRepo.SetChallenge(ctx, mobile, code, expiresAt)
	if err != nil {
		return err
	}
	if !matched {
		log.Warn().Str("mobile", mobile).Msg("Mobile not registered")
		return ErrMobileNotRegistered
	}
	log.Info().Str("mobile", mobile).Time("expires_at", expiresAt).Msg("Login OTP challenge stored")

	if _, err := s.sms.Send(ctx, mobile, OTPMessage(code)); err != nil {
		metrics.OTPSentTotal.WithLabelValues("login", "delivery_failed").Inc()
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	metrics.OTPSentTotal.WithLabelValues("login", "success").Inc()
	return nil
}

// VerifyLoginOTP consumes the challenge without touching profile fields.
func (s *otpService) VerifyLoginOTP(ctx context.Context, mobile, otp string) (*models.AuthResult, error) {
	user, err := s.userRepo.ConsumeChallenge(ctx, mobile, otp, time.Now(), nil)
	if err != nil {
		return nil, err
	}
	if user == nil {
		metrics.OTPVerifiedTotal.WithLabelValues("login", "failed").Inc()
		log.Warn().Str("mobile", mobile).Msg("Invalid or expired OTP for login")
		return nil, ErrInvalidOrExpiredOTP
	}

	token, err := s.auth.CreateUserToken(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Could not generate token for login")
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	metrics.OTPVerifiedTotal.WithLabelValues("login", "success").Inc()
	log.Info().Str("user_id", user.ID.Hex()).Str("mobile", user.Mobile).Msg("User logged in successfully")
	return &models.AuthResult{Token: token, User: user.PublicProfile()}, nil
}
