package services

import (
	"crypto/subtle"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"buildestate/internal/config"
	"buildestate/internal/metrics"
	"buildestate/internal/utils"
)

// AuthService mints bearer tokens and checks the operator credentials. Both
// paths are stateless; the identity store is never consulted here.
type AuthService interface {
	CreateUserToken(id primitive.ObjectID) (string, error)
	AdminLogin(email, password string) (string, error)
}

type authService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) AuthService {
	if len(cfg.JWTSecret) < 32 {
		log.Warn().Msg("JWT_SECRET is shorter than 32 bytes")
	}
	return &authService{cfg: cfg}
}

// CreateUserToken mints the long-lived session token bound to an identity id.
func (s *authService) CreateUserToken(id primitive.ObjectID) (string, error) {
	return utils.GenerateUserToken([]byte(s.cfg.JWTSecret), id, s.cfg.UserTokenTTL)
}

// AdminLogin checks the supplied pair against the two configured secrets and
// mints a short-lived operator token on match. The token carries the email
// and no identity id, so it never resolves to a stored user.
func (s *authService) AdminLogin(email, password string) (string, error) {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		log.Error().Msg("Admin credentials are not configured")
		return "", ErrInvalidCredentials
	}

	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.AdminEmail))
	passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword))
	if emailMatch&passwordMatch != 1 {
		metrics.AdminLoginAttemptsTotal.WithLabelValues("failed").Inc()
		log.Warn().Str("email", email).Msg("Invalid admin credentials")
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateAdminToken([]byte(s.cfg.JWTSecret), email, s.cfg.AdminTokenTTL)
	if err != nil {
		return "", fmt.Errorf("could not generate admin token: %w", err)
	}

	metrics.AdminLoginAttemptsTotal.WithLabelValues("success").Inc()
	log.Info().Str("email", email).Msg("Admin logged in successfully")
	return token, nil
}
