package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

// Config holds every runtime setting. It is parsed once at startup and passed
// into constructors; nothing reads the environment after that.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	MongoURI string `env:"MONGO_URI,required"`

	JWTSecret     string        `env:"JWT_SECRET,required"`
	UserTokenTTL  time.Duration `env:"USER_TOKEN_TTL" envDefault:"720h"`
	AdminTokenTTL time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"1h"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	OTPTTL        time.Duration `env:"OTP_TTL" envDefault:"5m"`
	OTPLength     int           `env:"OTP_LENGTH" envDefault:"4"`
	OTPFixedCode  string        `env:"OTP_FIXED_CODE"`
	SweepInterval time.Duration `env:"OTP_SWEEP_INTERVAL" envDefault:"10m"`

	TwilioAccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `env:"TWILIO_PHONE_NUMBER"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}

// TwilioEnabled reports whether real SMS delivery is configured.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}
