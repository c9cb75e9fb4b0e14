package services

import "errors"

// Business failures raised by the auth services. Handlers map these onto the
// wire envelope; anything not in this list is a server error.
var (
	ErrInvalidMobile       = errors.New("invalid mobile number")
	ErrMobileRegistered    = errors.New("mobile number already registered")
	ErrMobileNotRegistered = errors.New("mobile number not registered")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")
	ErrNameRequired        = errors.New("name is required")
	ErrDeliveryFailed      = errors.New("failed to deliver OTP")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
)
