package models

// Request payloads for the authentication endpoints.

type SendOTPRequest struct {
	Mobile string `json:"mobile" validate:"required,e164"`
}

type VerifyRegisterOTPRequest struct {
	Mobile    string   `json:"mobile" validate:"required"`
	OTP       string   `json:"otp" validate:"required"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
}

type VerifyLoginOTPRequest struct {
	Mobile string `json:"mobile" validate:"required"`
	OTP    string `json:"otp" validate:"required"`
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is what a successful verification hands back to the client:
// a bearer token plus the public profile of the identity it is bound to.
type AuthResult struct {
	Token string        `json:"token"`
	User  PublicProfile `json:"user"`
}
