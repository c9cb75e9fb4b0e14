package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"buildestate/internal/models"
	"buildestate/internal/services"
	"buildestate/internal/utils"
)

type AuthHandler struct {
	otpService  services.OtpService
	authService services.AuthService
}

func NewAuthHandler(otpService services.OtpService, authService services.AuthService) *AuthHandler {
	return &AuthHandler{otpService: otpService, authService: authService}
}

// writeAuthError maps the service error taxonomy onto the wire contract.
// Business failures ship as HTTP 200 with success:false; existing clients
// check the flag, not the status code.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidMobile):
		utils.SendFailure(w, http.StatusOK, "Invalid mobile number")
	case errors.Is(err, services.ErrMobileRegistered):
		utils.SendFailure(w, http.StatusOK, "Mobile number already registered")
	case errors.Is(err, services.ErrMobileNotRegistered):
		utils.SendFailure(w, http.StatusOK, "Mobile number not registered")
	case errors.Is(err, services.ErrInvalidOrExpiredOTP):
		utils.SendFailure(w, http.StatusOK, "Invalid or expired OTP")
	case errors.Is(err, services.ErrNameRequired):
		utils.SendFailure(w, http.StatusBadRequest, "Name is required")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.SendFailure(w, http.StatusBadRequest, "Invalid credentials")
	default:
		utils.SendFailure(w, http.StatusInternalServerError, "Server error")
	}
}

func (a *AuthHandler) SendRegisterOTP(w http.ResponseWriter, r *http.Request) {
	var req models.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for SendRegisterOTP")
		utils.SendFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := a.otpService.SendRegisterOTP(r.Context(), req.Mobile); err != nil {
		writeAuthError(w, err)
		return
	}

	utils.SendMessage(w, "OTP sent to mobile")
}

func (a *AuthHandler) VerifyRegisterOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRegisterOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for VerifyRegisterOTP")
		utils.SendFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := a.otpService.VerifyRegisterOTP(r.Context(), &req)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token":   result.Token,
		"user":    result.User,
		"success": true,
	})
}

func (a *AuthHandler) SendLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req models.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for SendLoginOTP")
		utils.SendFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := a.otpService.SendLoginOTP(r.Context(), req.Mobile); err != nil {
		writeAuthError(w, err)
		return
	}

	utils.SendMessage(w, "OTP sent to mobile")
}

func (a *AuthHandler) VerifyLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyLoginOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for VerifyLoginOTP")
		utils.SendFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := a.otpService.VerifyLoginOTP(r.Context(), req.Mobile, req.OTP)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token":   result.Token,
		"user":    result.User,
		"success": true,
	})
}

func (a *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body for AdminLogin")
		utils.SendFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := a.authService.AdminLogin(req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token":   token,
		"success": true,
	})
}

// Logout is a stateless acknowledgment; bearer tokens are not revocable.
func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.SendMessage(w, "Logged out")
}
