package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"buildestate/internal/models"
	"buildestate/internal/services"
)

type fakeOtpService struct {
	sendRegisterErr error
	sendLoginErr    error
	verifyResult    *models.AuthResult
	verifyErr       error
}

func (f *fakeOtpService) SendRegisterOTP(ctx context.Context, mobile string) error {
	return f.sendRegisterErr
}

func (f *fakeOtpService) VerifyRegisterOTP(ctx context.Context, req *models.VerifyRegisterOTPRequest) (*models.AuthResult, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verifyResult, nil
}

func (f *fakeOtpService) SendLoginOTP(ctx context.Context, mobile string) error {
	return f.sendLoginErr
}

func (f *fakeOtpService) VerifyLoginOTP(ctx context.Context, mobile, otp string) (*models.AuthResult, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verifyResult, nil
}

type fakeAuthService struct {
	token    string
	loginErr error
}

func (f *fakeAuthService) CreateUserToken(id primitive.ObjectID) (string, error) {
	return f.token, nil
}

func (f *fakeAuthService) AdminLogin(email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func doPost(t *testing.T, handler http.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

func TestSendRegisterOTPHandler(t *testing.T) {
	t.Run("success acknowledgment", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{}, &fakeAuthService{})
		rec, payload := doPost(t, h.SendRegisterOTP, `{"mobile":"+15550000001"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["success"])
		assert.Equal(t, "OTP sent to mobile", payload["message"])
	})

	t.Run("invalid mobile is a 200 business failure", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{sendRegisterErr: services.ErrInvalidMobile}, &fakeAuthService{})
		rec, payload := doPost(t, h.SendRegisterOTP, `{"mobile":"banana"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, payload["success"])
		assert.Equal(t, "Invalid mobile number", payload["message"])
	})

	t.Run("conflict is a 200 business failure", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{sendRegisterErr: services.ErrMobileRegistered}, &fakeAuthService{})
		rec, payload := doPost(t, h.SendRegisterOTP, `{"mobile":"+15550000001"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, payload["success"])
		assert.Equal(t, "Mobile number already registered", payload["message"])
	})

	t.Run("delivery failure is a server error", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{sendRegisterErr: services.ErrDeliveryFailed}, &fakeAuthService{})
		rec, payload := doPost(t, h.SendRegisterOTP, `{"mobile":"+15550000001"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, false, payload["success"])
	})

	t.Run("bad JSON", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{}, &fakeAuthService{})
		rec, payload := doPost(t, h.SendRegisterOTP, `{`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, payload["success"])
	})
}

func TestVerifyRegisterOTPHandler(t *testing.T) {
	result := &models.AuthResult{
		Token: "signed-token",
		User: models.PublicProfile{
			Name:     "Ada",
			Mobile:   "+15550000001",
			Location: &models.Location{City: "Unknown"},
		},
	}

	t.Run("returns token and profile", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{verifyResult: result}, &fakeAuthService{})
		rec, payload := doPost(t, h.VerifyRegisterOTP, `{"mobile":"+15550000001","otp":"1234","name":"Ada"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["success"])
		assert.Equal(t, "signed-token", payload["token"])
		user := payload["user"].(map[string]interface{})
		assert.Equal(t, "Ada", user["name"])
		assert.Equal(t, "+15550000001", user["mobile"])
	})

	t.Run("missing name is a 400", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{verifyErr: services.ErrNameRequired}, &fakeAuthService{})
		rec, payload := doPost(t, h.VerifyRegisterOTP, `{"mobile":"+15550000001","otp":"1234"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Name is required", payload["message"])
	})

	t.Run("invalid or expired OTP is a 200 business failure", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{verifyErr: services.ErrInvalidOrExpiredOTP}, &fakeAuthService{})
		rec, payload := doPost(t, h.VerifyRegisterOTP, `{"mobile":"+15550000001","otp":"0000","name":"Ada"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, payload["success"])
		assert.Equal(t, "Invalid or expired OTP", payload["message"])
	})

	t.Run("store failure is a 500", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{verifyErr: errors.New("connection reset")}, &fakeAuthService{})
		rec, payload := doPost(t, h.VerifyRegisterOTP, `{"mobile":"+15550000001","otp":"1234","name":"Ada"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Server error", payload["message"])
	})
}

func TestVerifyLoginOTPHandler(t *testing.T) {
	t.Run("unknown challenge is a 200 business failure", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{verifyErr: services.ErrInvalidOrExpiredOTP}, &fakeAuthService{})
		rec, payload := doPost(t, h.VerifyLoginOTP, `{"mobile":"+15550000001","otp":"0000"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, payload["success"])
	})

	t.Run("not registered send is a 200 business failure", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{sendLoginErr: services.ErrMobileNotRegistered}, &fakeAuthService{})
		rec, payload := doPost(t, h.SendLoginOTP, `{"mobile":"+15550000001"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Mobile number not registered", payload["message"])
	})
}

func TestAdminLoginHandler(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{}, &fakeAuthService{token: "admin-token"})
		rec, payload := doPost(t, h.AdminLogin, `{"email":"admin@example.com","password":"secret"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["success"])
		assert.Equal(t, "admin-token", payload["token"])
	})

	t.Run("invalid credentials are a 400", func(t *testing.T) {
		h := NewAuthHandler(&fakeOtpService{}, &fakeAuthService{loginErr: services.ErrInvalidCredentials})
		rec, payload := doPost(t, h.AdminLogin, `{"email":"admin@example.com","password":"wrong"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid credentials", payload["message"])
	})
}

func TestLogoutHandler(t *testing.T) {
	h := NewAuthHandler(&fakeOtpService{}, &fakeAuthService{})
	rec, payload := doPost(t, h.Logout, `{}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "Logged out", payload["message"])
}
