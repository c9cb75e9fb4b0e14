package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"buildestate/internal/handlers"
	"buildestate/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.NewCorsMiddleware(s.cfg.AllowedOrigins))
	r.Use(middlewares.Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.HelloWorldHandler)
	r.HandleFunc("/health", ch.HealthHandler)
	r.HandleFunc("/status", ch.StatusHandler)
	r.Handle("/metrics", promhttp.Handler())

	s.registerAuthRoutes(r)

	return r
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.otpService, s.authService)
	uh := handlers.NewUserHandler(s.userService)
	auth := middlewares.NewAuthMiddleware(s.cfg.JWTSecret)

	r.HandleFunc("/api/users/register/send-otp", ah.SendRegisterOTP).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/users/register/verify-otp", ah.VerifyRegisterOTP).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/users/login/send-otp", ah.SendLoginOTP).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/users/login/verify-otp", ah.VerifyLoginOTP).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/users/admin", ah.AdminLogin).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/users/logout", ah.Logout).Methods("POST", "OPTIONS")
	r.Handle("/api/users/me", auth(http.HandlerFunc(uh.GetMyProfile))).Methods("GET", "OPTIONS")
}
