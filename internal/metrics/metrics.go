package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// User Activity Metrics
	NewUsersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_new_users_total",
		Help: "Total number of completed user registrations.",
	})
	OTPSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_otp_sent_total",
		Help: "Total number of OTP challenges issued, by flow and delivery status.",
	}, []string{"flow", "status"}) // flow: "register" or "login"
	OTPVerifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_otp_verified_total",
		Help: "Total number of OTP verification attempts, by flow and status.",
	}, []string{"flow", "status"}) // status: "success" or "failed"
	AdminLoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_admin_login_attempts_total",
		Help: "Total number of admin login attempts (successful and failed).",
	}, []string{"status"})
	SweptProvisionalUsersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_swept_provisional_users_total",
		Help: "Total number of abandoned provisional users reclaimed by the sweeper.",
	})
)
