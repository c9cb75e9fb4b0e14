package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"buildestate/internal/config"
	"buildestate/internal/database"
	"buildestate/internal/repositories"
	"buildestate/internal/services"
)

type Server struct {
	cfg         *config.Config
	httpServer  *http.Server
	db          database.Service
	otpService  services.OtpService
	authService services.AuthService
	userService services.UserService
	sweeper     *services.Sweeper
}

func NewServer(cfg *config.Config) *Server {
	db := database.New(cfg.MongoURI)

	userRepo := repositories.NewUserRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database indexes")
	}

	smsService := services.NewSmsService(cfg)
	authService := services.NewAuthService(cfg)

	s := &Server{
		cfg:         cfg,
		db:          db,
		otpService:  services.NewOtpService(userRepo, smsService, authService, cfg),
		authService: authService,
		userService: services.NewUserService(userRepo),
		sweeper:     services.NewSweeper(userRepo, cfg.SweepInterval),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.cfg.Port).Msg("Starting server")
	s.sweeper.Start()
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	s.sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}
	if err := s.db.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
