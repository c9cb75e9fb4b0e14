package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"buildestate/internal/metrics"
	"buildestate/internal/repositories"
)

// Sweeper periodically reclaims abandoned provisional identities and clears
// lapsed OTP challenges. Expiry is still enforced lazily at verification
// time; the sweeper only keeps the collection from accumulating dead records.
type Sweeper struct {
	userRepo repositories.UserRepository
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(userRepo repositories.UserRepository, interval time.Duration) *Sweeper {
	return &Sweeper{
		userRepo: userRepo,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if _, _, err := s.Sweep(ctx); err != nil {
					log.Error().Err(err).Msg("OTP sweep failed")
				}
				cancel()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

// Sweep performs a single pass and reports how many provisional users were
// deleted and how many stale challenges were cleared.
func (s *Sweeper) Sweep(ctx context.Context) (int64, int64, error) {
	now := time.Now()

	deleted, err := s.userRepo.DeleteExpiredProvisional(ctx, now)
	if err != nil {
		return 0, 0, err
	}
	metrics.SweptProvisionalUsersTotal.Add(float64(deleted))

	cleared, err := s.userRepo.ClearExpiredChallenges(ctx, now)
	if err != nil {
		return deleted, 0, err
	}

	if deleted > 0 || cleared > 0 {
		log.Info().Int64("provisional_deleted", deleted).Int64("challenges_cleared", cleared).Msg("OTP sweep complete")
	}
	return deleted, cleared, nil
}
