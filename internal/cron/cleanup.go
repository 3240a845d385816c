package cron

import (
	"context"
	"time"

	"github.com/dom/movie-stream-website/internal/repository"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// StartCleanup schedules the daily sweep that reclaims refresh-token rows
// past expiry. The sweep is storage reclamation only; token validation checks
// expiry on its own, so correctness never depends on it having run.
func StartCleanup(tokenRepo repository.RefreshTokenRepository, log zerolog.Logger) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)

	s.Every(1).Day().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		deleted, err := tokenRepo.DeleteExpired(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to purge expired refresh tokens")
			return
		}
		log.Info().Int64("deleted", deleted).Msg("purged expired refresh tokens")
	})

	s.StartAsync()
	return s
}
