package service

import (
	"github.com/dom/movie-stream-website/internal/config"
	"github.com/dom/movie-stream-website/internal/mailer"
	"github.com/dom/movie-stream-website/internal/repository"
	"github.com/rs/zerolog"
)

type Services struct {
	Token *TokenService
	Auth  *AuthService
	Movie *MovieService
}

func NewServices(repos *repository.Repositories, mail mailer.Mailer, cfg *config.Config, log zerolog.Logger) *Services {
	tokens := NewTokenService(cfg)
	return &Services{
		Token: tokens,
		Auth:  NewAuthService(repos.User, repos.RefreshToken, tokens, mail, cfg, log),
		Movie: NewMovieService(cfg),
	}
}
