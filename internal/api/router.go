package api

import (
	"net/http"
	"time"

	"github.com/dom/movie-stream-website/internal/api/handlers"
	"github.com/dom/movie-stream-website/internal/api/middleware"
	"github.com/dom/movie-stream-website/internal/config"
	"github.com/dom/movie-stream-website/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
)

func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK"}`))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	movieHandler := handlers.NewMovieHandler(services.Movie, log)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Credential endpoints get a tight per-IP budget
			r.Group(func(r chi.Router) {
				r.Use(httprate.LimitByIP(10, time.Minute))
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/forgot-password", authHandler.ForgotPassword)
				r.Post("/reset-password/{token}", authHandler.ResetPassword)
			})

			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Get("/sessions", authHandler.Sessions)
				r.Post("/logout-all", authHandler.LogoutAll)
				r.Put("/update", authHandler.UpdateProfile)
				r.Put("/password", authHandler.UpdatePassword)
			})
		})

		// Catalog proxy routes
		r.Route("/movies", func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Get("/trending", movieHandler.Trending)
			r.Get("/trending/movies", movieHandler.TrendingMovies)
			r.Get("/trending/tv", movieHandler.TrendingTV)
			r.Get("/originals", movieHandler.Originals)
			r.Get("/top-rated", movieHandler.TopRated)
			r.Get("/popular", movieHandler.Popular)
			r.Get("/now-playing", movieHandler.NowPlaying)
			r.Get("/upcoming", movieHandler.Upcoming)
			r.Get("/tv/popular", movieHandler.PopularTV)
			r.Get("/tv/top-rated", movieHandler.TopRatedTV)
			r.Get("/genre/{genre}", movieHandler.ByGenre)
			r.Get("/search", movieHandler.Search)
			r.Get("/{id}", movieHandler.MovieDetails)
			r.Get("/{id}/trailer", movieHandler.MovieTrailers)
		})
	})

	return r
}
