package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dom/movie-stream-website/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// MovieHandler exposes the catalog proxy endpoints. Responses are TMDB's
// bodies passed through unchanged.
type MovieHandler struct {
	movieService *service.MovieService
	log          zerolog.Logger
}

func NewMovieHandler(movieService *service.MovieService, log zerolog.Logger) *MovieHandler {
	return &MovieHandler{movieService: movieService, log: log}
}

func (h *MovieHandler) Trending(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.Trending(ctx)
	})
}

func (h *MovieHandler) TrendingMovies(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.TrendingMovies(ctx)
	})
}

func (h *MovieHandler) TrendingTV(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.TrendingTV(ctx)
	})
}

func (h *MovieHandler) Originals(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.Originals(ctx)
	})
}

func (h *MovieHandler) TopRated(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.TopRated(ctx)
	})
}

func (h *MovieHandler) Popular(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.Popular(ctx)
	})
}

func (h *MovieHandler) NowPlaying(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.NowPlaying(ctx)
	})
}

func (h *MovieHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.Upcoming(ctx)
	})
}

func (h *MovieHandler) PopularTV(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.PopularTV(ctx)
	})
}

func (h *MovieHandler) TopRatedTV(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.TopRatedTV(ctx)
	})
}

func (h *MovieHandler) ByGenre(w http.ResponseWriter, r *http.Request) {
	genreID := chi.URLParam(r, "genre")
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.ByGenre(ctx, genreID)
	})
}

func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Please provide a search query")
		return
	}
	searchType := r.URL.Query().Get("type")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.Search(ctx, query, searchType, page)
	})
}

func (h *MovieHandler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.MovieDetails(ctx, movieID)
	})
}

func (h *MovieHandler) MovieTrailers(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")
	h.proxy(w, r, func(ctx context.Context) (json.RawMessage, error) {
		return h.movieService.MovieTrailers(ctx, movieID)
	})
}

func (h *MovieHandler) proxy(w http.ResponseWriter, r *http.Request, fetch func(context.Context) (json.RawMessage, error)) {
	body, err := fetch(r.Context())
	if err != nil {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("catalog fetch failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch movie data. Please try again.")
		return
	}
	writeRaw(w, http.StatusOK, body)
}
