package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dom/movie-stream-website/internal/config"
)

// MovieService proxies the TMDB catalog API. Calls are stateless
// pass-throughs: TMDB's response body is forwarded to the client untouched.
type MovieService struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewMovieService(cfg *config.Config) *MovieService {
	return &MovieService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (s *MovieService) Trending(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "/trending/all/week", nil)
}

func (s *MovieService) TrendingMovies(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "/trending/movie/week", nil)
}

func (s *MovieService) TrendingTV(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "/trending/tv/week", nil)
}

// Originals approximates the "originals" row: discover TV filtered to the
// Netflix network id.
func (s *MovieService) Originals(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "/discover/tv", url.Values{"with_networks": {"213"}})
}

func (s *MovieService) TopRated(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "/movie/top_rated", nil)
}

func (s *MovieService) Popular(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "/movie/popular", nil)
}

func (s *MovieService) NowPlaying(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "/movie/now_playing", nil)
}

func (s *MovieService) Upcoming(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "/movie/upcoming", nil)
}

func (s *MovieService) PopularTV(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "/tv/popular", nil)
}

func (s *MovieService) TopRatedTV(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "/tv/top_rated", nil)
}

func (s *MovieService) ByGenre(ctx context.Context, genreID string) (json.RawMessage, error) {
	return s.get(ctx, "/discover/movie", url.Values{"with_genres": {genreID}})
}

func (s *MovieService) Search(ctx context.Context, query, searchType string, page int) (json.RawMessage, error) {
	if searchType == "" {
		searchType = "multi"
	}
	params := url.Values{"query": {query}}
	if page > 0 {
		params.Set("page", fmt.Sprintf("%d", page))
	}
	return s.get(ctx, "/search/"+searchType, params)
}

func (s *MovieService) MovieDetails(ctx context.Context, movieID string) (json.RawMessage, error) {
	return s.get(ctx, "/movie/"+movieID, url.Values{"append_to_response": {"videos,credits,similar"}})
}

func (s *MovieService) MovieTrailers(ctx context.Context, movieID string) (json.RawMessage, error) {
	return s.get(ctx, "/movie/"+movieID+"/videos", nil)
}

func (s *MovieService) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", s.cfg.TMDBAPIKey)

	u := s.cfg.TMDBBaseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb request %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tmdb request %s: %w", path, err)
	}

	return json.RawMessage(body), nil
}
