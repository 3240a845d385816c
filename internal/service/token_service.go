package service

import (
	"errors"
	"time"

	"github.com/dom/movie-stream-website/internal/config"
	"github.com/dom/movie-stream-website/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService mints and verifies the two classes of signed tokens. Access
// and refresh tokens are signed with independent secrets and expiries, so
// one class never verifies as the other.
type TokenService struct {
	cfg *config.Config
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{cfg: cfg}
}

func (s *TokenService) MintAccessToken(userID uuid.UUID) (string, error) {
	return s.mint(userID, []byte(s.cfg.JWTAccessSecret), s.cfg.AccessTokenTTL)
}

func (s *TokenService) MintRefreshToken(userID uuid.UUID) (string, error) {
	return s.mint(userID, []byte(s.cfg.JWTRefreshSecret), s.cfg.RefreshTokenTTL)
}

// VerifyAccessToken returns the subject user id of a valid access token.
// Expiry is reported as domain.ErrTokenExpired so the middleware can tell
// clients to refresh instead of re-login; every other failure collapses to
// domain.ErrInvalidToken.
func (s *TokenService) VerifyAccessToken(token string) (uuid.UUID, error) {
	return s.verify(token, []byte(s.cfg.JWTAccessSecret))
}

func (s *TokenService) VerifyRefreshToken(token string) (uuid.UUID, error) {
	return s.verify(token, []byte(s.cfg.JWTRefreshSecret))
}

func (s *TokenService) mint(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		// The jti keeps tokens minted for the same user within the same
		// second distinct; refresh tokens carry a unique index on the
		// raw string.
		ID:        uuid.NewString(),
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (s *TokenService) verify(tokenString string, secret []byte) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, domain.ErrTokenExpired
		}
		return uuid.Nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, domain.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidToken
	}

	return userID, nil
}
