package service_test

import (
	"testing"
	"time"

	"github.com/dom/movie-stream-website/internal/domain"
	"github.com/dom/movie-stream-website/internal/service"
	"github.com/dom/movie-stream-website/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_AccessRoundTrip(t *testing.T) {
	tokens := service.NewTokenService(testutil.TestConfig())
	userID := uuid.New()

	minted, err := tokens.MintAccessToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, minted)

	got, err := tokens.VerifyAccessToken(minted)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenService_RefreshRoundTrip(t *testing.T) {
	tokens := service.NewTokenService(testutil.TestConfig())
	userID := uuid.New()

	minted, err := tokens.MintRefreshToken(userID)
	require.NoError(t, err)

	got, err := tokens.VerifyRefreshToken(minted)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenService_MintsAreUnique(t *testing.T) {
	tokens := service.NewTokenService(testutil.TestConfig())
	userID := uuid.New()

	first, err := tokens.MintRefreshToken(userID)
	require.NoError(t, err)
	second, err := tokens.MintRefreshToken(userID)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "back-to-back mints for the same user must differ")
}

func TestTokenService_SecretsAreIndependent(t *testing.T) {
	tokens := service.NewTokenService(testutil.TestConfig())
	userID := uuid.New()

	access, err := tokens.MintAccessToken(userID)
	require.NoError(t, err)
	refresh, err := tokens.MintRefreshToken(userID)
	require.NoError(t, err)

	_, err = tokens.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "access token must not verify under the refresh secret")

	_, err = tokens.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "refresh token must not verify under the access secret")
}

func TestTokenService_ExpiredToken(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.AccessTokenTTL = -time.Minute
	tokens := service.NewTokenService(cfg)

	minted, err := tokens.MintAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = tokens.VerifyAccessToken(minted)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestTokenService_MalformedToken(t *testing.T) {
	tokens := service.NewTokenService(testutil.TestConfig())

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "wrong segments", token: "aaa.bbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.VerifyAccessToken(tt.token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestTokenService_TamperedToken(t *testing.T) {
	tokens := service.NewTokenService(testutil.TestConfig())

	minted, err := tokens.MintAccessToken(uuid.New())
	require.NoError(t, err)

	tampered := minted[:len(minted)-4] + "AAAA"
	_, err = tokens.VerifyAccessToken(tampered)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
