package service_test

import (
	"context"
	"path"
	"testing"
	"time"

	"github.com/dom/movie-stream-website/internal/domain"
	"github.com/dom/movie-stream-website/internal/repository/postgres"
	"github.com/dom/movie-stream-website/internal/service"
	"github.com/dom/movie-stream-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestEnv(t *testing.T) (*testutil.TestDB, *service.Services, *testutil.RecordingMailer) {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	mail := testutil.NewRecordingMailer()
	services := service.NewServices(repos, mail, testutil.TestConfig(), testutil.TestLogger())
	return testDB, services, mail
}

var testRC = service.RequestContext{IP: "127.0.0.1", UserAgent: "go-test"}

func TestAuthService_Register(t *testing.T) {
	testDB, services, _ := newAuthTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.RegisterInput
		setup   func()
		wantErr error
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				Name:     "Ann",
				Email:    "ann@x.com",
				Password: "Passw0rd!",
			},
		},
		{
			name: "duplicate email",
			input: service.RegisterInput{
				Name:     "Second Ann",
				Email:    "taken@x.com",
				Password: "Passw0rd!",
			},
			setup: func() {
				testutil.NewUserBuilder().WithEmail("taken@x.com").Build(t, testDB.DB)
			},
			wantErr: domain.ErrDuplicateEmail,
		},
		{
			name: "duplicate email is case-insensitive",
			input: service.RegisterInput{
				Name:     "Shouting Ann",
				Email:    "TAKEN@X.com",
				Password: "Passw0rd!",
			},
			setup: func() {
				testutil.NewUserBuilder().WithEmail("taken@x.com").Build(t, testDB.DB)
			},
			wantErr: domain.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			result, err := services.Auth.Register(ctx, tt.input, testRC)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)
			assert.Equal(t, "ann@x.com", result.User.Email)

			// The plaintext is never stored; the hash verifies against it
			stored, err := services.Auth.GetUserByID(ctx, result.User.ID)
			require.NoError(t, err)
			assert.NotEqual(t, tt.input.Password, stored.PasswordHash)
			assert.True(t, services.Auth.CheckPassword(stored, tt.input.Password))

			// A session record exists for the issued refresh token
			sessions, err := services.Auth.ListSessions(ctx, result.User.ID)
			require.NoError(t, err)
			assert.Len(t, sessions, 1)
			assert.Equal(t, "127.0.0.1", sessions[0].IP)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB, services, _ := newAuthTestEnv(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().WithEmail("login@x.com").Build(t, testDB.DB)

	t.Run("successful login", func(t *testing.T) {
		result, err := services.Auth.Login(ctx, service.LoginInput{
			Email:    "login@x.com",
			Password: rawPassword,
		}, testRC)
		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)

		reloaded, err := services.Auth.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), reloaded.LastLogin, 5*time.Second)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, wrongPassErr := services.Auth.Login(ctx, service.LoginInput{
			Email:    "login@x.com",
			Password: "WrongPassw0rd!",
		}, testRC)
		_, unknownEmailErr := services.Auth.Login(ctx, service.LoginInput{
			Email:    "nobody@x.com",
			Password: rawPassword,
		}, testRC)

		assert.ErrorIs(t, wrongPassErr, domain.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownEmailErr, domain.ErrInvalidCredentials)
		assert.Equal(t, wrongPassErr.Error(), unknownEmailErr.Error())
	})

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		_, err := services.Auth.Login(ctx, service.LoginInput{
			Email:    "  LOGIN@X.com ",
			Password: rawPassword,
		}, testRC)
		assert.NoError(t, err)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	testDB, services, _ := newAuthTestEnv(t)
	ctx := context.Background()

	result, err := services.Auth.Register(ctx, service.RegisterInput{
		Name:     "Refresher",
		Email:    "refresh@x.com",
		Password: "Passw0rd!",
	}, testRC)
	require.NoError(t, err)

	t.Run("valid refresh token yields a new access token", func(t *testing.T) {
		accessToken, err := services.Auth.Refresh(ctx, result.RefreshToken)
		require.NoError(t, err)

		subject, err := services.Token.VerifyAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, subject)
	})

	t.Run("refresh token is not rotated", func(t *testing.T) {
		_, err := services.Auth.Refresh(ctx, result.RefreshToken)
		require.NoError(t, err)
		_, err = services.Auth.Refresh(ctx, result.RefreshToken)
		assert.NoError(t, err, "the same refresh token stays redeemable")
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := services.Auth.Refresh(ctx, "garbage")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("signed but unpersisted token", func(t *testing.T) {
		minted, err := services.Token.MintRefreshToken(result.User.ID)
		require.NoError(t, err)
		_, err = services.Auth.Refresh(ctx, minted)
		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	})

	t.Run("revoked token fails even with a valid signature", func(t *testing.T) {
		services.Auth.Logout(ctx, result.RefreshToken)
		_, err := services.Auth.Refresh(ctx, result.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrTokenRevoked)
	})

	t.Run("deleted user fails refresh", func(t *testing.T) {
		fresh, err := services.Auth.Login(ctx, service.LoginInput{
			Email:    "refresh@x.com",
			Password: "Passw0rd!",
		}, testRC)
		require.NoError(t, err)

		require.NoError(t, testDB.DB.Delete(&domain.User{}, "id = ?", fresh.User.ID).Error)

		_, err = services.Auth.Refresh(ctx, fresh.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestAuthService_Logout(t *testing.T) {
	_, services, _ := newAuthTestEnv(t)
	ctx := context.Background()

	result, err := services.Auth.Register(ctx, service.RegisterInput{
		Name:     "Leaver",
		Email:    "leaver@x.com",
		Password: "Passw0rd!",
	}, testRC)
	require.NoError(t, err)

	// Unknown and empty tokens are quietly ignored
	services.Auth.Logout(ctx, "token-that-never-existed")
	services.Auth.Logout(ctx, "")

	services.Auth.Logout(ctx, result.RefreshToken)
	_, err = services.Auth.Refresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	// Logging out an already-revoked token stays silent
	services.Auth.Logout(ctx, result.RefreshToken)
}

func TestAuthService_LogoutAll(t *testing.T) {
	_, services, _ := newAuthTestEnv(t)
	ctx := context.Background()

	first, err := services.Auth.Register(ctx, service.RegisterInput{
		Name:     "Multi",
		Email:    "multi@x.com",
		Password: "Passw0rd!",
	}, testRC)
	require.NoError(t, err)

	second, err := services.Auth.Login(ctx, service.LoginInput{
		Email:    "multi@x.com",
		Password: "Passw0rd!",
	}, service.RequestContext{IP: "10.1.1.1", UserAgent: "other-device"})
	require.NoError(t, err)

	sessions, err := services.Auth.ListSessions(ctx, first.User.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	require.NoError(t, services.Auth.LogoutAll(ctx, first.User.ID))

	sessions, err = services.Auth.ListSessions(ctx, first.User.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	for _, token := range []string{first.RefreshToken, second.RefreshToken} {
		_, err := services.Auth.Refresh(ctx, token)
		assert.ErrorIs(t, err, domain.ErrTokenRevoked)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	_, services, _ := newAuthTestEnv(t)
	ctx := context.Background()

	result, err := services.Auth.Register(ctx, service.RegisterInput{
		Name:     "Changer",
		Email:    "changer@x.com",
		Password: "OldPassw0rd!",
	}, testRC)
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		_, err := services.Auth.ChangePassword(ctx, result.User.ID, "NotTheOld1!", "NewPassw0rd!", testRC)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("change revokes existing sessions and issues a new pair", func(t *testing.T) {
		newResult, err := services.Auth.ChangePassword(ctx, result.User.ID, "OldPassw0rd!", "NewPassw0rd!", testRC)
		require.NoError(t, err)
		assert.NotEmpty(t, newResult.AccessToken)
		assert.NotEmpty(t, newResult.RefreshToken)

		// Pre-change refresh token is now dead
		_, err = services.Auth.Refresh(ctx, result.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrTokenRevoked)

		// Post-change refresh token works
		_, err = services.Auth.Refresh(ctx, newResult.RefreshToken)
		assert.NoError(t, err)

		// Old password no longer logs in, new one does
		_, err = services.Auth.Login(ctx, service.LoginInput{Email: "changer@x.com", Password: "OldPassw0rd!"}, testRC)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		_, err = services.Auth.Login(ctx, service.LoginInput{Email: "changer@x.com", Password: "NewPassw0rd!"}, testRC)
		assert.NoError(t, err)
	})
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	testDB, services, mail := newAuthTestEnv(t)
	ctx := context.Background()

	result, err := services.Auth.Register(ctx, service.RegisterInput{
		Name:     "Forgetful",
		Email:    "forgot@x.com",
		Password: "OldPassw0rd!",
	}, testRC)
	require.NoError(t, err)

	t.Run("unknown email is silently accepted", func(t *testing.T) {
		require.NoError(t, services.Auth.ForgotPassword(ctx, "nobody@x.com"))
		assert.Empty(t, mail.Sent, "no mail goes out for unknown emails")
	})

	t.Run("reset flow", func(t *testing.T) {
		require.NoError(t, services.Auth.ForgotPassword(ctx, "forgot@x.com"))

		sent := mail.LastReset(t)
		assert.Equal(t, "forgot@x.com", sent.To)
		rawToken := path.Base(sent.ResetURL)
		require.NotEmpty(t, rawToken)

		// The raw token is not what the store holds
		stored, err := services.Auth.GetUserByID(ctx, result.User.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ResetPasswordToken)
		assert.NotEqual(t, rawToken, *stored.ResetPasswordToken)

		newResult, err := services.Auth.ResetPassword(ctx, rawToken, "FreshPassw0rd!", testRC)
		require.NoError(t, err)
		assert.NotEmpty(t, newResult.AccessToken)

		// Reset revoked the pre-reset session
		_, err = services.Auth.Refresh(ctx, result.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrTokenRevoked)

		// New password works
		_, err = services.Auth.Login(ctx, service.LoginInput{Email: "forgot@x.com", Password: "FreshPassw0rd!"}, testRC)
		assert.NoError(t, err)

		// The token is single-use
		_, err = services.Auth.ResetPassword(ctx, rawToken, "AnotherPassw0rd!", testRC)
		assert.ErrorIs(t, err, domain.ErrResetTokenInvalid)
	})

	t.Run("expired reset token is rejected", func(t *testing.T) {
		require.NoError(t, services.Auth.ForgotPassword(ctx, "forgot@x.com"))
		rawToken := path.Base(mail.LastReset(t).ResetURL)

		// Age the reset window past its expiry
		require.NoError(t, testDB.DB.Model(&domain.User{}).
			Where("id = ?", result.User.ID).
			Update("reset_password_expires", time.Now().Add(-time.Minute)).Error)

		_, err := services.Auth.ResetPassword(ctx, rawToken, "LatePassw0rd!", testRC)
		assert.ErrorIs(t, err, domain.ErrResetTokenInvalid)
	})

	t.Run("mail failure rolls the issued token back", func(t *testing.T) {
		mail.FailSends = true
		defer func() { mail.FailSends = false }()

		err := services.Auth.ForgotPassword(ctx, "forgot@x.com")
		require.Error(t, err)

		stored, err := services.Auth.GetUserByID(ctx, result.User.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.ResetPasswordToken, "reset fields are cleared so a retry starts clean")
		assert.Nil(t, stored.ResetPasswordExpires)
	})
}
