package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dom/movie-stream-website/internal/config"
	"github.com/dom/movie-stream-website/internal/domain"
	"github.com/dom/movie-stream-website/internal/mailer"
	"github.com/dom/movie-stream-website/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

const resetTokenTTL = time.Hour

// RequestContext carries the request metadata bound to an issued refresh
// token for session listing.
type RequestContext struct {
	IP        string
	UserAgent string
}

type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	tokens    *TokenService
	mail      mailer.Mailer
	cfg       *config.Config
	log       zerolog.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	tokens *TokenService,
	mail mailer.Mailer,
	cfg *config.Config,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		mail:      mail,
		cfg:       cfg,
		log:       log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateProfileInput struct {
	Name   string
	Email  string
	Avatar string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput, rc RequestContext) (*AuthResult, error) {
	email := NormalizeEmail(input.Email)

	// Check if email is taken
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Preference:   datatypes.NewJSONType(domain.DefaultPreference()),
		LastLogin:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, rc)
}

// Login fails with ErrInvalidCredentials for both an unknown email and a
// wrong password so the response never reveals which one it was.
func (s *AuthService) Login(ctx context.Context, input LoginInput, rc RequestContext) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.CheckPassword(user, input.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	user.LastLogin = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, rc)
}

// Tokens exposes the codec for the access-guard middleware.
func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

// CheckPassword compares a candidate against the stored hash.
func (s *AuthService) CheckPassword(user *domain.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate)) == nil
}

// Refresh validates the refresh token's signature and its persisted record,
// then mints a fresh access token. The refresh token itself is not rotated;
// it stays redeemable until logout or a security event revokes it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	record, err := s.tokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if record.IsRevoked {
		return "", domain.ErrTokenRevoked
	}
	if record.IsExpired() {
		return "", domain.ErrTokenExpired
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return "", err
	}

	return s.tokens.MintAccessToken(userID)
}

// Logout revokes the refresh token best-effort. A stale or unknown token on
// the client must never block the user from leaving, so nothing is returned;
// infrastructure failures stay observable through the log.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	if err := s.tokenRepo.Revoke(ctx, refreshToken, nil); err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
		s.log.Error().Err(err).Msg("failed to revoke refresh token during logout")
	}
}

func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.tokenRepo.RevokeAllForUser(ctx, userID)
}

func (s *AuthService) ListSessions(ctx context.Context, userID uuid.UUID) ([]domain.Session, error) {
	return s.tokenRepo.ListActiveByUser(ctx, userID)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = strings.TrimSpace(input.Name)
	}
	if input.Email != "" {
		user.Email = NormalizeEmail(input.Email)
	}
	if input.Avatar != "" {
		avatar := input.Avatar
		user.Avatar = &avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword re-hashes on the one path that sets the password field and
// revokes every refresh token issued before the change.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string, rc RequestContext) (*AuthResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !s.CheckPassword(user, currentPassword) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, rc)
}

// ForgotPassword issues a reset token and mails the raw value. It returns nil
// for unknown emails so the endpoint can answer identically either way; a
// mail-send failure rolls the issued token back so a retry starts clean.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	raw, hash, err := newResetToken()
	if err != nil {
		return err
	}

	expires := time.Now().Add(resetTokenTTL)
	user.ResetPasswordToken = &hash
	user.ResetPasswordExpires = &expires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(s.cfg.FrontendURL, "/"), raw)
	if err := s.mail.SendPasswordReset(user.Email, user.Name, resetURL); err != nil {
		user.ResetPasswordToken = nil
		user.ResetPasswordExpires = nil
		if rbErr := s.userRepo.Update(ctx, user); rbErr != nil {
			s.log.Error().Err(rbErr).Str("email", user.Email).Msg("failed to roll back reset token after mail failure")
		}
		return fmt.Errorf("password reset mail: %w", err)
	}

	return nil
}

// ResetPassword consumes a reset token. The token is single-use: the hash and
// expiry are cleared in the same update that sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string, rc RequestContext) (*AuthResult, error) {
	user, err := s.userRepo.GetByResetTokenHash(ctx, hashResetToken(rawToken), time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrResetTokenInvalid
		}
		return nil, err
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.ResetPasswordToken = nil
	user.ResetPasswordExpires = nil

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.tokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
		return nil, err
	}

	if err := s.mail.SendPasswordResetConfirmation(user.Email, user.Name); err != nil {
		s.log.Warn().Err(err).Str("email", user.Email).Msg("failed to send password reset confirmation")
	}

	return s.issueTokens(ctx, user, rc)
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User, rc RequestContext) (*AuthResult, error) {
	accessToken, err := s.tokens.MintAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.MintRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	record := &domain.RefreshToken{
		ID:          uuid.New(),
		Token:       refreshToken,
		UserID:      user.ID,
		ExpiresAt:   time.Now().Add(s.cfg.RefreshTokenTTL),
		CreatedByIP: rc.IP,
		UserAgent:   rc.UserAgent,
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func newResetToken() (raw, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, hashResetToken(raw), nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
