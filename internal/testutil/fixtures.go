package testutil

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dom/movie-stream-website/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "Testpassw0rd!",
	}
}

// WithName sets the name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        strings.ToLower(b.email),
		PasswordHash: string(hashedPassword),
		Preference:   datatypes.NewJSONType(domain.DefaultPreference()),
		LastLogin:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user, b.password
}

// RefreshTokenBuilder creates persisted refresh-token records
type RefreshTokenBuilder struct {
	token     string
	userID    uuid.UUID
	expiresAt time.Time
	ip        string
	userAgent string
	revoked   bool
}

// NewRefreshTokenBuilder creates a builder with default values
func NewRefreshTokenBuilder(userID uuid.UUID) *RefreshTokenBuilder {
	return &RefreshTokenBuilder{
		token:     fmt.Sprintf("token-%s", uuid.New().String()),
		userID:    userID,
		expiresAt: time.Now().Add(7 * 24 * time.Hour),
		ip:        "127.0.0.1",
		userAgent: "test-agent",
	}
}

// WithToken sets the token string
func (b *RefreshTokenBuilder) WithToken(token string) *RefreshTokenBuilder {
	b.token = token
	return b
}

// ExpiredAt sets the expiry
func (b *RefreshTokenBuilder) ExpiredAt(expiresAt time.Time) *RefreshTokenBuilder {
	b.expiresAt = expiresAt
	return b
}

// Revoked marks the record revoked
func (b *RefreshTokenBuilder) Revoked() *RefreshTokenBuilder {
	b.revoked = true
	return b
}

// WithCreatedByIP sets the issuing IP
func (b *RefreshTokenBuilder) WithCreatedByIP(ip string) *RefreshTokenBuilder {
	b.ip = ip
	return b
}

// Build creates the record in the database
func (b *RefreshTokenBuilder) Build(t *testing.T, db *gorm.DB) *domain.RefreshToken {
	t.Helper()

	record := &domain.RefreshToken{
		ID:          uuid.New(),
		Token:       b.token,
		UserID:      b.userID,
		ExpiresAt:   b.expiresAt,
		CreatedByIP: b.ip,
		UserAgent:   b.userAgent,
		IsRevoked:   b.revoked,
	}
	if b.revoked {
		now := time.Now()
		record.RevokedAt = &now
	}

	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test refresh token: %v", err)
	}

	return record
}

// SentMail captures one delivery made through the RecordingMailer
type SentMail struct {
	To       string
	Name     string
	ResetURL string
	Kind     string
}

// RecordingMailer implements mailer.Mailer and records every send instead of
// talking to an SMTP server. FailSends makes every send return an error.
type RecordingMailer struct {
	mu        sync.Mutex
	Sent      []SentMail
	FailSends bool
}

func NewRecordingMailer() *RecordingMailer {
	return &RecordingMailer{}
}

func (m *RecordingMailer) SendPasswordReset(to, name, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSends {
		return fmt.Errorf("simulated mail failure")
	}
	m.Sent = append(m.Sent, SentMail{To: to, Name: name, ResetURL: resetURL, Kind: "reset"})
	return nil
}

func (m *RecordingMailer) SendPasswordResetConfirmation(to, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSends {
		return fmt.Errorf("simulated mail failure")
	}
	m.Sent = append(m.Sent, SentMail{To: to, Name: name, Kind: "confirmation"})
	return nil
}

// LastReset returns the most recent reset mail sent
func (m *RecordingMailer) LastReset(t *testing.T) SentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Sent) - 1; i >= 0; i-- {
		if m.Sent[i].Kind == "reset" {
			return m.Sent[i]
		}
	}
	t.Fatal("no password reset mail was sent")
	return SentMail{}
}
