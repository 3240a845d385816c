package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is one persisted record per issued refresh token. Records are
// revoked in place, never deleted, so a session keeps its audit trail; actual
// deletion only happens in the expired-token sweep.
type RefreshToken struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Token           string    `json:"-" gorm:"uniqueIndex;not null"`
	UserID          uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	ExpiresAt       time.Time `json:"expiresAt" gorm:"not null;index"`
	CreatedByIP     string    `json:"createdByIp"`
	UserAgent       string    `json:"userAgent"`
	IsRevoked       bool      `json:"isRevoked" gorm:"not null;default:false"`
	RevokedAt       *time.Time `json:"revokedAt"`
	ReplacedByToken *string    `json:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func (t *RefreshToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

// IsActive reports whether the token can still be redeemed: not revoked and
// not past its expiry.
func (t *RefreshToken) IsActive() bool {
	return !t.IsRevoked && !t.IsExpired()
}

// Session is the shape returned when listing a user's active sessions. The
// token value itself is deliberately excluded.
type Session struct {
	CreatedAt time.Time `json:"createdAt"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
}
