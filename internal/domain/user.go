package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WatchListEntry is the movie a user has saved to continue watching.
type WatchListEntry struct {
	MovieID int       `json:"movieId"`
	Title   string    `json:"title"`
	Poster  string    `json:"poster"`
	AddedAt time.Time `json:"addedAt"`
}

// Preference holds per-user playback settings.
type Preference struct {
	Language     string `json:"language"`
	AutoplayNext bool   `json:"autoplayNext"`
}

func DefaultPreference() Preference {
	return Preference{Language: "en", AutoplayNext: true}
}

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Avatar       *string   `json:"avatar"`

	WatchList  datatypes.JSONType[[]WatchListEntry] `json:"watchList"`
	Preference datatypes.JSONType[Preference]       `json:"preference"`

	LastLogin time.Time `json:"lastLogin"`

	// Populated only while a password reset is pending. Holds the SHA-256 of
	// the raw reset token, never the token itself.
	ResetPasswordToken   *string    `json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicUser is the projection returned alongside token pairs.
type PublicUser struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar *string   `json:"avatar"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
	}
}
