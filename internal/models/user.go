package models

import "time"

// Account is the authentication identity (credentials, refresh token).
// The profile row in users is created separately by onboarding, which is why
// a valid account can exist without a profile.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`

	RefreshToken     *string    `json:"-"`
	RefreshExpiresAt *time.Time `json:"-"`
	RefreshRevoked   bool       `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// User is the profile row shown across the app. ID equals the account ID.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"` // "Gestor de Projectos", "Colaborador", ...
	Avatar         string    `json:"avatar"`
	TelegramChatID int64     `json:"-"`
	AllowTelegram  bool      `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
