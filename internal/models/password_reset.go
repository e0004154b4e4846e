package models

import "time"

type PasswordReset struct {
	ID        string     `json:"id"`
	AccountID string     `json:"accountId"`
	Token     string     `json:"-"`
	ExpiresAt time.Time  `json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
