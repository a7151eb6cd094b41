package models

import "time"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Token is a persisted refresh token. Access tokens are never stored.
type Token struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	Token       string    `json:"token" gorm:"uniqueIndex;not null"`
	UserID      string    `json:"user" gorm:"type:varchar(36);not null;index"`
	Type        TokenType `json:"type" gorm:"type:varchar(16);not null"`
	Expires     time.Time `json:"expires" gorm:"not null"`
	Blacklisted bool      `json:"blacklisted" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"createdAt"`
}
