package repository

import (
	"context"

	"quranstudy/models"

	"gorm.io/gorm"
)

type TokenRepository struct {
	DB *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

// FindActive returns the stored, non-blacklisted token of the given type.
func (r *TokenRepository) FindActive(ctx context.Context, value string, tokenType models.TokenType) (*models.Token, error) {
	var token models.Token
	err := r.DB.WithContext(ctx).
		Where("token = ? AND type = ? AND blacklisted = ?", value, tokenType, false).
		First(&token).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &token, nil
}

// Delete removes one stored token. It returns ErrNotFound when the row is already
// gone, so only one of two concurrent refreshes can consume a token.
func (r *TokenRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Token{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteForUser removes every stored token of a user, used when the user is deleted.
func (r *TokenRepository) DeleteForUser(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Token{}).Error
}
