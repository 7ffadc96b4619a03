package repository

import (
	"time"

	"github.com/sahabat-guru/backend/internal/model"
	"gorm.io/gorm"
)

type TokenRepository interface {
	Create(token *model.RefreshToken) error
	FindByToken(token string) (*model.RefreshToken, error)
	Revoke(token *model.RefreshToken) error
	RevokeAllForUser(userID uint) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *model.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *tokenRepository) FindByToken(token string) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	if err := r.db.Where("token = ?", token).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *tokenRepository) Revoke(token *model.RefreshToken) error {
	now := time.Now()
	token.RevokedAt = &now
	return r.db.Save(token).Error
}

func (r *tokenRepository) RevokeAllForUser(userID uint) error {
	return r.db.Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}
