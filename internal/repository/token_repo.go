package repository

import (
	"Beacon/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type TokenRepo interface {
	GetToken(ctx context.Context, provider string) (*model.OAuthToken, error)
	SaveToken(ctx context.Context, token *model.OAuthToken) error
}

type tokenRepoImpl struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepo {
	return &tokenRepoImpl{db: db}
}

// GetToken 读取已授权凭据，未连接时返回 nil
func (r *tokenRepoImpl) GetToken(ctx context.Context, provider string) (*model.OAuthToken, error) {
	var token model.OAuthToken
	err := r.db.WithContext(ctx).
		Where("provider = ?", provider).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepoImpl) SaveToken(ctx context.Context, token *model.OAuthToken) error {
	return r.db.WithContext(ctx).Save(token).Error
}
