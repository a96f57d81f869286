package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"xmute/mutehub/internal/model"
)

type pgWhitelistRepository struct {
	db *gorm.DB
}

func NewPGWhitelistRepository(db *gorm.DB) WhitelistRepository {
	return &pgWhitelistRepository{db: db}
}

func (r *pgWhitelistRepository) Add(ctx context.Context, user *model.WhitelistedUser) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// Already whitelisted, nothing to do.
		return nil
	}
	return err
}

func (r *pgWhitelistRepository) Remove(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Delete(&model.WhitelistedUser{}, "user_id = ?", userID).Error
}

func (r *pgWhitelistRepository) List(ctx context.Context) ([]model.WhitelistedUser, error) {
	var users []model.WhitelistedUser
	err := r.db.WithContext(ctx).Order("whitelisted_at DESC").Find(&users).Error
	return users, err
}

func (r *pgWhitelistRepository) Contains(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WhitelistedUser{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}
