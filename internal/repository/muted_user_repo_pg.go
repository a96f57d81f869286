package repository

import (
	"context"

	"gorm.io/gorm"

	"xmute/mutehub/internal/model"
)

type pgMutedUserRepository struct {
	db *gorm.DB
}

func NewPGMutedUserRepository(db *gorm.DB) MutedUserRepository {
	return &pgMutedUserRepository{db: db}
}

func (r *pgMutedUserRepository) Create(ctx context.Context, user *model.MutedUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *pgMutedUserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.MutedUser{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *pgMutedUserRepository) List(ctx context.Context) ([]model.MutedUser, error) {
	var users []model.MutedUser
	err := r.db.WithContext(ctx).Order("muted_at DESC").Find(&users).Error
	return users, err
}

func (r *pgMutedUserRepository) ListByCountry(ctx context.Context, country string) ([]model.MutedUser, error) {
	var users []model.MutedUser
	err := r.db.WithContext(ctx).
		Where("country = ?", country).
		Order("muted_at DESC").
		Find(&users).Error
	return users, err
}

func (r *pgMutedUserRepository) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Delete(&model.MutedUser{}, "user_id = ?", userID).Error
}

func (r *pgMutedUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.MutedUser{}).Count(&count).Error
	return count, err
}

func (r *pgMutedUserRepository) CountByCountry(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Country string
		Total   int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.MutedUser{}).
		Select("country, count(*) as total").
		Group("country").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Country] = r.Total
	}
	return counts, nil
}
