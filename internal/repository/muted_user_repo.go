package repository

import (
	"context"

	"xmute/mutehub/internal/model"
)

type MutedUserRepository interface {
	Create(ctx context.Context, user *model.MutedUser) error
	Exists(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context) ([]model.MutedUser, error)
	ListByCountry(ctx context.Context, country string) ([]model.MutedUser, error)
	Delete(ctx context.Context, userID string) error
	Count(ctx context.Context) (int64, error)
	CountByCountry(ctx context.Context) (map[string]int64, error)
}
