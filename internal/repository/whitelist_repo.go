package repository

import (
	"context"

	"xmute/mutehub/internal/model"
)

type WhitelistRepository interface {
	Add(ctx context.Context, user *model.WhitelistedUser) error
	Remove(ctx context.Context, userID string) error
	List(ctx context.Context) ([]model.WhitelistedUser, error)
	Contains(ctx context.Context, userID string) (bool, error)
}
