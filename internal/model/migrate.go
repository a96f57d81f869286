package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&MutedUser{},
		&WhitelistedUser{},
	); err != nil {
		return err
	}

	// Case-insensitive username lookup for both tables.
	if err := db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_muted_users_username_lower " +
			"ON muted_users ((lower(username)))",
	).Error; err != nil {
		return err
	}

	return db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_whitelisted_users_username_lower " +
			"ON whitelisted_users ((lower(username)))",
	).Error
}
