package model

import "time"

// WhitelistedUser is a user explicitly exempted from muting. Whitelisting
// short-circuits every other disposition check.
type WhitelistedUser struct {
	UserID        string    `gorm:"primaryKey" json:"user_id"`
	Username      string    `gorm:"not null" json:"username"`
	WhitelistedAt time.Time `gorm:"not null" json:"whitelisted_at"`
}

func (WhitelistedUser) TableName() string { return "whitelisted_users" }
