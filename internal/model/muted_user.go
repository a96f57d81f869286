package model

import "time"

// MutedUser is the durable record of a mute this service issued itself.
// One record per platform user id; records are never updated, only created
// on a successful mute and deleted by unmute-driven cleanup.
type MutedUser struct {
	UserID   string    `gorm:"primaryKey" json:"user_id"`
	Username string    `gorm:"not null;index" json:"username"`
	Country  string    `gorm:"not null;index" json:"country"`
	MutedAt  time.Time `gorm:"not null" json:"muted_at"`
}

func (MutedUser) TableName() string { return "muted_users" }
