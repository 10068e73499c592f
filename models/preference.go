package models

import "time"

// Preference stores per-user display settings. Lifecycle is independent of
// the progression row; it is created on first write.
type Preference struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	ActiveThemeID   *uint     `json:"active_theme_id"`
	ShowBadges      bool      `gorm:"default:true" json:"show_badges"`
	ShowLeaderboard bool      `gorm:"default:true" json:"show_leaderboard"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
