package models

import "time"

// Progression holds one user's gamification counters. Level starts at 1 and
// never decreases; XP is kept below the next-level threshold (100 * level)
// after every grant.
type Progression struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Points        int        `gorm:"not null;default:0" json:"points"`
	XP            int        `gorm:"not null;default:0" json:"xp"`
	Level         int        `gorm:"not null;default:1" json:"level"`
	CurrentStreak int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak int        `gorm:"not null;default:0" json:"longest_streak"`
	LastCheckDate *time.Time `gorm:"type:date" json:"last_check_date"`
	TotalChecks   int        `gorm:"not null;default:0" json:"total_checks"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	User          User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// Badge is one earned badge. The (user_id, name) unique index makes awarding
// idempotent at the schema level.
type Badge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:idx_badge_user_name;not null" json:"user_id"`
	Name      string    `gorm:"size:80;uniqueIndex:idx_badge_user_name;not null" json:"name"`
	AwardedAt time.Time `json:"awarded_at"`
}
