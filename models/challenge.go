package models

import "time"

// SeasonalChallenge is a quarterly goal template. Unlike weekly missions a
// challenge may carry a badge reward on top of XP and points.
type SeasonalChallenge struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:120;not null" json:"title"`
	Description   string    `gorm:"size:255" json:"description"`
	Season        string    `gorm:"size:16;index;not null" json:"season"`
	ChallengeType string    `gorm:"size:32;index;not null" json:"challenge_type"`
	TargetValue   int       `gorm:"not null" json:"target_value"`
	XPReward      int       `gorm:"not null" json:"xp_reward"`
	PointsReward  int       `gorm:"not null" json:"points_reward"`
	BadgeReward   string    `gorm:"size:80" json:"badge_reward"`
	StartDate     time.Time `gorm:"type:date;index;not null" json:"start_date"`
	EndDate       time.Time `gorm:"type:date;not null" json:"end_date"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChallengeProgress mirrors MissionProgress at the seasonal granularity.
type ChallengeProgress struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	UserID          uint              `gorm:"uniqueIndex:idx_challenge_user;not null" json:"user_id"`
	ChallengeID     uint              `gorm:"uniqueIndex:idx_challenge_user;not null" json:"challenge_id"`
	CurrentProgress int               `gorm:"not null;default:0" json:"current_progress"`
	Completed       bool              `gorm:"default:false" json:"completed"`
	CompletedAt     *time.Time        `json:"completed_at"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Challenge       SeasonalChallenge `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
