package models

import "time"

// WeeklyMission is a time-boxed goal template valid for one calendar week.
type WeeklyMission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:120;not null" json:"title"`
	Description  string    `gorm:"size:255" json:"description"`
	MissionType  string    `gorm:"size:32;index;not null" json:"mission_type"`
	TargetValue  int       `gorm:"not null" json:"target_value"`
	XPReward     int       `gorm:"not null" json:"xp_reward"`
	PointsReward int       `gorm:"not null" json:"points_reward"`
	WeekStart    time.Time `gorm:"type:date;index;not null" json:"week_start"`
	WeekEnd      time.Time `gorm:"type:date;not null" json:"week_end"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// MissionProgress is a per-user counter against one mission, created lazily
// at zero on first touch. Completion is one-way.
type MissionProgress struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UserID          uint          `gorm:"uniqueIndex:idx_mission_user;not null" json:"user_id"`
	MissionID       uint          `gorm:"uniqueIndex:idx_mission_user;not null" json:"mission_id"`
	CurrentProgress int           `gorm:"not null;default:0" json:"current_progress"`
	Completed       bool          `gorm:"default:false" json:"completed"`
	CompletedAt     *time.Time    `json:"completed_at"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Mission         WeeklyMission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
