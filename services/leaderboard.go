package services

import (
	"gorm.io/gorm"
)

// LeaderboardEntry is one ranked row. Value carries the board's metric.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Level    int    `json:"level"`
	Value    int    `json:"value"`
}

// Leaderboards bundles the three boards served together.
type Leaderboards struct {
	Points  []LeaderboardEntry `json:"points"`
	Streaks []LeaderboardEntry `json:"streaks"`
	Checks  []LeaderboardEntry `json:"checks"`
}

const leaderboardSize = 10

// LeaderboardService ranks users by points, longest streak and total checks.
type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// Top builds all three boards, ten entries each.
func (s *LeaderboardService) Top() (*Leaderboards, error) {
	points, err := s.board("progressions.points")
	if err != nil {
		return nil, err
	}
	streaks, err := s.board("progressions.longest_streak")
	if err != nil {
		return nil, err
	}
	checks, err := s.board("progressions.total_checks")
	if err != nil {
		return nil, err
	}
	return &Leaderboards{Points: points, Streaks: streaks, Checks: checks}, nil
}

func (s *LeaderboardService) board(metric string) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := s.db.Table("progressions").
		Select("progressions.user_id, users.username, progressions.level, "+metric+" AS value").
		Joins("JOIN users ON users.id = progressions.user_id AND users.deleted_at IS NULL").
		Order(metric + " DESC, progressions.user_id ASC").
		Limit(leaderboardSize).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
