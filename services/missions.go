package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/glucoquest/glucoquest/models"
)

// Mission type tags matched against counted activity.
const (
	ActivityHealthChecks     = "health_checks"
	ActivityStreak           = "streak"
	ActivityAssistantQueries = "assistant_queries"
)

// missionCatalog is the weekly rotation. Each entry materializes once per
// week window when EnsureWeeklyMissions runs.
var missionCatalog = []models.WeeklyMission{
	{
		Title:        "Health Check Streak",
		Description:  "Complete 3 health checks this week",
		MissionType:  ActivityHealthChecks,
		TargetValue:  3,
		XPReward:     150,
		PointsReward: 50,
	},
	{
		Title:        "Consistency Master",
		Description:  "Log health data 5 days in a row",
		MissionType:  ActivityStreak,
		TargetValue:  5,
		XPReward:     200,
		PointsReward: 75,
	},
	{
		Title:        "Health Explorer",
		Description:  "Ask the health assistant 5 questions",
		MissionType:  ActivityAssistantQueries,
		TargetValue:  5,
		XPReward:     100,
		PointsReward: 30,
	},
}

// MissionStatus pairs a mission with one user's progress against it.
type MissionStatus struct {
	Mission    models.WeeklyMission `json:"mission"`
	Progress   int                  `json:"progress"`
	Completed  bool                 `json:"completed"`
	Percentage int                  `json:"percentage"`
}

// CompletedMission describes a mission that just crossed its target,
// together with the reward that was granted for it.
type CompletedMission struct {
	Title        string `json:"title"`
	XPReward     int    `json:"xp_reward"`
	PointsReward int    `json:"points_reward"`
}

// MissionService manages the weekly mission board.
type MissionService struct {
	db          *gorm.DB
	progression *ProgressionService
}

func NewMissionService(db *gorm.DB, progression *ProgressionService) *MissionService {
	return &MissionService{db: db, progression: progression}
}

// WeekStart truncates a time to the Monday of its ISO week.
func WeekStart(t time.Time) time.Time {
	day := dateOnly(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// EnsureWeeklyMissions materializes the catalog for the current week and
// retires missions from earlier weeks. Safe to call on every request.
func (s *MissionService) EnsureWeeklyMissions(now time.Time) error {
	start := WeekStart(now)
	end := start.AddDate(0, 0, 6)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WeeklyMission{}).
			Where("is_active = ? AND week_start < ?", true, start).
			Update("is_active", false).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.WeeklyMission{}).
			Where("week_start = ?", start).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		for _, tpl := range missionCatalog {
			mission := tpl
			mission.WeekStart = start
			mission.WeekEnd = end
			mission.IsActive = true
			if err := tx.Create(&mission).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ActiveMissions lists the missions of the current week.
func (s *MissionService) ActiveMissions(now time.Time) ([]models.WeeklyMission, error) {
	var missions []models.WeeklyMission
	err := s.db.Where("is_active = ? AND week_start = ?", true, WeekStart(now)).
		Order("id ASC").Find(&missions).Error
	return missions, err
}

// StatusForUser returns the active missions with this user's progress rows,
// creating zero-progress rows lazily.
func (s *MissionService) StatusForUser(userID uint, now time.Time) ([]MissionStatus, error) {
	missions, err := s.ActiveMissions(now)
	if err != nil {
		return nil, err
	}

	statuses := make([]MissionStatus, 0, len(missions))
	for _, mission := range missions {
		progress, err := s.ensureProgress(s.db, userID, mission.ID)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, MissionStatus{
			Mission:    mission,
			Progress:   progress.CurrentProgress,
			Completed:  progress.Completed,
			Percentage: percentage(progress.CurrentProgress, mission.TargetValue),
		})
	}
	return statuses, nil
}

func (s *MissionService) ensureProgress(tx *gorm.DB, userID, missionID uint) (*models.MissionProgress, error) {
	row := models.MissionProgress{UserID: userID, MissionID: missionID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return nil, err
	}
	var progress models.MissionProgress
	if err := tx.Where("user_id = ? AND mission_id = ?", userID, missionID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpdateProgressTx advances every active mission of the given type. Streak
// missions receive the absolute streak value; counting missions an increment.
// Rewards for missions that cross their target are granted inside tx and the
// completions are returned so the caller can surface them.
func (s *MissionService) UpdateProgressTx(tx *gorm.DB, userID uint, missionType string, value int, now time.Time) ([]CompletedMission, error) {
	var missions []models.WeeklyMission
	if err := tx.Where("is_active = ? AND mission_type = ? AND week_start = ?",
		true, missionType, WeekStart(now)).Find(&missions).Error; err != nil {
		return nil, err
	}

	var completed []CompletedMission
	for _, mission := range missions {
		progress, err := s.ensureProgress(tx, userID, mission.ID)
		if err != nil {
			return nil, err
		}
		if progress.Completed {
			continue
		}

		if missionType == ActivityStreak {
			if value > progress.CurrentProgress {
				progress.CurrentProgress = value
			}
		} else {
			progress.CurrentProgress += value
		}

		if progress.CurrentProgress >= mission.TargetValue {
			progress.Completed = true
			completedAt := now
			progress.CompletedAt = &completedAt
			if err := s.progression.GrantRewardTx(tx, userID, mission.PointsReward, mission.XPReward); err != nil {
				return nil, err
			}
			completed = append(completed, CompletedMission{
				Title:        mission.Title,
				XPReward:     mission.XPReward,
				PointsReward: mission.PointsReward,
			})
		}

		if err := tx.Save(progress).Error; err != nil {
			return nil, err
		}
	}
	return completed, nil
}

func percentage(progress, target int) int {
	if target <= 0 {
		return 0
	}
	pct := progress * 100 / target
	if pct > 100 {
		pct = 100
	}
	return pct
}
