package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/glucoquest/glucoquest/models"
)

// Seasons roll on meteorological boundaries; winter spans the year break.
const (
	SeasonWinter = "winter"
	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonFall   = "fall"
)

var challengeCatalog = map[string][]models.SeasonalChallenge{
	SeasonWinter: {
		{
			Title:         "Winter Wellness Warrior",
			Description:   "Complete 20 health checks during winter",
			ChallengeType: ActivityHealthChecks,
			TargetValue:   20,
			XPReward:      1000,
			PointsReward:  500,
			BadgeReward:   "Winter Warrior",
		},
		{
			Title:         "New Year Health Champion",
			Description:   "Maintain a 30-day streak",
			ChallengeType: ActivityStreak,
			TargetValue:   30,
			XPReward:      2000,
			PointsReward:  1000,
			BadgeReward:   "New Year Champion",
		},
	},
	SeasonSpring: {
		{
			Title:         "Spring Renewal",
			Description:   "Complete 25 health checks this spring",
			ChallengeType: ActivityHealthChecks,
			TargetValue:   25,
			XPReward:      1200,
			PointsReward:  600,
			BadgeReward:   "Spring Renewal",
		},
	},
	SeasonSummer: {
		{
			Title:         "Summer Fitness Challenge",
			Description:   "Complete 30 health checks this summer",
			ChallengeType: ActivityHealthChecks,
			TargetValue:   30,
			XPReward:      1500,
			PointsReward:  750,
			BadgeReward:   "Summer Star",
		},
	},
	SeasonFall: {
		{
			Title:         "Fall Harvest Health",
			Description:   "Complete 25 health checks this fall",
			ChallengeType: ActivityHealthChecks,
			TargetValue:   25,
			XPReward:      1200,
			PointsReward:  600,
			BadgeReward:   "Harvest Hero",
		},
	},
}

// ChallengeStatus pairs a challenge with one user's progress against it.
type ChallengeStatus struct {
	Challenge  models.SeasonalChallenge `json:"challenge"`
	Progress   int                      `json:"progress"`
	Completed  bool                     `json:"completed"`
	Percentage int                      `json:"percentage"`
}

// CompletedChallenge reports a challenge that just crossed its target.
type CompletedChallenge struct {
	Title        string `json:"title"`
	XPReward     int    `json:"xp_reward"`
	PointsReward int    `json:"points_reward"`
	BadgeReward  string `json:"badge_reward,omitempty"`
}

// ChallengeService manages the seasonal challenge board.
type ChallengeService struct {
	db          *gorm.DB
	progression *ProgressionService
}

func NewChallengeService(db *gorm.DB, progression *ProgressionService) *ChallengeService {
	return &ChallengeService{db: db, progression: progression}
}

// CurrentSeason names the season the given time falls in.
func CurrentSeason(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonFall
	}
}

// SeasonWindow returns the first and last day of the season containing t.
func SeasonWindow(t time.Time) (start, end time.Time) {
	year := t.Year()
	switch CurrentSeason(t) {
	case SeasonWinter:
		if t.Month() != time.December {
			year--
		}
		start = time.Date(year, time.December, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year+1, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	case SeasonSpring:
		start = time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, time.May, 31, 0, 0, 0, 0, time.UTC)
	case SeasonSummer:
		start = time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, time.August, 31, 0, 0, 0, 0, time.UTC)
	default:
		start = time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, time.November, 30, 0, 0, 0, 0, time.UTC)
	}
	return start, end
}

// EnsureSeasonalChallenges materializes the catalog for the current season.
// Safe to call on every request.
func (s *ChallengeService) EnsureSeasonalChallenges(now time.Time) error {
	season := CurrentSeason(now)
	start, end := SeasonWindow(now)

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.SeasonalChallenge{}).
			Where("season = ? AND start_date = ?", season, start).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		for _, tpl := range challengeCatalog[season] {
			challenge := tpl
			challenge.Season = season
			challenge.StartDate = start
			challenge.EndDate = end
			challenge.IsActive = true
			if err := tx.Create(&challenge).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ActiveChallenges lists challenges whose window contains now.
func (s *ChallengeService) ActiveChallenges(now time.Time) ([]models.SeasonalChallenge, error) {
	var challenges []models.SeasonalChallenge
	today := dateOnly(now)
	err := s.db.Where("is_active = ? AND start_date <= ? AND end_date >= ?",
		true, today, today).Order("id ASC").Find(&challenges).Error
	return challenges, err
}

// StatusForUser returns the active challenges with this user's progress rows,
// creating zero-progress rows lazily.
func (s *ChallengeService) StatusForUser(userID uint, now time.Time) ([]ChallengeStatus, error) {
	challenges, err := s.ActiveChallenges(now)
	if err != nil {
		return nil, err
	}

	statuses := make([]ChallengeStatus, 0, len(challenges))
	for _, challenge := range challenges {
		progress, err := s.ensureProgress(s.db, userID, challenge.ID)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, ChallengeStatus{
			Challenge:  challenge,
			Progress:   progress.CurrentProgress,
			Completed:  progress.Completed,
			Percentage: percentage(progress.CurrentProgress, challenge.TargetValue),
		})
	}
	return statuses, nil
}

func (s *ChallengeService) ensureProgress(tx *gorm.DB, userID, challengeID uint) (*models.ChallengeProgress, error) {
	row := models.ChallengeProgress{UserID: userID, ChallengeID: challengeID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return nil, err
	}
	var progress models.ChallengeProgress
	if err := tx.Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpdateProgressTx advances every active challenge of the given type inside
// the caller's transaction, granting rewards and the badge for completions.
func (s *ChallengeService) UpdateProgressTx(tx *gorm.DB, userID uint, challengeType string, value int, now time.Time) ([]CompletedChallenge, error) {
	today := dateOnly(now)
	var challenges []models.SeasonalChallenge
	if err := tx.Where("is_active = ? AND challenge_type = ? AND start_date <= ? AND end_date >= ?",
		true, challengeType, today, today).Find(&challenges).Error; err != nil {
		return nil, err
	}

	var completed []CompletedChallenge
	for _, challenge := range challenges {
		progress, err := s.ensureProgress(tx, userID, challenge.ID)
		if err != nil {
			return nil, err
		}
		if progress.Completed {
			continue
		}

		if challengeType == ActivityStreak {
			if value > progress.CurrentProgress {
				progress.CurrentProgress = value
			}
		} else {
			progress.CurrentProgress += value
		}

		if progress.CurrentProgress >= challenge.TargetValue {
			progress.Completed = true
			completedAt := now
			progress.CompletedAt = &completedAt
			if err := s.progression.GrantRewardTx(tx, userID, challenge.PointsReward, challenge.XPReward); err != nil {
				return nil, err
			}
			if challenge.BadgeReward != "" {
				if _, err := s.progression.AwardBadgeTx(tx, userID, challenge.BadgeReward); err != nil {
					return nil, err
				}
			}
			completed = append(completed, CompletedChallenge{
				Title:        challenge.Title,
				XPReward:     challenge.XPReward,
				PointsReward: challenge.PointsReward,
				BadgeReward:  challenge.BadgeReward,
			})
		}

		if err := tx.Save(progress).Error; err != nil {
			return nil, err
		}
	}
	return completed, nil
}
