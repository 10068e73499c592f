package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/glucoquest/glucoquest/models"
)

// Badge names awarded by the check pipeline.
const (
	BadgeFirstCheck       = "First Check"
	BadgeHealthEnthusiast = "Health Enthusiast"
	BadgeCommitted        = "Committed"
	BadgeWeekWarrior      = "Week Warrior"
	BadgeMonthlyMaster    = "Monthly Master"
)

// RewardPolicy holds the fixed grants applied by check events.
type RewardPolicy struct {
	CheckPoints   int
	CheckXP       int
	StreakBonusXP int
	BadgeBonusXP  int
}

// CheckResult reports what one check event changed on the ledger.
type CheckResult struct {
	PointsAwarded  int      `json:"points_awarded"`
	XPAwarded      int      `json:"xp_awarded"`
	CurrentStreak  int      `json:"current_streak"`
	StreakExtended bool     `json:"streak_extended"`
	NewBadges      []string `json:"new_badges"`
	Level          int      `json:"level"`
}

// ProgressionService owns all mutations of the per-user progression row.
type ProgressionService struct {
	db      *gorm.DB
	rewards RewardPolicy
}

// NewProgressionService creates a service bound to the given database handle.
func NewProgressionService(db *gorm.DB, rewards RewardPolicy) *ProgressionService {
	return &ProgressionService{db: db, rewards: rewards}
}

// AddXP grants experience and cascades level-ups. The threshold for the next
// level is 100 * level, so a single large grant may advance several levels.
// After normalization xp is always below the current threshold.
func AddXP(p *models.Progression, amount int) {
	if amount <= 0 {
		return
	}
	if p.Level < 1 {
		p.Level = 1
	}
	p.XP += amount
	for p.XP >= 100*p.Level {
		p.XP -= 100 * p.Level
		p.Level++
	}
}

// Find returns the progression row for a user, or nil when none exists.
func (s *ProgressionService) Find(userID uint) (*models.Progression, error) {
	var p models.Progression
	err := s.db.Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Ensure returns the progression row for a user, creating it at defaults when missing.
func (s *ProgressionService) Ensure(userID uint) (*models.Progression, error) {
	p, err := s.Find(userID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	p = &models.Progression{UserID: userID, Level: 1}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(p).Error; err != nil {
		return nil, err
	}
	// Re-read so a concurrent creator's row wins.
	return s.lookup(s.db, userID)
}

func (s *ProgressionService) lookup(tx *gorm.DB, userID uint) (*models.Progression, error) {
	var p models.Progression
	if err := tx.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// withRowLock adds SELECT ... FOR UPDATE on backends that support it.
// SQLite serializes writers on its own and rejects the clause.
func withRowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lockedLookup fetches the progression row under a row lock so concurrent
// check or purchase requests for the same user serialize.
func (s *ProgressionService) lockedLookup(tx *gorm.DB, userID uint) (*models.Progression, error) {
	var p models.Progression
	if err := withRowLock(tx).
		Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Badges lists a user's badges in award order.
func (s *ProgressionService) Badges(userID uint) ([]models.Badge, error) {
	var badges []models.Badge
	if err := s.db.Where("user_id = ?", userID).
		Order("awarded_at ASC, id ASC").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

// AwardBadgeTx inserts a badge if the user does not hold it yet and reports
// whether the badge is new. The (user_id, name) unique index absorbs races.
func (s *ProgressionService) AwardBadgeTx(tx *gorm.DB, userID uint, name string) (bool, error) {
	badge := models.Badge{UserID: userID, Name: name, AwardedAt: time.Now()}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&badge)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ApplyCheckTx applies one prediction event to the ledger inside the caller's
// transaction: points, XP, total checks, the streak rules and badge
// thresholds. The progression row is locked for the duration.
func (s *ProgressionService) ApplyCheckTx(tx *gorm.DB, userID uint, now time.Time) (*CheckResult, error) {
	p, err := s.lockedLookup(tx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = &models.Progression{UserID: userID, Level: 1}
		if err := tx.Create(p).Error; err != nil {
			return nil, err
		}
		if p, err = s.lockedLookup(tx, userID); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	today := dateOnly(now)
	result := &CheckResult{PointsAwarded: s.rewards.CheckPoints, XPAwarded: s.rewards.CheckXP}

	p.Points += s.rewards.CheckPoints
	AddXP(p, s.rewards.CheckXP)
	p.TotalChecks++

	switch {
	case p.LastCheckDate != nil && sameDay(*p.LastCheckDate, today):
		// Second check of the day leaves the streak alone.
	case p.LastCheckDate != nil && sameDay(*p.LastCheckDate, today.AddDate(0, 0, -1)):
		p.CurrentStreak++
		result.StreakExtended = true
		AddXP(p, s.rewards.StreakBonusXP)
		result.XPAwarded += s.rewards.StreakBonusXP
		if p.CurrentStreak > p.LongestStreak {
			p.LongestStreak = p.CurrentStreak
		}
	default:
		p.CurrentStreak = 1
		if p.LongestStreak < 1 {
			p.LongestStreak = 1
		}
	}
	p.LastCheckDate = &today

	// Badge thresholds are evaluated after the streak update. The counts use
	// exact equality so they fire once as the counter passes through.
	for _, candidate := range []struct {
		earned bool
		name   string
	}{
		{p.TotalChecks == 1, BadgeFirstCheck},
		{p.TotalChecks == 5, BadgeHealthEnthusiast},
		{p.TotalChecks == 10, BadgeCommitted},
		{p.CurrentStreak >= 7, BadgeWeekWarrior},
		{p.CurrentStreak >= 30, BadgeMonthlyMaster},
	} {
		if !candidate.earned {
			continue
		}
		fresh, err := s.AwardBadgeTx(tx, userID, candidate.name)
		if err != nil {
			return nil, err
		}
		if fresh {
			AddXP(p, s.rewards.BadgeBonusXP)
			result.XPAwarded += s.rewards.BadgeBonusXP
			result.NewBadges = append(result.NewBadges, candidate.name)
		}
	}

	if err := tx.Save(p).Error; err != nil {
		return nil, err
	}

	result.CurrentStreak = p.CurrentStreak
	result.Level = p.Level
	return result, nil
}

// GrantRewardTx adds points and XP to a locked progression row; used when a
// mission or challenge completes.
func (s *ProgressionService) GrantRewardTx(tx *gorm.DB, userID uint, points, xp int) error {
	p, err := s.lockedLookup(tx, userID)
	if err != nil {
		return err
	}
	p.Points += points
	AddXP(p, xp)
	return tx.Save(p).Error
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
