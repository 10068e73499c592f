package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/models"
)

func TestAddXPSingleLevelUp(t *testing.T) {
	p := &models.Progression{Level: 1, XP: 90}
	AddXP(p, 20)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 10, p.XP)
}

func TestAddXPCascadesLevels(t *testing.T) {
	// 100 + 200 = 300 needed to clear levels 1 and 2.
	p := &models.Progression{Level: 1}
	AddXP(p, 350)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 50, p.XP)
}

func TestAddXPKeepsXPBelowThreshold(t *testing.T) {
	p := &models.Progression{Level: 1}
	for _, grant := range []int{25, 130, 999, 40, 5000} {
		AddXP(p, grant)
		assert.Less(t, p.XP, 100*p.Level)
	}
}

func TestAddXPIgnoresNonPositive(t *testing.T) {
	p := &models.Progression{Level: 2, XP: 30}
	AddXP(p, 0)
	AddXP(p, -10)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 30, p.XP)
}

func TestEnsureCreatesAtDefaults(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	svc := NewProgressionService(db, testRewards())

	p, err := svc.Ensure(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0, p.Points)
	assert.Equal(t, 0, p.TotalChecks)

	again, err := svc.Ensure(user.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
}

func TestApplyCheckFirstEver(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	svc := NewProgressionService(db, testRewards())

	now := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	var result *CheckResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = svc.ApplyCheckTx(tx, user.ID, now)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, 10, result.PointsAwarded)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.False(t, result.StreakExtended)
	assert.Contains(t, result.NewBadges, BadgeFirstCheck)

	p, err := svc.Find(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Points)
	assert.Equal(t, 1, p.TotalChecks)
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 1, p.LongestStreak)
	require.NotNil(t, p.LastCheckDate)
}

func applyCheck(t *testing.T, db *gorm.DB, svc *ProgressionService, userID uint, now time.Time) *CheckResult {
	t.Helper()
	var result *CheckResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = svc.ApplyCheckTx(tx, userID, now)
		return err
	})
	require.NoError(t, err)
	return result
}

func TestApplyCheckSameDayKeepsStreak(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	svc := NewProgressionService(db, testRewards())

	day := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	applyCheck(t, db, svc, user.ID, day)
	result := applyCheck(t, db, svc, user.ID, day.Add(6*time.Hour))

	assert.Equal(t, 1, result.CurrentStreak)
	assert.False(t, result.StreakExtended)

	p, _ := svc.Find(user.ID)
	assert.Equal(t, 2, p.TotalChecks)
	assert.Equal(t, 20, p.Points)
}

func TestApplyCheckConsecutiveDayExtendsStreak(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	svc := NewProgressionService(db, testRewards())

	day := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	applyCheck(t, db, svc, user.ID, day)
	result := applyCheck(t, db, svc, user.ID, day.AddDate(0, 0, 1))

	assert.Equal(t, 2, result.CurrentStreak)
	assert.True(t, result.StreakExtended)

	p, _ := svc.Find(user.ID)
	assert.Equal(t, 2, p.LongestStreak)
}

func TestApplyCheckGapResetsStreak(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	svc := NewProgressionService(db, testRewards())

	day := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	applyCheck(t, db, svc, user.ID, day)
	applyCheck(t, db, svc, user.ID, day.AddDate(0, 0, 1))
	result := applyCheck(t, db, svc, user.ID, day.AddDate(0, 0, 5))

	assert.Equal(t, 1, result.CurrentStreak)

	p, _ := svc.Find(user.ID)
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 2, p.LongestStreak, "longest streak survives the reset")
}

func TestCheckCountBadges(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	svc := NewProgressionService(db, testRewards())

	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	var earned []string
	for i := 0; i < 10; i++ {
		result := applyCheck(t, db, svc, user.ID, day.Add(time.Duration(i)*time.Hour))
		earned = append(earned, result.NewBadges...)
	}

	assert.Equal(t, []string{BadgeFirstCheck, BadgeHealthEnthusiast, BadgeCommitted}, earned)

	badges, err := svc.Badges(user.ID)
	require.NoError(t, err)
	assert.Len(t, badges, 3)
}

func TestStreakBadgesAwardedOnce(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	svc := NewProgressionService(db, testRewards())

	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 9; i++ {
		applyCheck(t, db, svc, user.ID, day.AddDate(0, 0, i))
	}

	badges, err := svc.Badges(user.ID)
	require.NoError(t, err)

	names := make(map[string]int)
	for _, b := range badges {
		names[b.Name]++
	}
	assert.Equal(t, 1, names[BadgeWeekWarrior], "streak >= 7 fires exactly one badge row")
}

func TestAwardBadgeIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	svc := NewProgressionService(db, testRewards())

	fresh, err := svc.AwardBadgeTx(db, user.ID, BadgeWeekWarrior)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = svc.AwardBadgeTx(db, user.ID, BadgeWeekWarrior)
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestGrantRewardTx(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	svc := NewProgressionService(db, testRewards())
	_, err := svc.Ensure(user.ID)
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.GrantRewardTx(tx, user.ID, 50, 150)
	})
	require.NoError(t, err)

	p, _ := svc.Find(user.ID)
	assert.Equal(t, 50, p.Points)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 50, p.XP)
}
