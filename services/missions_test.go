package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/models"
)

func newMissionService(t *testing.T) (*gorm.DB, *MissionService, *ProgressionService) {
	t.Helper()
	db := newTestDB(t)
	progression := NewProgressionService(db, testRewards())
	return db, NewMissionService(db, progression), progression
}

func TestWeekStartIsMonday(t *testing.T) {
	wednesday := time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC)
	monday := WeekStart(wednesday)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), monday)

	// Monday maps to itself, Sunday to the preceding Monday.
	assert.Equal(t, monday, WeekStart(monday))
	sunday := time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(sunday))
}

func TestEnsureWeeklyMissionsIdempotent(t *testing.T) {
	_, svc, _ := newMissionService(t)
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	require.NoError(t, svc.EnsureWeeklyMissions(now))
	require.NoError(t, svc.EnsureWeeklyMissions(now))

	missions, err := svc.ActiveMissions(now)
	require.NoError(t, err)
	assert.Len(t, missions, 3)
}

func TestEnsureWeeklyMissionsRetiresOldWeek(t *testing.T) {
	db, svc, _ := newMissionService(t)
	lastWeek := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)
	thisWeek := lastWeek.AddDate(0, 0, 7)

	require.NoError(t, svc.EnsureWeeklyMissions(lastWeek))
	require.NoError(t, svc.EnsureWeeklyMissions(thisWeek))

	var stale int64
	require.NoError(t, db.Model(&models.WeeklyMission{}).
		Where("is_active = ? AND week_start < ?", true, WeekStart(thisWeek)).
		Count(&stale).Error)
	assert.Zero(t, stale)

	missions, err := svc.ActiveMissions(thisWeek)
	require.NoError(t, err)
	assert.Len(t, missions, 3)
}

func TestStatusForUserStartsAtZero(t *testing.T) {
	db, svc, _ := newMissionService(t)
	user := createTestUser(t, db, "alice")
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.EnsureWeeklyMissions(now))

	statuses, err := svc.StatusForUser(user.ID, now)
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	for _, st := range statuses {
		assert.Zero(t, st.Progress)
		assert.False(t, st.Completed)
		assert.Zero(t, st.Percentage)
	}
}

func TestUpdateProgressCompletesAndRewards(t *testing.T) {
	db, svc, progression := newMissionService(t)
	user := createTestUser(t, db, "alice")
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.EnsureWeeklyMissions(now))
	_, err := progression.Ensure(user.ID)
	require.NoError(t, err)

	var completed []CompletedMission
	for i := 0; i < 3; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			done, err := svc.UpdateProgressTx(tx, user.ID, ActivityHealthChecks, 1, now)
			completed = append(completed, done...)
			return err
		})
		require.NoError(t, err)
	}

	require.Len(t, completed, 1)
	assert.Equal(t, "Health Check Streak", completed[0].Title)

	p, err := progression.Find(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Points)
	// 150 XP clears level 1 (threshold 100) leaving 50.
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 50, p.XP)
}

func TestUpdateProgressStopsAtCompletion(t *testing.T) {
	db, svc, progression := newMissionService(t)
	user := createTestUser(t, db, "alice")
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.EnsureWeeklyMissions(now))
	_, err := progression.Ensure(user.ID)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			_, err := svc.UpdateProgressTx(tx, user.ID, ActivityHealthChecks, 1, now)
			return err
		})
		require.NoError(t, err)
	}

	statuses, err := svc.StatusForUser(user.ID, now)
	require.NoError(t, err)
	for _, st := range statuses {
		if st.Mission.MissionType != ActivityHealthChecks {
			continue
		}
		assert.True(t, st.Completed)
		assert.Equal(t, 3, st.Progress, "progress freezes once completed")
	}

	// Reward granted only once.
	p, _ := progression.Find(user.ID)
	assert.Equal(t, 50, p.Points)
}

func TestUpdateProgressStreakTakesMaximum(t *testing.T) {
	db, svc, progression := newMissionService(t)
	user := createTestUser(t, db, "alice")
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.EnsureWeeklyMissions(now))
	_, err := progression.Ensure(user.ID)
	require.NoError(t, err)

	for _, streak := range []int{3, 2, 4} {
		err := db.Transaction(func(tx *gorm.DB) error {
			_, err := svc.UpdateProgressTx(tx, user.ID, ActivityStreak, streak, now)
			return err
		})
		require.NoError(t, err)
	}

	statuses, err := svc.StatusForUser(user.ID, now)
	require.NoError(t, err)
	for _, st := range statuses {
		if st.Mission.MissionType == ActivityStreak {
			assert.Equal(t, 4, st.Progress, "streak progress never regresses")
			assert.False(t, st.Completed)
		}
	}
}

func TestPercentageCapsAtHundred(t *testing.T) {
	assert.Equal(t, 0, percentage(0, 3))
	assert.Equal(t, 33, percentage(1, 3))
	assert.Equal(t, 100, percentage(3, 3))
	assert.Equal(t, 100, percentage(9, 3))
	assert.Equal(t, 0, percentage(1, 0))
}
