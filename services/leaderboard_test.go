package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/models"
)

func seedRankedUsers(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		user := createTestUser(t, db, fmt.Sprintf("user%02d", i))
		p := models.Progression{
			UserID:        user.ID,
			Points:        i * 10,
			Level:         1 + i/3,
			LongestStreak: n - i + 1,
			TotalChecks:   i,
		}
		require.NoError(t, db.Create(&p).Error)
	}
}

func TestTopRanksAllThreeBoards(t *testing.T) {
	db := newTestDB(t)
	seedRankedUsers(t, db, 4)
	svc := NewLeaderboardService(db)

	boards, err := svc.Top()
	require.NoError(t, err)

	require.Len(t, boards.Points, 4)
	assert.Equal(t, "user04", boards.Points[0].Username)
	assert.Equal(t, 40, boards.Points[0].Value)
	assert.Equal(t, 1, boards.Points[0].Rank)
	assert.Equal(t, 4, boards.Points[3].Rank)

	assert.Equal(t, "user01", boards.Streaks[0].Username, "longest streak board inverts the order")
	assert.Equal(t, "user04", boards.Checks[0].Username)
}

func TestTopLimitsToTen(t *testing.T) {
	db := newTestDB(t)
	seedRankedUsers(t, db, 14)
	svc := NewLeaderboardService(db)

	boards, err := svc.Top()
	require.NoError(t, err)
	assert.Len(t, boards.Points, 10)
	assert.Len(t, boards.Streaks, 10)
	assert.Len(t, boards.Checks, 10)
	assert.Equal(t, 140, boards.Points[0].Value)
}

func TestTopSkipsDeletedUsers(t *testing.T) {
	db := newTestDB(t)
	seedRankedUsers(t, db, 3)
	svc := NewLeaderboardService(db)

	require.NoError(t, db.Where("username = ?", "user03").Delete(&models.User{}).Error)

	boards, err := svc.Top()
	require.NoError(t, err)
	require.Len(t, boards.Points, 2)
	assert.Equal(t, "user02", boards.Points[0].Username)
}

func TestTopEmptyDatabase(t *testing.T) {
	svc := NewLeaderboardService(newTestDB(t))
	boards, err := svc.Top()
	require.NoError(t, err)
	assert.Empty(t, boards.Points)
}
