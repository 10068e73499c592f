package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/glucoquest/glucoquest/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.HealthRecord{},
		&models.Progression{},
		&models.Badge{},
		&models.WeeklyMission{},
		&models.MissionProgress{},
		&models.SeasonalChallenge{},
		&models.ChallengeProgress{},
		&models.MarketplaceItem{},
		&models.Purchase{},
		&models.Preference{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func testRewards() RewardPolicy {
	return RewardPolicy{CheckPoints: 10, CheckXP: 25, StreakBonusXP: 15, BadgeBonusXP: 50}
}
