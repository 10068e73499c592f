package main

import (
	"time"

	"github.com/glucoquest/glucoquest/config"
	"github.com/glucoquest/glucoquest/models"
	"github.com/glucoquest/glucoquest/routes"
	"github.com/glucoquest/glucoquest/services"
	"github.com/glucoquest/glucoquest/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
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
	)

	predictor, err := services.LoadPredictor(cfg.ModelPath, cfg.ReferenceDatasetPath)
	if err != nil {
		utils.Sugar.Fatalf("failed to load classifier: %v", err)
	}

	advisor := services.NewAdvisor(cfg.AdviceBaseURL, cfg.AdviceAPIKey, cfg.AdviceModel,
		time.Duration(cfg.AdviceTimeoutSec)*time.Second, utils.Logger)

	// Seed marketplace catalog and open the current mission/challenge windows
	// so the first request does not pay for it.
	rewards := services.RewardPolicy{
		CheckPoints:   cfg.CheckPoints,
		CheckXP:       cfg.CheckXP,
		StreakBonusXP: cfg.StreakBonusXP,
		BadgeBonusXP:  cfg.BadgeBonusXP,
	}
	progression := services.NewProgressionService(db, rewards)
	if err := services.NewMarketplaceService(db, progression).Seed(); err != nil {
		utils.Sugar.Fatalf("marketplace seeding failed: %v", err)
	}
	now := time.Now()
	if err := services.NewMissionService(db, progression).EnsureWeeklyMissions(now); err != nil {
		utils.Sugar.Warnf("weekly mission bootstrap failed: %v", err)
	}
	if err := services.NewChallengeService(db, progression).EnsureSeasonalChallenges(now); err != nil {
		utils.Sugar.Warnf("seasonal challenge bootstrap failed: %v", err)
	}

	r := routes.SetupRouter(db, predictor, advisor)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
