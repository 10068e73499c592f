package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/services"
	"github.com/glucoquest/glucoquest/utils"
)

// GamificationController exposes the progression ledger, mission and
// challenge boards and the leaderboards.
type GamificationController struct {
	db          *gorm.DB
	progression *services.ProgressionService
	missions    *services.MissionService
	challenges  *services.ChallengeService
	leaderboard *services.LeaderboardService
}

func NewGamificationController(db *gorm.DB, progression *services.ProgressionService,
	missions *services.MissionService, challenges *services.ChallengeService,
	leaderboard *services.LeaderboardService) *GamificationController {
	return &GamificationController{
		db:          db,
		progression: progression,
		missions:    missions,
		challenges:  challenges,
		leaderboard: leaderboard,
	}
}

// Progress returns the caller's progression row and badges.
func (g *GamificationController) Progress(ctx *gin.Context) {
	userID, _ := currentUserID(ctx)

	p, err := g.progression.Ensure(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load progression")
		return
	}
	badges, err := g.progression.Badges(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load badges")
		return
	}

	utils.Success(ctx, gin.H{
		"progression":  p,
		"badges":       badges,
		"xp_to_level":  100*p.Level - p.XP,
		"xp_threshold": 100 * p.Level,
	})
}

// Missions returns the current week's missions with the caller's progress.
func (g *GamificationController) Missions(ctx *gin.Context) {
	userID, _ := currentUserID(ctx)
	now := time.Now()

	if err := g.missions.EnsureWeeklyMissions(now); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to prepare missions")
		return
	}
	statuses, err := g.missions.StatusForUser(userID, now)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load missions")
		return
	}

	utils.Success(ctx, gin.H{
		"week_start": services.WeekStart(now).Format("2006-01-02"),
		"missions":   statuses,
	})
}

// Challenges returns the running seasonal challenges with progress.
func (g *GamificationController) Challenges(ctx *gin.Context) {
	userID, _ := currentUserID(ctx)
	now := time.Now()

	if err := g.challenges.EnsureSeasonalChallenges(now); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to prepare challenges")
		return
	}
	statuses, err := g.challenges.StatusForUser(userID, now)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load challenges")
		return
	}

	utils.Success(ctx, gin.H{
		"season":     services.CurrentSeason(now),
		"challenges": statuses,
	})
}

// Leaderboard serves the three public boards, cached for a short window
// since they change with every check.
func (g *GamificationController) Leaderboard(ctx *gin.Context) {
	const cacheKey = "cache:leaderboard:top"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	boards, err := g.leaderboard.Top()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to load leaderboard")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: boards}
	if b, err := json.Marshal(wrapper); err == nil {
		utils.CacheSetBytes(cacheKey, b, 5*time.Minute)
	}
	utils.Success(ctx, boards)
}
