package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/config"
	"github.com/glucoquest/glucoquest/controllers"
	"github.com/glucoquest/glucoquest/middleware"
	"github.com/glucoquest/glucoquest/services"
	"github.com/glucoquest/glucoquest/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, predictor *services.Predictor, advisor *services.Advisor) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}
	r.Use(middleware.RequestID())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	rewards := services.RewardPolicy{
		CheckPoints:   cfg.CheckPoints,
		CheckXP:       cfg.CheckXP,
		StreakBonusXP: cfg.StreakBonusXP,
		BadgeBonusXP:  cfg.BadgeBonusXP,
	}
	progressionSvc := services.NewProgressionService(db, rewards)
	missionSvc := services.NewMissionService(db, progressionSvc)
	challengeSvc := services.NewChallengeService(db, progressionSvc)
	marketplaceSvc := services.NewMarketplaceService(db, progressionSvc)
	exportSvc := services.NewExportService(db)
	leaderboardSvc := services.NewLeaderboardService(db)

	authController := controllers.NewAuthController(db, progressionSvc)
	predictController := controllers.NewPredictController(db, predictor, progressionSvc, missionSvc, challengeSvc)
	assistantController := controllers.NewAssistantController(db, advisor, missionSvc, challengeSvc)
	gamificationController := controllers.NewGamificationController(db, progressionSvc, missionSvc, challengeSvc, leaderboardSvc)
	marketplaceController := controllers.NewMarketplaceController(db, marketplaceSvc, progressionSvc)
	exportController := controllers.NewExportController(db, exportSvc)
	preferencesController := controllers.NewPreferencesController(db)
	recordsController := controllers.NewRecordsController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Prediction and the assistant accept anonymous calls; identity, when
	// present, feeds the gamification ledger.
	api.POST("/predict", middleware.OptionalAuth(), middleware.RateLimitMiddleware(), predictController.Predict)
	api.POST("/assistant", middleware.OptionalAuth(), middleware.RateLimitMiddleware(), assistantController.Ask)

	// Public endpoints
	api.GET("/stats", statsController.GetStats)
	api.GET("/leaderboard", gamificationController.Leaderboard)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.GET("/records", recordsController.List)
	protected.GET("/progress", gamificationController.Progress)
	protected.GET("/missions", gamificationController.Missions)
	protected.GET("/challenges", gamificationController.Challenges)
	protected.GET("/marketplace", marketplaceController.Catalog)
	protected.GET("/marketplace/purchases", marketplaceController.Purchases)
	protected.POST("/marketplace/:id/purchase", marketplaceController.Purchase)
	protected.POST("/marketplace/:id/activate", marketplaceController.ActivateTheme)
	protected.GET("/export/csv", exportController.CSV)
	protected.GET("/export/pdf", exportController.PDF)
	protected.GET("/preferences", preferencesController.Get)
	protected.PUT("/preferences", preferencesController.Update)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
