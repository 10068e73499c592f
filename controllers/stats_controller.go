package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/models"
	"github.com/glucoquest/glucoquest/utils"
)

// StatsController provides aggregate site statistics.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the service.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var checkCount int64
	var highRiskCount int64
	var checksToday int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		userCount = 0
	}

	if err := s.db.Model(&models.HealthRecord{}).Count(&checkCount).Error; err != nil {
		checkCount = 0
	}

	if err := s.db.Model(&models.HealthRecord{}).
		Where("prediction = ?", 1).Count(&highRiskCount).Error; err != nil {
		highRiskCount = 0
	}

	dayStart := time.Now().Truncate(24 * time.Hour)
	if err := s.db.Model(&models.HealthRecord{}).
		Where("created_at >= ?", dayStart).Count(&checksToday).Error; err != nil {
		checksToday = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":      userCount,
		"check_count":     checkCount,
		"high_risk_count": highRiskCount,
		"checks_today":    checksToday,
	})
}
