package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/models"
	"github.com/glucoquest/glucoquest/utils"
)

// PreferencesController reads and writes per-user display settings.
type PreferencesController struct {
	db *gorm.DB
}

func NewPreferencesController(db *gorm.DB) *PreferencesController {
	return &PreferencesController{db: db}
}

func (p *PreferencesController) load(userID uint) (*models.Preference, error) {
	var pref models.Preference
	err := p.db.Where(models.Preference{UserID: userID}).
		Attrs(models.Preference{ShowBadges: true, ShowLeaderboard: true}).
		FirstOrCreate(&pref).Error
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// Get returns the caller's preferences, creating defaults on first access.
func (p *PreferencesController) Get(ctx *gin.Context) {
	userID, _ := currentUserID(ctx)

	pref, err := p.load(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load preferences")
		return
	}
	utils.Success(ctx, pref)
}

// Update patches the caller's preferences. Omitted fields keep their value.
func (p *PreferencesController) Update(ctx *gin.Context) {
	userID, _ := currentUserID(ctx)

	var req struct {
		ActiveThemeID   *uint `json:"active_theme_id"`
		ShowBadges      *bool `json:"show_badges"`
		ShowLeaderboard *bool `json:"show_leaderboard"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	pref, err := p.load(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load preferences")
		return
	}

	if req.ActiveThemeID != nil {
		// Theme 0 clears the active theme back to the default look.
		if *req.ActiveThemeID == 0 {
			pref.ActiveThemeID = nil
		} else {
			var owned int64
			if err := p.db.Model(&models.Purchase{}).
				Where("user_id = ? AND item_id = ?", userID, *req.ActiveThemeID).
				Count(&owned).Error; err != nil {
				utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to check ownership")
				return
			}
			if owned == 0 {
				utils.Error(ctx, http.StatusForbidden, 40301, "theme not owned")
				return
			}
			pref.ActiveThemeID = req.ActiveThemeID
		}
	}
	if req.ShowBadges != nil {
		pref.ShowBadges = *req.ShowBadges
	}
	if req.ShowLeaderboard != nil {
		pref.ShowLeaderboard = *req.ShowLeaderboard
	}

	if err := p.db.Save(pref).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to save preferences")
		return
	}
	utils.Success(ctx, pref)
}
