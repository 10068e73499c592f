package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/models"
	"github.com/glucoquest/glucoquest/services"
	"github.com/glucoquest/glucoquest/utils"
)

// MarketplaceController exposes the theme shop and the active theme toggle.
type MarketplaceController struct {
	db          *gorm.DB
	marketplace *services.MarketplaceService
	progression *services.ProgressionService
}

func NewMarketplaceController(db *gorm.DB, marketplace *services.MarketplaceService,
	progression *services.ProgressionService) *MarketplaceController {
	return &MarketplaceController{db: db, marketplace: marketplace, progression: progression}
}

// Catalog lists every available item, annotated with the caller's
// ownership and whether their level unlocks it.
func (m *MarketplaceController) Catalog(ctx *gin.Context) {
	userID, _ := currentUserID(ctx)

	p, err := m.progression.Ensure(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load progression")
		return
	}

	items, err := m.marketplace.AllItems()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load marketplace")
		return
	}

	purchases, err := m.marketplace.PurchasesFor(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load purchases")
		return
	}
	owned := make(map[uint]bool, len(purchases))
	for _, purchase := range purchases {
		owned[purchase.ItemID] = true
	}

	type catalogItem struct {
		models.MarketplaceItem
		Owned    bool `json:"owned"`
		Unlocked bool `json:"unlocked"`
	}
	annotated := make([]catalogItem, 0, len(items))
	for _, item := range items {
		annotated = append(annotated, catalogItem{
			MarketplaceItem: item,
			Owned:           owned[item.ID],
			Unlocked:        p.Level >= item.RequiredLevel,
		})
	}

	utils.Success(ctx, gin.H{
		"items":   annotated,
		"balance": p.Points,
		"level":   p.Level,
	})
}

// Purchases lists the caller's owned items.
func (m *MarketplaceController) Purchases(ctx *gin.Context) {
	userID, _ := currentUserID(ctx)

	purchases, err := m.marketplace.PurchasesFor(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load purchases")
		return
	}
	utils.Success(ctx, gin.H{"purchases": purchases})
}

// Purchase buys an item. Declines come back as a 200 with purchased=false
// and the reason; the balance only moves on success.
func (m *MarketplaceController) Purchase(ctx *gin.Context) {
	userID, _ := currentUserID(ctx)

	itemID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid item id")
		return
	}

	if _, err := m.progression.Ensure(userID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load progression")
		return
	}

	result, err := m.marketplace.Purchase(userID, uint(itemID))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to process purchase")
		return
	}
	utils.Success(ctx, result)
}

// ActivateTheme sets a purchased theme as the caller's active theme.
func (m *MarketplaceController) ActivateTheme(ctx *gin.Context) {
	userID, _ := currentUserID(ctx)

	itemID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid item id")
		return
	}

	item, err := m.marketplace.OwnedItem(userID, uint(itemID))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to check ownership")
		return
	}
	if item == nil {
		utils.Error(ctx, http.StatusForbidden, 40301, "theme not owned")
		return
	}

	themeID := uint(itemID)
	var pref models.Preference
	err = m.db.Where(models.Preference{UserID: userID}).
		Attrs(models.Preference{ShowBadges: true, ShowLeaderboard: true}).
		FirstOrCreate(&pref).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to activate theme")
		return
	}
	pref.ActiveThemeID = &themeID
	if err := m.db.Save(&pref).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to activate theme")
		return
	}

	utils.Success(ctx, gin.H{
		"active_theme_id": themeID,
		"theme_data":      item.ThemeData,
	})
}
