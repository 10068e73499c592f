package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/glucoquest/glucoquest/models"
)

var marketplaceThemes = []models.MarketplaceItem{
	{
		Name:          "Ocean Blue Theme",
		Description:   "Calming blue tones inspired by the ocean",
		ItemType:      "theme",
		Cost:          100,
		ThemeData:     `{"primary": "#0077be", "secondary": "#4FC3F7", "background": "#E1F5FE"}`,
		Icon:          "🌊",
		RequiredLevel: 1,
	},
	{
		Name:          "Forest Green Theme",
		Description:   "Natural green shades from the forest",
		ItemType:      "theme",
		Cost:          150,
		ThemeData:     `{"primary": "#2E7D32", "secondary": "#66BB6A", "background": "#E8F5E9"}`,
		Icon:          "🌲",
		RequiredLevel: 3,
	},
	{
		Name:          "Sunset Orange Theme",
		Description:   "Warm sunset colors for a cozy feel",
		ItemType:      "theme",
		Cost:          200,
		ThemeData:     `{"primary": "#E65100", "secondary": "#FF9800", "background": "#FFF3E0"}`,
		Icon:          "🌅",
		RequiredLevel: 5,
	},
	{
		Name:          "Purple Royalty Theme",
		Description:   "Elegant purple hues fit for royalty",
		ItemType:      "theme",
		Cost:          250,
		ThemeData:     `{"primary": "#6A1B9A", "secondary": "#AB47BC", "background": "#F3E5F5"}`,
		Icon:          "👑",
		RequiredLevel: 7,
	},
	{
		Name:          "Midnight Dark Theme",
		Description:   "Sleek dark mode for night owls",
		ItemType:      "theme",
		Cost:          300,
		ThemeData:     `{"primary": "#263238", "secondary": "#546E7A", "background": "#37474F"}`,
		Icon:          "🌙",
		RequiredLevel: 10,
	},
	{
		Name:          "Cherry Blossom Theme",
		Description:   "Delicate pink sakura aesthetics",
		ItemType:      "theme",
		Cost:          350,
		ThemeData:     `{"primary": "#E91E63", "secondary": "#F48FB1", "background": "#FCE4EC"}`,
		Icon:          "🌸",
		RequiredLevel: 12,
	},
	{
		Name:          "Gold Premium Theme",
		Description:   "Luxurious gold accents for elite users",
		ItemType:      "theme",
		Cost:          500,
		ThemeData:     `{"primary": "#FFB300", "secondary": "#FFD54F", "background": "#FFF8E1"}`,
		Icon:          "✨",
		RequiredLevel: 15,
	},
}

// PurchaseResult carries the outcome of a purchase attempt. A declined
// purchase is a normal result, not an error.
type PurchaseResult struct {
	Purchased bool   `json:"purchased"`
	Message   string `json:"message"`
	Balance   int    `json:"balance"`
}

// MarketplaceService manages the item catalog and point spending.
type MarketplaceService struct {
	db          *gorm.DB
	progression *ProgressionService
}

func NewMarketplaceService(db *gorm.DB, progression *ProgressionService) *MarketplaceService {
	return &MarketplaceService{db: db, progression: progression}
}

// Seed inserts the theme catalog once. Subsequent calls are no-ops.
func (s *MarketplaceService) Seed() error {
	var count int64
	if err := s.db.Model(&models.MarketplaceItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, tpl := range marketplaceThemes {
		item := tpl
		item.IsAvailable = true
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

// AvailableItems lists purchasable items unlocked at the given level.
func (s *MarketplaceService) AvailableItems(level int) ([]models.MarketplaceItem, error) {
	var items []models.MarketplaceItem
	err := s.db.Where("is_available = ? AND required_level <= ?", true, level).
		Order("required_level ASC, cost ASC").Find(&items).Error
	return items, err
}

// AllItems lists the whole catalog regardless of level, for browsing
// locked items too.
func (s *MarketplaceService) AllItems() ([]models.MarketplaceItem, error) {
	var items []models.MarketplaceItem
	err := s.db.Where("is_available = ?", true).
		Order("required_level ASC, cost ASC").Find(&items).Error
	return items, err
}

// PurchasesFor lists a user's purchases with items preloaded.
func (s *MarketplaceService) PurchasesFor(userID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.Preload("Item").Where("user_id = ?", userID).
		Order("purchased_at ASC").Find(&purchases).Error
	return purchases, err
}

// Owns reports whether the user already purchased the item.
func (s *MarketplaceService) Owns(userID, itemID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Purchase{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).Count(&count).Error
	return count > 0, err
}

// OwnedItem returns the purchased catalog item or nil when the user does
// not own it.
func (s *MarketplaceService) OwnedItem(userID, itemID uint) (*models.MarketplaceItem, error) {
	owns, err := s.Owns(userID, itemID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, nil
	}
	var item models.MarketplaceItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Purchase atomically checks the level gate, prior ownership and the point
// balance, then debits points and records the purchase. All four decline
// outcomes leave the balance untouched. The progression row is locked so a
// concurrent purchase cannot spend the same points twice.
func (s *MarketplaceService) Purchase(userID, itemID uint) (*PurchaseResult, error) {
	var result *PurchaseResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item models.MarketplaceItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = &PurchaseResult{Message: "Item not found"}
				return nil
			}
			return err
		}
		if !item.IsAvailable {
			result = &PurchaseResult{Message: "Item not found"}
			return nil
		}

		p, err := s.progression.lockedLookup(tx, userID)
		if err != nil {
			return err
		}
		result = &PurchaseResult{Balance: p.Points}

		if p.Level < item.RequiredLevel {
			result.Message = fmt.Sprintf("Requires level %d", item.RequiredLevel)
			return nil
		}

		owned, err := s.ownsTx(tx, userID, itemID)
		if err != nil {
			return err
		}
		if owned {
			result.Message = "Already purchased"
			return nil
		}

		if p.Points < item.Cost {
			result.Message = "Not enough points"
			return nil
		}

		p.Points -= item.Cost
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		purchase := models.Purchase{UserID: userID, ItemID: itemID, PurchasedAt: time.Now()}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		result.Purchased = true
		result.Message = "Purchase successful"
		result.Balance = p.Points
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *MarketplaceService) ownsTx(tx *gorm.DB, userID, itemID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Purchase{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).Count(&count).Error
	return count > 0, err
}
