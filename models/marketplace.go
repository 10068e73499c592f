package models

import "time"

// MarketplaceItem is a static catalog entry purchasable with points and
// gated by level. ThemeData carries a JSON color palette for theme items.
type MarketplaceItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Description   string    `gorm:"size:255" json:"description"`
	ItemType      string    `gorm:"size:32;not null" json:"item_type"`
	Cost          int       `gorm:"not null" json:"cost"`
	ThemeData     string    `gorm:"type:text" json:"theme_data"`
	Icon          string    `gorm:"size:16" json:"icon"`
	RequiredLevel int       `gorm:"not null;default:1" json:"required_level"`
	IsAvailable   bool      `gorm:"default:true" json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
}

// Purchase is a one-time grant of an item to a user. The unique pair index
// turns a double-submit into a constraint conflict instead of a duplicate.
type Purchase struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"uniqueIndex:idx_purchase_user_item;not null" json:"user_id"`
	ItemID      uint            `gorm:"uniqueIndex:idx_purchase_user_item;not null" json:"item_id"`
	PurchasedAt time.Time       `json:"purchased_at"`
	Item        MarketplaceItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
