package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/models"
)

func newMarketplace(t *testing.T) (*gorm.DB, *MarketplaceService, *ProgressionService) {
	t.Helper()
	db := newTestDB(t)
	progression := NewProgressionService(db, testRewards())
	svc := NewMarketplaceService(db, progression)
	require.NoError(t, svc.Seed())
	return db, svc, progression
}

func setBalance(t *testing.T, db *gorm.DB, progression *ProgressionService, userID uint, points, level int) {
	t.Helper()
	p, err := progression.Ensure(userID)
	require.NoError(t, err)
	p.Points = points
	p.Level = level
	require.NoError(t, db.Save(p).Error)
}

func itemByName(t *testing.T, db *gorm.DB, name string) *models.MarketplaceItem {
	t.Helper()
	var item models.MarketplaceItem
	require.NoError(t, db.Where("name = ?", name).First(&item).Error)
	return &item
}

func TestSeedIsIdempotent(t *testing.T) {
	db, svc, _ := newMarketplace(t)
	require.NoError(t, svc.Seed())

	var count int64
	require.NoError(t, db.Model(&models.MarketplaceItem{}).Count(&count).Error)
	assert.EqualValues(t, 7, count)
}

func TestAvailableItemsRespectsLevelGate(t *testing.T) {
	_, svc, _ := newMarketplace(t)

	items, err := svc.AvailableItems(1)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = svc.AvailableItems(7)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	items, err = svc.AvailableItems(15)
	require.NoError(t, err)
	assert.Len(t, items, 7)
}

func TestPurchaseSuccessDebitsPoints(t *testing.T) {
	db, svc, progression := newMarketplace(t)
	user := createTestUser(t, db, "alice")
	setBalance(t, db, progression, user.ID, 120, 1)
	item := itemByName(t, db, "Ocean Blue Theme")

	result, err := svc.Purchase(user.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, result.Purchased)
	assert.Equal(t, "Purchase successful", result.Message)
	assert.Equal(t, 20, result.Balance)

	owns, err := svc.Owns(user.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, owns)
}

func TestPurchaseUnknownItem(t *testing.T) {
	db, svc, progression := newMarketplace(t)
	user := createTestUser(t, db, "alice")
	setBalance(t, db, progression, user.ID, 1000, 20)

	result, err := svc.Purchase(user.ID, 9999)
	require.NoError(t, err)
	assert.False(t, result.Purchased)
	assert.Equal(t, "Item not found", result.Message)
}

func TestPurchaseBelowLevelGate(t *testing.T) {
	db, svc, progression := newMarketplace(t)
	user := createTestUser(t, db, "alice")
	setBalance(t, db, progression, user.ID, 1000, 1)
	item := itemByName(t, db, "Forest Green Theme")

	result, err := svc.Purchase(user.ID, item.ID)
	require.NoError(t, err)
	assert.False(t, result.Purchased)
	assert.Equal(t, "Requires level 3", result.Message)
	assert.Equal(t, 1000, result.Balance, "declined purchase leaves points untouched")
}

func TestPurchaseAlreadyOwned(t *testing.T) {
	db, svc, progression := newMarketplace(t)
	user := createTestUser(t, db, "alice")
	setBalance(t, db, progression, user.ID, 500, 5)
	item := itemByName(t, db, "Ocean Blue Theme")

	_, err := svc.Purchase(user.ID, item.ID)
	require.NoError(t, err)

	result, err := svc.Purchase(user.ID, item.ID)
	require.NoError(t, err)
	assert.False(t, result.Purchased)
	assert.Equal(t, "Already purchased", result.Message)
	assert.Equal(t, 400, result.Balance)
}

func TestPurchaseInsufficientPoints(t *testing.T) {
	db, svc, progression := newMarketplace(t)
	user := createTestUser(t, db, "alice")
	setBalance(t, db, progression, user.ID, 99, 1)
	item := itemByName(t, db, "Ocean Blue Theme")

	result, err := svc.Purchase(user.ID, item.ID)
	require.NoError(t, err)
	assert.False(t, result.Purchased)
	assert.Equal(t, "Not enough points", result.Message)

	p, _ := progression.Find(user.ID)
	assert.Equal(t, 99, p.Points)
}

func TestPurchasesForPreloadsItems(t *testing.T) {
	db, svc, progression := newMarketplace(t)
	user := createTestUser(t, db, "alice")
	setBalance(t, db, progression, user.ID, 500, 5)
	item := itemByName(t, db, "Ocean Blue Theme")

	_, err := svc.Purchase(user.ID, item.ID)
	require.NoError(t, err)

	purchases, err := svc.PurchasesFor(user.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, "Ocean Blue Theme", purchases[0].Item.Name)
}

func TestOwnedItem(t *testing.T) {
	db, svc, progression := newMarketplace(t)
	user := createTestUser(t, db, "alice")
	setBalance(t, db, progression, user.ID, 500, 5)
	item := itemByName(t, db, "Ocean Blue Theme")

	owned, err := svc.OwnedItem(user.ID, item.ID)
	require.NoError(t, err)
	assert.Nil(t, owned)

	_, err = svc.Purchase(user.ID, item.ID)
	require.NoError(t, err)

	owned, err = svc.OwnedItem(user.ID, item.ID)
	require.NoError(t, err)
	require.NotNil(t, owned)
	assert.Equal(t, item.ID, owned.ID)
}
