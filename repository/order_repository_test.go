package repository

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"restaurant-pos/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test SQLite database with the full schema. The store
// is file-backed with a busy timeout so concurrent transactions in race tests
// queue on the write lock instead of failing fast.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "pos.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Restaurant{},
		&models.Branch{},
		&models.Table{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.TaxLine{},
		&models.Tip{},
	))
	return db
}

// seedBranch creates a branch with one available table and one menu item.
func seedBranch(t *testing.T, db *gorm.DB) (branchID, tableID, menuItemID string) {
	t.Helper()
	branch := models.Branch{
		RestaurantID: "rest-1",
		Name:         "Main Branch",
		Tables:       []models.Table{{Code: "T1", Seats: 2}},
		MenuItems:    []models.MenuItem{{SKU: "FOOD-001", Name: "Beef Noodles", BasePrice: decimal.NewFromInt(180)}},
	}
	require.NoError(t, db.Create(&branch).Error)
	return branch.ID, branch.Tables[0].ID, branch.MenuItems[0].ID
}

func tableStatus(t *testing.T, db *gorm.DB, tableID string) models.TableStatus {
	t.Helper()
	var table models.Table
	require.NoError(t, db.First(&table, "id = ?", tableID).Error)
	return table.Status
}

func TestOrderRepository_TableLifecycleScenario(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	branchID, tableID, _ := seedBranch(t, db)

	// Open an order on an available table: the table becomes occupied.
	first := &models.Order{BranchID: branchID, TableID: &tableID, Type: models.DineIn, Status: models.StatusOpen}
	require.NoError(t, repo.OpenOrder(first))
	assert.Equal(t, models.TableOccupied, tableStatus(t, db, tableID))

	// A second open on the same table loses the conditional update.
	second := &models.Order{BranchID: branchID, TableID: &tableID, Type: models.DineIn, Status: models.StatusOpen}
	err := repo.OpenOrder(second)
	assert.True(t, errors.Is(err, models.ErrTableNotAvailable))

	// The failed open left no order row behind.
	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.EqualValues(t, 1, orders)

	// Paying and closing the first order frees the table.
	payment := &models.Payment{OrderID: first.ID, Method: models.PaymentCash, Amount: decimal.NewFromInt(220)}
	_, err = repo.RecordPayment(payment, nil, nil, true)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, tableStatus(t, db, tableID))

	// A third open on the freed table succeeds.
	third := &models.Order{BranchID: branchID, TableID: &tableID, Type: models.DineIn, Status: models.StatusOpen}
	assert.NoError(t, repo.OpenOrder(third))
	assert.Equal(t, models.TableOccupied, tableStatus(t, db, tableID))
}

func TestOrderRepository_OpenOrder_ConcurrentOpensSingleWinner(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	branchID, tableID, _ := seedBranch(t, db)

	start := make(chan struct{})
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			order := &models.Order{BranchID: branchID, TableID: &tableID, Type: models.DineIn, Status: models.StatusOpen}
			errs <- repo.OpenOrder(order)
		}()
	}
	close(start)

	successes := 0
	for i := 0; i < 2; i++ {
		if err := <-errs; err == nil {
			successes++
		}
	}

	// Exactly one claim wins. The loser observes the occupied table or loses
	// the store's write serialization; either way it writes nothing.
	assert.Equal(t, 1, successes)
	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.EqualValues(t, 1, orders)
	assert.Equal(t, models.TableOccupied, tableStatus(t, db, tableID))
}

func TestOrderRepository_OpenOrder_BranchNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	order := &models.Order{BranchID: "missing", Type: models.Takeout, Status: models.StatusOpen}
	err := repo.OpenOrder(order)
	assert.True(t, errors.Is(err, models.ErrBranchNotFound))
}

func TestOrderRepository_OpenOrder_TableFromOtherBranch(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	branchID, _, _ := seedBranch(t, db)

	other := models.Branch{RestaurantID: "rest-1", Name: "Other Branch",
		Tables: []models.Table{{Code: "X1", Seats: 4}}}
	require.NoError(t, db.Create(&other).Error)

	foreignTable := other.Tables[0].ID
	order := &models.Order{BranchID: branchID, TableID: &foreignTable, Type: models.DineIn, Status: models.StatusOpen}
	err := repo.OpenOrder(order)
	assert.True(t, errors.Is(err, models.ErrTableNotFound))

	// The mismatched claim must not touch the foreign table.
	assert.Equal(t, models.TableAvailable, tableStatus(t, db, foreignTable))
}

func TestOrderRepository_ItemsKeepSnapshottedPrices(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	branchID, _, menuItemID := seedBranch(t, db)

	order := &models.Order{BranchID: branchID, Type: models.Takeout, Status: models.StatusOpen}
	require.NoError(t, repo.OpenOrder(order))

	require.NoError(t, repo.CreateOrderItem(&models.OrderItem{
		OrderID: order.ID, MenuItemID: menuItemID, Qty: 2, Price: decimal.NewFromInt(180),
	}))
	require.NoError(t, repo.CreateOrderItem(&models.OrderItem{
		OrderID: order.ID, MenuItemID: menuItemID, Qty: 1, Price: decimal.NewFromInt(40),
	}))

	// A later menu price change must not touch existing items.
	require.NoError(t, db.Model(&models.MenuItem{}).
		Where("id = ?", menuItemID).
		Update("base_price", decimal.NewFromInt(999)).Error)

	got, err := repo.FindOrderByID(order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	priceByQty := map[int]decimal.Decimal{}
	for _, item := range got.Items {
		priceByQty[item.Qty] = item.Price
		if assert.NotNil(t, item.MenuItem) {
			assert.Equal(t, "Beef Noodles", item.MenuItem.Name)
		}
	}
	assert.True(t, priceByQty[2].Equal(decimal.NewFromInt(180)))
	assert.True(t, priceByQty[1].Equal(decimal.NewFromInt(40)))
}

func TestOrderRepository_CreateOrderItem_FinalizedRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	branchID, _, menuItemID := seedBranch(t, db)

	order := &models.Order{BranchID: branchID, Type: models.Takeout, Status: models.StatusOpen}
	require.NoError(t, repo.OpenOrder(order))
	payment := &models.Payment{OrderID: order.ID, Method: models.PaymentCard, Amount: decimal.NewFromInt(10)}
	_, err := repo.RecordPayment(payment, nil, nil, true)
	require.NoError(t, err)

	err = repo.CreateOrderItem(&models.OrderItem{
		OrderID: order.ID, MenuItemID: menuItemID, Qty: 1, Price: decimal.NewFromInt(40),
	})
	assert.True(t, errors.Is(err, models.ErrOrderFinalized))

	var items int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.EqualValues(t, 0, items)
}

func TestOrderRepository_RecordPayment_FullGraphAndClose(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	branchID, tableID, _ := seedBranch(t, db)

	order := &models.Order{BranchID: branchID, TableID: &tableID, Type: models.DineIn, Status: models.StatusOpen}
	require.NoError(t, repo.OpenOrder(order))

	tip := models.Tip{Amount: decimal.Zero}
	payment := &models.Payment{OrderID: order.ID, Method: models.PaymentCard, Amount: decimal.NewFromInt(231)}
	closed, err := repo.RecordPayment(payment,
		[]models.TaxLine{
			{Name: "VAT", Amount: decimal.NewFromInt(11)},
			{Name: "Service", Amount: decimal.NewFromInt(20)},
		},
		&tip, true)
	require.NoError(t, err)

	assert.Equal(t, models.StatusClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	got, err := repo.FindOrderByID(order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Payments, 1)
	assert.Len(t, got.TaxLines, 2)
	require.Len(t, got.Tips, 1)
	assert.True(t, got.Tips[0].Amount.IsZero())

	// Paying a closed order again fails and writes nothing.
	again := &models.Payment{OrderID: order.ID, Method: models.PaymentCash, Amount: decimal.NewFromInt(5)}
	_, err = repo.RecordPayment(again, nil, nil, false)
	assert.True(t, errors.Is(err, models.ErrOrderFinalized))

	var payments int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&payments).Error)
	assert.EqualValues(t, 1, payments)
}

func TestOrderRepository_RecordPayment_RepeatedCloseWritesNothing(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	branchID, tableID, _ := seedBranch(t, db)

	order := &models.Order{BranchID: branchID, TableID: &tableID, Type: models.DineIn, Status: models.StatusOpen}
	require.NoError(t, repo.OpenOrder(order))

	first := &models.Payment{OrderID: order.ID, Method: models.PaymentCard, Amount: decimal.NewFromInt(100)}
	closed, err := repo.RecordPayment(first, nil, nil, true)
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)
	closedAt := *closed.ClosedAt

	// A second close attempt fails and its payment rolls back with it.
	second := &models.Payment{OrderID: order.ID, Method: models.PaymentCash, Amount: decimal.NewFromInt(100)}
	_, err = repo.RecordPayment(second, nil, nil, true)
	assert.True(t, errors.Is(err, models.ErrOrderFinalized))

	got, err := repo.FindOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, got.Status)
	assert.Len(t, got.Payments, 1)
	require.NotNil(t, got.ClosedAt)
	assert.WithinDuration(t, closedAt, *got.ClosedAt, time.Second)
}

func TestOrderRepository_RecordPayment_TableStaysOccupiedWithSiblingOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	branchID, tableID, _ := seedBranch(t, db)

	first := &models.Order{BranchID: branchID, TableID: &tableID, Type: models.DineIn, Status: models.StatusOpen}
	require.NoError(t, repo.OpenOrder(first))

	// A second active order on the same table, written outside the claim path
	// (the administrative flow can do this).
	sibling := models.Order{BranchID: branchID, TableID: &tableID, Type: models.DineIn, Status: models.StatusServed}
	require.NoError(t, db.Create(&sibling).Error)

	payment := &models.Payment{OrderID: first.ID, Method: models.PaymentCash, Amount: decimal.NewFromInt(50)}
	_, err := repo.RecordPayment(payment, nil, nil, true)
	require.NoError(t, err)

	// The sibling still holds the table.
	assert.Equal(t, models.TableOccupied, tableStatus(t, db, tableID))
}

func TestOrderRepository_FindOrderByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	_, err := repo.FindOrderByID("missing")
	assert.True(t, errors.Is(err, models.ErrOrderNotFound))
}
