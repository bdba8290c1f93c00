package repository

import (
	"errors"
	"time"

	"restaurant-pos/models"

	"gorm.io/gorm"
)

// IOrderRepository defines the atomic data operations of the order lifecycle.
// Every multi-row mutation runs as a single transaction; the transaction
// boundary is the sole recovery mechanism, no compensating writes.
type IOrderRepository interface {
	OpenOrder(order *models.Order) error
	FindMenuItemByID(id string) (*models.MenuItem, error)
	CreateOrderItem(item *models.OrderItem) error
	RecordPayment(payment *models.Payment, taxLines []models.TaxLine, tip *models.Tip, closeOrder bool) (*models.Order, error)
	FindOrderByID(id string) (*models.Order, error)
}

// OrderRepository implements IOrderRepository for GORM.
type OrderRepository struct {
	DB *gorm.DB
}

// NewOrderRepository creates a new OrderRepository instance.
func NewOrderRepository(db *gorm.DB) IOrderRepository {
	return &OrderRepository{DB: db}
}

// OpenOrder validates the branch, claims the table when one is requested and
// creates the order, all in one transaction. A claim with no committed order
// is never observable.
func (r *OrderRepository) OpenOrder(order *models.Order) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var branch models.Branch
		if err := tx.Select("id").First(&branch, "id = ?", order.BranchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrBranchNotFound
			}
			return err
		}
		if order.TableID != nil {
			if err := claimTable(tx, order.BranchID, *order.TableID); err != nil {
				return err
			}
		}
		return tx.Create(order).Error
	})
}

// FindMenuItemByID retrieves a menu item for price snapshotting.
func (r *OrderRepository) FindMenuItemByID(id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMenuItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// CreateOrderItem appends an item to an order. Items may be added in any
// active status (the kitchen may add a missed item), but terminal orders are
// rejected with the same finalized error used elsewhere.
func (r *OrderRepository) CreateOrderItem(item *models.OrderItem) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Select("id", "status").First(&order, "id = ?", item.OrderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrOrderNotFound
			}
			return err
		}
		if order.Status.Terminal() {
			return models.ErrOrderFinalized
		}
		return tx.Create(item).Error
	})
}

// RecordPayment inserts the payment, its tax lines and an optional tip, and
// when closeOrder is set transitions the order to CLOSED and releases its
// table if idle. One transaction: a recorded payment with no close, or a
// closed order with no payment, is never observable.
func (r *OrderRepository) RecordPayment(payment *models.Payment, taxLines []models.TaxLine, tip *models.Tip, closeOrder bool) (*models.Order, error) {
	var order models.Order
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&order, "id = ?", payment.OrderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrOrderNotFound
			}
			return err
		}
		if order.Status.Terminal() {
			return models.ErrOrderFinalized
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		if len(taxLines) > 0 {
			for i := range taxLines {
				taxLines[i].OrderID = payment.OrderID
			}
			if err := tx.Create(&taxLines).Error; err != nil {
				return err
			}
		}
		if tip != nil {
			tip.OrderID = payment.OrderID
			if err := tx.Create(tip).Error; err != nil {
				return err
			}
		}

		if closeOrder {
			now := time.Now().UTC()
			res := tx.Model(&models.Order{}).
				Where("id = ? AND status NOT IN ?", order.ID,
					[]models.OrderStatus{models.StatusClosed, models.StatusCanceled}).
				Updates(map[string]interface{}{"status": models.StatusClosed, "closed_at": now})
			if res.Error != nil {
				return res.Error
			}
			// A concurrent close won after our read; abort so the payment
			// rolls back with the transaction.
			if res.RowsAffected == 0 {
				return models.ErrOrderFinalized
			}
			order.Status = models.StatusClosed
			order.ClosedAt = &now
			if order.TableID != nil {
				if err := releaseTableIfIdle(tx, *order.TableID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindOrderByID loads the full order graph for display.
func (r *OrderRepository) FindOrderByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.DB.
		Preload("Items.MenuItem").
		Preload("Payments").
		Preload("TaxLines").
		Preload("Tips").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}
