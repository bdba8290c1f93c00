package repository

import (
	"errors"

	"restaurant-pos/models"

	"gorm.io/gorm"
)

// ITicketRepository exposes the kitchen-display view over the same order rows
// the lifecycle engine mutates, so both paths see one state machine.
type ITicketRepository interface {
	ListActiveTickets() ([]models.Order, error)
	AdvanceTicket(orderID string, to models.OrderStatus) (*models.Order, error)
}

// TicketRepository implements ITicketRepository for GORM.
type TicketRepository struct {
	DB *gorm.DB
}

// NewTicketRepository creates a new TicketRepository instance.
func NewTicketRepository(db *gorm.DB) ITicketRepository {
	return &TicketRepository{DB: db}
}

// ListActiveTickets returns every non-terminal order, earliest opened first,
// with items joined to their menu items for display.
func (r *TicketRepository) ListActiveTickets() ([]models.Order, error) {
	var tickets []models.Order
	err := r.DB.
		Where("status NOT IN ?", []models.OrderStatus{models.StatusClosed, models.StatusCanceled}).
		Order("opened_at asc").
		Preload("Items.MenuItem").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// AdvanceTicket sets the order status without validating the previous active
// state: serve may follow open directly, which is how kitchen staff actually
// work. Terminal orders are still refused.
func (r *TicketRepository) AdvanceTicket(orderID string, to models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status NOT IN ?", orderID,
				[]models.OrderStatus{models.StatusClosed, models.StatusCanceled}).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// The MySQL driver reports changed rows, not matched rows, so a
			// repeated transition (start on a ticket already IN_PROGRESS)
			// also lands here. Only a missing or terminal row is an error;
			// anything else already carries the requested status.
			var existing models.Order
			err := tx.Select("id", "status").First(&existing, "id = ?", orderID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrTicketNotFound
			}
			if err != nil {
				return err
			}
			if existing.Status.Terminal() {
				return models.ErrOrderFinalized
			}
		}
		return tx.First(&order, "id = ?", orderID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
