package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"restaurant-pos/models"
	"restaurant-pos/repository"

	"github.com/shopspring/decimal"
)

// IOrderService defines the interface for order lifecycle business logic.
type IOrderService interface {
	OpenOrder(branchID string, tableID *string, orderType models.OrderType) (*models.Order, error)
	AddItem(orderID, menuItemID string, qty int, priceOverride *decimal.Decimal, notes string) (*models.OrderItem, error)
	TakePayment(orderID string, method models.PaymentMethod, amount decimal.Decimal, taxLines []models.TaxLine, tip *decimal.Decimal, closeOrder bool) (*models.Payment, error)
	GetOrder(orderID string) (*models.Order, error)
}

// OrderService implements IOrderService.
type OrderService struct {
	orderRepo    repository.IOrderRepository
	kafkaService IKafkaService
	kafkaTopic   string
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(repo repository.IOrderRepository, kafkaSvc IKafkaService, topic string) IOrderService {
	return &OrderService{
		orderRepo:    repo,
		kafkaService: kafkaSvc,
		kafkaTopic:   topic,
	}
}

// OpenOrder creates a new order in OPEN status, claiming the table when one
// is given. The claim and the insert commit or roll back together.
func (s *OrderService) OpenOrder(branchID string, tableID *string, orderType models.OrderType) (*models.Order, error) {
	if branchID == "" {
		return nil, fmt.Errorf("%w: branch id is required", models.ErrInvalidInput)
	}
	if tableID != nil && *tableID == "" {
		tableID = nil
	}

	order := &models.Order{
		BranchID: branchID,
		TableID:  tableID,
		Type:     orderType,
		Status:   models.StatusOpen,
	}
	if err := s.orderRepo.OpenOrder(order); err != nil {
		return nil, fmt.Errorf("failed to open order: %w", err)
	}

	s.publish(models.OrderEvent{
		Event:    models.EventOrderOpened,
		OrderID:  order.ID,
		BranchID: order.BranchID,
		TableID:  order.TableID,
		Status:   order.Status,
	})
	return order, nil
}

// AddItem appends an item to an order, snapshotting the menu price (or a
// positive override) at this instant. Later menu price changes never touch
// existing items.
func (s *OrderService) AddItem(orderID, menuItemID string, qty int, priceOverride *decimal.Decimal, notes string) (*models.OrderItem, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: qty must be positive", models.ErrInvalidInput)
	}
	if priceOverride != nil && !priceOverride.IsPositive() {
		return nil, fmt.Errorf("%w: price override must be positive", models.ErrInvalidInput)
	}

	menuItem, err := s.orderRepo.FindMenuItemByID(menuItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up menu item: %w", err)
	}

	price := menuItem.BasePrice
	if priceOverride != nil {
		price = *priceOverride
	}

	item := &models.OrderItem{
		OrderID:    orderID,
		MenuItemID: menuItem.ID,
		Qty:        qty,
		Price:      price,
		Notes:      notes,
	}
	if err := s.orderRepo.CreateOrderItem(item); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	item.MenuItem = menuItem

	s.publish(models.OrderEvent{
		Event:   models.EventOrderItemAdded,
		OrderID: orderID,
	})
	return item, nil
}

// TakePayment records a payment with optional tax lines and tip, and when
// closeOrder is set finalizes the order and frees its table. All of it is one
// repository transaction.
func (s *OrderService) TakePayment(orderID string, method models.PaymentMethod, amount decimal.Decimal, taxLines []models.TaxLine, tip *decimal.Decimal, closeOrder bool) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrInvalidInput)
	}
	if tip != nil && tip.IsNegative() {
		return nil, fmt.Errorf("%w: tip cannot be negative", models.ErrInvalidInput)
	}

	payment := &models.Payment{
		OrderID: orderID,
		Method:  method,
		Amount:  amount,
	}
	// A zero tip is still a tip record; only an absent tip records nothing.
	var tipRow *models.Tip
	if tip != nil {
		tipRow = &models.Tip{OrderID: orderID, Amount: *tip}
	}

	order, err := s.orderRepo.RecordPayment(payment, taxLines, tipRow, closeOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.publish(models.OrderEvent{
		Event:   models.EventPaymentTaken,
		OrderID: orderID,
		Status:  order.Status,
		Amount:  &amount,
	})
	if closeOrder {
		s.publish(models.OrderEvent{
			Event:    models.EventOrderClosed,
			OrderID:  orderID,
			BranchID: order.BranchID,
			TableID:  order.TableID,
			Status:   order.Status,
		})
	}
	return payment, nil
}

// GetOrder loads the full order graph.
func (s *OrderService) GetOrder(orderID string) (*models.Order, error) {
	return s.orderRepo.FindOrderByID(orderID)
}

// publish sends a lifecycle event. The owning transaction has already
// committed, so a broker failure is logged and never unwinds the operation.
func (s *OrderService) publish(event models.OrderEvent) {
	event.Timestamp = time.Now().UTC()
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", event.Event, event.OrderID, err)
		return
	}
	if err := s.kafkaService.PushMessage(s.kafkaTopic, event.OrderID, body); err != nil {
		log.Printf("Failed to publish %s event for order %s: %v", event.Event, event.OrderID, err)
	}
}
