package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderOpened    = "order.opened"
	EventOrderItemAdded = "order.item_added"
	EventPaymentTaken   = "order.payment_taken"
	EventOrderClosed    = "order.closed"
	EventTicketStarted  = "ticket.started"
	EventTicketServed   = "ticket.served"
)

// OrderEvent is the envelope published to Kafka after a lifecycle operation
// commits. Consumed by the kitchen display worker and the notification bot.
type OrderEvent struct {
	Event     string           `json:"event"`
	OrderID   string           `json:"order_id"`
	BranchID  string           `json:"branch_id,omitempty"`
	TableID   *string          `json:"table_id,omitempty"`
	Status    OrderStatus      `json:"status,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}
