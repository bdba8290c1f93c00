package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderType represents how the order is fulfilled.
type OrderType string

const (
	DineIn   OrderType = "DINE_IN"
	Takeout  OrderType = "TAKEOUT"
	Delivery OrderType = "DELIVERY"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusOpen       OrderStatus = "OPEN"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusServed     OrderStatus = "SERVED"
	StatusClosed     OrderStatus = "CLOSED"
	StatusCanceled   OrderStatus = "CANCELED"
)

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusClosed || s == StatusCanceled
}

// ActiveStatuses are the statuses that keep a table occupied.
func ActiveStatuses() []OrderStatus {
	return []OrderStatus{StatusOpen, StatusInProgress, StatusServed}
}

// PaymentMethod represents how a payment was made.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

// Order is the aggregate root: it owns its items, payments, tax lines and
// tips. Terminal orders are retained for history, never purged.
type Order struct {
	ID       string      `json:"id" gorm:"primaryKey;size:36"`
	BranchID string      `json:"branch_id" gorm:"size:36;not null;index"`
	TableID  *string     `json:"table_id" gorm:"size:36;index"`
	Type     OrderType   `json:"type" gorm:"size:16;not null"`
	Status   OrderStatus `json:"status" gorm:"size:16;not null;default:'OPEN'"`
	OpenedAt time.Time   `json:"opened_at"`
	ClosedAt *time.Time  `json:"closed_at"`
	Items    []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Payments []Payment   `json:"payments" gorm:"foreignKey:OrderID"`
	TaxLines []TaxLine   `json:"tax_lines" gorm:"foreignKey:OrderID"`
	Tips     []Tip       `json:"tips" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots the price at add time; later menu price changes do not
// affect it. Created once, never mutated.
type OrderItem struct {
	ID         string          `json:"id" gorm:"primaryKey;size:36"`
	OrderID    string          `json:"order_id" gorm:"size:36;not null;index"`
	MenuItemID string          `json:"menu_item_id" gorm:"size:36;not null"`
	MenuItem   *MenuItem       `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	Qty        int             `json:"qty" gorm:"not null;default:1"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Payment is append-only.
type Payment struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	OrderID   string          `json:"order_id" gorm:"size:36;not null;index"`
	Method    PaymentMethod   `json:"method" gorm:"size:8;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
}

// TaxLine is an opaque named amount supplied by the caller, recorded in
// batches alongside a payment.
type TaxLine struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	OrderID   string          `json:"order_id" gorm:"size:36;not null;index"`
	Name      string          `json:"name" gorm:"not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
}

// Tip is append-only; at most one per payment call, zero allowed.
type Tip struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	OrderID   string          `json:"order_id" gorm:"size:36;not null;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = StatusOpen
	}
	if o.OpenedAt.IsZero() {
		o.OpenedAt = time.Now().UTC()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (t *TaxLine) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Tip) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ParseOrderType maps a request value to an order type. An empty value
// defaults to dine-in, matching the public API contract.
func ParseOrderType(s string) (OrderType, bool) {
	switch s {
	case "", "dine-in", "dine_in":
		return DineIn, true
	case "takeout":
		return Takeout, true
	case "delivery":
		return Delivery, true
	default:
		return "", false
	}
}

// ParsePaymentMethod maps a request value to a payment method.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch s {
	case "cash":
		return PaymentCash, true
	case "card":
		return PaymentCard, true
	default:
		return "", false
	}
}
