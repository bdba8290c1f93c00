package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TableStatus represents the occupancy state of a physical table.
type TableStatus string

const (
	TableAvailable TableStatus = "AVAILABLE"
	TableOccupied  TableStatus = "OCCUPIED"
)

// Restaurant is the browse root of the catalog. Read-only for this service.
type Restaurant struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"not null"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	Branches  []Branch  `json:"branches" gorm:"foreignKey:RestaurantID"`
}

// Branch owns the tables and menu items of one location.
type Branch struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	RestaurantID string     `json:"restaurant_id" gorm:"size:36;not null;index"`
	Name         string     `json:"name" gorm:"not null"`
	Address      string     `json:"address"`
	Hours        string     `json:"hours"`
	CreatedAt    time.Time  `json:"created_at"`
	Tables       []Table    `json:"tables" gorm:"foreignKey:BranchID"`
	MenuItems    []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:BranchID"`
}

// Table is a physical table. Its status is mutated only by the reservation
// guard inside order transactions.
type Table struct {
	ID       string      `json:"id" gorm:"primaryKey;size:36"`
	BranchID string      `json:"branch_id" gorm:"size:36;not null;index"`
	Code     string      `json:"code" gorm:"not null"`
	Seats    int         `json:"seats" gorm:"not null;default:2"`
	Status   TableStatus `json:"status" gorm:"size:16;not null;default:'AVAILABLE'"`
}

// MenuItem is a priced catalog entry. BasePrice is snapshotted onto order
// items at add time and never recomputed.
type MenuItem struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	BranchID  string          `json:"branch_id" gorm:"size:36;not null;index"`
	SKU       string          `json:"sku" gorm:"not null"`
	Name      string          `json:"name" gorm:"not null"`
	BasePrice decimal.Decimal `json:"base_price" gorm:"type:decimal(10,2);not null"`
}

func (r *Restaurant) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (b *Branch) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (t *Table) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TableAvailable
	}
	return nil
}

func (m *MenuItem) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
