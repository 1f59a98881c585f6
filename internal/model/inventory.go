package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType enum constants
const (
	ItemTypeReturnable = "RETURNABLE"
	ItemTypeConsumable = "CONSUMABLE"
)

// Unit enum constants
const (
	UnitPieces = "pcs"
	UnitMeter  = "m"
	UnitKg     = "kg"
	UnitLiter  = "L"
	UnitOther  = "other"
)

// Depot is a physical storage location holding Products.
type Depot struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Active      bool      `gorm:"default:true" json:"active"`
	Products    []Product `gorm:"foreignKey:DepotID" json:"products,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is a stocked item. OnHandQty is mutated only by the withdrawal/return
// engine and restocks, always under a row lock, and must never go negative.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DepotID     uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uniq_depot_product_name,priority:1" json:"depot_id"`
	Depot       *Depot          `gorm:"foreignKey:DepotID" json:"depot,omitempty"`
	Name        string          `gorm:"type:varchar(200);not null;uniqueIndex:uniq_depot_product_name,priority:2" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	ItemType    string          `gorm:"type:varchar(20);not null;default:'CONSUMABLE'" json:"item_type"` // RETURNABLE, CONSUMABLE
	Unit        string          `gorm:"type:varchar(20);not null;default:'pcs'" json:"unit"`
	OnHandQty   decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0" json:"on_hand_qty"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WithdrawalHeader groups the items an employee took out in one submission.
// Headers are never deleted; they stay visible for history after full return.
type WithdrawalHeader struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   *Employee        `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Notes      string           `gorm:"type:text" json:"notes"`
	Items      []WithdrawalItem `gorm:"foreignKey:HeaderID" json:"items"`
	CreatedAt  time.Time        `json:"created_at"`
}

// WithdrawalItem is one withdrawn product line. The returned quantity is not
// stored; it is the sum of committed ReturnItems referencing this row, so the
// outstanding figure can never drift from the return records.
type WithdrawalItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	HeaderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"header_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	QtyWithdrawn decimal.Decimal `gorm:"type:decimal(18,3);not null" json:"qty_withdrawn"`
}

// ReturnHeader groups the items an employee brought back in one submission.
type ReturnHeader struct {
	ID         uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID uuid.UUID    `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   *Employee    `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Notes      string       `gorm:"type:text" json:"notes"`
	Items      []ReturnItem `gorm:"foreignKey:ReturnHeaderID" json:"items"`
	CreatedAt  time.Time    `json:"created_at"`
}

// ReturnItem applies a returned quantity against a specific WithdrawalItem.
// Immutable once written.
type ReturnItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReturnHeaderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"return_header_id"`
	WithdrawalItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"withdrawal_item_id"`
	QtyReturned      decimal.Decimal `gorm:"type:decimal(18,3);not null" json:"qty_returned"`
	CreatedAt        time.Time       `json:"created_at"`
}
