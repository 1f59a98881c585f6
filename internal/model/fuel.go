package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FuelEntryStatus constants. CLOSED is terminal; an entry is never reopened.
const (
	FuelEntryOpen   = "OPEN"
	FuelEntryClosed = "CLOSED"
)

// FuelTank holds fuel received through FuelEntries. At most one entry per tank
// is OPEN at any time; the engine enforces it under a tank row lock and the
// schema backs it with a partial unique index.
type FuelTank struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Capacity  decimal.Decimal `gorm:"type:decimal(18,3);not null" json:"capacity"`
	Entries   []FuelEntry     `gorm:"foreignKey:TankID" json:"entries,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FuelEntry is one fuel delivery ("refill"). Usage is drawn against the open
// entry only, and the entry's received quantity bounds its total usage.
type FuelEntry struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TankID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"tank_id"`
	Tank        *FuelTank       `gorm:"foreignKey:TankID" json:"tank,omitempty"`
	Supplier    string          `gorm:"type:varchar(100)" json:"supplier"`
	ReceivedQty decimal.Decimal `gorm:"type:decimal(18,3);not null" json:"received_qty"`
	Status      string          `gorm:"type:varchar(20);not null;default:'OPEN'" json:"status"` // OPEN, CLOSED
	OpenedAt    time.Time       `gorm:"autoCreateTime" json:"opened_at"`
	ClosedAt    *time.Time      `json:"closed_at"`
}

// FuelUsage is a single draw against an entry. Vehicle and operator are nil
// only on the synthetic write-off row recorded when an entry is closed with
// the write-off policy enabled; that row may carry a negative quantity.
type FuelUsage struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FuelEntryID uuid.UUID       `gorm:"type:uuid;not null;index" json:"fuel_entry_id"`
	TankID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"tank_id"`
	VehicleID   *uuid.UUID      `gorm:"type:uuid;index" json:"vehicle_id"`
	Vehicle     *Vehicle        `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	OperatorID  *uuid.UUID      `gorm:"type:uuid;index" json:"operator_id"`
	Operator    *Employee       `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
	ProjectRef  string          `gorm:"type:varchar(100)" json:"project_ref"`
	QtyUsed     decimal.Decimal `gorm:"type:decimal(18,3);not null" json:"qty_used"`
	RecordedAt  time.Time       `gorm:"autoCreateTime" json:"recorded_at"`
}
