package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TankLevel is the reporting aggregate for one tank: everything received minus
// everything used across all entries. It does not gate usage recording, which
// is bounded per open entry.
type TankLevel struct {
	TankID       string          `json:"tank_id"`
	TankName     string          `json:"tank_name"`
	Capacity     decimal.Decimal `json:"capacity"`
	CurrentLevel decimal.Decimal `json:"current_level"`
	OpenEntryID  *string         `json:"open_entry_id,omitempty"`
}

// DepotStock summarizes one depot's holdings and their valuation.
type DepotStock struct {
	DepotID    string          `json:"depot_id"`
	DepotName  string          `json:"depot_name"`
	Products   int             `json:"products"`
	TotalQty   decimal.Decimal `json:"total_qty"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// OutstandingItem is one withdrawal line an employee still holds in the field.
type OutstandingItem struct {
	WithdrawalItemID string          `json:"withdrawal_item_id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Unit             string          `json:"unit"`
	QtyWithdrawn     decimal.Decimal `json:"qty_withdrawn"`
	QtyReturned      decimal.Decimal `json:"qty_returned"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	WithdrawnAt      time.Time       `json:"withdrawn_at"`
}

// VehicleFuelGroup groups a vehicle's usages under the entry they drew from.
type VehicleFuelGroup struct {
	FuelEntryID string          `json:"fuel_entry_id"`
	TankName    string          `json:"tank_name"`
	OpenedAt    time.Time       `json:"opened_at"`
	TotalUsed   decimal.Decimal `json:"total_used"`
	Usages      []FuelUsage     `json:"usages"`
}
