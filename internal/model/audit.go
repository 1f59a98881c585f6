package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateDepot    = "CREATE_DEPOT"
	ActionUpdateDepot    = "UPDATE_DEPOT"
	ActionCreateProduct  = "CREATE_PRODUCT"
	ActionUpdateProduct  = "UPDATE_PRODUCT"
	ActionDeleteProduct  = "DELETE_PRODUCT"
	ActionAddQuantity    = "ADD_QUANTITY"
	ActionCreateEmployee = "CREATE_EMPLOYEE"
	ActionUpdateEmployee = "UPDATE_EMPLOYEE"
	ActionCreateVehicle  = "CREATE_VEHICLE"
	ActionCreateTank     = "CREATE_TANK"

	ActionWithdraw = "WITHDRAW"
	ActionReturn   = "RETURN"

	ActionOpenEntry   = "OPEN_ENTRY"
	ActionCloseEntry  = "CLOSE_ENTRY"
	ActionRecordUsage = "RECORD_USAGE"

	ActionExpense = "EXPENSE"
	ActionAdjust  = "ADJUST"
)

// AuditLog tracks who did what to which entity. Rows are append-only and
// written after the business transaction commits; a failed audit write is
// logged and never undoes the committed change.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"` // nil for automated jobs
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string     `gorm:"type:varchar(100);not null;index" json:"entity_type"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	Detail     string     `gorm:"type:jsonb" json:"detail"` // serialized JSON payload of the action
	ClientIP   string     `gorm:"type:varchar(45)" json:"client_ip"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
