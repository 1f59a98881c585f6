package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeBudget is the single budget account of an employee with the
// have_budget flag. Balance changes only through Expense or BudgetAdjustment
// application under the budget row lock, never via a direct write.
type EmployeeBudget struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"employee_id"`
	Employee   *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Balance    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Expense debits an EmployeeBudget.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee    *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Description string          `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BudgetAdjustment credits or debits an EmployeeBudget. Administrative
// override: no lower-bound check applies, the balance may go negative.
type BudgetAdjustment struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Delta      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"delta"`
	Reason     string          `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt  time.Time       `json:"created_at"`
}
