package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee is the person resources are issued to. Employees with HaveBudget
// own an EmployeeBudget row; the others cannot post expenses.
type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(200);not null" json:"name"`
	Position   string    `gorm:"type:varchar(200)" json:"position"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone"`
	HaveBudget bool      `gorm:"default:false" json:"have_budget"`
	Active     bool      `gorm:"default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Vehicle consumes fuel; referenced by FuelUsage rows.
type Vehicle struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Plate       string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"plate"`
	Chassis     string    `gorm:"type:varchar(50)" json:"chassis"`
	Description string    `gorm:"type:varchar(100)" json:"description"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
