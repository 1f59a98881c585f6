package database

import (
	"log"

	"github.com/denisceno/clone-magazina/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Employee{},
		&model.Vehicle{},
		&model.Depot{},
		&model.Product{},
		&model.WithdrawalHeader{},
		&model.WithdrawalItem{},
		&model.ReturnHeader{},
		&model.ReturnItem{},
		&model.FuelTank{},
		&model.FuelEntry{},
		&model.FuelUsage{},
		&model.EmployeeBudget{},
		&model.Expense{},
		&model.BudgetAdjustment{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	// Schema-level backstop for the single-open-entry rule. The engine checks
	// it under the tank row lock; this index catches any writer that bypasses
	// the engine.
	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_open_entry_per_tank
		 ON fuel_entries (tank_id) WHERE status = 'OPEN'`,
	).Error
	if err != nil {
		log.Println("WARNING: Failed to create open-entry index:", err)
	}

	return db, nil
}
