package repository

import (
	"context"

	"github.com/denisceno/clone-magazina/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BudgetRepository interface {
	Create(ctx context.Context, budget *model.EmployeeBudget) error
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*model.EmployeeBudget, error)
	FindByEmployeeForUpdate(ctx context.Context, employeeID uuid.UUID) (*model.EmployeeBudget, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

type budgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(ctx context.Context, budget *model.EmployeeBudget) error {
	return GetDB(ctx, r.db).Create(budget).Error
}

func (r *budgetRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*model.EmployeeBudget, error) {
	var budget model.EmployeeBudget
	if err := GetDB(ctx, r.db).Where("employee_id = ?", employeeID).First(&budget).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

// FindByEmployeeForUpdate locks the budget row so the balance check and the
// debit cannot run against a stale read under concurrent expense postings.
func (r *budgetRepository) FindByEmployeeForUpdate(ctx context.Context, employeeID uuid.UUID) (*model.EmployeeBudget, error) {
	var budget model.EmployeeBudget
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).First(&budget).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.EmployeeBudget{}).Where("id = ?", id).Update("balance", balance).Error
}
