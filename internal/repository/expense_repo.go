package repository

import (
	"context"

	"github.com/denisceno/clone-magazina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.Expense, int64, error)
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Expense{}).Where("employee_id = ?", employeeID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *model.BudgetAdjustment) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.BudgetAdjustment, int64, error)
}

type adjustmentRepository struct {
	db *gorm.DB
}

func NewAdjustmentRepository(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

func (r *adjustmentRepository) Create(ctx context.Context, adjustment *model.BudgetAdjustment) error {
	return GetDB(ctx, r.db).Create(adjustment).Error
}

func (r *adjustmentRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.BudgetAdjustment, int64, error) {
	var adjustments []model.BudgetAdjustment
	var total int64

	db := GetDB(ctx, r.db).Model(&model.BudgetAdjustment{}).Where("employee_id = ?", employeeID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&adjustments).Error; err != nil {
		return nil, 0, err
	}

	return adjustments, total, nil
}
