package repository

import (
	"context"

	"github.com/denisceno/clone-magazina/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WithdrawalRepository interface {
	CreateHeader(ctx context.Context, header *model.WithdrawalHeader) error
	CreateItem(ctx context.Context, item *model.WithdrawalItem) error
	FindHeaderByID(ctx context.Context, id uuid.UUID) (*model.WithdrawalHeader, error)
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.WithdrawalItem, error)
	FindItemByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.WithdrawalItem, error)
	SumReturned(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error)
	ListHeadersByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.WithdrawalHeader, int64, error)
	OutstandingByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.OutstandingItem, error)
}

type withdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) CreateHeader(ctx context.Context, header *model.WithdrawalHeader) error {
	return GetDB(ctx, r.db).Create(header).Error
}

func (r *withdrawalRepository) CreateItem(ctx context.Context, item *model.WithdrawalItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *withdrawalRepository) FindHeaderByID(ctx context.Context, id uuid.UUID) (*model.WithdrawalHeader, error) {
	var header model.WithdrawalHeader
	if err := GetDB(ctx, r.db).Preload("Items").First(&header, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *withdrawalRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*model.WithdrawalItem, error) {
	var item model.WithdrawalItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemByIDForUpdate locks the withdrawal item row so the outstanding
// computation and the return insert cannot double-spend the same balance
// across concurrent returns.
func (r *withdrawalRepository) FindItemByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.WithdrawalItem, error) {
	var item model.WithdrawalItem
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// SumReturned totals the committed return items against one withdrawal item.
func (r *withdrawalRepository) SumReturned(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.ReturnItem{}).
		Select("COALESCE(SUM(qty_returned), 0)").
		Where("withdrawal_item_id = ?", itemID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *withdrawalRepository) ListHeadersByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.WithdrawalHeader, int64, error) {
	var headers []model.WithdrawalHeader
	var total int64

	db := GetDB(ctx, r.db).Model(&model.WithdrawalHeader{}).Where("employee_id = ?", employeeID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Items").Preload("Items.Product").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&headers).Error; err != nil {
		return nil, 0, err
	}

	return headers, total, nil
}

// OutstandingByEmployee lists the employee's returnable withdrawal lines with
// a positive outstanding balance, computed from committed rows only.
func (r *withdrawalRepository) OutstandingByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.OutstandingItem, error) {
	var rows []model.OutstandingItem
	err := GetDB(ctx, r.db).Table("withdrawal_items wi").
		Select(`wi.id as withdrawal_item_id,
			p.id as product_id,
			p.name as product_name,
			p.unit as unit,
			wi.qty_withdrawn as qty_withdrawn,
			COALESCE(SUM(ri.qty_returned), 0) as qty_returned,
			wi.qty_withdrawn - COALESCE(SUM(ri.qty_returned), 0) as outstanding,
			wh.created_at as withdrawn_at`).
		Joins("JOIN withdrawal_headers wh ON wh.id = wi.header_id").
		Joins("JOIN products p ON p.id = wi.product_id").
		Joins("LEFT JOIN return_items ri ON ri.withdrawal_item_id = wi.id").
		Where("wh.employee_id = ? AND p.item_type = ?", employeeID, model.ItemTypeReturnable).
		Group("wi.id, p.id, p.name, p.unit, wi.qty_withdrawn, wh.created_at").
		Having("wi.qty_withdrawn - COALESCE(SUM(ri.qty_returned), 0) > 0").
		Order("wh.created_at desc").
		Scan(&rows).Error
	return rows, err
}
