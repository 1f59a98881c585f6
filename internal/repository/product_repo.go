package repository

import (
	"context"

	"github.com/denisceno/clone-magazina/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, depotID *uuid.UUID, page, limit int, search string) ([]model.Product, int64, error)
	UpdateStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	OutstandingInField(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Product{}).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, depotID *uuid.UUID, page, limit int, search string) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Product{})
	if depotID != nil {
		db = db.Where("depot_id = ?", *depotID)
	}
	if search != "" {
		db = db.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// UpdateStock writes the new on-hand quantity. Callers must hold the row lock
// taken by FindByIDForUpdate in the same transaction.
func (r *productRepository) UpdateStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Product{}).Where("id = ?", id).Update("on_hand_qty", qty).Error
}

// OutstandingInField sums withdrawn-minus-returned across every withdrawal
// item of the product. Only positive remainders count.
func (r *productRepository) OutstandingInField(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var out decimal.NullDecimal
	err := GetDB(ctx, r.db).Raw(`
		SELECT COALESCE(SUM(wi.qty_withdrawn - COALESCE(ret.qty, 0)), 0)
		FROM withdrawal_items wi
		LEFT JOIN (
			SELECT withdrawal_item_id, SUM(qty_returned) AS qty
			FROM return_items
			GROUP BY withdrawal_item_id
		) ret ON ret.withdrawal_item_id = wi.id
		WHERE wi.product_id = ? AND wi.qty_withdrawn > COALESCE(ret.qty, 0)
	`, id).Scan(&out).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !out.Valid {
		return decimal.Zero, nil
	}
	return out.Decimal, nil
}

// FindByIDForUpdate loads the product under SELECT ... FOR UPDATE so the
// stock check and the decrement cannot interleave with a concurrent caller.
func (r *productRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
