package repository

import (
	"context"

	"github.com/denisceno/clone-magazina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReturnRepository interface {
	CreateHeader(ctx context.Context, header *model.ReturnHeader) error
	CreateItem(ctx context.Context, item *model.ReturnItem) error
	FindHeaderByID(ctx context.Context, id uuid.UUID) (*model.ReturnHeader, error)
	ListHeadersByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.ReturnHeader, int64, error)
}

type returnRepository struct {
	db *gorm.DB
}

func NewReturnRepository(db *gorm.DB) ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) CreateHeader(ctx context.Context, header *model.ReturnHeader) error {
	return GetDB(ctx, r.db).Create(header).Error
}

func (r *returnRepository) CreateItem(ctx context.Context, item *model.ReturnItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *returnRepository) FindHeaderByID(ctx context.Context, id uuid.UUID) (*model.ReturnHeader, error) {
	var header model.ReturnHeader
	if err := GetDB(ctx, r.db).Preload("Items").First(&header, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *returnRepository) ListHeadersByEmployee(ctx context.Context, employeeID uuid.UUID, page, limit int) ([]model.ReturnHeader, int64, error) {
	var headers []model.ReturnHeader
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ReturnHeader{}).Where("employee_id = ?", employeeID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Items").Order("created_at desc").Offset(offset).Limit(limit).Find(&headers).Error; err != nil {
		return nil, 0, err
	}

	return headers, total, nil
}
