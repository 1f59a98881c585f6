package repository

import (
	"context"

	"github.com/denisceno/clone-magazina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepotRepository interface {
	Create(ctx context.Context, depot *model.Depot) error
	Update(ctx context.Context, depot *model.Depot) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Depot, error)
	List(ctx context.Context) ([]model.Depot, error)
}

type depotRepository struct {
	db *gorm.DB
}

func NewDepotRepository(db *gorm.DB) DepotRepository {
	return &depotRepository{db: db}
}

func (r *depotRepository) Create(ctx context.Context, depot *model.Depot) error {
	return GetDB(ctx, r.db).Create(depot).Error
}

func (r *depotRepository) Update(ctx context.Context, depot *model.Depot) error {
	return GetDB(ctx, r.db).Save(depot).Error
}

func (r *depotRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Depot, error) {
	var depot model.Depot
	if err := GetDB(ctx, r.db).First(&depot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &depot, nil
}

func (r *depotRepository) List(ctx context.Context) ([]model.Depot, error) {
	var depots []model.Depot
	err := GetDB(ctx, r.db).Order("name asc").Find(&depots).Error
	return depots, err
}
