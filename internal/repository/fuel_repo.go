package repository

import (
	"context"

	"github.com/denisceno/clone-magazina/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FuelRepository interface {
	CreateTank(ctx context.Context, tank *model.FuelTank) error
	FindTankByID(ctx context.Context, id uuid.UUID) (*model.FuelTank, error)
	FindTankByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.FuelTank, error)
	ListTanks(ctx context.Context) ([]model.FuelTank, error)

	CreateEntry(ctx context.Context, entry *model.FuelEntry) error
	FindOpenEntry(ctx context.Context, tankID uuid.UUID) (*model.FuelEntry, error)
	CloseEntry(ctx context.Context, entry *model.FuelEntry) error
	ListEntries(ctx context.Context, tankID uuid.UUID, page, limit int) ([]model.FuelEntry, int64, error)
	FindEntriesByIDs(ctx context.Context, ids []uuid.UUID) ([]model.FuelEntry, error)

	CreateUsage(ctx context.Context, usage *model.FuelUsage) error
	SumUsageForEntry(ctx context.Context, entryID uuid.UUID) (decimal.Decimal, error)
	TankTotals(ctx context.Context, tankID uuid.UUID) (received, used decimal.Decimal, err error)
	ListUsagesByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.FuelUsage, error)
}

type fuelRepository struct {
	db *gorm.DB
}

func NewFuelRepository(db *gorm.DB) FuelRepository {
	return &fuelRepository{db: db}
}

func (r *fuelRepository) CreateTank(ctx context.Context, tank *model.FuelTank) error {
	return GetDB(ctx, r.db).Create(tank).Error
}

func (r *fuelRepository) FindTankByID(ctx context.Context, id uuid.UUID) (*model.FuelTank, error) {
	var tank model.FuelTank
	if err := GetDB(ctx, r.db).First(&tank, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tank, nil
}

// FindTankByIDForUpdate serializes open/close/usage on one tank: two callers
// cannot both observe "no open entry" and both create one.
func (r *fuelRepository) FindTankByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.FuelTank, error) {
	var tank model.FuelTank
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&tank).Error; err != nil {
		return nil, err
	}
	return &tank, nil
}

func (r *fuelRepository) ListTanks(ctx context.Context) ([]model.FuelTank, error) {
	var tanks []model.FuelTank
	err := GetDB(ctx, r.db).Order("name asc").Find(&tanks).Error
	return tanks, err
}

func (r *fuelRepository) CreateEntry(ctx context.Context, entry *model.FuelEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

// FindOpenEntry returns the tank's single OPEN entry, or gorm.ErrRecordNotFound.
func (r *fuelRepository) FindOpenEntry(ctx context.Context, tankID uuid.UUID) (*model.FuelEntry, error) {
	var entry model.FuelEntry
	err := GetDB(ctx, r.db).
		Where("tank_id = ? AND status = ?", tankID, model.FuelEntryOpen).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *fuelRepository) CloseEntry(ctx context.Context, entry *model.FuelEntry) error {
	return GetDB(ctx, r.db).Model(entry).
		Select("status", "closed_at").
		Updates(map[string]interface{}{"status": entry.Status, "closed_at": entry.ClosedAt}).Error
}

func (r *fuelRepository) ListEntries(ctx context.Context, tankID uuid.UUID, page, limit int) ([]model.FuelEntry, int64, error) {
	var entries []model.FuelEntry
	var total int64

	db := GetDB(ctx, r.db).Model(&model.FuelEntry{}).Where("tank_id = ?", tankID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("opened_at desc").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *fuelRepository) CreateUsage(ctx context.Context, usage *model.FuelUsage) error {
	return GetDB(ctx, r.db).Create(usage).Error
}

// SumUsageForEntry totals committed usage against one entry. Callers holding
// the tank row lock get a stable figure for the overdraw check.
func (r *fuelRepository) SumUsageForEntry(ctx context.Context, entryID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.FuelUsage{}).
		Select("COALESCE(SUM(qty_used), 0)").
		Where("fuel_entry_id = ?", entryID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// TankTotals returns lifetime received and used quantities for the reporting
// level figure.
func (r *fuelRepository) TankTotals(ctx context.Context, tankID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var received, used decimal.NullDecimal

	err := GetDB(ctx, r.db).Model(&model.FuelEntry{}).
		Select("COALESCE(SUM(received_qty), 0)").
		Where("tank_id = ?", tankID).
		Scan(&received).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	err = GetDB(ctx, r.db).Model(&model.FuelUsage{}).
		Select("COALESCE(SUM(qty_used), 0)").
		Where("tank_id = ?", tankID).
		Scan(&used).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return received.Decimal, used.Decimal, nil
}

func (r *fuelRepository) FindEntriesByIDs(ctx context.Context, ids []uuid.UUID) ([]model.FuelEntry, error) {
	var entries []model.FuelEntry
	err := GetDB(ctx, r.db).
		Preload("Tank").
		Where("id IN ?", ids).
		Order("opened_at desc").
		Find(&entries).Error
	return entries, err
}

func (r *fuelRepository) ListUsagesByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.FuelUsage, error) {
	var usages []model.FuelUsage
	err := GetDB(ctx, r.db).
		Preload("Operator").
		Where("vehicle_id = ?", vehicleID).
		Order("recorded_at desc").
		Find(&usages).Error
	return usages, err
}
