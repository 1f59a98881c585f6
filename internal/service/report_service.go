package service

import (
	"context"

	"github.com/denisceno/clone-magazina/internal/model"
	"github.com/denisceno/clone-magazina/internal/repository"
	"github.com/denisceno/clone-magazina/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportService serves the read-only aggregates. Reports run outside the
// locking transactions; their figures are a committed snapshot, not a gate.
type ReportService interface {
	DepotStock(ctx context.Context) ([]model.DepotStock, error)
	FuelByVehicle(ctx context.Context, vehicleID string) ([]model.VehicleFuelGroup, error)
}

type reportService struct {
	db       *gorm.DB
	fuelRepo repository.FuelRepository
}

func NewReportService(db *gorm.DB, fuelRepo repository.FuelRepository) ReportService {
	return &reportService{db: db, fuelRepo: fuelRepo}
}

func (s *reportService) DepotStock(ctx context.Context) ([]model.DepotStock, error) {
	var rows []model.DepotStock
	err := s.db.WithContext(ctx).Raw(`
		SELECT d.id AS depot_id,
		       d.name AS depot_name,
		       COUNT(p.id) AS products,
		       COALESCE(SUM(p.on_hand_qty), 0) AS total_qty,
		       COALESCE(SUM(p.on_hand_qty * p.price), 0) AS total_value
		FROM depots d
		LEFT JOIN products p ON p.depot_id = d.id
		WHERE d.active = true
		GROUP BY d.id, d.name
		ORDER BY d.name
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *reportService) FuelByVehicle(ctx context.Context, vehicleID string) ([]model.VehicleFuelGroup, error) {
	id, err := uuid.Parse(vehicleID)
	if err != nil {
		return nil, apperror.New(apperror.KindInvalidInput, "invalid vehicle id: %s", vehicleID)
	}

	usages, err := s.fuelRepo.ListUsagesByVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(usages) == 0 {
		return []model.VehicleFuelGroup{}, nil
	}

	entryIDs := make([]uuid.UUID, 0, len(usages))
	seen := make(map[uuid.UUID]bool)
	for i := range usages {
		if !seen[usages[i].FuelEntryID] {
			seen[usages[i].FuelEntryID] = true
			entryIDs = append(entryIDs, usages[i].FuelEntryID)
		}
	}

	entries, err := s.fuelRepo.FindEntriesByIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}

	byEntry := make(map[uuid.UUID][]model.FuelUsage, len(entries))
	for i := range usages {
		byEntry[usages[i].FuelEntryID] = append(byEntry[usages[i].FuelEntryID], usages[i])
	}

	groups := make([]model.VehicleFuelGroup, 0, len(entries))
	for i := range entries {
		group := model.VehicleFuelGroup{
			FuelEntryID: entries[i].ID.String(),
			OpenedAt:    entries[i].OpenedAt,
			Usages:      byEntry[entries[i].ID],
		}
		if entries[i].Tank != nil {
			group.TankName = entries[i].Tank.Name
		}
		for _, u := range group.Usages {
			group.TotalUsed = group.TotalUsed.Add(u.QtyUsed)
		}
		groups = append(groups, group)
	}
	return groups, nil
}
