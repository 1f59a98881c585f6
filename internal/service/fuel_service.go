package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/denisceno/clone-magazina/internal/model"
	"github.com/denisceno/clone-magazina/internal/repository"
	ws "github.com/denisceno/clone-magazina/internal/websocket"
	"github.com/denisceno/clone-magazina/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateTankRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity string `json:"capacity" binding:"required"` // decimal string
}

// TankID is filled from the route path on the HTTP surface and from the
// operation payload on the reconciliation surface, so it carries no binding.
type OpenEntryRequest struct {
	TankID      string `json:"tank_id"`
	Supplier    string `json:"supplier"`
	ReceivedQty string `json:"received_qty" binding:"required"` // decimal string
}

type RecordUsageRequest struct {
	TankID     string `json:"tank_id"`
	VehicleID  string `json:"vehicle_id" binding:"required"`
	OperatorID string `json:"operator_id" binding:"required"`
	ProjectRef string `json:"project_ref"`
	Qty        string `json:"qty" binding:"required"` // decimal string
}

type CloseEntryRequest struct {
	TankID string `json:"tank_id"`
}

type FuelEntryResponse struct {
	ID          string `json:"id"`
	TankID      string `json:"tank_id"`
	Supplier    string `json:"supplier"`
	ReceivedQty string `json:"received_qty"`
	Status      string `json:"status"`
	OpenedAt    string `json:"opened_at"`
	ClosedAt    string `json:"closed_at,omitempty"`
}

type FuelUsageResponse struct {
	ID          string `json:"id"`
	FuelEntryID string `json:"fuel_entry_id"`
	TankID      string `json:"tank_id"`
	VehicleID   string `json:"vehicle_id"`
	OperatorID  string `json:"operator_id"`
	ProjectRef  string `json:"project_ref"`
	QtyUsed     string `json:"qty_used"`
	RecordedAt  string `json:"recorded_at"`
}

// --- Interface ---

// FuelService is the fuel-tank entry/usage state machine. An entry is OPEN or
// CLOSED; a tank holds at most one OPEN entry; usage posts against the open
// entry and is bounded by its received quantity. The InTx variants assume a
// transaction context from TransactionManager.RunInTx.
type FuelService interface {
	CreateTank(ctx context.Context, actor Actor, req CreateTankRequest) (model.TankLevel, error)
	ListTankLevels(ctx context.Context) ([]model.TankLevel, error)
	OpenEntry(ctx context.Context, actor Actor, req OpenEntryRequest) (FuelEntryResponse, error)
	RecordUsage(ctx context.Context, actor Actor, req RecordUsageRequest) (FuelUsageResponse, error)
	CloseEntry(ctx context.Context, actor Actor, req CloseEntryRequest) (FuelEntryResponse, error)
	CurrentLevel(ctx context.Context, tankID string) (model.TankLevel, error)
	ListEntries(ctx context.Context, tankID string, page, limit int) ([]FuelEntryResponse, int64, error)

	OpenEntryInTx(txCtx context.Context, actor Actor, req OpenEntryRequest) (*model.FuelEntry, []model.AuditLog, error)
	RecordUsageInTx(txCtx context.Context, actor Actor, req RecordUsageRequest) (*model.FuelUsage, []model.AuditLog, error)
	CloseEntryInTx(txCtx context.Context, actor Actor, req CloseEntryRequest) (*model.FuelEntry, []model.AuditLog, error)
}

type fuelService struct {
	fuelRepo     repository.FuelRepository
	vehicleRepo  repository.VehicleRepository
	employeeRepo repository.EmployeeRepository
	txManager    repository.TransactionManager
	audit        AuditTrail
	hub          *ws.Hub

	// closeWriteOff records a synthetic usage on close so the reporting level
	// matches the physical reading. Leftover fuel is abandoned either way.
	closeWriteOff bool
}

func NewFuelService(
	fuelRepo repository.FuelRepository,
	vehicleRepo repository.VehicleRepository,
	employeeRepo repository.EmployeeRepository,
	txManager repository.TransactionManager,
	audit AuditTrail,
	hub *ws.Hub,
	closeWriteOff bool,
) FuelService {
	return &fuelService{
		fuelRepo:      fuelRepo,
		vehicleRepo:   vehicleRepo,
		employeeRepo:  employeeRepo,
		txManager:     txManager,
		audit:         audit,
		hub:           hub,
		closeWriteOff: closeWriteOff,
	}
}

// --- Implementation ---

func (s *fuelService) CreateTank(ctx context.Context, actor Actor, req CreateTankRequest) (model.TankLevel, error) {
	capacity, err := parseQty(req.Capacity)
	if err != nil {
		return model.TankLevel{}, err
	}

	tank := model.FuelTank{Name: req.Name, Capacity: capacity}
	var events []model.AuditLog

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.fuelRepo.CreateTank(txCtx, &tank); err != nil {
			return err
		}

		detail, _ := json.Marshal(req)
		events = append(events, model.AuditLog{
			ActorID:    actor.UUID(),
			Action:     model.ActionCreateTank,
			EntityType: "FuelTank",
			EntityID:   tank.ID.String(),
			Detail:     string(detail),
			ClientIP:   actor.ClientIP,
		})
		return nil
	})
	if err != nil {
		return model.TankLevel{}, err
	}

	s.audit.Emit(ctx, events)

	return model.TankLevel{
		TankID:   tank.ID.String(),
		TankName: tank.Name,
		Capacity: tank.Capacity,
	}, nil
}

func (s *fuelService) ListTankLevels(ctx context.Context) ([]model.TankLevel, error) {
	tanks, err := s.fuelRepo.ListTanks(ctx)
	if err != nil {
		return nil, err
	}

	levels := make([]model.TankLevel, 0, len(tanks))
	for i := range tanks {
		level, err := s.tankLevel(ctx, &tanks[i])
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func (s *fuelService) OpenEntry(ctx context.Context, actor Actor, req OpenEntryRequest) (FuelEntryResponse, error) {
	var entry *model.FuelEntry
	var events []model.AuditLog

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		e, ev, err := s.OpenEntryInTx(txCtx, actor, req)
		if err != nil {
			return err
		}
		entry, events = e, ev
		return nil
	})
	if err != nil {
		return FuelEntryResponse{}, err
	}

	s.audit.Emit(ctx, events)
	s.notifyLevel(ctx, entry.TankID)

	return toEntryResponse(entry), nil
}

// OpenEntryInTx checks for an existing open entry and creates the new one
// under the tank row lock, so two concurrent opens cannot both succeed.
func (s *fuelService) OpenEntryInTx(txCtx context.Context, actor Actor, req OpenEntryRequest) (*model.FuelEntry, []model.AuditLog, error) {
	tankID, err := uuid.Parse(req.TankID)
	if err != nil {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "invalid tank_id: %s", req.TankID)
	}
	qty, err := parseQty(req.ReceivedQty)
	if err != nil {
		return nil, nil, err
	}

	tank, err := s.fuelRepo.FindTankByIDForUpdate(txCtx, tankID)
	if err != nil {
		return nil, nil, repository.Translate(err)
	}

	if _, err := s.fuelRepo.FindOpenEntry(txCtx, tank.ID); err == nil {
		return nil, nil, apperror.New(apperror.KindTankAlreadyOpen,
			"tank %s already has an open entry", tank.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	entry := model.FuelEntry{
		TankID:      tank.ID,
		Supplier:    req.Supplier,
		ReceivedQty: qty,
		Status:      model.FuelEntryOpen,
	}
	if err := s.fuelRepo.CreateEntry(txCtx, &entry); err != nil {
		return nil, nil, err
	}

	detail, _ := json.Marshal(map[string]interface{}{
		"tank_id":      tank.ID.String(),
		"tank_name":    tank.Name,
		"supplier":     req.Supplier,
		"received_qty": qty.String(),
	})
	events := []model.AuditLog{{
		ActorID:    actor.UUID(),
		Action:     model.ActionOpenEntry,
		EntityType: "FuelEntry",
		EntityID:   entry.ID.String(),
		Detail:     string(detail),
		ClientIP:   actor.ClientIP,
	}}

	return &entry, events, nil
}

func (s *fuelService) RecordUsage(ctx context.Context, actor Actor, req RecordUsageRequest) (FuelUsageResponse, error) {
	var usage *model.FuelUsage
	var events []model.AuditLog

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		u, ev, err := s.RecordUsageInTx(txCtx, actor, req)
		if err != nil {
			return err
		}
		usage, events = u, ev
		return nil
	})
	if err != nil {
		return FuelUsageResponse{}, err
	}

	s.audit.Emit(ctx, events)
	s.notifyLevel(ctx, usage.TankID)

	return toUsageResponse(usage), nil
}

// RecordUsageInTx resolves the open entry and checks its remaining level
// under the tank row lock, so concurrent usages cannot jointly overdraw the
// entry. The tank-wide reporting level plays no part in this check.
func (s *fuelService) RecordUsageInTx(txCtx context.Context, actor Actor, req RecordUsageRequest) (*model.FuelUsage, []model.AuditLog, error) {
	tankID, err := uuid.Parse(req.TankID)
	if err != nil {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "invalid tank_id: %s", req.TankID)
	}
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "invalid vehicle_id: %s", req.VehicleID)
	}
	operatorID, err := uuid.Parse(req.OperatorID)
	if err != nil {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "invalid operator_id: %s", req.OperatorID)
	}
	qty, err := parseQty(req.Qty)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.vehicleRepo.FindByID(txCtx, vehicleID); err != nil {
		return nil, nil, repository.Translate(err)
	}
	if _, err := s.employeeRepo.FindByID(txCtx, operatorID); err != nil {
		return nil, nil, repository.Translate(err)
	}

	tank, err := s.fuelRepo.FindTankByIDForUpdate(txCtx, tankID)
	if err != nil {
		return nil, nil, repository.Translate(err)
	}

	entry, err := s.fuelRepo.FindOpenEntry(txCtx, tank.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.New(apperror.KindNoOpenEntry, "tank %s has no open entry", tank.Name)
		}
		return nil, nil, err
	}

	used, err := s.fuelRepo.SumUsageForEntry(txCtx, entry.ID)
	if err != nil {
		return nil, nil, err
	}
	remaining := entry.ReceivedQty.Sub(used)
	if qty.GreaterThan(remaining) {
		return nil, nil, apperror.New(apperror.KindInsufficientFuel,
			"usage of %s exceeds remaining %s on entry %s", qty, remaining, entry.ID)
	}

	usage := model.FuelUsage{
		FuelEntryID: entry.ID,
		TankID:      tank.ID,
		VehicleID:   &vehicleID,
		OperatorID:  &operatorID,
		ProjectRef:  req.ProjectRef,
		QtyUsed:     qty,
	}
	if err := s.fuelRepo.CreateUsage(txCtx, &usage); err != nil {
		return nil, nil, err
	}

	detail, _ := json.Marshal(map[string]interface{}{
		"tank_id":         tank.ID.String(),
		"fuel_entry_id":   entry.ID.String(),
		"vehicle_id":      req.VehicleID,
		"operator_id":     req.OperatorID,
		"project_ref":     req.ProjectRef,
		"qty":             qty.String(),
		"entry_remaining": remaining.Sub(qty).String(),
	})
	events := []model.AuditLog{{
		ActorID:    actor.UUID(),
		Action:     model.ActionRecordUsage,
		EntityType: "FuelUsage",
		EntityID:   usage.ID.String(),
		Detail:     string(detail),
		ClientIP:   actor.ClientIP,
	}}

	return &usage, events, nil
}

func (s *fuelService) CloseEntry(ctx context.Context, actor Actor, req CloseEntryRequest) (FuelEntryResponse, error) {
	var entry *model.FuelEntry
	var events []model.AuditLog

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		e, ev, err := s.CloseEntryInTx(txCtx, actor, req)
		if err != nil {
			return err
		}
		entry, events = e, ev
		return nil
	})
	if err != nil {
		return FuelEntryResponse{}, err
	}

	s.audit.Emit(ctx, events)
	s.notifyLevel(ctx, entry.TankID)

	return toEntryResponse(entry), nil
}

// CloseEntryInTx transitions the open entry to CLOSED, which is terminal.
// Leftover fuel in the entry is abandoned; with the write-off policy enabled
// a synthetic usage zeroes the tank's reporting level first.
func (s *fuelService) CloseEntryInTx(txCtx context.Context, actor Actor, req CloseEntryRequest) (*model.FuelEntry, []model.AuditLog, error) {
	tankID, err := uuid.Parse(req.TankID)
	if err != nil {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "invalid tank_id: %s", req.TankID)
	}

	tank, err := s.fuelRepo.FindTankByIDForUpdate(txCtx, tankID)
	if err != nil {
		return nil, nil, repository.Translate(err)
	}

	entry, err := s.fuelRepo.FindOpenEntry(txCtx, tank.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.New(apperror.KindNoOpenEntry, "tank %s has no open entry", tank.Name)
		}
		return nil, nil, err
	}

	writeOff := "0"
	if s.closeWriteOff {
		received, used, err := s.fuelRepo.TankTotals(txCtx, tank.ID)
		if err != nil {
			return nil, nil, err
		}
		leftover := received.Sub(used)
		if !leftover.IsZero() {
			usage := model.FuelUsage{
				FuelEntryID: entry.ID,
				TankID:      tank.ID,
				ProjectRef:  "WRITE_OFF",
				QtyUsed:     leftover,
			}
			if err := s.fuelRepo.CreateUsage(txCtx, &usage); err != nil {
				return nil, nil, err
			}
			writeOff = leftover.String()
		}
	}

	now := time.Now()
	entry.Status = model.FuelEntryClosed
	entry.ClosedAt = &now
	if err := s.fuelRepo.CloseEntry(txCtx, entry); err != nil {
		return nil, nil, err
	}

	detail, _ := json.Marshal(map[string]interface{}{
		"tank_id":       tank.ID.String(),
		"tank_name":     tank.Name,
		"received_qty":  entry.ReceivedQty.String(),
		"write_off_qty": writeOff,
	})
	events := []model.AuditLog{{
		ActorID:    actor.UUID(),
		Action:     model.ActionCloseEntry,
		EntityType: "FuelEntry",
		EntityID:   entry.ID.String(),
		Detail:     string(detail),
		ClientIP:   actor.ClientIP,
	}}

	return entry, events, nil
}

// CurrentLevel is the reporting aggregate over all entries and usages. It
// never gates RecordUsage, which is bounded per open entry.
func (s *fuelService) CurrentLevel(ctx context.Context, tankID string) (model.TankLevel, error) {
	id, err := uuid.Parse(tankID)
	if err != nil {
		return model.TankLevel{}, apperror.New(apperror.KindInvalidInput, "invalid tank_id: %s", tankID)
	}

	tank, err := s.fuelRepo.FindTankByID(ctx, id)
	if err != nil {
		return model.TankLevel{}, repository.Translate(err)
	}

	return s.tankLevel(ctx, tank)
}

func (s *fuelService) ListEntries(ctx context.Context, tankID string, page, limit int) ([]FuelEntryResponse, int64, error) {
	id, err := uuid.Parse(tankID)
	if err != nil {
		return nil, 0, apperror.New(apperror.KindInvalidInput, "invalid tank_id: %s", tankID)
	}

	entries, total, err := s.fuelRepo.ListEntries(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]FuelEntryResponse, 0, len(entries))
	for i := range entries {
		res = append(res, toEntryResponse(&entries[i]))
	}
	return res, total, nil
}

// --- helpers ---

func (s *fuelService) tankLevel(ctx context.Context, tank *model.FuelTank) (model.TankLevel, error) {
	received, used, err := s.fuelRepo.TankTotals(ctx, tank.ID)
	if err != nil {
		return model.TankLevel{}, err
	}

	level := model.TankLevel{
		TankID:       tank.ID.String(),
		TankName:     tank.Name,
		Capacity:     tank.Capacity,
		CurrentLevel: received.Sub(used),
	}
	if open, err := s.fuelRepo.FindOpenEntry(ctx, tank.ID); err == nil {
		id := open.ID.String()
		level.OpenEntryID = &id
	}
	return level, nil
}

func (s *fuelService) notifyLevel(ctx context.Context, tankID uuid.UUID) {
	if s.hub == nil {
		return
	}
	received, used, err := s.fuelRepo.TankTotals(ctx, tankID)
	if err != nil {
		return
	}
	s.hub.BroadcastEvent("fuel_level_changed", map[string]interface{}{
		"tank_id":       tankID.String(),
		"current_level": received.Sub(used).String(),
	})
}

func toEntryResponse(e *model.FuelEntry) FuelEntryResponse {
	res := FuelEntryResponse{
		ID:          e.ID.String(),
		TankID:      e.TankID.String(),
		Supplier:    e.Supplier,
		ReceivedQty: e.ReceivedQty.String(),
		Status:      e.Status,
		OpenedAt:    e.OpenedAt.Format("2006-01-02 15:04:05"),
	}
	if e.ClosedAt != nil {
		res.ClosedAt = e.ClosedAt.Format("2006-01-02 15:04:05")
	}
	return res
}

func toUsageResponse(u *model.FuelUsage) FuelUsageResponse {
	res := FuelUsageResponse{
		ID:          u.ID.String(),
		FuelEntryID: u.FuelEntryID.String(),
		TankID:      u.TankID.String(),
		ProjectRef:  u.ProjectRef,
		QtyUsed:     u.QtyUsed.String(),
		RecordedAt:  u.RecordedAt.Format("2006-01-02 15:04:05"),
	}
	if u.VehicleID != nil {
		res.VehicleID = u.VehicleID.String()
	}
	if u.OperatorID != nil {
		res.OperatorID = u.OperatorID.String()
	}
	return res
}
