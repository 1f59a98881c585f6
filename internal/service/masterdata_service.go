package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/denisceno/clone-magazina/internal/model"
	"github.com/denisceno/clone-magazina/internal/repository"
	"github.com/denisceno/clone-magazina/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateEmployeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Position   string `json:"position"`
	Phone      string `json:"phone"`
	HaveBudget bool   `json:"have_budget"`
}

type UpdateEmployeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Position   string `json:"position"`
	Phone      string `json:"phone"`
	HaveBudget bool   `json:"have_budget"`
	Active     bool   `json:"active"`
}

type EmployeeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Phone      string `json:"phone"`
	HaveBudget bool   `json:"have_budget"`
	Active     bool   `json:"active"`
}

type CreateVehicleRequest struct {
	Plate       string `json:"plate" binding:"required"`
	Description string `json:"description"`
}

type VehicleResponse struct {
	ID          string `json:"id"`
	Plate       string `json:"plate"`
	Description string `json:"description"`
}

type MasterDataService interface {
	CreateEmployee(ctx context.Context, actor Actor, req CreateEmployeeRequest) (EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, actor Actor, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	GetEmployees(ctx context.Context, page, limit int, search string) ([]EmployeeResponse, int64, error)
	CreateVehicle(ctx context.Context, actor Actor, req CreateVehicleRequest) (VehicleResponse, error)
	GetVehicles(ctx context.Context, page, limit int) ([]VehicleResponse, int64, error)
}

type masterDataService struct {
	employeeRepo repository.EmployeeRepository
	vehicleRepo  repository.VehicleRepository
	budgetRepo   repository.BudgetRepository
	txManager    repository.TransactionManager
	audit        AuditTrail
}

func NewMasterDataService(
	employeeRepo repository.EmployeeRepository,
	vehicleRepo repository.VehicleRepository,
	budgetRepo repository.BudgetRepository,
	txManager repository.TransactionManager,
	audit AuditTrail,
) MasterDataService {
	return &masterDataService{
		employeeRepo: employeeRepo,
		vehicleRepo:  vehicleRepo,
		budgetRepo:   budgetRepo,
		txManager:    txManager,
		audit:        audit,
	}
}

func (s *masterDataService) CreateEmployee(ctx context.Context, actor Actor, req CreateEmployeeRequest) (EmployeeResponse, error) {
	employee := model.Employee{
		Name:       req.Name,
		Position:   req.Position,
		Phone:      req.Phone,
		HaveBudget: req.HaveBudget,
		Active:     true,
	}
	var events []model.AuditLog

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.Create(txCtx, &employee); err != nil {
			return err
		}
		if employee.HaveBudget {
			if err := s.ensureBudget(txCtx, employee.ID); err != nil {
				return err
			}
		}

		detail, _ := json.Marshal(req)
		events = append(events, model.AuditLog{
			ActorID:    actor.UUID(),
			Action:     model.ActionCreateEmployee,
			EntityType: "Employee",
			EntityID:   employee.ID.String(),
			Detail:     string(detail),
			ClientIP:   actor.ClientIP,
		})
		return nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.audit.Emit(ctx, events)
	return toEmployeeResponse(&employee), nil
}

func (s *masterDataService) UpdateEmployee(ctx context.Context, actor Actor, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, apperror.New(apperror.KindInvalidInput, "invalid employee id: %s", id)
	}

	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return EmployeeResponse{}, repository.Translate(err)
	}

	employee.Name = req.Name
	employee.Position = req.Position
	employee.Phone = req.Phone
	employee.HaveBudget = req.HaveBudget
	employee.Active = req.Active

	var events []model.AuditLog
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.Update(txCtx, employee); err != nil {
			return err
		}
		// Turning the flag on provisions the ledger account. Turning it off
		// keeps the account and its balance; the flag only gates new postings.
		if employee.HaveBudget {
			if err := s.ensureBudget(txCtx, employee.ID); err != nil {
				return err
			}
		}

		detail, _ := json.Marshal(req)
		events = append(events, model.AuditLog{
			ActorID:    actor.UUID(),
			Action:     model.ActionUpdateEmployee,
			EntityType: "Employee",
			EntityID:   employee.ID.String(),
			Detail:     string(detail),
			ClientIP:   actor.ClientIP,
		})
		return nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.audit.Emit(ctx, events)
	return toEmployeeResponse(employee), nil
}

func (s *masterDataService) ensureBudget(ctx context.Context, employeeID uuid.UUID) error {
	_, err := s.budgetRepo.FindByEmployee(ctx, employeeID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.budgetRepo.Create(ctx, &model.EmployeeBudget{
		EmployeeID: employeeID,
		Balance:    decimal.Zero,
	})
}

func (s *masterDataService) GetEmployees(ctx context.Context, page, limit int, search string) ([]EmployeeResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	employees, total, err := s.employeeRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		res = append(res, toEmployeeResponse(&employees[i]))
	}
	return res, total, nil
}

func (s *masterDataService) CreateVehicle(ctx context.Context, actor Actor, req CreateVehicleRequest) (VehicleResponse, error) {
	vehicle := model.Vehicle{
		Plate:       req.Plate,
		Description: req.Description,
	}
	var events []model.AuditLog

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vehicleRepo.Create(txCtx, &vehicle); err != nil {
			return err
		}

		detail, _ := json.Marshal(req)
		events = append(events, model.AuditLog{
			ActorID:    actor.UUID(),
			Action:     model.ActionCreateVehicle,
			EntityType: "Vehicle",
			EntityID:   vehicle.ID.String(),
			Detail:     string(detail),
			ClientIP:   actor.ClientIP,
		})
		return nil
	})
	if err != nil {
		return VehicleResponse{}, err
	}

	s.audit.Emit(ctx, events)
	return VehicleResponse{ID: vehicle.ID.String(), Plate: vehicle.Plate, Description: vehicle.Description}, nil
}

func (s *masterDataService) GetVehicles(ctx context.Context, page, limit int) ([]VehicleResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	vehicles, total, err := s.vehicleRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		res = append(res, VehicleResponse{
			ID:          vehicles[i].ID.String(),
			Plate:       vehicles[i].Plate,
			Description: vehicles[i].Description,
		})
	}
	return res, total, nil
}

func toEmployeeResponse(e *model.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID.String(),
		Name:       e.Name,
		Position:   e.Position,
		Phone:      e.Phone,
		HaveBudget: e.HaveBudget,
		Active:     e.Active,
	}
}
