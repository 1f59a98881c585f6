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

// --- DTOs ---

type ExpenseRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required"`
	Amount      string `json:"amount" binding:"required"` // decimal string
	Description string `json:"description"`
}

type AdjustmentRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Delta      string `json:"delta" binding:"required"` // decimal string, may be negative
	Reason     string `json:"reason"`
}

type ExpenseResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	Amount       string `json:"amount"`
	Description  string `json:"description"`
	BalanceAfter string `json:"balance_after"`
	CreatedAt    string `json:"created_at"`
}

type AdjustmentResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	Delta        string `json:"delta"`
	Reason       string `json:"reason"`
	BalanceAfter string `json:"balance_after"`
	CreatedAt    string `json:"created_at"`
}

type BalanceResponse struct {
	EmployeeID string `json:"employee_id"`
	Balance    string `json:"balance"`
}

type BudgetOverviewRow struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Balance      string `json:"balance"`
}

// --- Interface ---

// BudgetService is the per-employee budget ledger. The balance is only ever
// read and written under the budget row lock, so no expense posting can act
// on a stale figure. The InTx variants assume a transaction context from
// TransactionManager.RunInTx.
type BudgetService interface {
	ApplyExpense(ctx context.Context, actor Actor, req ExpenseRequest) (ExpenseResponse, error)
	ApplyAdjustment(ctx context.Context, actor Actor, req AdjustmentRequest) (AdjustmentResponse, error)
	Balance(ctx context.Context, employeeID string) (BalanceResponse, error)
	Overview(ctx context.Context) ([]BudgetOverviewRow, error)
	ListExpenses(ctx context.Context, employeeID string, page, limit int) ([]ExpenseResponse, int64, error)
	ListAdjustments(ctx context.Context, employeeID string, page, limit int) ([]AdjustmentResponse, int64, error)

	ApplyExpenseInTx(txCtx context.Context, actor Actor, req ExpenseRequest) (*model.Expense, []model.AuditLog, error)
	ApplyAdjustmentInTx(txCtx context.Context, actor Actor, req AdjustmentRequest) (*model.BudgetAdjustment, []model.AuditLog, error)
}

type budgetService struct {
	budgetRepo     repository.BudgetRepository
	expenseRepo    repository.ExpenseRepository
	adjustmentRepo repository.AdjustmentRepository
	employeeRepo   repository.EmployeeRepository
	txManager      repository.TransactionManager
	audit          AuditTrail

	allowOverdraft bool
}

func NewBudgetService(
	budgetRepo repository.BudgetRepository,
	expenseRepo repository.ExpenseRepository,
	adjustmentRepo repository.AdjustmentRepository,
	employeeRepo repository.EmployeeRepository,
	txManager repository.TransactionManager,
	audit AuditTrail,
	allowOverdraft bool,
) BudgetService {
	return &budgetService{
		budgetRepo:     budgetRepo,
		expenseRepo:    expenseRepo,
		adjustmentRepo: adjustmentRepo,
		employeeRepo:   employeeRepo,
		txManager:      txManager,
		audit:          audit,
		allowOverdraft: allowOverdraft,
	}
}

// --- Implementation ---

func (s *budgetService) ApplyExpense(ctx context.Context, actor Actor, req ExpenseRequest) (ExpenseResponse, error) {
	var expense *model.Expense
	var events []model.AuditLog
	var balanceAfter decimal.Decimal

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		e, ev, err := s.ApplyExpenseInTx(txCtx, actor, req)
		if err != nil {
			return err
		}
		expense, events = e, ev
		budget, err := s.budgetRepo.FindByEmployee(txCtx, e.EmployeeID)
		if err != nil {
			return err
		}
		balanceAfter = budget.Balance
		return nil
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	s.audit.Emit(ctx, events)

	res := toExpenseResponse(expense)
	res.BalanceAfter = balanceAfter.String()
	return res, nil
}

// ApplyExpenseInTx debits the budget under its row lock. Employees without a
// budget account are rejected; overdraft is refused unless the policy flag
// permits it.
func (s *budgetService) ApplyExpenseInTx(txCtx context.Context, actor Actor, req ExpenseRequest) (*model.Expense, []model.AuditLog, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "invalid employee_id: %s", req.EmployeeID)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, nil, err
	}
	if !amount.IsPositive() {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "expense amount must be positive, got %s", req.Amount)
	}

	budget, err := s.lockBudget(txCtx, employeeID)
	if err != nil {
		return nil, nil, err
	}

	if !s.allowOverdraft && amount.GreaterThan(budget.Balance) {
		return nil, nil, apperror.New(apperror.KindInsufficientBudget,
			"expense of %s exceeds balance %s", amount, budget.Balance)
	}

	expense := model.Expense{
		EmployeeID:  employeeID,
		Amount:      amount,
		Description: req.Description,
	}
	if err := s.expenseRepo.Create(txCtx, &expense); err != nil {
		return nil, nil, err
	}

	newBalance := budget.Balance.Sub(amount)
	if err := s.budgetRepo.UpdateBalance(txCtx, budget.ID, newBalance); err != nil {
		return nil, nil, err
	}

	detail, _ := json.Marshal(map[string]interface{}{
		"employee_id": req.EmployeeID,
		"amount":      amount.String(),
		"description": req.Description,
		"new_balance": newBalance.String(),
	})
	events := []model.AuditLog{{
		ActorID:    actor.UUID(),
		Action:     model.ActionExpense,
		EntityType: "Expense",
		EntityID:   expense.ID.String(),
		Detail:     string(detail),
		ClientIP:   actor.ClientIP,
	}}

	return &expense, events, nil
}

func (s *budgetService) ApplyAdjustment(ctx context.Context, actor Actor, req AdjustmentRequest) (AdjustmentResponse, error) {
	var adjustment *model.BudgetAdjustment
	var events []model.AuditLog
	var balanceAfter decimal.Decimal

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		a, ev, err := s.ApplyAdjustmentInTx(txCtx, actor, req)
		if err != nil {
			return err
		}
		adjustment, events = a, ev
		budget, err := s.budgetRepo.FindByEmployee(txCtx, a.EmployeeID)
		if err != nil {
			return err
		}
		balanceAfter = budget.Balance
		return nil
	})
	if err != nil {
		return AdjustmentResponse{}, err
	}

	s.audit.Emit(ctx, events)

	res := toAdjustmentResponse(adjustment)
	res.BalanceAfter = balanceAfter.String()
	return res, nil
}

// ApplyAdjustmentInTx credits or debits the balance under the budget row
// lock. Administrative override: no lower bound applies.
func (s *budgetService) ApplyAdjustmentInTx(txCtx context.Context, actor Actor, req AdjustmentRequest) (*model.BudgetAdjustment, []model.AuditLog, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "invalid employee_id: %s", req.EmployeeID)
	}
	delta, err := parseAmount(req.Delta)
	if err != nil {
		return nil, nil, err
	}
	if delta.IsZero() {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "adjustment delta must be non-zero")
	}

	budget, err := s.lockBudget(txCtx, employeeID)
	if err != nil {
		return nil, nil, err
	}

	adjustment := model.BudgetAdjustment{
		EmployeeID: employeeID,
		Delta:      delta,
		Reason:     req.Reason,
	}
	if err := s.adjustmentRepo.Create(txCtx, &adjustment); err != nil {
		return nil, nil, err
	}

	newBalance := budget.Balance.Add(delta)
	if err := s.budgetRepo.UpdateBalance(txCtx, budget.ID, newBalance); err != nil {
		return nil, nil, err
	}

	detail, _ := json.Marshal(map[string]interface{}{
		"employee_id": req.EmployeeID,
		"delta":       delta.String(),
		"reason":      req.Reason,
		"new_balance": newBalance.String(),
	})
	events := []model.AuditLog{{
		ActorID:    actor.UUID(),
		Action:     model.ActionAdjust,
		EntityType: "BudgetAdjustment",
		EntityID:   adjustment.ID.String(),
		Detail:     string(detail),
		ClientIP:   actor.ClientIP,
	}}

	return &adjustment, events, nil
}

// Balance reads the committed balance, no lock taken.
func (s *budgetService) Balance(ctx context.Context, employeeID string) (BalanceResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return BalanceResponse{}, apperror.New(apperror.KindInvalidInput, "invalid employee_id: %s", employeeID)
	}

	budget, err := s.budgetRepo.FindByEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, apperror.New(apperror.KindNoBudgetAccount,
				"employee %s has no budget account", employeeID)
		}
		return BalanceResponse{}, err
	}

	return BalanceResponse{
		EmployeeID: employeeID,
		Balance:    budget.Balance.String(),
	}, nil
}

func (s *budgetService) Overview(ctx context.Context) ([]BudgetOverviewRow, error) {
	employees, err := s.employeeRepo.ListWithBudget(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]BudgetOverviewRow, 0, len(employees))
	for _, emp := range employees {
		row := BudgetOverviewRow{
			EmployeeID:   emp.ID.String(),
			EmployeeName: emp.Name,
			Balance:      "0",
		}
		if budget, err := s.budgetRepo.FindByEmployee(ctx, emp.ID); err == nil {
			row.Balance = budget.Balance.String()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *budgetService) ListExpenses(ctx context.Context, employeeID string, page, limit int) ([]ExpenseResponse, int64, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, 0, apperror.New(apperror.KindInvalidInput, "invalid employee_id: %s", employeeID)
	}

	expenses, total, err := s.expenseRepo.ListByEmployee(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		res = append(res, toExpenseResponse(&expenses[i]))
	}
	return res, total, nil
}

func (s *budgetService) ListAdjustments(ctx context.Context, employeeID string, page, limit int) ([]AdjustmentResponse, int64, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, 0, apperror.New(apperror.KindInvalidInput, "invalid employee_id: %s", employeeID)
	}

	adjustments, total, err := s.adjustmentRepo.ListByEmployee(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AdjustmentResponse, 0, len(adjustments))
	for i := range adjustments {
		res = append(res, toAdjustmentResponse(&adjustments[i]))
	}
	return res, total, nil
}

// --- helpers ---

func (s *budgetService) lockBudget(txCtx context.Context, employeeID uuid.UUID) (*model.EmployeeBudget, error) {
	budget, err := s.budgetRepo.FindByEmployeeForUpdate(txCtx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.KindNoBudgetAccount,
				"employee %s has no budget account", employeeID)
		}
		return nil, err
	}
	return budget, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.New(apperror.KindInvalidInput, "invalid amount: %s", raw)
	}
	return amount, nil
}

func toExpenseResponse(e *model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID.String(),
		EmployeeID:  e.EmployeeID.String(),
		Amount:      e.Amount.String(),
		Description: e.Description,
		CreatedAt:   e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toAdjustmentResponse(a *model.BudgetAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:         a.ID.String(),
		EmployeeID: a.EmployeeID.String(),
		Delta:      a.Delta.String(),
		Reason:     a.Reason,
		CreatedAt:  a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
