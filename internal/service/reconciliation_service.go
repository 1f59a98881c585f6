package service

import (
	"context"
	"fmt"

	"github.com/denisceno/clone-magazina/internal/model"
	"github.com/denisceno/clone-magazina/internal/repository"
	"github.com/denisceno/clone-magazina/pkg/apperror"
)

// Operation kinds accepted by Execute.
const (
	OpWithdraw    = "WITHDRAW"
	OpReturn      = "RETURN"
	OpOpenEntry   = "OPEN_ENTRY"
	OpRecordUsage = "RECORD_USAGE"
	OpCloseEntry  = "CLOSE_ENTRY"
	OpExpense     = "EXPENSE"
	OpAdjustment  = "ADJUSTMENT"
)

// Operation is one sub-operation of a batch; exactly the payload field
// matching Kind must be set.
type Operation struct {
	Kind        string              `json:"kind" binding:"required,oneof=WITHDRAW RETURN OPEN_ENTRY RECORD_USAGE CLOSE_ENTRY EXPENSE ADJUSTMENT"`
	Withdraw    *WithdrawRequest    `json:"withdraw,omitempty"`
	Return      *ReturnRequest      `json:"return,omitempty"`
	OpenEntry   *OpenEntryRequest   `json:"open_entry,omitempty"`
	RecordUsage *RecordUsageRequest `json:"record_usage,omitempty"`
	CloseEntry  *CloseEntryRequest  `json:"close_entry,omitempty"`
	Expense     *ExpenseRequest     `json:"expense,omitempty"`
	Adjustment  *AdjustmentRequest  `json:"adjustment,omitempty"`
}

// OperationResult carries the id of the entity each sub-operation produced.
type OperationResult struct {
	Kind     string `json:"kind"`
	EntityID string `json:"entity_id"`
}

// ReconciliationService is the single entry point external callers use when
// they need cross-entity guarantees, e.g. a fuel-purchase withdrawal plus the
// matching expense as one all-or-nothing unit. All sub-operations run in one
// transaction; every row lock they take is held until the shared commit, and
// the first failing sub-operation's error surfaces unchanged.
type ReconciliationService interface {
	Execute(ctx context.Context, actor Actor, ops []Operation) ([]OperationResult, error)
}

type reconciliationService struct {
	withdrawals WithdrawalService
	fuel        FuelService
	budget      BudgetService
	txManager   repository.TransactionManager
	audit       AuditTrail
}

func NewReconciliationService(
	withdrawals WithdrawalService,
	fuel FuelService,
	budget BudgetService,
	txManager repository.TransactionManager,
	audit AuditTrail,
) ReconciliationService {
	return &reconciliationService{
		withdrawals: withdrawals,
		fuel:        fuel,
		budget:      budget,
		txManager:   txManager,
		audit:       audit,
	}
}

func (s *reconciliationService) Execute(ctx context.Context, actor Actor, ops []Operation) ([]OperationResult, error) {
	if len(ops) == 0 {
		return nil, apperror.New(apperror.KindInvalidInput, "batch needs at least one operation")
	}

	var results []OperationResult
	var events []model.AuditLog

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for i, op := range ops {
			entityID, ev, err := s.apply(txCtx, actor, op)
			if err != nil {
				// %w keeps the sub-operation's error kind intact.
				return fmt.Errorf("operation %d (%s): %w", i, op.Kind, err)
			}
			results = append(results, OperationResult{Kind: op.Kind, EntityID: entityID})
			events = append(events, ev...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Emit(ctx, events)
	return results, nil
}

func (s *reconciliationService) apply(txCtx context.Context, actor Actor, op Operation) (string, []model.AuditLog, error) {
	switch op.Kind {
	case OpWithdraw:
		if op.Withdraw == nil {
			return "", nil, apperror.New(apperror.KindInvalidInput, "missing withdraw payload")
		}
		header, ev, err := s.withdrawals.WithdrawInTx(txCtx, actor, *op.Withdraw)
		if err != nil {
			return "", nil, err
		}
		return header.ID.String(), ev, nil

	case OpReturn:
		if op.Return == nil {
			return "", nil, apperror.New(apperror.KindInvalidInput, "missing return payload")
		}
		header, ev, err := s.withdrawals.ReturnItemsInTx(txCtx, actor, *op.Return)
		if err != nil {
			return "", nil, err
		}
		return header.ID.String(), ev, nil

	case OpOpenEntry:
		if op.OpenEntry == nil {
			return "", nil, apperror.New(apperror.KindInvalidInput, "missing open_entry payload")
		}
		entry, ev, err := s.fuel.OpenEntryInTx(txCtx, actor, *op.OpenEntry)
		if err != nil {
			return "", nil, err
		}
		return entry.ID.String(), ev, nil

	case OpRecordUsage:
		if op.RecordUsage == nil {
			return "", nil, apperror.New(apperror.KindInvalidInput, "missing record_usage payload")
		}
		usage, ev, err := s.fuel.RecordUsageInTx(txCtx, actor, *op.RecordUsage)
		if err != nil {
			return "", nil, err
		}
		return usage.ID.String(), ev, nil

	case OpCloseEntry:
		if op.CloseEntry == nil {
			return "", nil, apperror.New(apperror.KindInvalidInput, "missing close_entry payload")
		}
		entry, ev, err := s.fuel.CloseEntryInTx(txCtx, actor, *op.CloseEntry)
		if err != nil {
			return "", nil, err
		}
		return entry.ID.String(), ev, nil

	case OpExpense:
		if op.Expense == nil {
			return "", nil, apperror.New(apperror.KindInvalidInput, "missing expense payload")
		}
		expense, ev, err := s.budget.ApplyExpenseInTx(txCtx, actor, *op.Expense)
		if err != nil {
			return "", nil, err
		}
		return expense.ID.String(), ev, nil

	case OpAdjustment:
		if op.Adjustment == nil {
			return "", nil, apperror.New(apperror.KindInvalidInput, "missing adjustment payload")
		}
		adjustment, ev, err := s.budget.ApplyAdjustmentInTx(txCtx, actor, *op.Adjustment)
		if err != nil {
			return "", nil, err
		}
		return adjustment.ID.String(), ev, nil

	default:
		return "", nil, apperror.New(apperror.KindInvalidInput, "unknown operation kind: %s", op.Kind)
	}
}
