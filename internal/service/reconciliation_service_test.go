package service

import (
	"context"
	"testing"

	"github.com/denisceno/clone-magazina/internal/model"
	"github.com/denisceno/clone-magazina/internal/repository"
	"github.com/denisceno/clone-magazina/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) reconciliationService() ReconciliationService {
	return NewReconciliationService(
		e.withdrawalService(),
		e.fuelService(false),
		e.budgetService(false),
		e.tx,
		e.audit,
	)
}

func TestExecute_WithdrawPlusExpenseCommitsTogether(t *testing.T) {
	e := newEnv()
	empID := e.store.addEmployee(true)
	e.store.addBudget(empID, "500.00")
	depotID := e.store.addDepot()
	productID := e.store.addProduct(depotID, model.ItemTypeConsumable, "50")
	svc := e.reconciliationService()

	results, err := svc.Execute(context.Background(), testActor(), []Operation{
		{
			Kind: OpWithdraw,
			Withdraw: &WithdrawRequest{
				EmployeeID: empID.String(),
				DepotID:    depotID.String(),
				Lines:      []WithdrawLine{{ProductID: productID.String(), Qty: "10"}},
			},
		},
		{
			Kind: OpExpense,
			Expense: &ExpenseRequest{
				EmployeeID:  empID.String(),
				Amount:      "120.00",
				Description: "blerje nafte",
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, OpWithdraw, results[0].Kind)
	assert.Equal(t, OpExpense, results[1].Kind)
	assert.NotEmpty(t, results[0].EntityID)

	assert.True(t, e.store.products[productID].OnHandQty.Equal(decimal.NewFromInt(40)))
	assert.True(t, e.store.budgets[empID].Balance.Equal(decimal.RequireFromString("380.00")))

	// Both sub-operations audited after the shared commit.
	logs, _, err := e.audit.GetAuditLogs(context.Background(), repository.AuditFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestExecute_FailingOperationRollsBackAll(t *testing.T) {
	e := newEnv()
	empID := e.store.addEmployee(true)
	e.store.addBudget(empID, "50.00")
	depotID := e.store.addDepot()
	productID := e.store.addProduct(depotID, model.ItemTypeConsumable, "50")
	svc := e.reconciliationService()

	_, err := svc.Execute(context.Background(), testActor(), []Operation{
		{
			Kind: OpWithdraw,
			Withdraw: &WithdrawRequest{
				EmployeeID: empID.String(),
				DepotID:    depotID.String(),
				Lines:      []WithdrawLine{{ProductID: productID.String(), Qty: "10"}},
			},
		},
		{
			Kind: OpExpense,
			Expense: &ExpenseRequest{
				EmployeeID: empID.String(),
				Amount:     "120.00", // exceeds the 50.00 balance
			},
		},
	})
	require.Error(t, err)
	// The sub-operation's kind survives the wrapping.
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientBudget))

	// The withdrawal that succeeded mid-batch is gone.
	assert.True(t, e.store.products[productID].OnHandQty.Equal(decimal.NewFromInt(50)))
	assert.True(t, e.store.budgets[empID].Balance.Equal(decimal.RequireFromString("50.00")))
	assert.Empty(t, e.store.withdrawalItems)

	// Nothing audited for a rolled-back batch.
	logs, _, err := e.audit.GetAuditLogs(context.Background(), repository.AuditFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestExecute_FuelCycleInOneBatch(t *testing.T) {
	e := newEnv()
	tankID := e.store.addTank("1000")
	vehicleID := e.store.addVehicle()
	operatorID := e.store.addEmployee(false)
	svc := e.reconciliationService()

	results, err := svc.Execute(context.Background(), testActor(), []Operation{
		{Kind: OpOpenEntry, OpenEntry: &OpenEntryRequest{TankID: tankID.String(), ReceivedQty: "200"}},
		{Kind: OpRecordUsage, RecordUsage: &RecordUsageRequest{
			TankID:     tankID.String(),
			VehicleID:  vehicleID.String(),
			OperatorID: operatorID.String(),
			Qty:        "80",
		}},
		{Kind: OpCloseEntry, CloseEntry: &CloseEntryRequest{TankID: tankID.String()}},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, entry := range e.store.entries {
		assert.Equal(t, model.FuelEntryClosed, entry.Status)
	}
}

func TestExecute_RejectsMalformedBatch(t *testing.T) {
	e := newEnv()
	svc := e.reconciliationService()

	_, err := svc.Execute(context.Background(), testActor(), nil)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))

	_, err = svc.Execute(context.Background(), testActor(), []Operation{{Kind: OpWithdraw}})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))

	_, err = svc.Execute(context.Background(), testActor(), []Operation{{Kind: "TRANSMOGRIFY"}})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
}
