package service

import (
	"context"
	"sync"
	"testing"

	"github.com/denisceno/clone-magazina/internal/model"
	"github.com/denisceno/clone-magazina/internal/repository"
	"github.com/denisceno/clone-magazina/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdraw_DecrementsStock(t *testing.T) {
	e := newEnv()
	empID := e.store.addEmployee(false)
	depotID := e.store.addDepot()
	productID := e.store.addProduct(depotID, model.ItemTypeReturnable, "10")
	svc := e.withdrawalService()

	res, err := svc.Withdraw(context.Background(), testActor(), WithdrawRequest{
		EmployeeID: empID.String(),
		DepotID:    depotID.String(),
		Lines:      []WithdrawLine{{ProductID: productID.String(), Qty: "6"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "6", res.Items[0].QtyWithdrawn)
	assert.True(t, e.store.products[productID].OnHandQty.Equal(decimal.NewFromInt(4)))

	logs, _, err := e.audit.GetAuditLogs(context.Background(), repository.AuditFilter{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ActionWithdraw, logs[0].Action)
}

func TestWithdraw_InsufficientStockRollsBackWholeRequest(t *testing.T) {
	e := newEnv()
	empID := e.store.addEmployee(false)
	depotID := e.store.addDepot()
	plenty := e.store.addProduct(depotID, model.ItemTypeConsumable, "100")
	scarce := e.store.addProduct(depotID, model.ItemTypeConsumable, "2")
	svc := e.withdrawalService()

	_, err := svc.Withdraw(context.Background(), testActor(), WithdrawRequest{
		EmployeeID: empID.String(),
		DepotID:    depotID.String(),
		Lines: []WithdrawLine{
			{ProductID: plenty.String(), Qty: "5"},
			{ProductID: scarce.String(), Qty: "3"},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientStock))

	// Neither line committed.
	assert.True(t, e.store.products[plenty].OnHandQty.Equal(decimal.NewFromInt(100)))
	assert.True(t, e.store.products[scarce].OnHandQty.Equal(decimal.NewFromInt(2)))
	assert.Empty(t, e.store.withdrawalItems)
}

func TestWithdraw_RejectsBadInput(t *testing.T) {
	e := newEnv()
	empID := e.store.addEmployee(false)
	depotID := e.store.addDepot()
	otherDepot := e.store.addDepot()
	productID := e.store.addProduct(otherDepot, model.ItemTypeConsumable, "10")
	svc := e.withdrawalService()

	cases := []struct {
		name string
		req  WithdrawRequest
		kind apperror.Kind
	}{
		{
			name: "zero quantity",
			req: WithdrawRequest{
				EmployeeID: empID.String(),
				DepotID:    depotID.String(),
				Lines:      []WithdrawLine{{ProductID: productID.String(), Qty: "0"}},
			},
			kind: apperror.KindInvalidInput,
		},
		{
			name: "negative quantity",
			req: WithdrawRequest{
				EmployeeID: empID.String(),
				DepotID:    depotID.String(),
				Lines:      []WithdrawLine{{ProductID: productID.String(), Qty: "-1"}},
			},
			kind: apperror.KindInvalidInput,
		},
		{
			name: "product in a different depot",
			req: WithdrawRequest{
				EmployeeID: empID.String(),
				DepotID:    depotID.String(),
				Lines:      []WithdrawLine{{ProductID: productID.String(), Qty: "1"}},
			},
			kind: apperror.KindInvalidInput,
		},
		{
			name: "unknown employee",
			req: WithdrawRequest{
				EmployeeID: "3f0c8a1a-0000-0000-0000-000000000000",
				DepotID:    otherDepot.String(),
				Lines:      []WithdrawLine{{ProductID: productID.String(), Qty: "1"}},
			},
			kind: apperror.KindNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Withdraw(context.Background(), testActor(), tc.req)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, tc.kind), "got kind %s", apperror.KindOf(err))
		})
	}
}

func TestReturn_PartialAcrossHeadersThenOverReturn(t *testing.T) {
	e := newEnv()
	empID := e.store.addEmployee(false)
	depotID := e.store.addDepot()
	productID := e.store.addProduct(depotID, model.ItemTypeReturnable, "10")
	svc := e.withdrawalService()

	w, err := svc.Withdraw(context.Background(), testActor(), WithdrawRequest{
		EmployeeID: empID.String(),
		DepotID:    depotID.String(),
		Lines:      []WithdrawLine{{ProductID: productID.String(), Qty: "8"}},
	})
	require.NoError(t, err)
	itemID := w.Items[0].ID

	// Two partial returns on separate headers.
	_, err = svc.ReturnItems(context.Background(), testActor(), ReturnRequest{
		EmployeeID: empID.String(),
		Lines:      []ReturnLine{{WithdrawalItemID: itemID, Qty: "3"}},
	})
	require.NoError(t, err)

	_, err = svc.ReturnItems(context.Background(), testActor(), ReturnRequest{
		EmployeeID: empID.String(),
		Lines:      []ReturnLine{{WithdrawalItemID: itemID, Qty: "5"}},
	})
	require.NoError(t, err)

	// Stock restored to the original level.
	assert.True(t, e.store.products[productID].OnHandQty.Equal(decimal.NewFromInt(10)))

	out, err := svc.Outstanding(context.Background(), itemID)
	require.NoError(t, err)
	assert.Equal(t, "0", out.Outstanding)

	// The item is exhausted; a replay must fail and change nothing.
	_, err = svc.ReturnItems(context.Background(), testActor(), ReturnRequest{
		EmployeeID: empID.String(),
		Lines:      []ReturnLine{{WithdrawalItemID: itemID, Qty: "1"}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindOverReturn))
	assert.True(t, e.store.products[productID].OnHandQty.Equal(decimal.NewFromInt(10)))
}

func TestReturn_ExceedsOutstandingRejected(t *testing.T) {
	e := newEnv()
	empID := e.store.addEmployee(false)
	depotID := e.store.addDepot()
	productID := e.store.addProduct(depotID, model.ItemTypeReturnable, "10")
	svc := e.withdrawalService()

	w, err := svc.Withdraw(context.Background(), testActor(), WithdrawRequest{
		EmployeeID: empID.String(),
		DepotID:    depotID.String(),
		Lines:      []WithdrawLine{{ProductID: productID.String(), Qty: "4"}},
	})
	require.NoError(t, err)

	_, err = svc.ReturnItems(context.Background(), testActor(), ReturnRequest{
		EmployeeID: empID.String(),
		Lines:      []ReturnLine{{WithdrawalItemID: w.Items[0].ID, Qty: "5"}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindOverReturn))
	// Failed return leaves stock at the withdrawn level.
	assert.True(t, e.store.products[productID].OnHandQty.Equal(decimal.NewFromInt(6)))
}

func TestWithdraw_ConcurrentRequestsNeverOversell(t *testing.T) {
	e := newEnv()
	depotID := e.store.addDepot()
	productID := e.store.addProduct(depotID, model.ItemTypeConsumable, "10")
	svc := e.withdrawalService()

	const workers = 8
	employees := make([]string, workers)
	for i := range employees {
		employees[i] = e.store.addEmployee(false).String()
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Withdraw(context.Background(), testActor(), WithdrawRequest{
				EmployeeID: employees[i],
				DepotID:    depotID.String(),
				Lines:      []WithdrawLine{{ProductID: productID.String(), Qty: "6"}},
			})
		}(i)
	}
	wg.Wait()

	// 10 on hand, 6 per request: exactly one can succeed.
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperror.IsKind(err, apperror.KindInsufficientStock))
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.True(t, e.store.products[productID].OnHandQty.Equal(decimal.NewFromInt(4)))
	assert.False(t, e.store.products[productID].OnHandQty.IsNegative())
}

func TestOutstandingByEmployee_OnlyReturnableWithRemainder(t *testing.T) {
	e := newEnv()
	empID := e.store.addEmployee(false)
	depotID := e.store.addDepot()
	returnable := e.store.addProduct(depotID, model.ItemTypeReturnable, "10")
	consumable := e.store.addProduct(depotID, model.ItemTypeConsumable, "10")
	svc := e.withdrawalService()

	w, err := svc.Withdraw(context.Background(), testActor(), WithdrawRequest{
		EmployeeID: empID.String(),
		DepotID:    depotID.String(),
		Lines: []WithdrawLine{
			{ProductID: returnable.String(), Qty: "5"},
			{ProductID: consumable.String(), Qty: "5"},
		},
	})
	require.NoError(t, err)

	var returnableItemID string
	for _, item := range w.Items {
		if item.ProductID == returnable.String() {
			returnableItemID = item.ID
		}
	}
	require.NotEmpty(t, returnableItemID)

	_, err = svc.ReturnItems(context.Background(), testActor(), ReturnRequest{
		EmployeeID: empID.String(),
		Lines:      []ReturnLine{{WithdrawalItemID: returnableItemID, Qty: "2"}},
	})
	require.NoError(t, err)

	items, err := svc.OutstandingByEmployee(context.Background(), empID.String())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, returnableItemID, items[0].WithdrawalItemID)
	assert.True(t, items[0].Outstanding.Equal(decimal.NewFromInt(3)))
}

func TestParseReturnLines_StableLockOrder(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	lines, err := parseReturnLines([]ReturnLine{
		{WithdrawalItemID: c.String(), Qty: "1"},
		{WithdrawalItemID: a.String(), Qty: "2"},
		{WithdrawalItemID: b.String(), Qty: "3"},
	})
	require.NoError(t, err)
	require.Len(t, lines, 3)

	// Row locks are taken in line order, so the order must not depend on how
	// the caller arranged the request.
	for i := 1; i < len(lines); i++ {
		assert.Less(t, lines[i-1].itemID.String(), lines[i].itemID.String())
	}

	_, err = parseReturnLines([]ReturnLine{{WithdrawalItemID: "not-a-uuid", Qty: "1"}})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))

	_, err = parseReturnLines([]ReturnLine{{WithdrawalItemID: a.String(), Qty: "-1"}})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
}
