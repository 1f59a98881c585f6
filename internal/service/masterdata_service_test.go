package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func (e *env) masterDataService() MasterDataService {
	return NewMasterDataService(e.employeeRepo, e.vehicleRepo, e.budgetRepo, e.tx, e.audit)
}

func TestCreateEmployee_HaveBudgetProvisionsAccount(t *testing.T) {
	e := newEnv()
	svc := e.masterDataService()

	res, err := svc.CreateEmployee(context.Background(), testActor(), CreateEmployeeRequest{
		Name:       "Arben Hoxha",
		Position:   "magazinier",
		HaveBudget: true,
	})
	require.NoError(t, err)

	empID, err := uuid.Parse(res.ID)
	require.NoError(t, err)

	budget, ok := e.store.budgets[empID]
	require.True(t, ok, "budget account not provisioned")
	assert.True(t, budget.Balance.IsZero())
}

func TestUpdateEmployee_FlagFlipKeepsExistingBalance(t *testing.T) {
	e := newEnv()
	svc := e.masterDataService()

	res, err := svc.CreateEmployee(context.Background(), testActor(), CreateEmployeeRequest{
		Name:       "Mira Leka",
		HaveBudget: true,
	})
	require.NoError(t, err)
	empID := uuid.MustParse(res.ID)

	// Fund the account, then flip the flag off and on again.
	b := e.store.budgets[empID]
	b.Balance = decimal.RequireFromString("90.00")
	e.store.budgets[empID] = b

	_, err = svc.UpdateEmployee(context.Background(), testActor(), res.ID, UpdateEmployeeRequest{
		Name:       "Mira Leka",
		HaveBudget: false,
		Active:     true,
	})
	require.NoError(t, err)
	assert.True(t, e.store.budgets[empID].Balance.Equal(decimal.RequireFromString("90.00")),
		"disabling the flag must not touch the account")

	_, err = svc.UpdateEmployee(context.Background(), testActor(), res.ID, UpdateEmployeeRequest{
		Name:       "Mira Leka",
		HaveBudget: true,
		Active:     true,
	})
	require.NoError(t, err)
	assert.True(t, e.store.budgets[empID].Balance.Equal(decimal.RequireFromString("90.00")),
		"re-enabling must reuse the account, not reset it")
}

func TestCreateEmployee_WithoutBudgetHasNoAccount(t *testing.T) {
	e := newEnv()
	svc := e.masterDataService()

	res, err := svc.CreateEmployee(context.Background(), testActor(), CreateEmployeeRequest{Name: "Dritan Shala"})
	require.NoError(t, err)

	_, ok := e.store.budgets[uuid.MustParse(res.ID)]
	assert.False(t, ok)
}
