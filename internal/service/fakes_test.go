package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/denisceno/clone-magazina/internal/model"
	"github.com/denisceno/clone-magazina/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memStore is the shared backing state for the fake repositories. The fake
// transaction manager serializes access and restores a snapshot on rollback,
// which mirrors what the row locks and the database transaction give the real
// implementations.
type memStore struct {
	employees map[uuid.UUID]model.Employee
	vehicles  map[uuid.UUID]model.Vehicle
	depots    map[uuid.UUID]model.Depot
	products  map[uuid.UUID]model.Product

	withdrawalHeaders map[uuid.UUID]model.WithdrawalHeader
	withdrawalItems   map[uuid.UUID]model.WithdrawalItem
	returnHeaders     map[uuid.UUID]model.ReturnHeader
	returnItems       []model.ReturnItem

	tanks   map[uuid.UUID]model.FuelTank
	entries map[uuid.UUID]model.FuelEntry
	usages  []model.FuelUsage

	budgets     map[uuid.UUID]model.EmployeeBudget // keyed by employee id
	expenses    []model.Expense
	adjustments []model.BudgetAdjustment
}

func newMemStore() *memStore {
	return &memStore{
		employees:         make(map[uuid.UUID]model.Employee),
		vehicles:          make(map[uuid.UUID]model.Vehicle),
		depots:            make(map[uuid.UUID]model.Depot),
		products:          make(map[uuid.UUID]model.Product),
		withdrawalHeaders: make(map[uuid.UUID]model.WithdrawalHeader),
		withdrawalItems:   make(map[uuid.UUID]model.WithdrawalItem),
		returnHeaders:     make(map[uuid.UUID]model.ReturnHeader),
		tanks:             make(map[uuid.UUID]model.FuelTank),
		entries:           make(map[uuid.UUID]model.FuelEntry),
		budgets:           make(map[uuid.UUID]model.EmployeeBudget),
	}
}

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.employees {
		c.employees[k] = v
	}
	for k, v := range s.vehicles {
		c.vehicles[k] = v
	}
	for k, v := range s.depots {
		c.depots[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.withdrawalHeaders {
		v.Items = append([]model.WithdrawalItem(nil), v.Items...)
		c.withdrawalHeaders[k] = v
	}
	for k, v := range s.withdrawalItems {
		c.withdrawalItems[k] = v
	}
	for k, v := range s.returnHeaders {
		v.Items = append([]model.ReturnItem(nil), v.Items...)
		c.returnHeaders[k] = v
	}
	c.returnItems = append([]model.ReturnItem(nil), s.returnItems...)
	for k, v := range s.tanks {
		c.tanks[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	c.usages = append([]model.FuelUsage(nil), s.usages...)
	for k, v := range s.budgets {
		c.budgets[k] = v
	}
	c.expenses = append([]model.Expense(nil), s.expenses...)
	c.adjustments = append([]model.BudgetAdjustment(nil), s.adjustments...)
	return c
}

func (s *memStore) restore(from *memStore) {
	*s = *from
}

// seed helpers

func (s *memStore) addEmployee(haveBudget bool) uuid.UUID {
	id := uuid.New()
	s.employees[id] = model.Employee{ID: id, Name: "emp-" + id.String()[:8], HaveBudget: haveBudget, Active: true}
	return id
}

func (s *memStore) addVehicle() uuid.UUID {
	id := uuid.New()
	s.vehicles[id] = model.Vehicle{ID: id, Plate: "AA-" + id.String()[:6], Active: true}
	return id
}

func (s *memStore) addDepot() uuid.UUID {
	id := uuid.New()
	s.depots[id] = model.Depot{ID: id, Name: "depot-" + id.String()[:8], Active: true}
	return id
}

func (s *memStore) addProduct(depotID uuid.UUID, itemType, stock string) uuid.UUID {
	id := uuid.New()
	s.products[id] = model.Product{
		ID:        id,
		DepotID:   depotID,
		Name:      "prod-" + id.String()[:8],
		ItemType:  itemType,
		Unit:      model.UnitPieces,
		OnHandQty: decimal.RequireFromString(stock),
	}
	return id
}

func (s *memStore) addTank(capacity string) uuid.UUID {
	id := uuid.New()
	s.tanks[id] = model.FuelTank{ID: id, Name: "tank-" + id.String()[:8], Capacity: decimal.RequireFromString(capacity)}
	return id
}

func (s *memStore) addBudget(employeeID uuid.UUID, balance string) {
	s.budgets[employeeID] = model.EmployeeBudget{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Balance:    decimal.RequireFromString(balance),
	}
}

// fakeTxManager serializes transactions with a mutex and rolls the store back
// to its pre-transaction snapshot when fn fails.
type fakeTxManager struct {
	mu    sync.Mutex
	store *memStore
}

func (m *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// --- fake repositories ---

type fakeEmployeeRepo struct{ store *memStore }

func (r *fakeEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.store.employees[e.ID] = *e
	return nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	r.store.employees[e.ID] = *e
	return nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	e, ok := r.store.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, _, _ int, _ string) ([]model.Employee, int64, error) {
	var out []model.Employee
	for _, e := range r.store.employees {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEmployeeRepo) ListWithBudget(_ context.Context) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range r.store.employees {
		if e.HaveBudget && e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeVehicleRepo struct{ store *memStore }

func (r *fakeVehicleRepo) Create(_ context.Context, v *model.Vehicle) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.store.vehicles[v.ID] = *v
	return nil
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vehicle, error) {
	v, ok := r.store.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (r *fakeVehicleRepo) List(_ context.Context, _, _ int) ([]model.Vehicle, int64, error) {
	var out []model.Vehicle
	for _, v := range r.store.vehicles {
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

type fakeDepotRepo struct{ store *memStore }

func (r *fakeDepotRepo) Create(_ context.Context, d *model.Depot) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.store.depots[d.ID] = *d
	return nil
}

func (r *fakeDepotRepo) Update(_ context.Context, d *model.Depot) error {
	r.store.depots[d.ID] = *d
	return nil
}

func (r *fakeDepotRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Depot, error) {
	d, ok := r.store.depots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (r *fakeDepotRepo) List(_ context.Context) ([]model.Depot, error) {
	var out []model.Depot
	for _, d := range r.store.depots {
		out = append(out, d)
	}
	return out, nil
}

type fakeProductRepo struct{ store *memStore }

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.store.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	r.store.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ *uuid.UUID, _, _ int, _ string) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.store.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) UpdateStock(_ context.Context, id uuid.UUID, qty decimal.Decimal) error {
	p, ok := r.store.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.OnHandQty = qty
	r.store.products[id] = p
	return nil
}

func (r *fakeProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeProductRepo) OutstandingInField(_ context.Context, id uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range r.store.withdrawalItems {
		if item.ProductID != id {
			continue
		}
		returned := r.store.sumReturned(item.ID)
		if item.QtyWithdrawn.GreaterThan(returned) {
			total = total.Add(item.QtyWithdrawn.Sub(returned))
		}
	}
	return total, nil
}

func (s *memStore) sumReturned(itemID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, ri := range s.returnItems {
		if ri.WithdrawalItemID == itemID {
			total = total.Add(ri.QtyReturned)
		}
	}
	return total
}

type fakeWithdrawalRepo struct{ store *memStore }

func (r *fakeWithdrawalRepo) CreateHeader(_ context.Context, h *model.WithdrawalHeader) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	r.store.withdrawalHeaders[h.ID] = *h
	return nil
}

func (r *fakeWithdrawalRepo) CreateItem(_ context.Context, item *model.WithdrawalItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.store.withdrawalItems[item.ID] = *item
	return nil
}

func (r *fakeWithdrawalRepo) FindHeaderByID(_ context.Context, id uuid.UUID) (*model.WithdrawalHeader, error) {
	h, ok := r.store.withdrawalHeaders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &h, nil
}

func (r *fakeWithdrawalRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.WithdrawalItem, error) {
	item, ok := r.store.withdrawalItems[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (r *fakeWithdrawalRepo) FindItemByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.WithdrawalItem, error) {
	return r.FindItemByID(ctx, id)
}

func (r *fakeWithdrawalRepo) SumReturned(_ context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	return r.store.sumReturned(itemID), nil
}

func (r *fakeWithdrawalRepo) ListHeadersByEmployee(_ context.Context, employeeID uuid.UUID, _, _ int) ([]model.WithdrawalHeader, int64, error) {
	var out []model.WithdrawalHeader
	for _, h := range r.store.withdrawalHeaders {
		if h.EmployeeID == employeeID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeWithdrawalRepo) OutstandingByEmployee(_ context.Context, employeeID uuid.UUID) ([]model.OutstandingItem, error) {
	var out []model.OutstandingItem
	for _, h := range r.store.withdrawalHeaders {
		if h.EmployeeID != employeeID {
			continue
		}
		for _, item := range r.store.withdrawalItems {
			if item.HeaderID != h.ID {
				continue
			}
			product := r.store.products[item.ProductID]
			if product.ItemType != model.ItemTypeReturnable {
				continue
			}
			returned := r.store.sumReturned(item.ID)
			if !item.QtyWithdrawn.GreaterThan(returned) {
				continue
			}
			out = append(out, model.OutstandingItem{
				WithdrawalItemID: item.ID.String(),
				ProductID:        item.ProductID.String(),
				ProductName:      product.Name,
				Unit:             product.Unit,
				QtyWithdrawn:     item.QtyWithdrawn,
				QtyReturned:      returned,
				Outstanding:      item.QtyWithdrawn.Sub(returned),
				WithdrawnAt:      h.CreatedAt,
			})
		}
	}
	return out, nil
}

type fakeReturnRepo struct{ store *memStore }

func (r *fakeReturnRepo) CreateHeader(_ context.Context, h *model.ReturnHeader) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	r.store.returnHeaders[h.ID] = *h
	return nil
}

func (r *fakeReturnRepo) CreateItem(_ context.Context, item *model.ReturnItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.store.returnItems = append(r.store.returnItems, *item)
	return nil
}

func (r *fakeReturnRepo) FindHeaderByID(_ context.Context, id uuid.UUID) (*model.ReturnHeader, error) {
	h, ok := r.store.returnHeaders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &h, nil
}

func (r *fakeReturnRepo) ListHeadersByEmployee(_ context.Context, employeeID uuid.UUID, _, _ int) ([]model.ReturnHeader, int64, error) {
	var out []model.ReturnHeader
	for _, h := range r.store.returnHeaders {
		if h.EmployeeID == employeeID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

type fakeFuelRepo struct{ store *memStore }

func (r *fakeFuelRepo) CreateTank(_ context.Context, t *model.FuelTank) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.store.tanks[t.ID] = *t
	return nil
}

func (r *fakeFuelRepo) FindTankByID(_ context.Context, id uuid.UUID) (*model.FuelTank, error) {
	t, ok := r.store.tanks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *fakeFuelRepo) FindTankByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.FuelTank, error) {
	return r.FindTankByID(ctx, id)
}

func (r *fakeFuelRepo) ListTanks(_ context.Context) ([]model.FuelTank, error) {
	var out []model.FuelTank
	for _, t := range r.store.tanks {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeFuelRepo) CreateEntry(_ context.Context, e *model.FuelEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.OpenedAt = time.Now()
	r.store.entries[e.ID] = *e
	return nil
}

func (r *fakeFuelRepo) FindOpenEntry(_ context.Context, tankID uuid.UUID) (*model.FuelEntry, error) {
	for _, e := range r.store.entries {
		if e.TankID == tankID && e.Status == model.FuelEntryOpen {
			e := e
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFuelRepo) CloseEntry(_ context.Context, entry *model.FuelEntry) error {
	e, ok := r.store.entries[entry.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Status = entry.Status
	e.ClosedAt = entry.ClosedAt
	r.store.entries[entry.ID] = e
	return nil
}

func (r *fakeFuelRepo) ListEntries(_ context.Context, tankID uuid.UUID, _, _ int) ([]model.FuelEntry, int64, error) {
	var out []model.FuelEntry
	for _, e := range r.store.entries {
		if e.TankID == tankID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeFuelRepo) FindEntriesByIDs(_ context.Context, ids []uuid.UUID) ([]model.FuelEntry, error) {
	var out []model.FuelEntry
	for _, id := range ids {
		if e, ok := r.store.entries[id]; ok {
			if tank, ok := r.store.tanks[e.TankID]; ok {
				t := tank
				e.Tank = &t
			}
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return out, nil
}

func (r *fakeFuelRepo) CreateUsage(_ context.Context, u *model.FuelUsage) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.RecordedAt = time.Now()
	r.store.usages = append(r.store.usages, *u)
	return nil
}

func (r *fakeFuelRepo) SumUsageForEntry(_ context.Context, entryID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, u := range r.store.usages {
		if u.FuelEntryID == entryID {
			total = total.Add(u.QtyUsed)
		}
	}
	return total, nil
}

func (r *fakeFuelRepo) TankTotals(_ context.Context, tankID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	received, used := decimal.Zero, decimal.Zero
	for _, e := range r.store.entries {
		if e.TankID == tankID {
			received = received.Add(e.ReceivedQty)
		}
	}
	for _, u := range r.store.usages {
		if u.TankID == tankID {
			used = used.Add(u.QtyUsed)
		}
	}
	return received, used, nil
}

func (r *fakeFuelRepo) ListUsagesByVehicle(_ context.Context, vehicleID uuid.UUID) ([]model.FuelUsage, error) {
	var out []model.FuelUsage
	for _, u := range r.store.usages {
		if u.VehicleID != nil && *u.VehicleID == vehicleID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeBudgetRepo struct{ store *memStore }

func (r *fakeBudgetRepo) Create(_ context.Context, b *model.EmployeeBudget) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.store.budgets[b.EmployeeID] = *b
	return nil
}

func (r *fakeBudgetRepo) FindByEmployee(_ context.Context, employeeID uuid.UUID) (*model.EmployeeBudget, error) {
	b, ok := r.store.budgets[employeeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r *fakeBudgetRepo) FindByEmployeeForUpdate(ctx context.Context, employeeID uuid.UUID) (*model.EmployeeBudget, error) {
	return r.FindByEmployee(ctx, employeeID)
}

func (r *fakeBudgetRepo) UpdateBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	for empID, b := range r.store.budgets {
		if b.ID == id {
			b.Balance = balance
			r.store.budgets[empID] = b
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeExpenseRepo struct{ store *memStore }

func (r *fakeExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.store.expenses = append(r.store.expenses, *e)
	return nil
}

func (r *fakeExpenseRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID, _, _ int) ([]model.Expense, int64, error) {
	var out []model.Expense
	for _, e := range r.store.expenses {
		if e.EmployeeID == employeeID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

type fakeAdjustmentRepo struct{ store *memStore }

func (r *fakeAdjustmentRepo) Create(_ context.Context, a *model.BudgetAdjustment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	r.store.adjustments = append(r.store.adjustments, *a)
	return nil
}

func (r *fakeAdjustmentRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID, _, _ int) ([]model.BudgetAdjustment, int64, error) {
	var out []model.BudgetAdjustment
	for _, a := range r.store.adjustments {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

// fakeAuditRepo keeps its entries outside memStore and locks on its own:
// Emit runs after commit, outside the fake transaction manager's mutex, and a
// rollback must never take committed audit rows with it.
type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, filter repository.AuditFilter, _, _ int) ([]model.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AuditLog
	for _, e := range r.entries {
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.EntityType != "" && e.EntityType != filter.EntityType {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

// env bundles a fully wired fake backend.
type env struct {
	store *memStore
	tx    *fakeTxManager

	employeeRepo   *fakeEmployeeRepo
	vehicleRepo    *fakeVehicleRepo
	productRepo    *fakeProductRepo
	withdrawalRepo *fakeWithdrawalRepo
	returnRepo     *fakeReturnRepo
	fuelRepo       *fakeFuelRepo
	budgetRepo     *fakeBudgetRepo
	expenseRepo    *fakeExpenseRepo
	adjustmentRepo *fakeAdjustmentRepo
	auditRepo      *fakeAuditRepo

	audit AuditTrail
}

func newEnv() *env {
	store := newMemStore()
	auditRepo := &fakeAuditRepo{}
	return &env{
		store:          store,
		tx:             &fakeTxManager{store: store},
		employeeRepo:   &fakeEmployeeRepo{store: store},
		vehicleRepo:    &fakeVehicleRepo{store: store},
		productRepo:    &fakeProductRepo{store: store},
		withdrawalRepo: &fakeWithdrawalRepo{store: store},
		returnRepo:     &fakeReturnRepo{store: store},
		fuelRepo:       &fakeFuelRepo{store: store},
		budgetRepo:     &fakeBudgetRepo{store: store},
		expenseRepo:    &fakeExpenseRepo{store: store},
		adjustmentRepo: &fakeAdjustmentRepo{store: store},
		auditRepo:      auditRepo,
		audit:          NewAuditTrail(auditRepo),
	}
}

func (e *env) withdrawalService() WithdrawalService {
	return NewWithdrawalService(e.withdrawalRepo, e.returnRepo, e.productRepo, e.employeeRepo, e.tx, e.audit, nil)
}

func (e *env) fuelService(closeWriteOff bool) FuelService {
	return NewFuelService(e.fuelRepo, e.vehicleRepo, e.employeeRepo, e.tx, e.audit, nil, closeWriteOff)
}

func (e *env) budgetService(allowOverdraft bool) BudgetService {
	return NewBudgetService(e.budgetRepo, e.expenseRepo, e.adjustmentRepo, e.employeeRepo, e.tx, e.audit, allowOverdraft)
}

func testActor() Actor {
	return Actor{ID: uuid.New().String(), Tier: "storekeeper", ClientIP: "10.0.0.7"}
}
