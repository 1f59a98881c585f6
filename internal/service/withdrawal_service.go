package service

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/denisceno/clone-magazina/internal/model"
	"github.com/denisceno/clone-magazina/internal/repository"
	ws "github.com/denisceno/clone-magazina/internal/websocket"
	"github.com/denisceno/clone-magazina/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type WithdrawLine struct {
	ProductID string `json:"product_id" binding:"required"`
	Qty       string `json:"qty" binding:"required"` // decimal string
}

type WithdrawRequest struct {
	EmployeeID string         `json:"employee_id" binding:"required"`
	DepotID    string         `json:"depot_id" binding:"required"`
	Notes      string         `json:"notes"`
	Lines      []WithdrawLine `json:"lines" binding:"required,min=1,dive"`
}

type ReturnLine struct {
	WithdrawalItemID string `json:"withdrawal_item_id" binding:"required"`
	Qty              string `json:"qty" binding:"required"` // decimal string
}

type ReturnRequest struct {
	EmployeeID string       `json:"employee_id" binding:"required"`
	Notes      string       `json:"notes"`
	Lines      []ReturnLine `json:"lines" binding:"required,min=1,dive"`
}

type WithdrawalItemResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	QtyWithdrawn string `json:"qty_withdrawn"`
}

type WithdrawalResponse struct {
	ID         string                   `json:"id"`
	EmployeeID string                   `json:"employee_id"`
	Notes      string                   `json:"notes"`
	Items      []WithdrawalItemResponse `json:"items"`
	CreatedAt  string                   `json:"created_at"`
}

type ReturnItemResponse struct {
	ID               string `json:"id"`
	WithdrawalItemID string `json:"withdrawal_item_id"`
	QtyReturned      string `json:"qty_returned"`
}

type ReturnResponse struct {
	ID         string               `json:"id"`
	EmployeeID string               `json:"employee_id"`
	Notes      string               `json:"notes"`
	Items      []ReturnItemResponse `json:"items"`
	CreatedAt  string               `json:"created_at"`
}

type OutstandingResponse struct {
	WithdrawalItemID string `json:"withdrawal_item_id"`
	QtyWithdrawn     string `json:"qty_withdrawn"`
	QtyReturned      string `json:"qty_returned"`
	Outstanding      string `json:"outstanding"`
}

// --- Interface ---

// WithdrawalService is the withdrawal/return reconciliation engine. The InTx
// variants assume a transaction context from TransactionManager.RunInTx and
// return the audit events for the caller to emit after commit; the plain
// variants wrap them in their own transaction.
type WithdrawalService interface {
	Withdraw(ctx context.Context, actor Actor, req WithdrawRequest) (WithdrawalResponse, error)
	ReturnItems(ctx context.Context, actor Actor, req ReturnRequest) (ReturnResponse, error)
	Outstanding(ctx context.Context, withdrawalItemID string) (OutstandingResponse, error)
	OutstandingByEmployee(ctx context.Context, employeeID string) ([]model.OutstandingItem, error)
	ListWithdrawals(ctx context.Context, employeeID string, page, limit int) ([]WithdrawalResponse, int64, error)
	ListReturns(ctx context.Context, employeeID string, page, limit int) ([]ReturnResponse, int64, error)

	WithdrawInTx(txCtx context.Context, actor Actor, req WithdrawRequest) (*model.WithdrawalHeader, []model.AuditLog, error)
	ReturnItemsInTx(txCtx context.Context, actor Actor, req ReturnRequest) (*model.ReturnHeader, []model.AuditLog, error)
}

type withdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
	returnRepo     repository.ReturnRepository
	productRepo    repository.ProductRepository
	employeeRepo   repository.EmployeeRepository
	txManager      repository.TransactionManager
	audit          AuditTrail
	hub            *ws.Hub
}

func NewWithdrawalService(
	withdrawalRepo repository.WithdrawalRepository,
	returnRepo repository.ReturnRepository,
	productRepo repository.ProductRepository,
	employeeRepo repository.EmployeeRepository,
	txManager repository.TransactionManager,
	audit AuditTrail,
	hub *ws.Hub,
) WithdrawalService {
	return &withdrawalService{
		withdrawalRepo: withdrawalRepo,
		returnRepo:     returnRepo,
		productRepo:    productRepo,
		employeeRepo:   employeeRepo,
		txManager:      txManager,
		audit:          audit,
		hub:            hub,
	}
}

// --- Implementation ---

func (s *withdrawalService) Withdraw(ctx context.Context, actor Actor, req WithdrawRequest) (WithdrawalResponse, error) {
	var header *model.WithdrawalHeader
	var events []model.AuditLog

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		h, ev, err := s.WithdrawInTx(txCtx, actor, req)
		if err != nil {
			return err
		}
		header, events = h, ev
		return nil
	})
	if err != nil {
		return WithdrawalResponse{}, err
	}

	s.audit.Emit(ctx, events)
	s.notifyStock(ctx, header.Items)

	return toWithdrawalResponse(header), nil
}

// WithdrawInTx checks and decrements stock per product under the product row
// lock, so two concurrent withdrawals cannot both pass a stale stock check.
func (s *withdrawalService) WithdrawInTx(txCtx context.Context, actor Actor, req WithdrawRequest) (*model.WithdrawalHeader, []model.AuditLog, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "invalid employee_id: %s", req.EmployeeID)
	}
	depotID, err := uuid.Parse(req.DepotID)
	if err != nil {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "invalid depot_id: %s", req.DepotID)
	}
	if len(req.Lines) == 0 {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "withdrawal needs at least one line")
	}

	lines, err := parseWithdrawLines(req.Lines)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.employeeRepo.FindByID(txCtx, employeeID); err != nil {
		return nil, nil, repository.Translate(err)
	}

	header := model.WithdrawalHeader{
		EmployeeID: employeeID,
		Notes:      req.Notes,
	}
	if err := s.withdrawalRepo.CreateHeader(txCtx, &header); err != nil {
		return nil, nil, err
	}

	type lineAudit struct {
		ProductID   string `json:"product_id"`
		ProductName string `json:"product_name"`
		Qty         string `json:"qty"`
		StockAfter  string `json:"stock_after"`
	}
	var auditLines []lineAudit

	for _, line := range lines {
		product, err := s.productRepo.FindByIDForUpdate(txCtx, line.productID)
		if err != nil {
			return nil, nil, repository.Translate(err)
		}
		if product.DepotID != depotID {
			return nil, nil, apperror.New(apperror.KindInvalidInput,
				"product %s does not belong to depot %s", product.Name, req.DepotID)
		}
		if product.OnHandQty.LessThan(line.qty) {
			return nil, nil, apperror.New(apperror.KindInsufficientStock,
				"not enough stock for %s: available %s, requested %s",
				product.Name, product.OnHandQty, line.qty)
		}

		newStock := product.OnHandQty.Sub(line.qty)
		if err := s.productRepo.UpdateStock(txCtx, product.ID, newStock); err != nil {
			return nil, nil, err
		}

		item := model.WithdrawalItem{
			HeaderID:     header.ID,
			ProductID:    product.ID,
			QtyWithdrawn: line.qty,
		}
		if err := s.withdrawalRepo.CreateItem(txCtx, &item); err != nil {
			return nil, nil, err
		}
		header.Items = append(header.Items, item)

		auditLines = append(auditLines, lineAudit{
			ProductID:   product.ID.String(),
			ProductName: product.Name,
			Qty:         line.qty.String(),
			StockAfter:  newStock.String(),
		})
	}

	detail, _ := json.Marshal(map[string]interface{}{
		"employee_id": req.EmployeeID,
		"depot_id":    req.DepotID,
		"notes":       req.Notes,
		"lines":       auditLines,
	})
	events := []model.AuditLog{{
		ActorID:    actor.UUID(),
		Action:     model.ActionWithdraw,
		EntityType: "WithdrawalHeader",
		EntityID:   header.ID.String(),
		Detail:     string(detail),
		ClientIP:   actor.ClientIP,
	}}

	return &header, events, nil
}

func (s *withdrawalService) ReturnItems(ctx context.Context, actor Actor, req ReturnRequest) (ReturnResponse, error) {
	var header *model.ReturnHeader
	var events []model.AuditLog

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		h, ev, err := s.ReturnItemsInTx(txCtx, actor, req)
		if err != nil {
			return err
		}
		header, events = h, ev
		return nil
	})
	if err != nil {
		return ReturnResponse{}, err
	}

	s.audit.Emit(ctx, events)

	return toReturnResponse(header), nil
}

// ReturnItemsInTx locks each withdrawal item row before computing its
// outstanding balance, so two concurrent returns cannot double-spend it.
// Partial returns across multiple headers are allowed; a replayed return
// against an exhausted item fails with OverReturn.
func (s *withdrawalService) ReturnItemsInTx(txCtx context.Context, actor Actor, req ReturnRequest) (*model.ReturnHeader, []model.AuditLog, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "invalid employee_id: %s", req.EmployeeID)
	}
	if len(req.Lines) == 0 {
		return nil, nil, apperror.New(apperror.KindInvalidInput, "return needs at least one line")
	}

	if _, err := s.employeeRepo.FindByID(txCtx, employeeID); err != nil {
		return nil, nil, repository.Translate(err)
	}

	header := model.ReturnHeader{
		EmployeeID: employeeID,
		Notes:      req.Notes,
	}
	if err := s.returnRepo.CreateHeader(txCtx, &header); err != nil {
		return nil, nil, err
	}

	lines, err := parseReturnLines(req.Lines)
	if err != nil {
		return nil, nil, err
	}

	var events []model.AuditLog

	for _, line := range lines {
		qty := line.qty

		item, err := s.withdrawalRepo.FindItemByIDForUpdate(txCtx, line.itemID)
		if err != nil {
			return nil, nil, repository.Translate(err)
		}

		returned, err := s.withdrawalRepo.SumReturned(txCtx, item.ID)
		if err != nil {
			return nil, nil, err
		}
		outstanding := item.QtyWithdrawn.Sub(returned)
		if qty.GreaterThan(outstanding) {
			return nil, nil, apperror.New(apperror.KindOverReturn,
				"return of %s exceeds outstanding %s on item %s", qty, outstanding, item.ID)
		}

		returnItem := model.ReturnItem{
			ReturnHeaderID:   header.ID,
			WithdrawalItemID: item.ID,
			QtyReturned:      qty,
		}
		if err := s.returnRepo.CreateItem(txCtx, &returnItem); err != nil {
			return nil, nil, err
		}
		header.Items = append(header.Items, returnItem)

		product, err := s.productRepo.FindByIDForUpdate(txCtx, item.ProductID)
		if err != nil {
			return nil, nil, repository.Translate(err)
		}
		if err := s.productRepo.UpdateStock(txCtx, product.ID, product.OnHandQty.Add(qty)); err != nil {
			return nil, nil, err
		}

		detail, _ := json.Marshal(map[string]interface{}{
			"withdrawal_item_id": item.ID.String(),
			"product_id":         product.ID.String(),
			"product_name":       product.Name,
			"qty":                qty.String(),
			"outstanding_after":  outstanding.Sub(qty).String(),
		})
		events = append(events, model.AuditLog{
			ActorID:    actor.UUID(),
			Action:     model.ActionReturn,
			EntityType: "ReturnItem",
			EntityID:   returnItem.ID.String(),
			Detail:     string(detail),
			ClientIP:   actor.ClientIP,
		})
	}

	return &header, events, nil
}

// Outstanding reads withdrawn minus returned from committed rows only.
func (s *withdrawalService) Outstanding(ctx context.Context, withdrawalItemID string) (OutstandingResponse, error) {
	itemID, err := uuid.Parse(withdrawalItemID)
	if err != nil {
		return OutstandingResponse{}, apperror.New(apperror.KindInvalidInput, "invalid withdrawal_item_id: %s", withdrawalItemID)
	}

	item, err := s.withdrawalRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return OutstandingResponse{}, repository.Translate(err)
	}

	returned, err := s.withdrawalRepo.SumReturned(ctx, item.ID)
	if err != nil {
		return OutstandingResponse{}, err
	}

	return OutstandingResponse{
		WithdrawalItemID: item.ID.String(),
		QtyWithdrawn:     item.QtyWithdrawn.String(),
		QtyReturned:      returned.String(),
		Outstanding:      item.QtyWithdrawn.Sub(returned).String(),
	}, nil
}

func (s *withdrawalService) OutstandingByEmployee(ctx context.Context, employeeID string) ([]model.OutstandingItem, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, apperror.New(apperror.KindInvalidInput, "invalid employee_id: %s", employeeID)
	}
	if _, err := s.employeeRepo.FindByID(ctx, id); err != nil {
		return nil, repository.Translate(err)
	}
	return s.withdrawalRepo.OutstandingByEmployee(ctx, id)
}

func (s *withdrawalService) ListWithdrawals(ctx context.Context, employeeID string, page, limit int) ([]WithdrawalResponse, int64, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, 0, apperror.New(apperror.KindInvalidInput, "invalid employee_id: %s", employeeID)
	}

	headers, total, err := s.withdrawalRepo.ListHeadersByEmployee(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]WithdrawalResponse, 0, len(headers))
	for i := range headers {
		res = append(res, toWithdrawalResponse(&headers[i]))
	}
	return res, total, nil
}

func (s *withdrawalService) ListReturns(ctx context.Context, employeeID string, page, limit int) ([]ReturnResponse, int64, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, 0, apperror.New(apperror.KindInvalidInput, "invalid employee_id: %s", employeeID)
	}

	headers, total, err := s.returnRepo.ListHeadersByEmployee(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ReturnResponse, 0, len(headers))
	for i := range headers {
		res = append(res, toReturnResponse(&headers[i]))
	}
	return res, total, nil
}

// --- helpers ---

type withdrawLine struct {
	productID uuid.UUID
	qty       decimal.Decimal
}

// parseWithdrawLines validates the lines and orders them by product id so all
// callers acquire product row locks in the same order.
func parseWithdrawLines(reqLines []WithdrawLine) ([]withdrawLine, error) {
	lines := make([]withdrawLine, 0, len(reqLines))
	for _, l := range reqLines {
		pid, err := uuid.Parse(l.ProductID)
		if err != nil {
			return nil, apperror.New(apperror.KindInvalidInput, "invalid product_id: %s", l.ProductID)
		}
		qty, err := parseQty(l.Qty)
		if err != nil {
			return nil, err
		}
		lines = append(lines, withdrawLine{productID: pid, qty: qty})
	}

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].productID.String() < lines[j].productID.String()
	})
	return lines, nil
}

type returnLine struct {
	itemID uuid.UUID
	qty    decimal.Decimal
}

// parseReturnLines validates the lines and orders them by withdrawal item id,
// matching the lock order discipline of parseWithdrawLines.
func parseReturnLines(reqLines []ReturnLine) ([]returnLine, error) {
	lines := make([]returnLine, 0, len(reqLines))
	for _, l := range reqLines {
		itemID, err := uuid.Parse(l.WithdrawalItemID)
		if err != nil {
			return nil, apperror.New(apperror.KindInvalidInput, "invalid withdrawal_item_id: %s", l.WithdrawalItemID)
		}
		qty, err := parseQty(l.Qty)
		if err != nil {
			return nil, err
		}
		lines = append(lines, returnLine{itemID: itemID, qty: qty})
	}

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].itemID.String() < lines[j].itemID.String()
	})
	return lines, nil
}

func parseQty(raw string) (decimal.Decimal, error) {
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.New(apperror.KindInvalidInput, "invalid quantity: %s", raw)
	}
	if !qty.IsPositive() {
		return decimal.Zero, apperror.New(apperror.KindInvalidInput, "quantity must be positive, got %s", raw)
	}
	return qty, nil
}

func (s *withdrawalService) notifyStock(ctx context.Context, items []model.WithdrawalItem) {
	if s.hub == nil {
		return
	}
	for _, item := range items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			continue
		}
		s.hub.BroadcastEvent("stock_changed", map[string]interface{}{
			"product_id":  product.ID.String(),
			"on_hand_qty": product.OnHandQty.String(),
		})
	}
}

func toWithdrawalResponse(h *model.WithdrawalHeader) WithdrawalResponse {
	items := make([]WithdrawalItemResponse, 0, len(h.Items))
	for _, item := range h.Items {
		items = append(items, WithdrawalItemResponse{
			ID:           item.ID.String(),
			ProductID:    item.ProductID.String(),
			QtyWithdrawn: item.QtyWithdrawn.String(),
		})
	}
	return WithdrawalResponse{
		ID:         h.ID.String(),
		EmployeeID: h.EmployeeID.String(),
		Notes:      h.Notes,
		Items:      items,
		CreatedAt:  h.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toReturnResponse(h *model.ReturnHeader) ReturnResponse {
	items := make([]ReturnItemResponse, 0, len(h.Items))
	for _, item := range h.Items {
		items = append(items, ReturnItemResponse{
			ID:               item.ID.String(),
			WithdrawalItemID: item.WithdrawalItemID.String(),
			QtyReturned:      item.QtyReturned.String(),
		})
	}
	return ReturnResponse{
		ID:         h.ID.String(),
		EmployeeID: h.EmployeeID.String(),
		Notes:      h.Notes,
		Items:      items,
		CreatedAt:  h.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
