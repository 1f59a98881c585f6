package service

import (
	"context"
	"encoding/json"

	"github.com/denisceno/clone-magazina/internal/model"
	"github.com/denisceno/clone-magazina/internal/repository"
	ws "github.com/denisceno/clone-magazina/internal/websocket"
	"github.com/denisceno/clone-magazina/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateDepotRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateDepotRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Active      *bool  `json:"active"` // nil leaves the flag unchanged
}

type CreateProductRequest struct {
	DepotID     string `json:"depot_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ItemType    string `json:"item_type" binding:"required,oneof=RETURNABLE CONSUMABLE"`
	Unit        string `json:"unit" binding:"required,oneof=pcs m kg L other"`
	Price       string `json:"price"` // decimal string
}

type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price"` // decimal string
}

type AddQuantityRequest struct {
	Qty string `json:"qty" binding:"required"` // decimal string
}

type ProductResponse struct {
	ID        string `json:"id"`
	DepotID   string `json:"depot_id"`
	Name      string `json:"name"`
	ItemType  string `json:"item_type"`
	Unit      string `json:"unit"`
	OnHandQty string `json:"on_hand_qty"`
	Price     string `json:"price"`
}

// ProductDetailResponse adds the reconciliation figures: how much of the
// product is out in the field and the total stock including it.
type ProductDetailResponse struct {
	ProductResponse
	OutstandingInField string `json:"outstanding_in_field"`
	TotalStock         string `json:"total_stock"`
}

type DepotResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// --- Interface ---

type InventoryService interface {
	CreateDepot(ctx context.Context, actor Actor, req CreateDepotRequest) (DepotResponse, error)
	UpdateDepot(ctx context.Context, actor Actor, id string, req UpdateDepotRequest) (DepotResponse, error)
	ListDepots(ctx context.Context) ([]DepotResponse, error)
	CreateProduct(ctx context.Context, actor Actor, req CreateProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, actor Actor, id string, req UpdateProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, actor Actor, id string) error
	GetProducts(ctx context.Context, depotID string, page, limit int, search string) ([]ProductResponse, int64, error)
	GetProductDetail(ctx context.Context, id string) (ProductDetailResponse, error)
	AddQuantity(ctx context.Context, actor Actor, id string, req AddQuantityRequest) (ProductResponse, error)
}

type inventoryService struct {
	depotRepo   repository.DepotRepository
	productRepo repository.ProductRepository
	txManager   repository.TransactionManager
	audit       AuditTrail
	hub         *ws.Hub
}

func NewInventoryService(
	depotRepo repository.DepotRepository,
	productRepo repository.ProductRepository,
	txManager repository.TransactionManager,
	audit AuditTrail,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		depotRepo:   depotRepo,
		productRepo: productRepo,
		txManager:   txManager,
		audit:       audit,
		hub:         hub,
	}
}

// --- Implementation ---

func (s *inventoryService) CreateDepot(ctx context.Context, actor Actor, req CreateDepotRequest) (DepotResponse, error) {
	depot := model.Depot{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	var events []model.AuditLog

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.depotRepo.Create(txCtx, &depot); err != nil {
			return err
		}

		detail, _ := json.Marshal(req)
		events = append(events, model.AuditLog{
			ActorID:    actor.UUID(),
			Action:     model.ActionCreateDepot,
			EntityType: "Depot",
			EntityID:   depot.ID.String(),
			Detail:     string(detail),
			ClientIP:   actor.ClientIP,
		})
		return nil
	})
	if err != nil {
		return DepotResponse{}, err
	}

	s.audit.Emit(ctx, events)
	return toDepotResponse(&depot), nil
}

func (s *inventoryService) UpdateDepot(ctx context.Context, actor Actor, id string, req UpdateDepotRequest) (DepotResponse, error) {
	depotID, err := uuid.Parse(id)
	if err != nil {
		return DepotResponse{}, apperror.New(apperror.KindInvalidInput, "invalid depot id: %s", id)
	}

	depot, err := s.depotRepo.FindByID(ctx, depotID)
	if err != nil {
		return DepotResponse{}, repository.Translate(err)
	}

	depot.Name = req.Name
	depot.Description = req.Description
	if req.Active != nil {
		depot.Active = *req.Active
	}

	var events []model.AuditLog
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.depotRepo.Update(txCtx, depot); err != nil {
			return err
		}

		detail, _ := json.Marshal(req)
		events = append(events, model.AuditLog{
			ActorID:    actor.UUID(),
			Action:     model.ActionUpdateDepot,
			EntityType: "Depot",
			EntityID:   depot.ID.String(),
			Detail:     string(detail),
			ClientIP:   actor.ClientIP,
		})
		return nil
	})
	if err != nil {
		return DepotResponse{}, err
	}

	s.audit.Emit(ctx, events)
	return toDepotResponse(depot), nil
}

func (s *inventoryService) ListDepots(ctx context.Context) ([]DepotResponse, error) {
	depots, err := s.depotRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]DepotResponse, 0, len(depots))
	for i := range depots {
		res = append(res, toDepotResponse(&depots[i]))
	}
	return res, nil
}

func (s *inventoryService) CreateProduct(ctx context.Context, actor Actor, req CreateProductRequest) (ProductResponse, error) {
	depotID, err := uuid.Parse(req.DepotID)
	if err != nil {
		return ProductResponse{}, apperror.New(apperror.KindInvalidInput, "invalid depot_id: %s", req.DepotID)
	}

	price := decimal.Zero
	if req.Price != "" {
		price, err = decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			return ProductResponse{}, apperror.New(apperror.KindInvalidInput, "invalid price: %s", req.Price)
		}
	}

	if _, err := s.depotRepo.FindByID(ctx, depotID); err != nil {
		return ProductResponse{}, repository.Translate(err)
	}

	product := model.Product{
		DepotID:     depotID,
		Name:        req.Name,
		Description: req.Description,
		ItemType:    req.ItemType,
		Unit:        req.Unit,
		OnHandQty:   decimal.Zero,
		Price:       price,
	}
	var events []model.AuditLog

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Create(txCtx, &product); err != nil {
			return err
		}

		detail, _ := json.Marshal(req)
		events = append(events, model.AuditLog{
			ActorID:    actor.UUID(),
			Action:     model.ActionCreateProduct,
			EntityType: "Product",
			EntityID:   product.ID.String(),
			Detail:     string(detail),
			ClientIP:   actor.ClientIP,
		})
		return nil
	})
	if err != nil {
		return ProductResponse{}, err
	}

	s.audit.Emit(ctx, events)
	return toProductResponse(&product), nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, actor Actor, id string, req UpdateProductRequest) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, apperror.New(apperror.KindInvalidInput, "invalid product id: %s", id)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, repository.Translate(err)
	}

	product.Name = req.Name
	product.Description = req.Description
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			return ProductResponse{}, apperror.New(apperror.KindInvalidInput, "invalid price: %s", req.Price)
		}
		product.Price = price
	}

	var events []model.AuditLog
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Update(txCtx, product); err != nil {
			return err
		}

		detail, _ := json.Marshal(req)
		events = append(events, model.AuditLog{
			ActorID:    actor.UUID(),
			Action:     model.ActionUpdateProduct,
			EntityType: "Product",
			EntityID:   product.ID.String(),
			Detail:     string(detail),
			ClientIP:   actor.ClientIP,
		})
		return nil
	})
	if err != nil {
		return ProductResponse{}, err
	}

	s.audit.Emit(ctx, events)
	return toProductResponse(product), nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, actor Actor, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return apperror.New(apperror.KindInvalidInput, "invalid product id: %s", id)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return repository.Translate(err)
	}

	var events []model.AuditLog
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Delete(txCtx, productID); err != nil {
			return err
		}

		events = append(events, model.AuditLog{
			ActorID:    actor.UUID(),
			Action:     model.ActionDeleteProduct,
			EntityType: "Product",
			EntityID:   product.ID.String(),
			Detail:     `{"deleted": true}`,
			ClientIP:   actor.ClientIP,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Emit(ctx, events)
	return nil
}

func (s *inventoryService) GetProducts(ctx context.Context, depotID string, page, limit int, search string) ([]ProductResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var depotFilter *uuid.UUID
	if depotID != "" {
		id, err := uuid.Parse(depotID)
		if err != nil {
			return nil, 0, apperror.New(apperror.KindInvalidInput, "invalid depot_id: %s", depotID)
		}
		depotFilter = &id
	}

	products, total, err := s.productRepo.List(ctx, depotFilter, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, toProductResponse(&products[i]))
	}
	return res, total, nil
}

func (s *inventoryService) GetProductDetail(ctx context.Context, id string) (ProductDetailResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductDetailResponse{}, apperror.New(apperror.KindInvalidInput, "invalid product id: %s", id)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductDetailResponse{}, repository.Translate(err)
	}

	outstanding, err := s.productRepo.OutstandingInField(ctx, productID)
	if err != nil {
		return ProductDetailResponse{}, err
	}

	return ProductDetailResponse{
		ProductResponse:    toProductResponse(product),
		OutstandingInField: outstanding.String(),
		TotalStock:         product.OnHandQty.Add(outstanding).String(),
	}, nil
}

// AddQuantity restocks a product under its row lock so the increment cannot
// race a concurrent withdrawal's check-then-write.
func (s *inventoryService) AddQuantity(ctx context.Context, actor Actor, id string, req AddQuantityRequest) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, apperror.New(apperror.KindInvalidInput, "invalid product id: %s", id)
	}
	qty, err := parseQty(req.Qty)
	if err != nil {
		return ProductResponse{}, err
	}

	var product *model.Product
	var events []model.AuditLog

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.productRepo.FindByIDForUpdate(txCtx, productID)
		if err != nil {
			return repository.Translate(err)
		}

		p.OnHandQty = p.OnHandQty.Add(qty)
		if err := s.productRepo.UpdateStock(txCtx, p.ID, p.OnHandQty); err != nil {
			return err
		}
		product = p

		detail, _ := json.Marshal(map[string]interface{}{
			"qty":       qty.String(),
			"new_stock": p.OnHandQty.String(),
		})
		events = append(events, model.AuditLog{
			ActorID:    actor.UUID(),
			Action:     model.ActionAddQuantity,
			EntityType: "Product",
			EntityID:   p.ID.String(),
			Detail:     string(detail),
			ClientIP:   actor.ClientIP,
		})
		return nil
	})
	if err != nil {
		return ProductResponse{}, err
	}

	s.audit.Emit(ctx, events)
	if s.hub != nil {
		s.hub.BroadcastEvent("stock_changed", map[string]interface{}{
			"product_id":  product.ID.String(),
			"on_hand_qty": product.OnHandQty.String(),
		})
	}

	return toProductResponse(product), nil
}

// --- helpers ---

func toProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID.String(),
		DepotID:   p.DepotID.String(),
		Name:      p.Name,
		ItemType:  p.ItemType,
		Unit:      p.Unit,
		OnHandQty: p.OnHandQty.String(),
		Price:     p.Price.String(),
	}
}

func toDepotResponse(d *model.Depot) DepotResponse {
	return DepotResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		Description: d.Description,
		Active:      d.Active,
	}
}
