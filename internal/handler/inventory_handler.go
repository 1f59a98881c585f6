package handler

import (
	"net/http"

	"github.com/denisceno/clone-magazina/internal/middleware"
	"github.com/denisceno/clone-magazina/internal/service"
	"github.com/denisceno/clone-magazina/pkg/pagination"
	"github.com/denisceno/clone-magazina/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	depots := router.Group("/api/depots")
	{
		depots.GET("", middleware.RequireTier("admin", "storekeeper", "staff"), h.GetDepots)
		depots.POST("", middleware.RequireTier("admin"), h.CreateDepot)
		depots.PUT("/:id", middleware.RequireTier("admin"), h.UpdateDepot)
	}

	products := router.Group("/api/products")
	{
		products.GET("", middleware.RequireTier("admin", "storekeeper", "staff"), h.GetProducts)
		products.GET("/:id", middleware.RequireTier("admin", "storekeeper", "staff"), h.GetProduct)
		products.POST("", middleware.RequireTier("admin", "storekeeper"), h.CreateProduct)
		products.PUT("/:id", middleware.RequireTier("admin", "storekeeper"), h.UpdateProduct)
		products.DELETE("/:id", middleware.RequireTier("admin"), h.DeleteProduct)
		products.POST("/:id/add-quantity", middleware.RequireTier("admin", "storekeeper"), h.AddQuantity)
	}
}

// GetDepots returns all depots
// @Summary List depots
// @Tags depots
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/depots [get]
func (h *InventoryHandler) GetDepots(c *gin.Context) {
	depots, err := h.inventoryService.ListDepots(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, depots))
}

// CreateDepot creates a depot
// @Summary Create depot
// @Tags depots
// @Accept json
// @Produce json
// @Param request body service.CreateDepotRequest true "Depot"
// @Success 201 {object} response.Response
// @Router /api/depots [post]
func (h *InventoryHandler) CreateDepot(c *gin.Context) {
	var req service.CreateDepotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	depot, err := h.inventoryService.CreateDepot(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, depot))
}

// UpdateDepot updates a depot's name, description and active flag
// @Summary Update depot
// @Tags depots
// @Accept json
// @Produce json
// @Param id path string true "Depot ID"
// @Param request body service.UpdateDepotRequest true "Depot"
// @Success 200 {object} response.Response
// @Router /api/depots/{id} [put]
func (h *InventoryHandler) UpdateDepot(c *gin.Context) {
	var req service.UpdateDepotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	depot, err := h.inventoryService.UpdateDepot(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, depot))
}

// GetProducts lists products, optionally filtered by depot and name search
// @Summary List products
// @Tags products
// @Produce json
// @Param depot_id query string false "Depot filter"
// @Param search query string false "Name search"
// @Success 200 {object} response.Response
// @Router /api/products [get]
func (h *InventoryHandler) GetProducts(c *gin.Context) {
	p := pagination.Parse(c)
	products, total, err := h.inventoryService.GetProducts(
		c.Request.Context(), c.Query("depot_id"), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(products, total)))
}

// GetProduct returns one product with its outstanding-in-field figures
// @Summary Product detail
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} response.Response
// @Router /api/products/{id} [get]
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	detail, err := h.inventoryService.GetProductDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, detail))
}

// CreateProduct creates a product in a depot
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param request body service.CreateProductRequest true "Product"
// @Success 201 {object} response.Response
// @Router /api/products [post]
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.inventoryService.CreateProduct(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// UpdateProduct updates a product's descriptive fields and price
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body service.UpdateProductRequest true "Product"
// @Success 200 {object} response.Response
// @Router /api/products/{id} [put]
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct removes a product
// @Summary Delete product
// @Tags products
// @Param id path string true "Product ID"
// @Success 200 {object} response.Response
// @Router /api/products/{id} [delete]
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	if err := h.inventoryService.DeleteProduct(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// AddQuantity restocks a product
// @Summary Add stock
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body service.AddQuantityRequest true "Quantity"
// @Success 200 {object} response.Response
// @Router /api/products/{id}/add-quantity [post]
func (h *InventoryHandler) AddQuantity(c *gin.Context) {
	var req service.AddQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.inventoryService.AddQuantity(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}
