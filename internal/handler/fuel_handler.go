package handler

import (
	"net/http"

	"github.com/denisceno/clone-magazina/internal/middleware"
	"github.com/denisceno/clone-magazina/internal/service"
	"github.com/denisceno/clone-magazina/pkg/pagination"
	"github.com/denisceno/clone-magazina/pkg/response"

	"github.com/gin-gonic/gin"
)

type FuelHandler struct {
	fuelService service.FuelService
}

func NewFuelHandler(fuelService service.FuelService) *FuelHandler {
	return &FuelHandler{fuelService: fuelService}
}

func (h *FuelHandler) RegisterRoutes(router *gin.RouterGroup) {
	tanks := router.Group("/api/tanks")
	{
		tanks.GET("", middleware.RequireTier("admin", "storekeeper", "staff"), h.GetTanks)
		tanks.POST("", middleware.RequireTier("admin"), h.CreateTank)
		tanks.GET("/:id/level", middleware.RequireTier("admin", "storekeeper", "staff"), h.GetLevel)
		tanks.GET("/:id/entries", middleware.RequireTier("admin", "storekeeper", "staff"), h.GetEntries)
		tanks.POST("/:id/entries", middleware.RequireTier("admin", "storekeeper"), h.OpenEntry)
		tanks.POST("/:id/entries/close", middleware.RequireTier("admin", "storekeeper"), h.CloseEntry)
		tanks.POST("/:id/usages", middleware.RequireTier("admin", "storekeeper"), h.RecordUsage)
	}
}

// GetTanks lists all tanks with their reporting-level figures
// @Summary List tanks
// @Tags fuel
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/tanks [get]
func (h *FuelHandler) GetTanks(c *gin.Context) {
	levels, err := h.fuelService.ListTankLevels(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, levels))
}

// CreateTank creates a fuel tank
// @Summary Create tank
// @Tags fuel
// @Accept json
// @Produce json
// @Param request body service.CreateTankRequest true "Tank"
// @Success 201 {object} response.Response
// @Router /api/tanks [post]
func (h *FuelHandler) CreateTank(c *gin.Context) {
	var req service.CreateTankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tank, err := h.fuelService.CreateTank(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tank))
}

// GetLevel returns one tank's current level
// @Summary Tank level
// @Tags fuel
// @Produce json
// @Param id path string true "Tank ID"
// @Success 200 {object} response.Response
// @Router /api/tanks/{id}/level [get]
func (h *FuelHandler) GetLevel(c *gin.Context) {
	level, err := h.fuelService.CurrentLevel(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, level))
}

// GetEntries lists a tank's entries, newest first
// @Summary List entries
// @Tags fuel
// @Produce json
// @Param id path string true "Tank ID"
// @Success 200 {object} response.Response
// @Router /api/tanks/{id}/entries [get]
func (h *FuelHandler) GetEntries(c *gin.Context) {
	p := pagination.Parse(c)
	entries, total, err := h.fuelService.ListEntries(c.Request.Context(), c.Param("id"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(entries, total)))
}

// OpenEntry books a fuel delivery and opens the tank's entry
// @Summary Open entry
// @Tags fuel
// @Accept json
// @Produce json
// @Param id path string true "Tank ID"
// @Param request body service.OpenEntryRequest true "Delivery"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response "tank already has an open entry"
// @Router /api/tanks/{id}/entries [post]
func (h *FuelHandler) OpenEntry(c *gin.Context) {
	var req service.OpenEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	req.TankID = c.Param("id")

	entry, err := h.fuelService.OpenEntry(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// CloseEntry closes the tank's open entry
// @Summary Close entry
// @Tags fuel
// @Accept json
// @Produce json
// @Param id path string true "Tank ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response "no open entry"
// @Router /api/tanks/{id}/entries/close [post]
func (h *FuelHandler) CloseEntry(c *gin.Context) {
	req := service.CloseEntryRequest{TankID: c.Param("id")}

	entry, err := h.fuelService.CloseEntry(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// RecordUsage draws fuel from the tank's open entry
// @Summary Record usage
// @Tags fuel
// @Accept json
// @Produce json
// @Param id path string true "Tank ID"
// @Param request body service.RecordUsageRequest true "Usage"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response "no open entry or insufficient fuel"
// @Router /api/tanks/{id}/usages [post]
func (h *FuelHandler) RecordUsage(c *gin.Context) {
	var req service.RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	req.TankID = c.Param("id")

	usage, err := h.fuelService.RecordUsage(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, usage))
}
