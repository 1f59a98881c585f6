package handler

import (
	"net/http"

	"github.com/denisceno/clone-magazina/internal/middleware"
	"github.com/denisceno/clone-magazina/internal/service"
	"github.com/denisceno/clone-magazina/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/depot-stock", middleware.RequireTier("admin", "storekeeper"), h.GetDepotStock)
		reports.GET("/fuel-by-vehicle/:vehicle_id", middleware.RequireTier("admin", "storekeeper"), h.GetFuelByVehicle)
	}
}

// GetDepotStock returns per-depot holdings and valuation
// @Summary Depot stock report
// @Tags reports
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/reports/depot-stock [get]
func (h *ReportHandler) GetDepotStock(c *gin.Context) {
	rows, err := h.reportService.DepotStock(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// GetFuelByVehicle returns a vehicle's usage history grouped by fuel entry
// @Summary Fuel usage by vehicle
// @Tags reports
// @Produce json
// @Param vehicle_id path string true "Vehicle ID"
// @Success 200 {object} response.Response
// @Router /api/reports/fuel-by-vehicle/{vehicle_id} [get]
func (h *ReportHandler) GetFuelByVehicle(c *gin.Context) {
	groups, err := h.reportService.FuelByVehicle(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, groups))
}
