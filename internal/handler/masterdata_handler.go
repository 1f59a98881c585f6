package handler

import (
	"net/http"

	"github.com/denisceno/clone-magazina/internal/middleware"
	"github.com/denisceno/clone-magazina/internal/service"
	"github.com/denisceno/clone-magazina/pkg/pagination"
	"github.com/denisceno/clone-magazina/pkg/response"

	"github.com/gin-gonic/gin"
)

type MasterDataHandler struct {
	masterDataService service.MasterDataService
}

func NewMasterDataHandler(masterDataService service.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{masterDataService: masterDataService}
}

func (h *MasterDataHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/api/employees")
	{
		employees.GET("", middleware.RequireTier("admin", "storekeeper", "staff"), h.GetEmployees)
		employees.POST("", middleware.RequireTier("admin"), h.CreateEmployee)
		employees.PUT("/:id", middleware.RequireTier("admin"), h.UpdateEmployee)
	}

	vehicles := router.Group("/api/vehicles")
	{
		vehicles.GET("", middleware.RequireTier("admin", "storekeeper", "staff"), h.GetVehicles)
		vehicles.POST("", middleware.RequireTier("admin"), h.CreateVehicle)
	}
}

// GetEmployees lists employees
// @Summary List employees
// @Tags employees
// @Produce json
// @Param search query string false "Name search"
// @Success 200 {object} response.Response
// @Router /api/employees [get]
func (h *MasterDataHandler) GetEmployees(c *gin.Context) {
	p := pagination.Parse(c)
	employees, total, err := h.masterDataService.GetEmployees(c.Request.Context(), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(employees, total)))
}

// CreateEmployee creates an employee; have_budget provisions a ledger account
// @Summary Create employee
// @Tags employees
// @Accept json
// @Produce json
// @Param request body service.CreateEmployeeRequest true "Employee"
// @Success 201 {object} response.Response
// @Router /api/employees [post]
func (h *MasterDataHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.masterDataService.CreateEmployee(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// UpdateEmployee updates an employee
// @Summary Update employee
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body service.UpdateEmployeeRequest true "Employee"
// @Success 200 {object} response.Response
// @Router /api/employees/{id} [put]
func (h *MasterDataHandler) UpdateEmployee(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.masterDataService.UpdateEmployee(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// GetVehicles lists vehicles
// @Summary List vehicles
// @Tags vehicles
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/vehicles [get]
func (h *MasterDataHandler) GetVehicles(c *gin.Context) {
	p := pagination.Parse(c)
	vehicles, total, err := h.masterDataService.GetVehicles(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(vehicles, total)))
}

// CreateVehicle creates a vehicle
// @Summary Create vehicle
// @Tags vehicles
// @Accept json
// @Produce json
// @Param request body service.CreateVehicleRequest true "Vehicle"
// @Success 201 {object} response.Response
// @Router /api/vehicles [post]
func (h *MasterDataHandler) CreateVehicle(c *gin.Context) {
	var req service.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vehicle, err := h.masterDataService.CreateVehicle(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, vehicle))
}
