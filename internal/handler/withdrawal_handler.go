package handler

import (
	"net/http"

	"github.com/denisceno/clone-magazina/internal/middleware"
	"github.com/denisceno/clone-magazina/internal/service"
	"github.com/denisceno/clone-magazina/pkg/pagination"
	"github.com/denisceno/clone-magazina/pkg/response"

	"github.com/gin-gonic/gin"
)

type WithdrawalHandler struct {
	withdrawalService service.WithdrawalService
}

func NewWithdrawalHandler(withdrawalService service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

func (h *WithdrawalHandler) RegisterRoutes(router *gin.RouterGroup) {
	withdrawals := router.Group("/api/withdrawals")
	{
		withdrawals.GET("", middleware.RequireTier("admin", "storekeeper", "staff"), h.GetWithdrawals)
		withdrawals.POST("", middleware.RequireTier("admin", "storekeeper"), h.Withdraw)
		withdrawals.GET("/items/:id/outstanding", middleware.RequireTier("admin", "storekeeper", "staff"), h.GetOutstanding)
	}

	returns := router.Group("/api/returns")
	{
		returns.GET("", middleware.RequireTier("admin", "storekeeper", "staff"), h.GetReturns)
		returns.POST("", middleware.RequireTier("admin", "storekeeper"), h.ReturnItems)
	}

	router.GET("/api/employees/:id/outstanding",
		middleware.RequireTier("admin", "storekeeper", "staff"), h.GetOutstandingByEmployee)
}

// Withdraw issues products to an employee
// @Summary Withdraw products
// @Tags withdrawals
// @Accept json
// @Produce json
// @Param request body service.WithdrawRequest true "Withdrawal"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response "insufficient stock"
// @Failure 503 {object} response.Response "row lock wait exceeded"
// @Router /api/withdrawals [post]
func (h *WithdrawalHandler) Withdraw(c *gin.Context) {
	var req service.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.withdrawalService.Withdraw(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// ReturnItems books returns against outstanding withdrawal items
// @Summary Return products
// @Tags returns
// @Accept json
// @Produce json
// @Param request body service.ReturnRequest true "Return"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response "over-return"
// @Router /api/returns [post]
func (h *WithdrawalHandler) ReturnItems(c *gin.Context) {
	var req service.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.withdrawalService.ReturnItems(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// GetOutstanding returns the remaining quantity on one withdrawal item
// @Summary Outstanding quantity for a withdrawal item
// @Tags withdrawals
// @Produce json
// @Param id path string true "Withdrawal item ID"
// @Success 200 {object} response.Response
// @Router /api/withdrawals/items/{id}/outstanding [get]
func (h *WithdrawalHandler) GetOutstanding(c *gin.Context) {
	res, err := h.withdrawalService.Outstanding(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// GetOutstandingByEmployee lists everything an employee still holds
// @Summary Outstanding items per employee
// @Tags withdrawals
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Response
// @Router /api/employees/{id}/outstanding [get]
func (h *WithdrawalHandler) GetOutstandingByEmployee(c *gin.Context) {
	items, err := h.withdrawalService.OutstandingByEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// GetWithdrawals lists withdrawal headers, optionally per employee
// @Summary List withdrawals
// @Tags withdrawals
// @Produce json
// @Param employee_id query string false "Employee filter"
// @Success 200 {object} response.Response
// @Router /api/withdrawals [get]
func (h *WithdrawalHandler) GetWithdrawals(c *gin.Context) {
	p := pagination.Parse(c)
	res, total, err := h.withdrawalService.ListWithdrawals(c.Request.Context(), c.Query("employee_id"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(res, total)))
}

// GetReturns lists return headers, optionally per employee
// @Summary List returns
// @Tags returns
// @Produce json
// @Param employee_id query string false "Employee filter"
// @Success 200 {object} response.Response
// @Router /api/returns [get]
func (h *WithdrawalHandler) GetReturns(c *gin.Context) {
	p := pagination.Parse(c)
	res, total, err := h.withdrawalService.ListReturns(c.Request.Context(), c.Query("employee_id"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(res, total)))
}
