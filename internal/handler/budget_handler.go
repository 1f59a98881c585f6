package handler

import (
	"net/http"

	"github.com/denisceno/clone-magazina/internal/middleware"
	"github.com/denisceno/clone-magazina/internal/service"
	"github.com/denisceno/clone-magazina/pkg/pagination"
	"github.com/denisceno/clone-magazina/pkg/response"

	"github.com/gin-gonic/gin"
)

type BudgetHandler struct {
	budgetService service.BudgetService
}

func NewBudgetHandler(budgetService service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

func (h *BudgetHandler) RegisterRoutes(router *gin.RouterGroup) {
	budgets := router.Group("/api/budgets")
	{
		budgets.GET("", middleware.RequireTier("admin"), h.GetOverview)
		budgets.GET("/:employee_id", middleware.RequireTier("admin", "storekeeper", "staff"), h.GetBalance)
		budgets.POST("/expenses", middleware.RequireTier("admin", "storekeeper", "staff"), h.CreateExpense)
		budgets.GET("/expenses", middleware.RequireTier("admin", "storekeeper"), h.GetExpenses)
		budgets.POST("/adjustments", middleware.RequireTier("admin"), h.CreateAdjustment)
		budgets.GET("/adjustments", middleware.RequireTier("admin"), h.GetAdjustments)
	}
}

// GetOverview lists every budget-holding employee with their balance
// @Summary Budget overview
// @Tags budgets
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/budgets [get]
func (h *BudgetHandler) GetOverview(c *gin.Context) {
	rows, err := h.budgetService.Overview(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// GetBalance returns one employee's current balance
// @Summary Budget balance
// @Tags budgets
// @Produce json
// @Param employee_id path string true "Employee ID"
// @Success 200 {object} response.Response
// @Router /api/budgets/{employee_id} [get]
func (h *BudgetHandler) GetBalance(c *gin.Context) {
	res, err := h.budgetService.Balance(c.Request.Context(), c.Param("employee_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// CreateExpense debits an employee's budget
// @Summary Post expense
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body service.ExpenseRequest true "Expense"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response "no budget account or insufficient budget"
// @Router /api/budgets/expenses [post]
func (h *BudgetHandler) CreateExpense(c *gin.Context) {
	var req service.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.budgetService.ApplyExpense(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// GetExpenses lists expenses, optionally per employee
// @Summary List expenses
// @Tags budgets
// @Produce json
// @Param employee_id query string false "Employee filter"
// @Success 200 {object} response.Response
// @Router /api/budgets/expenses [get]
func (h *BudgetHandler) GetExpenses(c *gin.Context) {
	p := pagination.Parse(c)
	res, total, err := h.budgetService.ListExpenses(c.Request.Context(), c.Query("employee_id"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(res, total)))
}

// CreateAdjustment credits or debits an employee's budget by a signed delta
// @Summary Post adjustment
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body service.AdjustmentRequest true "Adjustment"
// @Success 201 {object} response.Response
// @Router /api/budgets/adjustments [post]
func (h *BudgetHandler) CreateAdjustment(c *gin.Context) {
	var req service.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.budgetService.ApplyAdjustment(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// GetAdjustments lists adjustments, optionally per employee
// @Summary List adjustments
// @Tags budgets
// @Produce json
// @Param employee_id query string false "Employee filter"
// @Success 200 {object} response.Response
// @Router /api/budgets/adjustments [get]
func (h *BudgetHandler) GetAdjustments(c *gin.Context) {
	p := pagination.Parse(c)
	res, total, err := h.budgetService.ListAdjustments(c.Request.Context(), c.Query("employee_id"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(res, total)))
}
