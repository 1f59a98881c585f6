package handler

import (
	"net/http"

	"github.com/denisceno/clone-magazina/internal/middleware"
	"github.com/denisceno/clone-magazina/internal/service"
	"github.com/denisceno/clone-magazina/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReconciliationHandler struct {
	reconciliationService service.ReconciliationService
}

func NewReconciliationHandler(reconciliationService service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

func (h *ReconciliationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/reconciliations", middleware.RequireTier("admin", "storekeeper"), h.Execute)
}

type executeRequest struct {
	Operations []service.Operation `json:"operations" binding:"required,min=1"`
}

// Execute runs a batch of operations in one transaction: either every
// operation commits or none does
// @Summary Execute reconciliation batch
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param request body executeRequest true "Operations"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response "a rejected operation rolled the batch back"
// @Failure 503 {object} response.Response "row lock wait exceeded"
// @Router /api/reconciliations [post]
func (h *ReconciliationHandler) Execute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	results, err := h.reconciliationService.Execute(c.Request.Context(), middleware.ActorFrom(c), req.Operations)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, results))
}
