package handler

import (
	"net/http"

	"github.com/denisceno/clone-magazina/internal/middleware"
	"github.com/denisceno/clone-magazina/internal/repository"
	"github.com/denisceno/clone-magazina/internal/service"
	"github.com/denisceno/clone-magazina/pkg/pagination"
	"github.com/denisceno/clone-magazina/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditTrail
}

func NewAuditHandler(auditService service.AuditTrail) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/audit-logs", middleware.RequireTier("admin"), h.GetAuditLogs)
}

// GetAuditLogs lists audit entries, newest first
// @Summary List audit logs
// @Tags audit
// @Produce json
// @Param action query string false "Filter by action"
// @Param entity_type query string false "Filter by entity type"
// @Param actor_id query string false "Filter by actor"
// @Success 200 {object} response.Response
// @Router /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.AuditFilter{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		ActorID:    c.Query("actor_id"),
	}
	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(logs, total)))
}
