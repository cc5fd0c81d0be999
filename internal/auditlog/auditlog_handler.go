package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/lucasz92/zenitwms-sub000/pkg/models"
	"github.com/lucasz92/zenitwms-sub000/pkg/response"
	"github.com/lucasz92/zenitwms-sub000/pkg/roles"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/gin-gonic/gin"
)

var resourceTypes = map[string]bool{
	"product":            true,
	"location":           true,
	"alert":              true,
	"knowledge_document": true,
}

type ResourceLogReader interface {
	GetResourceLog(ctx context.Context, id int, resourceType string) ([]models.AuditLog, error)
}

type AuditLogHandler struct {
	Repository ResourceLogReader
}

func NewHandler(r ResourceLogReader) *AuditLogHandler {
	return &AuditLogHandler{Repository: r}
}

func (h *AuditLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit/:type/:id", security.Authorize(roles.Admin), h.GetResourceLog)
}

func (h *AuditLogHandler) GetResourceLog(c *gin.Context) {
	resourceType := c.Param("type")
	if !resourceTypes[resourceType] {
		response.BadRequest(c, "Unknown resource type")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, "Resource ID is required")
		return
	}

	logs, err := h.Repository.GetResourceLog(c.Request.Context(), id, resourceType)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, logs)
}
