package alerts

import (
	"net/http"
	"strconv"

	"github.com/lucasz92/zenitwms-sub000/pkg/response"
	"github.com/lucasz92/zenitwms-sub000/pkg/roles"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	Service *AlertService
}

func NewHandler(s *AlertService) *AlertHandler {
	return &AlertHandler{Service: s}
}

func (h *AlertHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/alerts", h.GetAlerts)
	router.GET("/alerts/:id", h.GetAlert)
	router.POST("/alerts", security.Authorize(roles.Operator), h.CreateAlert)
	router.PATCH("/alerts/:id/status", security.Authorize(roles.Operator), h.ChangeStatus)
	router.DELETE("/alerts/:id", security.Authorize(roles.Admin), h.DeleteAlert)
}

func alertID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, "Alert ID is required")
		return 0, false
	}
	return id, true
}

func (h *AlertHandler) GetAlerts(c *gin.Context) {
	var filter AlertFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.Service.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, page)
}

func (h *AlertHandler) GetAlert(c *gin.Context) {
	id, ok := alertID(c)
	if !ok {
		return
	}

	alert, err := h.Service.GetAlert(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, alert)
}

func (h *AlertHandler) CreateAlert(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	actor, _ := security.CurrentUser(c)
	alert, err := h.Service.CreateAlert(c.Request.Context(), actor, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, alert)
}

func (h *AlertHandler) ChangeStatus(c *gin.Context) {
	id, ok := alertID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	actor, _ := security.CurrentUser(c)
	alert, err := h.Service.ChangeStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, alert)
}

func (h *AlertHandler) DeleteAlert(c *gin.Context) {
	id, ok := alertID(c)
	if !ok {
		return
	}

	actor, _ := security.CurrentUser(c)
	if err := h.Service.DeleteAlert(c.Request.Context(), actor, id); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"id": id})
}
