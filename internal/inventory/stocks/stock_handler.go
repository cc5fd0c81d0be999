package stocks

import (
	"net/http"

	"github.com/lucasz92/zenitwms-sub000/pkg/response"
	"github.com/lucasz92/zenitwms-sub000/pkg/roles"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	Ledger *Ledger
}

func NewStockHandler(l *Ledger) *StockHandler {
	return &StockHandler{Ledger: l}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/movements", security.Authorize(roles.Operator), h.RecordMovement)
	router.GET("/movements", h.GetMovements)
}

func (h *StockHandler) RecordMovement(c *gin.Context) {
	var req MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	actor, err := security.CurrentUser(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
		return
	}

	result, err := h.Ledger.RecordMovement(c.Request.Context(), actor, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, result)
}

func (h *StockHandler) GetMovements(c *gin.Context) {
	var filter MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	movements, err := h.Ledger.ListMovements(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, movements)
}
