package transfers

import (
	"net/http"
	"strconv"

	"github.com/lucasz92/zenitwms-sub000/pkg/response"
	"github.com/lucasz92/zenitwms-sub000/pkg/roles"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/gin-gonic/gin"
)

type TransferHandler struct {
	Service *TransferService
}

func NewHandler(s *TransferService) *TransferHandler {
	return &TransferHandler{Service: s}
}

func (h *TransferHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/transfers", h.RetrieveTransferList)
	router.GET("/transfers/:id", h.GetTransfer)
	router.POST("/transfers", security.Authorize(roles.Operator), h.CreateTransfer)
	router.PATCH("/transfers/items/:item_id", security.Authorize(roles.Operator), h.UpdateReceivedQuantity)
	router.POST("/transfers/:id/complete", security.Authorize(roles.Operator), h.CompleteTransfer)
	router.POST("/transfers/:id/logs", security.Authorize(roles.Operator), h.AddTransferLog)
	router.DELETE("/transfers/:id", security.Authorize(roles.Admin), h.DeleteTransfer)
}

func transferID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, "Transfer ID is required")
		return 0, false
	}
	return id, true
}

func (h *TransferHandler) RetrieveTransferList(c *gin.Context) {
	var filter TransferFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	orders, err := h.Service.GetTransfers(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, orders)
}

func (h *TransferHandler) GetTransfer(c *gin.Context) {
	id, ok := transferID(c)
	if !ok {
		return
	}

	order, err := h.Service.GetTransfer(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, order)
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	actor, _ := security.CurrentUser(c)
	order, err := h.Service.CreateTransfer(c.Request.Context(), actor, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, order)
}

func (h *TransferHandler) UpdateReceivedQuantity(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil || itemID <= 0 {
		response.BadRequest(c, "Item ID is required")
		return
	}

	var req ReceivedQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	item, err := h.Service.UpdateReceivedQuantity(c.Request.Context(), itemID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, item)
}

func (h *TransferHandler) CompleteTransfer(c *gin.Context) {
	id, ok := transferID(c)
	if !ok {
		return
	}

	actor, err := security.CurrentUser(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
		return
	}

	result, err := h.Service.CompleteTransfer(c.Request.Context(), actor, id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, result)
}

func (h *TransferHandler) AddTransferLog(c *gin.Context) {
	id, ok := transferID(c)
	if !ok {
		return
	}

	var req TransferLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	actor, _ := security.CurrentUser(c)
	entry, err := h.Service.AddTransferLog(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, entry)
}

func (h *TransferHandler) DeleteTransfer(c *gin.Context) {
	id, ok := transferID(c)
	if !ok {
		return
	}

	if err := h.Service.DeleteTransfer(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"id": id})
}
