package dashboard

import (
	"net/http"
	"strconv"

	"github.com/lucasz92/zenitwms-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Service *DashboardService
}

func NewHandler(s *DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: s}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard/stats", h.GetStats)
	router.GET("/dashboard/low-stock", h.GetLowStock)
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	response.OK(c, http.StatusOK, h.Service.Stats(c.Request.Context()))
}

func (h *DashboardHandler) GetLowStock(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "limit must be a number")
			return
		}
		limit = parsed
	}

	products, err := h.Service.LowStock(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, products)
}
