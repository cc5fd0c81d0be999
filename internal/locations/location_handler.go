package locations

import (
	"net/http"
	"strconv"

	"github.com/lucasz92/zenitwms-sub000/pkg/response"
	"github.com/lucasz92/zenitwms-sub000/pkg/roles"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	Service *LocationService
}

func NewLocationHandler(s *LocationService) *LocationHandler {
	return &LocationHandler{Service: s}
}

func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/locations", h.GetLocations)
	router.GET("/locations/map", h.GetWarehouseMap)
	router.GET("/locations/:id", h.GetLocation)
	router.GET("/products/:id/locations", h.GetProductLocations)
	router.POST("/locations", security.Authorize(roles.Operator), h.CreateLocation)
	router.POST("/locations/racks", security.Authorize(roles.Operator), h.CreateRack)
	router.PATCH("/locations/:id", security.Authorize(roles.Operator), h.UpdateLocation)
	router.PUT("/locations/:id/product", security.Authorize(roles.Operator), h.AssignProduct)
	router.DELETE("/locations/:id", security.Authorize(roles.Admin), h.RemoveLocation)
}

func locationID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, "Location ID is required")
		return 0, false
	}
	return id, true
}

func (h *LocationHandler) GetLocations(c *gin.Context) {
	var filter LocationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	locations, err := h.Service.ListLocations(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, locations)
}

func (h *LocationHandler) GetWarehouseMap(c *gin.Context) {
	warehouses, err := h.Service.WarehouseMap(c.Request.Context(), c.Query("warehouse"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, warehouses)
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	id, ok := locationID(c)
	if !ok {
		return
	}

	location, err := h.Service.GetLocation(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, location)
}

func (h *LocationHandler) GetProductLocations(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		response.BadRequest(c, "Product ID is required")
		return
	}

	locations, err := h.Service.ProductLocations(c.Request.Context(), productID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, locations)
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	location, err := h.Service.CreateLocation(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, location)
}

func (h *LocationHandler) CreateRack(c *gin.Context) {
	var req CreateRackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	actor, _ := security.CurrentUser(c)
	result, err := h.Service.CreateRack(c.Request.Context(), actor, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, result)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	id, ok := locationID(c)
	if !ok {
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	location, err := h.Service.UpdateLocation(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, location)
}

func (h *LocationHandler) AssignProduct(c *gin.Context) {
	id, ok := locationID(c)
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	actor, _ := security.CurrentUser(c)
	location, err := h.Service.AssignProduct(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, location)
}

func (h *LocationHandler) RemoveLocation(c *gin.Context) {
	id, ok := locationID(c)
	if !ok {
		return
	}

	actor, _ := security.CurrentUser(c)
	if err := h.Service.DeleteLocation(c.Request.Context(), actor, id); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"id": id})
}
