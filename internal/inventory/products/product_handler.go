package products

import (
	"net/http"
	"strconv"

	"github.com/lucasz92/zenitwms-sub000/pkg/response"
	"github.com/lucasz92/zenitwms-sub000/pkg/roles"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	Service *ProductService
}

func NewHandler(s *ProductService) *ProductHandler {
	return &ProductHandler{Service: s}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/products", h.GetProducts)
	router.GET("/products/:id", h.GetProduct)
	router.GET("/products/code/:code", h.GetProductByCode)
	router.POST("/products", security.Authorize(roles.Operator), h.CreateProduct)
	router.PATCH("/products/:id", security.Authorize(roles.Operator), h.UpdateProduct)
	router.DELETE("/products/:id", security.Authorize(roles.Admin), h.DeleteProduct)
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	var filter ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.Service.ListProducts(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, page)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, "Product ID is required")
		return
	}

	product, err := h.Service.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, product)
}

func (h *ProductHandler) GetProductByCode(c *gin.Context) {
	product, err := h.Service.GetProductByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	actor, _ := security.CurrentUser(c)
	product, err := h.Service.CreateProduct(c.Request.Context(), actor, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, "Product ID is required")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	product, err := h.Service.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, "Product ID is required")
		return
	}

	actor, _ := security.CurrentUser(c)
	if err := h.Service.DeleteProduct(c.Request.Context(), actor, id); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"id": id})
}
