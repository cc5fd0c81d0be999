package knowledge

import (
	"net/http"
	"strconv"

	"github.com/lucasz92/zenitwms-sub000/internal/rate_limiter"
	"github.com/lucasz92/zenitwms-sub000/pkg/response"
	"github.com/lucasz92/zenitwms-sub000/pkg/roles"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/gin-gonic/gin"
)

type KnowledgeHandler struct {
	Service *KnowledgeService
	limiter *rate_limiter.RateLimiter
}

func NewHandler(s *KnowledgeService, limiter *rate_limiter.RateLimiter) *KnowledgeHandler {
	return &KnowledgeHandler{Service: s, limiter: limiter}
}

func (h *KnowledgeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/knowledge/documents", h.GetDocuments)
	router.GET("/knowledge/documents/:id", h.GetDocument)
	router.POST("/knowledge/documents", security.Authorize(roles.Operator), h.CreateDocument)
	router.PATCH("/knowledge/documents/:id", security.Authorize(roles.Operator), h.UpdateDocument)
	router.PUT("/knowledge/documents/:id/active", security.Authorize(roles.Operator), h.SetActive)
	router.DELETE("/knowledge/documents/:id", security.Authorize(roles.Admin), h.DeleteDocument)
	router.GET("/knowledge/documents/:id/note", h.GetNote)
	router.PUT("/knowledge/documents/:id/note", security.Authorize(roles.Operator), h.SaveNote)
	router.GET("/knowledge/context", h.limiter.Middleware(), h.GetAssistantContext)
}

func documentID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, "Document ID is required")
		return 0, false
	}
	return id, true
}

func (h *KnowledgeHandler) GetDocuments(c *gin.Context) {
	var filter DocumentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	docs, err := h.Service.ListDocuments(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, docs)
}

func (h *KnowledgeHandler) GetDocument(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	doc, err := h.Service.GetDocument(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, doc)
}

func (h *KnowledgeHandler) CreateDocument(c *gin.Context) {
	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	doc, err := h.Service.CreateDocument(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, doc)
}

func (h *KnowledgeHandler) UpdateDocument(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	doc, err := h.Service.UpdateDocument(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, doc)
}

func (h *KnowledgeHandler) SetActive(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	actor, _ := security.CurrentUser(c)
	doc, err := h.Service.SetActive(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, doc)
}

func (h *KnowledgeHandler) DeleteDocument(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	actor, _ := security.CurrentUser(c)
	if err := h.Service.DeleteDocument(c.Request.Context(), actor, id); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"id": id})
}

func (h *KnowledgeHandler) GetNote(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	note, err := h.Service.GetNote(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, note)
}

func (h *KnowledgeHandler) SaveNote(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	actor, _ := security.CurrentUser(c)
	note, err := h.Service.SaveNote(c.Request.Context(), actor, id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, note)
}

func (h *KnowledgeHandler) GetAssistantContext(c *gin.Context) {
	bundle, err := h.Service.AssistantContext(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, bundle)
}
