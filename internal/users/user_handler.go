package users

import (
	"net/http"

	"github.com/lucasz92/zenitwms-sub000/pkg/response"
	"github.com/lucasz92/zenitwms-sub000/pkg/roles"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UsersHandler struct {
	Repository UserRepository
	log        *zap.Logger
}

func NewHandler(r UserRepository, log *zap.Logger) *UsersHandler {
	return &UsersHandler{
		Repository: r,
		log:        log,
	}
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users/me", h.Me)
	router.GET("/users", security.Authorize(roles.Admin), h.GetUserList)
}

// Me answers with the identity the token carries, merged with the stored
// row when one exists.
func (h *UsersHandler) Me(c *gin.Context) {
	identity, err := security.CurrentUser(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
		return
	}

	stored, err := h.Repository.GetUser(c.Request.Context(), identity.ID)
	if err != nil {
		h.log.Error("Unable to load user", zap.String("user_id", identity.ID), zap.Error(err))
		response.Fail(c, err)
		return
	}
	if stored != nil {
		identity.CreatedAt = stored.CreatedAt
	}

	response.OK(c, http.StatusOK, identity)
}

func (h *UsersHandler) GetUserList(c *gin.Context) {
	users, err := h.Repository.GetUsers(c.Request.Context())
	if err != nil {
		h.log.Error("Unable to list users", zap.Error(err))
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, users)
}
