package response

import (
	"net/http"

	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Every action answers with {"ok": true, "data": ...} or
// {"ok": false, "error": "..."}; clients branch on "ok" only.

func OK(c *gin.Context, status int, data interface{}) {
	body := gin.H{"ok": true}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func Fail(c *gin.Context, err error) {
	c.AbortWithStatusJSON(StatusFor(err), gin.H{"ok": false, "error": err.Error()})
}

func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"ok": false, "error": message})
}

func StatusFor(err error) int {
	switch custom_error.KindOf(err) {
	case custom_error.KindNotFound:
		return http.StatusNotFound
	case custom_error.KindInsufficientStock, custom_error.KindConflict, custom_error.KindAlreadyCompleted:
		return http.StatusConflict
	case custom_error.KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
