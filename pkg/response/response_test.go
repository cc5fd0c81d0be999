package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "github.com/lucasz92/zenitwms-sub000/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(custom_error.NotFound("missing")))
	assert.Equal(t, http.StatusConflict, StatusFor(custom_error.InsufficientStock(1, 2)))
	assert.Equal(t, http.StatusConflict, StatusFor(custom_error.AlreadyCompleted("done")))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(custom_error.Validation("bad")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("db down")))
}

func TestFailWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, custom_error.InsufficientStock(7, 8))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["ok"])
	assert.Contains(t, body["error"], "available 7")
}

func TestOKOmitsNilData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, http.StatusOK, nil)

	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}
