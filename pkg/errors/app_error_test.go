package custom_error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockMessage(t *testing.T) {
	err := InsufficientStock(7, 8)

	assert.Equal(t, KindInsufficientStock, err.Kind)
	assert.Contains(t, err.Error(), "available 7")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", NotFound("product %d not found", 3))))
	assert.Equal(t, KindPersistence, KindOf(errors.New("connection reset")))
}

func TestPersistenceKeepsAppErrors(t *testing.T) {
	conflict := Conflict("location is occupied")

	assert.Same(t, conflict, Persistence(conflict))
	assert.Equal(t, "connection reset", Persistence(errors.New("connection reset")).Message)
	assert.Nil(t, Persistence(nil))
}

func TestWrapDBError(t *testing.T) {
	unique := WrapDBError(&pq.Error{Code: "23505", Constraint: "products_code_key", Message: "duplicate key value"})
	var uv *UniqueViolationError
	assert.ErrorAs(t, unique, &uv)
	assert.Equal(t, "products_code_key", uv.Constraint)

	fk := WrapDBError(&pq.Error{Code: "23503", Constraint: "inventory_movements_product_id_fkey"})
	assert.True(t, IsForeignKeyViolation(fk))

	plain := errors.New("boom")
	assert.Same(t, plain, WrapDBError(plain))
}

func TestIsUniqueViolationMatchesMessage(t *testing.T) {
	assert.True(t, IsUniqueViolation(errors.New(`pq: duplicate key value violates unique constraint "products_code_key"`)))
	assert.False(t, IsUniqueViolation(errors.New("timeout")))
	assert.False(t, IsUniqueViolation(nil))
}
