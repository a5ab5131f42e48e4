package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound_Message(t *testing.T) {
	err := NotFound("Product", "productId", int64(7))
	assert.Equal(t, "Product not found with productId: 7", err.Error())
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestIs_MatchesKindAndCode(t *testing.T) {
	err := Rule(CodeInsufficientStock, "Not enough stock for %s", "Mug")

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NotErrorIs(t, err, ErrEmptyCart)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestIs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("placing order: %w", Rule(CodeEmptyCart, "Cart is empty"))

	assert.ErrorIs(t, wrapped, ErrEmptyCart)

	e, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeEmptyCart, e.Code)
}

func TestIs_ResourceScopedNotFound(t *testing.T) {
	err := NotFound("Cart", "cartId", 3)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, NotFoundIn("Cart"))
	assert.NotErrorIs(t, err, NotFoundIn("Product"))
}

func TestAs_PlainError(t *testing.T) {
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
}
