package service

import (
	"context"
	"testing"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProductToCart_MergesLineAndReservesStock(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	p := env.seedProduct(t, "Mug", 10, 9.99)

	first, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 2)
	require.NoError(t, err)
	assert.InDelta(t, 19.98, first.TotalPrice, 1e-9)

	second, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, first.CartID, second.CartID)
	require.Len(t, second.Products, 1)
	assert.InDelta(t, 49.95, second.TotalPrice, 1e-9)

	cart := env.cart(t, second.CartID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.InDelta(t, cart.ComputeTotal(), cart.TotalPrice, 1e-9)
	assert.Equal(t, 10-2-3, env.stock(t, p.ID))
	assert.Contains(t, env.cache.deleted, cart.ID)
}

func TestAddProductToCart_TotalAcrossProducts(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	mug := env.seedProduct(t, "Mug", 10, 9.99)
	plate := env.seedProduct(t, "Plate", 10, 4.5)

	_, err := env.carts.AddProductToCart(ctx, "ada@example.com", mug.ID, 2)
	require.NoError(t, err)
	dto, err := env.carts.AddProductToCart(ctx, "ada@example.com", plate.ID, 3)
	require.NoError(t, err)

	assert.InDelta(t, 2*9.99+3*4.5, dto.TotalPrice, 1e-9)
	require.Len(t, dto.Products, 2)
	assert.Equal(t, "Mug", dto.Products[0].ProductName)
	assert.Equal(t, 8, dto.Products[0].Quantity)
}

func TestAddProductToCart_StockCheckUsesAddedQuantity(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	p := env.seedProduct(t, "Mug", 5, 9.99)

	_, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 3)
	require.NoError(t, err)

	// 2 left on hand: adding 2 more passes even though the line becomes 5.
	dto, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, env.stock(t, p.ID))

	_, err = env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, 5, env.cart(t, dto.CartID).Items[0].Quantity)
}

func TestAddProductToCart_RefreshesPriceSnapshotOnMerge(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	p := env.seedProduct(t, "Mug", 10, 10)

	_, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 1)
	require.NoError(t, err)

	p.SpecialPrice = 8
	require.NoError(t, env.q.UpdateProduct(ctx, p))

	dto, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 1)
	require.NoError(t, err)
	assert.InDelta(t, 16.0, dto.TotalPrice, 1e-9)
}

func TestAddProductToCart_Failures(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	u := env.seedUser(t, "ada@example.com")
	p := env.seedProduct(t, "Mug", 1, 9.99)

	_, err := env.carts.AddProductToCart(ctx, "nobody@example.com", p.ID, 1)
	assert.ErrorIs(t, err, apperr.NotFoundIn("User"))

	_, err = env.carts.AddProductToCart(ctx, "ada@example.com", 999, 1)
	assert.ErrorIs(t, err, apperr.NotFoundIn("Product"))

	_, err = env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 2)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// the lazily created cart was rolled back with the failed operations
	_, err = env.q.GetCartByUserID(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1, env.stock(t, p.ID))
}

func TestGetAllCarts(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	_, err := env.carts.GetAllCarts(ctx)
	assert.ErrorIs(t, err, apperr.ErrEmpty)

	env.seedUser(t, "ada@example.com")
	env.seedUser(t, "bob@example.com")
	p := env.seedProduct(t, "Mug", 10, 9.99)
	_, err = env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 1)
	require.NoError(t, err)
	_, err = env.carts.AddProductToCart(ctx, "bob@example.com", p.ID, 2)
	require.NoError(t, err)

	carts, err := env.carts.GetAllCarts(ctx)
	require.NoError(t, err)
	assert.Len(t, carts, 2)
}

func TestGetCart_ChecksOwnerAndUsesCache(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	env.seedUser(t, "bob@example.com")
	p := env.seedProduct(t, "Mug", 10, 9.99)

	added, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 2)
	require.NoError(t, err)

	got, err := env.carts.GetCart(ctx, "ada@example.com", added.CartID)
	require.NoError(t, err)
	assert.Equal(t, added.CartID, got.CartID)
	assert.True(t, env.cache.has(added.CartID))

	_, err = env.carts.GetCart(ctx, "ada@example.com", added.CartID)
	require.NoError(t, err)
	assert.Equal(t, 1, env.cache.hits)

	// a cached cart is never served to another user
	_, err = env.carts.GetCart(ctx, "bob@example.com", added.CartID)
	assert.ErrorIs(t, err, apperr.NotFoundIn("Cart"))

	_, err = env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 1)
	require.NoError(t, err)
	assert.False(t, env.cache.has(added.CartID))
}

func TestGetCart_SkipsCacheWhenInvalidatedDuringRead(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	p := env.seedProduct(t, "Mug", 10, 9.99)

	added, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 2)
	require.NoError(t, err)

	// a cart write commits while this read is in flight
	env.cache.onGet = func() { env.carts.invalidate(added.CartID) }
	got, err := env.carts.GetCart(ctx, "ada@example.com", added.CartID)
	require.NoError(t, err)
	assert.Equal(t, added.CartID, got.CartID)
	assert.False(t, env.cache.has(added.CartID))

	env.cache.onGet = nil
	_, err = env.carts.GetCart(ctx, "ada@example.com", added.CartID)
	require.NoError(t, err)
	assert.True(t, env.cache.has(added.CartID))
}

func TestUpdateProductQuantityInCart(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	p := env.seedProduct(t, "Mug", 12, 9.99)

	added, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 10, env.stock(t, p.ID))
	require.InDelta(t, 19.98, added.TotalPrice, 1e-9)

	dto, err := env.carts.UpdateProductQuantityInCart(ctx, added.CartID, p.ID, 5)
	require.NoError(t, err)

	assert.Equal(t, 10+2-5, env.stock(t, p.ID))
	assert.InDelta(t, 49.95, dto.TotalPrice, 1e-9)
	assert.Equal(t, 5, env.cart(t, added.CartID).Items[0].Quantity)
}

func TestUpdateProductQuantityInCart_SameQuantityIsNoOp(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	p := env.seedProduct(t, "Mug", 10, 9.99)

	added, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 2)
	require.NoError(t, err)

	dto, err := env.carts.UpdateProductQuantityInCart(ctx, added.CartID, p.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, 8, env.stock(t, p.ID))
	assert.InDelta(t, 19.98, dto.TotalPrice, 1e-9)
	assert.Equal(t, 2, env.cart(t, added.CartID).Items[0].Quantity)
}

func TestUpdateProductQuantityInCart_AllStockOnHand(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	p := env.seedProduct(t, "Mug", 12, 9.99)

	added, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 10, env.stock(t, p.ID))

	dto, err := env.carts.UpdateProductQuantityInCart(ctx, added.CartID, p.ID, 10)
	require.NoError(t, err)

	assert.Equal(t, 10+2-10, env.stock(t, p.ID))
	assert.InDelta(t, 99.9, dto.TotalPrice, 1e-9)
}

func TestUpdateProductQuantityInCart_KeepsPriceSnapshot(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	p := env.seedProduct(t, "Mug", 10, 10)

	added, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 1)
	require.NoError(t, err)

	p.SpecialPrice = 20
	p.Quantity = env.stock(t, p.ID)
	require.NoError(t, env.q.UpdateProduct(ctx, p))

	dto, err := env.carts.UpdateProductQuantityInCart(ctx, added.CartID, p.ID, 3)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, dto.TotalPrice, 1e-9)
}

func TestUpdateProductQuantityInCart_Failures(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	soldOut := env.seedProduct(t, "Mug", 2, 9.99)
	other := env.seedProduct(t, "Plate", 3, 4.5)

	added, err := env.carts.AddProductToCart(ctx, "ada@example.com", soldOut.ID, 2)
	require.NoError(t, err)

	_, err = env.carts.UpdateProductQuantityInCart(ctx, 999, soldOut.ID, 1)
	assert.ErrorIs(t, err, apperr.NotFoundIn("Cart"))

	_, err = env.carts.UpdateProductQuantityInCart(ctx, added.CartID, 999, 1)
	assert.ErrorIs(t, err, apperr.NotFoundIn("Product"))

	_, err = env.carts.UpdateProductQuantityInCart(ctx, added.CartID, soldOut.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrUnavailable)

	_, err = env.carts.UpdateProductQuantityInCart(ctx, added.CartID, other.ID, 4)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	_, err = env.carts.UpdateProductQuantityInCart(ctx, added.CartID, other.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrNotInCart)

	assert.Equal(t, 0, env.stock(t, soldOut.ID))
	assert.Equal(t, 3, env.stock(t, other.ID))
}

func TestUpdateProductInCarts_AppliesPriceDelta(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	mug := env.seedProduct(t, "Mug", 10, 10)
	plate := env.seedProduct(t, "Plate", 10, 5)

	_, err := env.carts.AddProductToCart(ctx, "ada@example.com", mug.ID, 2)
	require.NoError(t, err)
	added, err := env.carts.AddProductToCart(ctx, "ada@example.com", plate.ID, 1)
	require.NoError(t, err)

	mug.SpecialPrice = 7.5
	mug.Quantity = env.stock(t, mug.ID)
	require.NoError(t, env.q.UpdateProduct(ctx, mug))

	require.NoError(t, env.carts.UpdateProductInCarts(ctx, added.CartID, mug.ID))
	cart := env.cart(t, added.CartID)
	assert.InDelta(t, 2*7.5+5, cart.TotalPrice, 1e-9)
	assert.InDelta(t, 7.5, cart.Items[0].ProductPrice, 1e-9)

	err = env.carts.UpdateProductInCarts(ctx, added.CartID, env.seedProduct(t, "Cup", 1, 1).ID)
	assert.ErrorIs(t, err, apperr.ErrNotInCart)
}

func TestDeleteProductFromCart(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	mug := env.seedProduct(t, "Mug", 10, 9.99)
	plate := env.seedProduct(t, "Plate", 10, 4.5)

	_, err := env.carts.AddProductToCart(ctx, "ada@example.com", mug.ID, 4)
	require.NoError(t, err)
	added, err := env.carts.AddProductToCart(ctx, "ada@example.com", plate.ID, 2)
	require.NoError(t, err)

	msg, err := env.carts.DeleteProductFromCart(ctx, added.CartID, mug.ID)
	require.NoError(t, err)
	assert.Equal(t, "Product Mug removed from the cart !!!", msg)

	assert.Equal(t, 10, env.stock(t, mug.ID))
	cart := env.cart(t, added.CartID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, plate.ID, cart.Items[0].ProductID)
	assert.InDelta(t, 9.0, cart.TotalPrice, 1e-9)

	_, err = env.carts.DeleteProductFromCart(ctx, added.CartID, mug.ID)
	assert.ErrorIs(t, err, apperr.NotFoundIn("CartItem"))

	_, err = env.carts.DeleteProductFromCart(ctx, 999, plate.ID)
	assert.ErrorIs(t, err, apperr.NotFoundIn("Cart"))
}
