package service

import (
	"context"
	"testing"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_Lifecycle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	_, err := env.categories.GetCategories(ctx, PageRequest{PageSize: 2})
	assert.ErrorIs(t, err, apperr.ErrEmpty)

	created, err := env.categories.CreateCategory(ctx, models.CategoryDTO{CategoryName: "Kitchen Ware"})
	require.NoError(t, err)
	assert.Equal(t, "kitchen-ware", created.Slug)

	_, err = env.categories.CreateCategory(ctx, models.CategoryDTO{CategoryName: "Kitchen Ware"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	updated, err := env.categories.UpdateCategory(ctx, created.CategoryID, models.CategoryDTO{CategoryName: "Garden Tools"})
	require.NoError(t, err)
	assert.Equal(t, "garden-tools", updated.Slug)

	_, err = env.categories.UpdateCategory(ctx, 999, models.CategoryDTO{CategoryName: "Nothing"})
	assert.ErrorIs(t, err, apperr.NotFoundIn("Category"))

	page, err := env.categories.GetCategories(ctx, PageRequest{PageSize: 2, SortBy: "categoryName"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Garden Tools", page.Content[0].CategoryName)
}

func TestDeleteCategory_RemovesProductsFromCarts(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")

	cat, err := env.categories.CreateCategory(ctx, models.CategoryDTO{CategoryName: "Kitchen Ware"})
	require.NoError(t, err)
	p, err := env.products.AddProduct(ctx, cat.CategoryID, models.ProductDTO{
		ProductName: "Kettle", Description: "boils water", Quantity: 5, Price: 40,
	})
	require.NoError(t, err)

	cart, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ProductID, 1)
	require.NoError(t, err)

	_, err = env.categories.DeleteCategory(ctx, cat.CategoryID)
	require.NoError(t, err)

	_, err = env.q.GetProduct(ctx, p.ProductID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	c := env.cart(t, cart.CartID)
	assert.Empty(t, c.Items)
	assert.InDelta(t, 0, c.TotalPrice, 1e-9)
}

func TestAddProduct(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	cat, err := env.categories.CreateCategory(ctx, models.CategoryDTO{CategoryName: "Kitchen Ware"})
	require.NoError(t, err)

	in := models.ProductDTO{ProductName: "Kettle", Description: "boils water", Quantity: 5, Price: 40, Discount: 25, Image: "mine.png"}
	p, err := env.products.AddProduct(ctx, cat.CategoryID, in)
	require.NoError(t, err)
	assert.InDelta(t, 30, p.SpecialPrice, 1e-9)
	assert.Equal(t, models.DefaultProductImage, p.Image)

	_, err = env.products.AddProduct(ctx, cat.CategoryID, in)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = env.products.AddProduct(ctx, 999, in)
	assert.ErrorIs(t, err, apperr.NotFoundIn("Category"))
}

func TestProductSearches(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	kitchen, err := env.categories.CreateCategory(ctx, models.CategoryDTO{CategoryName: "Kitchen Ware"})
	require.NoError(t, err)
	garden, err := env.categories.CreateCategory(ctx, models.CategoryDTO{CategoryName: "Garden Tools"})
	require.NoError(t, err)

	for _, name := range []string{"Blue Mug", "Red Mug", "Kettle"} {
		_, err := env.products.AddProduct(ctx, kitchen.CategoryID, models.ProductDTO{ProductName: name, Description: "kitchen item", Price: 10})
		require.NoError(t, err)
	}
	_, err = env.products.AddProduct(ctx, garden.CategoryID, models.ProductDTO{ProductName: "Spade", Description: "garden item", Price: 10})
	require.NoError(t, err)

	all, err := env.products.GetAllProducts(ctx, PageRequest{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.TotalElements)

	inGarden, err := env.products.SearchByCategory(ctx, garden.CategoryID, PageRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, inGarden.Content, 1)
	assert.Equal(t, "Spade", inGarden.Content[0].ProductName)

	_, err = env.products.SearchByCategory(ctx, 999, PageRequest{PageSize: 10})
	assert.ErrorIs(t, err, apperr.NotFoundIn("Category"))

	mugs, err := env.products.SearchByKeyword(ctx, "mug", PageRequest{PageSize: 1, SortBy: "productName", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, 2, mugs.TotalPages)
	assert.Equal(t, "Red Mug", mugs.Content[0].ProductName)

	_, err = env.products.SearchByKeyword(ctx, "teapot", PageRequest{PageSize: 10})
	assert.ErrorIs(t, err, apperr.ErrEmpty)
}

func TestUpdateProduct_RefreshesCartSnapshots(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	env.seedUser(t, "bob@example.com")
	p := env.seedProduct(t, "Mug", 10, 10)

	adaCart, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 2)
	require.NoError(t, err)
	bobCart, err := env.carts.AddProductToCart(ctx, "bob@example.com", p.ID, 1)
	require.NoError(t, err)

	updated, err := env.products.UpdateProduct(ctx, p.ID, models.ProductDTO{
		ProductName: "Mug", Description: "bigger mug", Quantity: 7, Price: 20, Discount: 10,
	})
	require.NoError(t, err)
	assert.InDelta(t, 18, updated.SpecialPrice, 1e-9)

	assert.InDelta(t, 36, env.cart(t, adaCart.CartID).TotalPrice, 1e-9)
	assert.InDelta(t, 18, env.cart(t, bobCart.CartID).TotalPrice, 1e-9)
	assert.Contains(t, env.cache.deleted, bobCart.CartID)

	_, err = env.products.UpdateProduct(ctx, 999, models.ProductDTO{ProductName: "Nope"})
	assert.ErrorIs(t, err, apperr.NotFoundIn("Product"))
}

func TestDeleteProduct_ReturnsStockAndKeepsOrderHistory(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.seedUser(t, "ada@example.com")
	p := env.seedProduct(t, "Mug", 10, 10)

	cart, err := env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 1)
	require.NoError(t, err)
	placed, err := env.orders.PlaceOrder(ctx, "ada@example.com", cart.CartID, "COD")
	require.NoError(t, err)
	_, err = env.carts.AddProductToCart(ctx, "ada@example.com", p.ID, 2)
	require.NoError(t, err)

	msg, err := env.products.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "deleted successfully")
	assert.Empty(t, env.cart(t, cart.CartID).Items)

	order, err := env.orders.GetOrder(ctx, "ada@example.com", placed.OrderID)
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, p.ID, order.OrderItems[0].Product.ProductID)

	_, err = env.products.DeleteProduct(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.NotFoundIn("Product"))
}

func TestAddress_Lifecycle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	in := models.AddressDTO{Street: "Baker Street", BuildingName: "Flat 221B", City: "London", State: "LN", Country: "UK", Pincode: "NW16XE"}
	a, err := env.addresses.CreateAddress(ctx, in)
	require.NoError(t, err)

	_, err = env.addresses.CreateAddress(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	got, err := env.addresses.GetAddress(ctx, a.AddressID)
	require.NoError(t, err)
	assert.Equal(t, "London", got.City)

	_, err = env.addresses.GetAddress(ctx, 999)
	assert.ErrorIs(t, err, apperr.NotFoundIn("Address"))

	in.City = "Leeds"
	updated, err := env.addresses.UpdateAddress(ctx, a.AddressID, in)
	require.NoError(t, err)
	assert.Equal(t, a.AddressID, updated.AddressID)
	assert.Equal(t, "Leeds", updated.City)

	all, err := env.addresses.GetAddresses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = env.addresses.DeleteAddress(ctx, a.AddressID)
	require.NoError(t, err)
	_, err = env.addresses.DeleteAddress(ctx, a.AddressID)
	assert.ErrorIs(t, err, apperr.NotFoundIn("Address"))
}

func TestUpdateAddress_MergesIntoExistingAddress(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	london := models.AddressDTO{Street: "Baker Street", BuildingName: "Flat 221B", City: "London", State: "LN", Country: "UK", Pincode: "NW16XE"}
	leeds := london
	leeds.City = "Leeds"

	target, err := env.addresses.CreateAddress(ctx, leeds)
	require.NoError(t, err)

	in := newUserDTO("grace@example.com")
	in.Address = &london
	user, err := env.users.Register(ctx, in)
	require.NoError(t, err)

	merged, err := env.addresses.UpdateAddress(ctx, user.Address.AddressID, leeds)
	require.NoError(t, err)
	assert.Equal(t, target.AddressID, merged.AddressID)

	_, err = env.addresses.GetAddress(ctx, user.Address.AddressID)
	assert.ErrorIs(t, err, apperr.NotFoundIn("Address"))

	u, err := env.q.GetUserByID(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, u.Addresses, 1)
	assert.Equal(t, target.AddressID, u.Addresses[0].ID)
}
