package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/01moynul/storefront-golang/internal/cache"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/events"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/repository"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	m       sync.Mutex
	carts   map[int64]*cache.CachedCart
	gets    int
	hits    int
	deleted []int64
	onGet   func() // runs after Get, outside the lock
}

func newMockCache() *mockCache {
	return &mockCache{carts: make(map[int64]*cache.CachedCart)}
}

func (m *mockCache) Get(_ context.Context, cartID int64) (*cache.CachedCart, error) {
	m.m.Lock()
	m.gets++
	c, ok := m.carts[cartID]
	if ok {
		m.hits++
	}
	hook := m.onGet
	m.m.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return c, nil
}

func (m *mockCache) Set(_ context.Context, cartID int64, c *cache.CachedCart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.carts[cartID] = c
	return nil
}

func (m *mockCache) Delete(_ context.Context, cartID int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, cartID)
	m.deleted = append(m.deleted, cartID)
	return nil
}

func (m *mockCache) has(cartID int64) bool {
	m.m.Lock()
	defer m.m.Unlock()
	_, ok := m.carts[cartID]
	return ok
}

type mockPublisher struct {
	m       sync.Mutex
	placed  []events.OrderPlaced
	changed []events.OrderStatusChanged
	err     error
}

func (p *mockPublisher) PublishOrderPlaced(_ context.Context, ev events.OrderPlaced) error {
	p.m.Lock()
	defer p.m.Unlock()
	p.placed = append(p.placed, ev)
	return p.err
}

func (p *mockPublisher) PublishOrderStatusChanged(_ context.Context, ev events.OrderStatusChanged) error {
	p.m.Lock()
	defer p.m.Unlock()
	p.changed = append(p.changed, ev)
	return p.err
}

type testEnv struct {
	q          *repository.Queries
	cache      *mockCache
	publisher  *mockPublisher
	carts      *CartService
	orders     *OrderService
	users      *UserService
	products   *ProductService
	categories *CategoryService
	addresses  *AddressService
}

func setupEnv(t *testing.T) *testEnv {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, database.SQLite))

	store := repository.NewStore(db)
	t.Cleanup(func() { store.Close() })

	env := &testEnv{
		q:         repository.New(db),
		cache:     newMockCache(),
		publisher: &mockPublisher{},
	}
	env.carts = NewCartService(store, env.cache)
	env.orders = NewOrderService(store, env.carts, env.publisher)
	env.users = NewUserService(store, env.carts)
	env.products = NewProductService(store, env.carts)
	env.categories = NewCategoryService(store, env.products)
	env.addresses = NewAddressService(store)
	return env
}

func (e *testEnv) seedUser(t *testing.T, email string) *models.User {
	ctx := context.Background()
	u := &models.User{FirstName: "Ada", LastName: "Lovelace", MobileNumber: "0123456789", Email: email, PasswordHash: "x"}
	require.NoError(t, e.q.CreateUser(ctx, u))
	require.NoError(t, e.q.AddUserRole(ctx, u.ID, models.UserRoleID))
	return u
}

func (e *testEnv) seedProduct(t *testing.T, name string, stock int, specialPrice float64) *models.Product {
	ctx := context.Background()
	cat, err := e.q.GetCategoryByName(ctx, "Household")
	if errors.Is(err, repository.ErrNotFound) {
		cat = &models.Category{Name: "Household", Slug: "household"}
		err = e.q.CreateCategory(ctx, cat)
	}
	require.NoError(t, err)

	p := &models.Product{
		Name: name, Image: models.DefaultProductImage, Description: "test product",
		Quantity: stock, Price: specialPrice, SpecialPrice: specialPrice, CategoryID: cat.ID,
	}
	require.NoError(t, e.q.CreateProduct(ctx, p))
	return p
}

func (e *testEnv) stock(t *testing.T, productID int64) int {
	p, err := e.q.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return p.Quantity
}

func (e *testEnv) cart(t *testing.T, cartID int64) *models.Cart {
	c, err := e.q.GetCart(context.Background(), cartID)
	require.NoError(t, err)
	return c
}
