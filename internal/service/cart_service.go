package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/cache"
	"github.com/01moynul/storefront-golang/internal/mapper"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/repository"
	"golang.org/x/sync/singleflight"
)

// CartService owns cart and cart item lifecycle. It is the only writer of
// product stock while a cart is being edited.
type CartService struct {
	store *repository.Store
	cache cache.CartCache
	sfg   singleflight.Group // collapses concurrent misses on one cart

	mu   sync.Mutex
	gens map[int64]uint64 // bumped on every invalidation
}

func NewCartService(store *repository.Store, c cache.CartCache) *CartService {
	if c == nil {
		c = cache.NopCache{}
	}
	return &CartService{store: store, cache: c, gens: make(map[int64]uint64)}
}

// AddProductToCart reserves quantity units of a product in the user's cart,
// creating the cart on first use. Adding a product already in the cart merges
// into the existing line.
func (s *CartService) AddProductToCart(ctx context.Context, email string, productID int64, quantity int) (*models.CartDTO, error) {
	if quantity <= 0 {
		return nil, apperr.Invalid("quantity must be positive")
	}

	var dto models.CartDTO
	var cartID int64
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		// 1. Resolve the user and their cart
		user, err := q.GetUserByEmail(ctx, email)
		if err != nil {
			return notFound(err, "User", "email", email)
		}

		cart, err := q.GetCartByUserID(ctx, user.ID)
		if errors.Is(err, repository.ErrNotFound) {
			cart = &models.Cart{UserID: user.ID, TotalPrice: 0}
			err = q.CreateCart(ctx, cart)
		}
		if err != nil {
			return err
		}
		cartID = cart.ID

		// 2. Resolve the product
		product, err := q.GetProduct(ctx, productID)
		if err != nil {
			return notFound(err, "Product", "productId", productID)
		}

		// 3. Merge or insert the line. Stock is checked against the quantity
		// being added, not the merged total.
		if product.Quantity < quantity {
			return apperr.Rule(apperr.CodeInsufficientStock, "Not enough stock for %s", product.Name)
		}

		item, err := q.GetCartItem(ctx, cart.ID, productID)
		switch {
		case err == nil:
			item.Quantity += quantity
			item.ProductPrice = product.SpecialPrice
			if err := q.UpdateCartItem(ctx, item); err != nil {
				return err
			}
		case errors.Is(err, repository.ErrNotFound):
			newItem := mapper.ToCartItemFromProduct(cart.ID, *product, quantity)
			if err := q.CreateCartItem(ctx, &newItem); err != nil {
				return err
			}
		default:
			return err
		}

		// 4. Reserve stock
		if err := q.AdjustProductQuantity(ctx, productID, -quantity); err != nil {
			return err
		}

		// 5. Recompute the total from the snapshot prices
		cart, err = q.GetCart(ctx, cart.ID)
		if err != nil {
			return err
		}
		cart.TotalPrice = cart.ComputeTotal()
		if err := q.UpdateCartTotal(ctx, cart.ID, cart.TotalPrice); err != nil {
			return err
		}

		dto = mapper.ToCartDTO(*cart)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(cartID)
	return &dto, nil
}

// GetAllCarts lists every cart.
func (s *CartService) GetAllCarts(ctx context.Context) ([]models.CartDTO, error) {
	var carts []models.Cart
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		var err error
		carts, err = q.ListCarts(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(carts) == 0 {
		return nil, apperr.Rule(apperr.CodeEmpty, "No cart exists")
	}
	return mapper.MapSlice(carts, mapper.ToCartDTO), nil
}

// GetCart returns the cart only when it belongs to email. Reads go through
// the cart cache.
func (s *CartService) GetCart(ctx context.Context, email string, cartID int64) (*models.CartDTO, error) {
	key := fmt.Sprintf("%d:%s", cartID, email)
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		gen := s.generation(cartID)
		cached, err := s.cache.Get(ctx, cartID)
		if err == nil && cached.Email == email {
			return &cached.Cart, nil
		}
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // fall through to the store
		}

		var dto models.CartDTO
		err = s.store.WithTx(ctx, func(q *repository.Queries) error {
			cart, err := q.GetCartByEmailAndID(ctx, email, cartID)
			if err != nil {
				return notFound(err, "Cart", "cartId", cartID)
			}
			dto = mapper.ToCartDTO(*cart)
			return nil
		})
		if err != nil {
			return nil, err
		}

		// A write that committed after our read has already invalidated;
		// caching now would bring the old cart back.
		if s.generation(cartID) == gen {
			if err := s.cache.Set(ctx, cartID, &cache.CachedCart{Email: email, Cart: dto}); err != nil {
				log.Printf("cache set error: %v", err)
			}
		}
		return &dto, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.CartDTO), nil
}

// UpdateProductQuantityInCart sets the quantity of a line that is already in
// the cart. Stock ends up reflecting only the new quantity and the total is
// adjusted at the line's existing price snapshot.
func (s *CartService) UpdateProductQuantityInCart(ctx context.Context, cartID, productID int64, quantity int) (*models.CartDTO, error) {
	if quantity <= 0 {
		return nil, apperr.Invalid("quantity must be positive")
	}

	var dto models.CartDTO
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		cart, err := q.GetCart(ctx, cartID)
		if err != nil {
			return notFound(err, "Cart", "cartId", cartID)
		}
		product, err := q.GetProduct(ctx, productID)
		if err != nil {
			return notFound(err, "Product", "productId", productID)
		}

		if product.Quantity == 0 {
			return apperr.Rule(apperr.CodeUnavailable, "%s is not available", product.Name)
		}
		if product.Quantity < quantity {
			return apperr.Rule(apperr.CodeInsufficientStock,
				"Please, make an order of the %s less than or equal to the quantity %d.", product.Name, product.Quantity)
		}

		item, err := q.GetCartItem(ctx, cartID, productID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Rule(apperr.CodeNotInCart, "Product %s not available in the cart!!!", product.Name)
		}
		if err != nil {
			return err
		}

		// Give the old quantity back and take the new one.
		oldQuantity := item.Quantity
		if oldQuantity != quantity {
			if err := q.AdjustProductQuantity(ctx, productID, oldQuantity-quantity); err != nil {
				return err
			}
		}

		total := cart.TotalPrice - item.ProductPrice*float64(oldQuantity)
		item.Quantity = quantity
		total += item.ProductPrice * float64(quantity)

		if err := q.UpdateCartItem(ctx, item); err != nil {
			return err
		}
		if err := q.UpdateCartTotal(ctx, cartID, total); err != nil {
			return err
		}

		cart, err = q.GetCart(ctx, cartID)
		if err != nil {
			return err
		}
		dto = mapper.ToCartDTO(*cart)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(cartID)
	return &dto, nil
}

// UpdateProductInCarts refreshes one line's price snapshot after a catalog
// price change and moves the cart total by the difference.
func (s *CartService) UpdateProductInCarts(ctx context.Context, cartID, productID int64) error {
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		return s.updateProductInCart(ctx, q, cartID, productID)
	})
	if err != nil {
		return err
	}
	s.invalidate(cartID)
	return nil
}

func (s *CartService) updateProductInCart(ctx context.Context, q *repository.Queries, cartID, productID int64) error {
	cart, err := q.GetCart(ctx, cartID)
	if err != nil {
		return notFound(err, "Cart", "cartId", cartID)
	}
	product, err := q.GetProduct(ctx, productID)
	if err != nil {
		return notFound(err, "Product", "productId", productID)
	}

	item, err := q.GetCartItem(ctx, cartID, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Rule(apperr.CodeNotInCart, "Product %s not available in the cart!!!", product.Name)
	}
	if err != nil {
		return err
	}

	total := cart.TotalPrice - item.Subtotal()
	item.ProductPrice = product.SpecialPrice
	total += item.Subtotal()

	if err := q.UpdateCartItem(ctx, item); err != nil {
		return err
	}
	return q.UpdateCartTotal(ctx, cartID, total)
}

// DeleteProductFromCart removes a line and returns its quantity to stock.
func (s *CartService) DeleteProductFromCart(ctx context.Context, cartID, productID int64) (string, error) {
	var msg string
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		var err error
		msg, err = s.deleteProductFromCart(ctx, q, cartID, productID)
		return err
	})
	if err != nil {
		return "", err
	}
	s.invalidate(cartID)
	return msg, nil
}

func (s *CartService) deleteProductFromCart(ctx context.Context, q *repository.Queries, cartID, productID int64) (string, error) {
	cart, err := q.GetCart(ctx, cartID)
	if err != nil {
		return "", notFound(err, "Cart", "cartId", cartID)
	}
	item, err := q.GetCartItem(ctx, cartID, productID)
	if err != nil {
		return "", notFound(err, "CartItem", "productId", productID)
	}

	if err := q.AdjustProductQuantity(ctx, productID, item.Quantity); err != nil {
		return "", err
	}
	if err := q.UpdateCartTotal(ctx, cartID, cart.TotalPrice-item.Subtotal()); err != nil {
		return "", err
	}
	if err := q.DeleteCartItem(ctx, cartID, productID); err != nil {
		return "", err
	}

	return fmt.Sprintf("Product %s removed from the cart !!!", item.Product.Name), nil
}

// invalidate drops cached carts after a committed change. Cache failures are
// logged only; the store stays the source of truth.
func (s *CartService) invalidate(cartIDs ...int64) {
	s.mu.Lock()
	for _, id := range cartIDs {
		s.gens[id]++
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for _, id := range cartIDs {
		if err := s.cache.Delete(ctx, id); err != nil {
			log.Printf("cache invalidate error: %v", err)
		}
	}
}

func (s *CartService) generation(cartID int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[cartID]
}
