package cache

import (
	"context"
	"errors"

	"github.com/01moynul/storefront-golang/internal/models"
)

// CachedCart is a rendered cart plus the email of the user who owns it.
type CachedCart struct {
	Email string         `json:"email"`
	Cart  models.CartDTO `json:"cart"`
}

type CartCache interface {
	Get(ctx context.Context, cartID int64) (*CachedCart, error)
	Set(ctx context.Context, cartID int64, cart *CachedCart) error
	Delete(ctx context.Context, cartID int64) error
}

var ErrCacheMiss = errors.New("cache miss")

// NopCache always misses. Used when no Redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, int64) (*CachedCart, error) { return nil, ErrCacheMiss }

func (NopCache) Set(context.Context, int64, *CachedCart) error { return nil }

func (NopCache) Delete(context.Context, int64) error { return nil }
