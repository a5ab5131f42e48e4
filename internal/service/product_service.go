package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/mapper"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/repository"
)

const defaultProductSort = "productId"

// ProductService manages the catalog. Price changes are pushed into the
// carts that hold the product.
type ProductService struct {
	store *repository.Store
	carts *CartService
}

func NewProductService(store *repository.Store, carts *CartService) *ProductService {
	return &ProductService{store: store, carts: carts}
}

// AddProduct creates a product in a category. Names are unique per category.
func (s *ProductService) AddProduct(ctx context.Context, categoryID int64, in models.ProductDTO) (*models.ProductDTO, error) {
	var dto models.ProductDTO
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		if _, err := q.GetCategory(ctx, categoryID); err != nil {
			return notFound(err, "Category", "categoryId", categoryID)
		}

		_, err := q.FindProductInCategory(ctx, categoryID, in.ProductName)
		if err == nil {
			return apperr.Conflict("Product already exists !!!")
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		p := mapper.ToProduct(in)
		p.ID = 0
		p.CategoryID = categoryID
		p.Image = models.DefaultProductImage
		p.RecomputeSpecialPrice()
		if err := q.CreateProduct(ctx, &p); err != nil {
			return err
		}
		dto = mapper.ToProductDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (s *ProductService) GetAllProducts(ctx context.Context, page PageRequest) (*models.ProductResponse, error) {
	return s.list(ctx, repository.ProductFilter{}, page)
}

func (s *ProductService) SearchByCategory(ctx context.Context, categoryID int64, page PageRequest) (*models.ProductResponse, error) {
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		_, err := q.GetCategory(ctx, categoryID)
		return notFound(err, "Category", "categoryId", categoryID)
	})
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repository.ProductFilter{CategoryID: categoryID}, page)
}

// SearchByKeyword matches product names case-insensitively.
func (s *ProductService) SearchByKeyword(ctx context.Context, keyword string, page PageRequest) (*models.ProductResponse, error) {
	if keyword == "" {
		return nil, apperr.Invalid("keyword must not be empty")
	}
	return s.list(ctx, repository.ProductFilter{Keyword: keyword}, page)
}

func (s *ProductService) list(ctx context.Context, f repository.ProductFilter, page PageRequest) (*models.ProductResponse, error) {
	pq, err := page.query(defaultProductSort)
	if err != nil {
		return nil, err
	}

	var (
		products []models.Product
		total    int64
	)
	err = s.store.WithTx(ctx, func(q *repository.Queries) error {
		var err error
		products, total, err = q.ListProducts(ctx, f, pq)
		return sortError(err)
	})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apperr.Rule(apperr.CodeEmpty, "No products found")
	}

	resp := newPage(mapper.MapSlice(products, mapper.ToProductDTO), page, total)
	return &resp, nil
}

// UpdateProduct overwrites the editable fields, recomputes the special price
// and refreshes the price snapshot in every cart holding the product.
func (s *ProductService) UpdateProduct(ctx context.Context, productID int64, in models.ProductDTO) (*models.ProductDTO, error) {
	var (
		dto     models.ProductDTO
		cartIDs []int64
	)
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		p, err := q.GetProduct(ctx, productID)
		if err != nil {
			return notFound(err, "Product", "productId", productID)
		}

		p.Name = in.ProductName
		p.Description = in.Description
		p.Quantity = in.Quantity
		p.Price = in.Price
		p.Discount = in.Discount
		p.RecomputeSpecialPrice()
		if err := q.UpdateProduct(ctx, p); err != nil {
			return err
		}

		cartIDs, err = q.ListCartIDsWithProduct(ctx, productID)
		if err != nil {
			return err
		}
		for _, cartID := range cartIDs {
			if err := s.carts.updateProductInCart(ctx, q, cartID, productID); err != nil {
				return err
			}
		}

		dto = mapper.ToProductDTO(*p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.carts.invalidate(cartIDs...)
	return &dto, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID int64) (string, error) {
	var cartIDs []int64
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		var err error
		cartIDs, err = s.deleteProduct(ctx, q, productID)
		return err
	})
	if err != nil {
		return "", err
	}

	s.carts.invalidate(cartIDs...)
	return fmt.Sprintf("Product with productId: %d deleted successfully !!!", productID), nil
}

// deleteProduct pulls the product out of every cart, then deletes it. It
// returns the carts that changed.
func (s *ProductService) deleteProduct(ctx context.Context, q *repository.Queries, productID int64) ([]int64, error) {
	if _, err := q.GetProduct(ctx, productID); err != nil {
		return nil, notFound(err, "Product", "productId", productID)
	}

	cartIDs, err := q.ListCartIDsWithProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, cartID := range cartIDs {
		if _, err := s.carts.deleteProductFromCart(ctx, q, cartID, productID); err != nil {
			return nil, err
		}
	}

	if err := q.DeleteProduct(ctx, productID); err != nil {
		return nil, err
	}
	return cartIDs, nil
}
