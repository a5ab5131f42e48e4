package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/mapper"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/repository"
	"github.com/gosimple/slug"
)

const defaultCategorySort = "categoryId"

type CategoryService struct {
	store    *repository.Store
	products *ProductService
}

func NewCategoryService(store *repository.Store, products *ProductService) *CategoryService {
	return &CategoryService{store: store, products: products}
}

func (s *CategoryService) CreateCategory(ctx context.Context, in models.CategoryDTO) (*models.CategoryDTO, error) {
	var dto models.CategoryDTO
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		_, err := q.GetCategoryByName(ctx, in.CategoryName)
		if err == nil {
			return apperr.Conflict("Category with the name '%s' already exists !!!", in.CategoryName)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		c := models.Category{Name: in.CategoryName, Slug: slug.Make(in.CategoryName)}
		if err := q.CreateCategory(ctx, &c); err != nil {
			return err
		}
		dto = mapper.ToCategoryDTO(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (s *CategoryService) GetCategories(ctx context.Context, page PageRequest) (*models.CategoryResponse, error) {
	pq, err := page.query(defaultCategorySort)
	if err != nil {
		return nil, err
	}

	var (
		categories []models.Category
		total      int64
	)
	err = s.store.WithTx(ctx, func(q *repository.Queries) error {
		var err error
		categories, total, err = q.ListCategories(ctx, pq)
		return sortError(err)
	})
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, apperr.Rule(apperr.CodeEmpty, "No category is created till now")
	}

	resp := newPage(mapper.MapSlice(categories, mapper.ToCategoryDTO), page, total)
	return &resp, nil
}

// UpdateCategory renames a category and regenerates its slug.
func (s *CategoryService) UpdateCategory(ctx context.Context, categoryID int64, in models.CategoryDTO) (*models.CategoryDTO, error) {
	var dto models.CategoryDTO
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		c, err := q.GetCategory(ctx, categoryID)
		if err != nil {
			return notFound(err, "Category", "categoryId", categoryID)
		}

		other, err := q.GetCategoryByName(ctx, in.CategoryName)
		if err == nil && other.ID != categoryID {
			return apperr.Conflict("Category with the name '%s' already exists !!!", in.CategoryName)
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		c.Name = in.CategoryName
		c.Slug = slug.Make(in.CategoryName)
		if err := q.UpdateCategory(ctx, c); err != nil {
			return err
		}
		dto = mapper.ToCategoryDTO(*c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// DeleteCategory deletes the category together with its products.
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID int64) (string, error) {
	var cartIDs []int64
	err := s.store.WithTx(ctx, func(q *repository.Queries) error {
		if _, err := q.GetCategory(ctx, categoryID); err != nil {
			return notFound(err, "Category", "categoryId", categoryID)
		}

		productIDs, err := q.ListProductIDsByCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		for _, id := range productIDs {
			changed, err := s.products.deleteProduct(ctx, q, id)
			if err != nil {
				return err
			}
			cartIDs = append(cartIDs, changed...)
		}

		return q.DeleteCategory(ctx, categoryID)
	})
	if err != nil {
		return "", err
	}

	s.products.carts.invalidate(cartIDs...)
	return fmt.Sprintf("Category with categoryId: %d deleted successfully !!!", categoryID), nil
}
