package category

import (
	"context"
	"fmt"
	"smartShop/domain"
	"smartShop/pkg/logger"
)

// CategoryRepository contract interface. Categories live on the products
// table; there is no separate categories entity.
type CategoryRepository interface {
	DistinctCategories(ctx context.Context) ([]string, error)
	FindByCategories(ctx context.Context, categories []string, excludeIDs []string, limit int) ([]domain.Product, error)
}

type categoryService struct {
	categoryRepo CategoryRepository
}

func NewCategoryService(categoryRepo CategoryRepository) *categoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
	}
}

func (s *categoryService) GetAllCategories(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all categories")
		return nil, fmt.Errorf("context error: %w", err)
	}

	categories, err := s.categoryRepo.DistinctCategories(ctx)
	if err != nil {
		logger.Error("failed to list categories", "error", err)
		return nil, err
	}

	return categories, nil
}

// GetProductsByCategory lists catalog entries for one storefront filter.
func (s *categoryService) GetProductsByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get products by category")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}

	products, err := s.categoryRepo.FindByCategories(ctx, []string{category}, nil, limit)
	if err != nil {
		logger.Error("failed to find products by category", "category", category, "error", err)
		return nil, err
	}

	return products, nil
}
