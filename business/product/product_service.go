package product

import (
	"context"
	"errors"
	"fmt"
	"smartShop/domain"
	"smartShop/pkg/logger"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

type productService struct {
	productRepo ProductRepository
}

func NewProductService(productRepo ProductRepository) *productService {
	return &productService{
		productRepo: productRepo,
	}
}

func (s *productService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all products")
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("failed to find all products", "error", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		logger.Error("invalid product id")
		return nil, errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get product by id")
		return nil, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", "error", err)
		return nil, err
	}

	return &product, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	// Validation
	if product.Name == "" {
		logger.Error("invalid product data: product name is required")
		return nil, errors.New("product name is required")
	}

	if product.Category == "" {
		logger.Error("invalid product data: product category is required")
		return nil, errors.New("product category is required")
	}

	if product.Price <= 0 {
		logger.Error("invalid product data: price must be greater than 0")
		return nil, errors.New("price must be greater than 0")
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create new product", "error", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info("product created successfully", "product_id", product.ID)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if product.ID == "" {
		logger.Error("invalid product data: ID is required")
		return nil, errors.New("product ID is required")
	}

	if product.Name == "" {
		logger.Error("invalid product data: product name is required")
		return nil, errors.New("product name is required")
	}

	if product.Price <= 0 {
		logger.Error("invalid product data: price must be greater than 0")
		return nil, errors.New("price must be greater than 0")
	}

	// Verify product exists
	_, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("product not found", "error", err)
		return nil, errors.New("product not found")
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		logger.Error("failed to update product", "error", err)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	updatedProduct, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("failed to fetch updated product", "error", err)
		return nil, fmt.Errorf("failed to fetch updated product: %w", err)
	}

	logger.Info("product updated successfully", "product_id", product.ID)

	return &updatedProduct, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		logger.Error("invalid product id when deleting product")
		return errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting product")
		return fmt.Errorf("context error: %w", err)
	}

	// Verify product exists
	_, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("product not found", "error", err)
		return errors.New("product not found")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete product", "error", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	logger.Info("product deleted successfully", "product_id", id)

	return nil
}
