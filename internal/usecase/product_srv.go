package usecase

import (
	"context"
	"fmt"
	"time"

	"glam-commerce/internal/data/entity"
	"glam-commerce/internal/data/repository"
	"glam-commerce/internal/dto/request"
	"glam-commerce/internal/dto/response"
	"glam-commerce/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductService interface {
	GetByID(ctx context.Context, productID string) (*response.ProductResponse, error)
	List(ctx context.Context, categoryID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProductResponse], error)

	// Admin management. List with includeInactive is the admin view.
	Create(ctx context.Context, req *request.ProductRequest) (*response.ProductResponse, error)
	Update(ctx context.Context, productID string, req *request.ProductRequest) (*response.ProductResponse, error)
	Deactivate(ctx context.Context, productID string) error
}

type productService struct {
	repo  *repository.Repository
	cache *cache.Cache
	log   *zap.Logger
}

func NewProductService(repo *repository.Repository, c *cache.Cache, log *zap.Logger) ProductService {
	return &productService{
		repo:  repo,
		cache: c,
		log:   log.With(zap.String("service", "product")),
	}
}

func productKey(id uuid.UUID) string {
	return "product:" + id.String()
}

func (s *productService) GetByID(ctx context.Context, productID string) (*response.ProductResponse, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("product ID %s: %w", productID, ErrValidation)
	}

	var cached response.ProductResponse
	if s.cache.Get(ctx, productKey(id), &cached) {
		return &cached, nil
	}

	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", productID, err)
	}
	if product == nil || !product.IsActive {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}

	resp := response.ProductToResponse(product)
	s.cache.Set(ctx, productKey(id), resp)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, categoryID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProductResponse], error) {
	var catFilter *uuid.UUID
	if categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			return nil, fmt.Errorf("category ID %s: %w", categoryID, ErrValidation)
		}
		catFilter = &id
	}

	products, err := s.repo.Product.FindAll(ctx, catFilter, true, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	total, err := s.repo.Product.CountAll(ctx, catFilter, true)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	items := make([]response.ProductResponse, len(products))
	for i, p := range products {
		items[i] = response.ProductToResponse(p)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *productService) Create(ctx context.Context, req *request.ProductRequest) (*response.ProductResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("category ID %s: %w", req.CategoryID, ErrValidation)
	}

	category, err := s.repo.Category.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("find category %s: %w", req.CategoryID, err)
	}
	if category == nil {
		return nil, fmt.Errorf("category %s: %w", req.CategoryID, ErrNotFound)
	}

	product := productFromRequest(req, categoryID)
	now := time.Now()
	product.Stamp(now)
	for _, v := range product.Variants {
		v.Stamp(now)
		v.ProductID = product.ID
	}

	if err := s.repo.Product.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product %s: %w", req.Slug, err)
	}

	s.log.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug))

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) Update(ctx context.Context, productID string, req *request.ProductRequest) (*response.ProductResponse, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("product ID %s: %w", productID, ErrValidation)
	}

	existing, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", productID, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("category ID %s: %w", req.CategoryID, ErrValidation)
	}

	existing.CategoryID = categoryID
	existing.Name = req.Name
	existing.Slug = req.Slug
	existing.Description = req.Description
	existing.Price = req.Price
	existing.ComparePrice = req.ComparePrice
	existing.LowStockThreshold = req.LowStockThreshold
	if !existing.HasVariants {
		existing.Stock = req.Stock
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Product.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update product %s: %w", productID, err)
	}

	s.cache.Invalidate(ctx, productKey(id))

	resp := response.ProductToResponse(existing)
	return &resp, nil
}

func (s *productService) Deactivate(ctx context.Context, productID string) error {
	id, err := uuid.Parse(productID)
	if err != nil {
		return fmt.Errorf("product ID %s: %w", productID, ErrValidation)
	}

	existing, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find product %s: %w", productID, err)
	}
	if existing == nil {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}

	if err := s.repo.Product.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("deactivate product %s: %w", productID, err)
	}

	s.cache.Invalidate(ctx, productKey(id))
	return nil
}

func productFromRequest(req *request.ProductRequest, categoryID uuid.UUID) *entity.Product {
	product := &entity.Product{
		CategoryID:        categoryID,
		Name:              req.Name,
		Slug:              req.Slug,
		Description:       req.Description,
		Price:             req.Price,
		ComparePrice:      req.ComparePrice,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		HasVariants:       len(req.Variants) > 0,
		IsActive:          true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	for _, v := range req.Variants {
		product.Variants = append(product.Variants, &entity.ProductVariant{
			VariantType:     v.VariantType,
			Value:           v.Value,
			SKU:             v.SKU,
			Stock:           v.Stock,
			PriceAdjustment: v.PriceAdjustment,
		})
	}

	return product
}
