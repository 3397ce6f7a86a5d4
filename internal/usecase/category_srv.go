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

const categoryListKey = "categories:active"

type CategoryService interface {
	GetAll(ctx context.Context) ([]response.CategoryResponse, error)
	GetBySlug(ctx context.Context, slug string) (*response.CategoryResponse, error)

	// Admin management.
	Create(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error)
	Update(ctx context.Context, categoryID string, req *request.CategoryRequest) (*response.CategoryResponse, error)
	Deactivate(ctx context.Context, categoryID string) error
}

type categoryService struct {
	repo  *repository.Repository
	cache *cache.Cache
	log   *zap.Logger
}

func NewCategoryService(repo *repository.Repository, c *cache.Cache, log *zap.Logger) CategoryService {
	return &categoryService{
		repo:  repo,
		cache: c,
		log:   log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) GetAll(ctx context.Context) ([]response.CategoryResponse, error) {
	var cached []response.CategoryResponse
	if s.cache.Get(ctx, categoryListKey, &cached) {
		return cached, nil
	}

	categories, err := s.repo.Category.FindAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	items := make([]response.CategoryResponse, len(categories))
	for i, c := range categories {
		items[i] = response.CategoryToResponse(c)
	}

	s.cache.Set(ctx, categoryListKey, items)
	return items, nil
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*response.CategoryResponse, error) {
	category, err := s.repo.Category.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find category %s: %w", slug, err)
	}
	if category == nil || !category.IsActive {
		return nil, fmt.Errorf("category %s: %w", slug, ErrNotFound)
	}

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) Create(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	existing, err := s.repo.Category.FindBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("find category %s: %w", req.Slug, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("category slug %s already exists: %w", req.Slug, ErrValidation)
	}

	category := &entity.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    true,
	}
	category.Stamp(time.Now())
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.repo.Category.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category %s: %w", req.Slug, err)
	}

	s.cache.Invalidate(ctx, categoryListKey)
	s.log.Info("Category created", zap.String("slug", category.Slug))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) Update(ctx context.Context, categoryID string, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	id, err := uuid.Parse(categoryID)
	if err != nil {
		return nil, fmt.Errorf("category ID %s: %w", categoryID, ErrValidation)
	}

	category, err := s.repo.Category.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category %s: %w", categoryID, err)
	}
	if category == nil {
		return nil, fmt.Errorf("category %s: %w", categoryID, ErrNotFound)
	}

	category.Name = req.Name
	category.Slug = req.Slug
	category.Description = req.Description
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedAt = time.Now()

	if err := s.repo.Category.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category %s: %w", categoryID, err)
	}

	s.cache.Invalidate(ctx, categoryListKey)

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) Deactivate(ctx context.Context, categoryID string) error {
	id, err := uuid.Parse(categoryID)
	if err != nil {
		return fmt.Errorf("category ID %s: %w", categoryID, ErrValidation)
	}

	category, err := s.repo.Category.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find category %s: %w", categoryID, err)
	}
	if category == nil {
		return fmt.Errorf("category %s: %w", categoryID, ErrNotFound)
	}

	if err := s.repo.Category.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("deactivate category %s: %w", categoryID, err)
	}

	s.cache.Invalidate(ctx, categoryListKey)
	return nil
}
