package usecase

import (
	"context"
	"fmt"
	"time"

	"glam-commerce/internal/data/entity"
	"glam-commerce/internal/data/repository"
	"glam-commerce/internal/dto/request"
	"glam-commerce/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) ([]response.CartItemResponse, error)
	// Add upserts the line; adding an existing (product, variant) pair
	// increments its quantity.
	Add(ctx context.Context, userID uuid.UUID, req *request.AddCartItemRequest) ([]response.CartItemResponse, error)
	Remove(ctx context.Context, userID uuid.UUID, itemID string) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCartService(repo *repository.Repository, log *zap.Logger) CartService {
	return &cartService{
		repo: repo,
		log:  log.With(zap.String("service", "cart")),
	}
}

func (s *cartService) Get(ctx context.Context, userID uuid.UUID) ([]response.CartItemResponse, error) {
	items, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	resp := make([]response.CartItemResponse, len(items))
	for i, item := range items {
		resp[i] = response.CartItemToResponse(item)
	}
	return resp, nil
}

func (s *cartService) Add(ctx context.Context, userID uuid.UUID, req *request.AddCartItemRequest) ([]response.CartItemResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product ID %s: %w", req.ProductID, ErrValidation)
	}

	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", req.ProductID, err)
	}
	if product == nil || !product.IsActive {
		return nil, fmt.Errorf("product %s: %w", req.ProductID, ErrNotFound)
	}

	var variantID *uuid.UUID
	if req.VariantID != "" {
		vid, err := uuid.Parse(req.VariantID)
		if err != nil {
			return nil, fmt.Errorf("variant ID %s: %w", req.VariantID, ErrValidation)
		}
		if product.VariantByID(vid) == nil {
			return nil, fmt.Errorf("variant %s of product %s: %w", req.VariantID, product.Name, ErrNotFound)
		}
		variantID = &vid
	} else if product.HasVariants {
		return nil, fmt.Errorf("product %s requires a variant: %w", product.Name, ErrValidation)
	}

	item := &entity.CartItem{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  req.Quantity,
	}
	item.Stamp(time.Now())

	if err := s.repo.Cart.Upsert(ctx, item); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	return s.Get(ctx, userID)
}

func (s *cartService) Remove(ctx context.Context, userID uuid.UUID, itemID string) error {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return fmt.Errorf("cart item ID %s: %w", itemID, ErrValidation)
	}

	if err := s.repo.Cart.Remove(ctx, userID, id); err != nil {
		return fmt.Errorf("remove cart item %s: %w", itemID, err)
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Cart.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
