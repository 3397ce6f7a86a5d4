package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"glam-commerce/internal/data/entity"
	"glam-commerce/internal/data/repository"
	"glam-commerce/internal/dto/request"
	"glam-commerce/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CouponService interface {
	// Check answers the public "is this code worth anything for this cart"
	// question. An unusable coupon is a valid=false response, not an error.
	Check(ctx context.Context, req *request.ValidateCouponRequest, userID *uuid.UUID) (*response.CouponValidationResponse, error)

	// Redeem validates the code against the full rule set and returns the
	// coupon plus the discount it grants. Used inside order creation; the
	// usage row is only recorded after the order is durably created.
	Redeem(ctx context.Context, code string, orderAmount int64, userID *uuid.UUID) (*entity.Coupon, int64, error)

	// Admin management.
	Create(ctx context.Context, req *request.CouponRequest) (*response.CouponResponse, error)
	Update(ctx context.Context, couponID string, req *request.CouponRequest) (*response.CouponResponse, error)
	Deactivate(ctx context.Context, couponID string) error
	List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CouponResponse], error)
}

type couponService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCouponService(repo *repository.Repository, log *zap.Logger) CouponService {
	return &couponService{
		repo: repo,
		log:  log.With(zap.String("service", "coupon")),
	}
}

func (s *couponService) Check(ctx context.Context, req *request.ValidateCouponRequest, userID *uuid.UUID) (*response.CouponValidationResponse, error) {
	_, discount, err := s.Redeem(ctx, req.Code, req.OrderAmount, userID)
	if err != nil {
		if errors.Is(err, ErrCouponInvalid) {
			return &response.CouponValidationResponse{Valid: false, Reason: couponReason(err)}, nil
		}
		return nil, err
	}

	return &response.CouponValidationResponse{Valid: true, DiscountAmount: discount}, nil
}

func (s *couponService) Redeem(ctx context.Context, code string, orderAmount int64, userID *uuid.UUID) (*entity.Coupon, int64, error) {
	coupon, err := s.repo.Coupon.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, 0, fmt.Errorf("find coupon %s: %w", code, err)
	}
	if coupon == nil || !coupon.IsActive {
		return nil, 0, &CouponError{Code: code, Reason: "unknown code"}
	}

	now := time.Now()
	if now.Before(coupon.StartDate) {
		return nil, 0, &CouponError{Code: code, Reason: "not started"}
	}
	if now.After(coupon.EndDate) {
		return nil, 0, &CouponError{Code: code, Reason: "expired"}
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return nil, 0, &CouponError{Code: code, Reason: "usage limit reached"}
	}
	if orderAmount < coupon.MinOrderAmount {
		return nil, 0, &CouponError{Code: code, Reason: "order below minimum"}
	}

	if coupon.PerUserLimit > 0 && userID != nil {
		used, err := s.repo.Coupon.CountUsageByUser(ctx, coupon.ID, *userID)
		if err != nil {
			return nil, 0, fmt.Errorf("count coupon usage %s: %w", code, err)
		}
		if used >= coupon.PerUserLimit {
			return nil, 0, &CouponError{Code: code, Reason: "per-user limit reached"}
		}
	}

	discount := coupon.CalculateDiscount(orderAmount)
	if discount <= 0 {
		return nil, 0, &CouponError{Code: code, Reason: "no discount for this amount"}
	}

	return coupon, discount, nil
}

func (s *couponService) Create(ctx context.Context, req *request.CouponRequest) (*response.CouponResponse, error) {
	coupon, err := couponFromRequest(req)
	if err != nil {
		return nil, err
	}
	coupon.Stamp(time.Now())

	existing, err := s.repo.Coupon.FindByCode(ctx, coupon.Code)
	if err != nil {
		return nil, fmt.Errorf("find coupon %s: %w", coupon.Code, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("coupon code %s already exists: %w", coupon.Code, ErrValidation)
	}

	if err := s.repo.Coupon.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("create coupon %s: %w", coupon.Code, err)
	}

	s.log.Info("Coupon created", zap.String("code", coupon.Code))
	resp := response.CouponToResponse(coupon)
	return &resp, nil
}

func (s *couponService) Update(ctx context.Context, couponID string, req *request.CouponRequest) (*response.CouponResponse, error) {
	id, err := uuid.Parse(couponID)
	if err != nil {
		return nil, fmt.Errorf("coupon ID %s: %w", couponID, ErrValidation)
	}

	existing, err := s.repo.Coupon.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find coupon %s: %w", couponID, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("coupon %s: %w", couponID, ErrNotFound)
	}

	coupon, err := couponFromRequest(req)
	if err != nil {
		return nil, err
	}
	coupon.ID = id
	coupon.UsedCount = existing.UsedCount
	coupon.IsActive = existing.IsActive
	coupon.CreatedAt = existing.CreatedAt
	coupon.UpdatedAt = time.Now()

	if err := s.repo.Coupon.Update(ctx, coupon); err != nil {
		return nil, fmt.Errorf("update coupon %s: %w", couponID, err)
	}

	resp := response.CouponToResponse(coupon)
	return &resp, nil
}

func (s *couponService) Deactivate(ctx context.Context, couponID string) error {
	id, err := uuid.Parse(couponID)
	if err != nil {
		return fmt.Errorf("coupon ID %s: %w", couponID, ErrValidation)
	}

	existing, err := s.repo.Coupon.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find coupon %s: %w", couponID, err)
	}
	if existing == nil {
		return fmt.Errorf("coupon %s: %w", couponID, ErrNotFound)
	}

	return s.repo.Coupon.Deactivate(ctx, id)
}

func (s *couponService) List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CouponResponse], error) {
	coupons, err := s.repo.Coupon.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	total, err := s.repo.Coupon.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count coupons: %w", err)
	}

	items := make([]response.CouponResponse, len(coupons))
	for i, c := range coupons {
		items[i] = response.CouponToResponse(c)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func couponFromRequest(req *request.CouponRequest) (*entity.Coupon, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start date %s: %w", req.StartDate, ErrValidation)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end date %s: %w", req.EndDate, ErrValidation)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("end date before start date: %w", ErrValidation)
	}

	return &entity.Coupon{
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:   entity.DiscountType(req.DiscountType),
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxDiscount:    req.MaxDiscount,
		StartDate:      start,
		EndDate:        end.Add(24*time.Hour - time.Second), // inclusive end day
		UsageLimit:     req.UsageLimit,
		PerUserLimit:   req.PerUserLimit,
		IsActive:       true,
	}, nil
}

// couponReason surfaces the customer-facing reason from a coupon
// rejection.
func couponReason(err error) string {
	var ce *CouponError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return ErrCouponInvalid.Error()
}
