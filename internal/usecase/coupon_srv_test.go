package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"glam-commerce/internal/data/entity"
	"glam-commerce/internal/data/repository"
	"glam-commerce/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func activeCoupon() *entity.Coupon {
	c := &entity.Coupon{
		Code:           "GLAM10",
		DiscountType:   entity.DiscountTypePercentage,
		DiscountValue:  10,
		MinOrderAmount: 500000,
		StartDate:      time.Now().Add(-24 * time.Hour),
		EndDate:        time.Now().Add(24 * time.Hour),
		IsActive:       true,
	}
	c.ID = uuid.New()
	return c
}

func couponServiceWith(coupon *entity.Coupon) (CouponService, *fakeCouponRepo) {
	repo := &fakeCouponRepo{
		findByCode: func(ctx context.Context, code string) (*entity.Coupon, error) {
			if coupon != nil && code == coupon.Code {
				return coupon, nil
			}
			return nil, nil
		},
	}
	return NewCouponService(&repository.Repository{Coupon: repo}, zap.NewNop()), repo
}

func TestCouponRedeemPercentage(t *testing.T) {
	svc, _ := couponServiceWith(activeCoupon())

	coupon, discount, err := svc.Redeem(context.Background(), "GLAM10", 1000000, nil)
	require.NoError(t, err)
	assert.Equal(t, "GLAM10", coupon.Code)
	assert.Equal(t, int64(100000), discount)
}

func TestCouponRedeemBelowMinimum(t *testing.T) {
	svc, _ := couponServiceWith(activeCoupon())

	// One kobo below the floor is rejected; the floor itself is accepted.
	_, _, err := svc.Redeem(context.Background(), "GLAM10", 499999, nil)
	assert.ErrorIs(t, err, ErrCouponInvalid)

	_, discount, err := svc.Redeem(context.Background(), "GLAM10", 500000, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), discount)
}

func TestCouponRedeemCapped(t *testing.T) {
	coupon := activeCoupon()
	coupon.DiscountValue = 50
	coupon.MaxDiscount = 200000
	svc, _ := couponServiceWith(coupon)

	// 50% of 10,000.00 NGN would be 5,000.00; the cap holds it at 2,000.00.
	_, discount, err := svc.Redeem(context.Background(), "GLAM10", 1000000, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), discount)
}

func TestCouponRedeemFixedNeverExceedsOrder(t *testing.T) {
	coupon := activeCoupon()
	coupon.DiscountType = entity.DiscountTypeFixed
	coupon.DiscountValue = 800000
	coupon.MinOrderAmount = 0
	svc, _ := couponServiceWith(coupon)

	_, discount, err := svc.Redeem(context.Background(), "GLAM10", 600000, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(600000), discount)
}

func TestCouponRedeemExpired(t *testing.T) {
	coupon := activeCoupon()
	coupon.EndDate = time.Now().Add(-time.Hour)
	svc, _ := couponServiceWith(coupon)

	_, _, err := svc.Redeem(context.Background(), "GLAM10", 1000000, nil)
	assert.ErrorIs(t, err, ErrCouponInvalid)
}

func TestCouponRedeemUsageLimit(t *testing.T) {
	coupon := activeCoupon()
	coupon.UsageLimit = 5
	coupon.UsedCount = 5
	svc, _ := couponServiceWith(coupon)

	_, _, err := svc.Redeem(context.Background(), "GLAM10", 1000000, nil)
	assert.ErrorIs(t, err, ErrCouponInvalid)
}

func TestCouponRedeemPerUserLimit(t *testing.T) {
	coupon := activeCoupon()
	coupon.PerUserLimit = 1
	svc, repo := couponServiceWith(coupon)
	repo.countUsageByUser = func(ctx context.Context, couponID, userID uuid.UUID) (int64, error) {
		return 1, nil
	}

	userID := uuid.New()
	_, _, err := svc.Redeem(context.Background(), "GLAM10", 1000000, &userID)
	assert.ErrorIs(t, err, ErrCouponInvalid)

	// Anonymous callers are not held to the per-user limit.
	_, _, err = svc.Redeem(context.Background(), "GLAM10", 1000000, nil)
	assert.NoError(t, err)
}

func TestCouponCheckReportsReason(t *testing.T) {
	svc, _ := couponServiceWith(nil)

	result, err := svc.Check(context.Background(), &request.ValidateCouponRequest{
		Code:        "NOPE",
		OrderAmount: 1000000,
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Reason)
}

func TestCouponCodeNormalized(t *testing.T) {
	svc, _ := couponServiceWith(activeCoupon())

	_, discount, err := svc.Redeem(context.Background(), "  glam10 ", 1000000, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), discount)
}

func TestCouponCheckReasonNamesTheRule(t *testing.T) {
	coupon := activeCoupon()
	coupon.EndDate = time.Now().Add(-time.Hour)
	svc, _ := couponServiceWith(coupon)

	result, err := svc.Check(context.Background(), &request.ValidateCouponRequest{
		Code:        "GLAM10",
		OrderAmount: 1000000,
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "expired", result.Reason)
}

func TestCouponErrorMatchesSentinelWhenWrapped(t *testing.T) {
	err := fmt.Errorf("create order: %w", &CouponError{Code: "GLAM10", Reason: "expired"})
	assert.ErrorIs(t, err, ErrCouponInvalid)
	assert.Equal(t, "expired", couponReason(err))
}
