package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func percentCoupon(value, min, cap int64) *Coupon {
	return &Coupon{
		DiscountType:   DiscountTypePercentage,
		DiscountValue:  value,
		MinOrderAmount: min,
		MaxDiscount:    cap,
	}
}

func TestCalculateDiscountPercentage(t *testing.T) {
	c := percentCoupon(10, 500000, 0)

	assert.Equal(t, int64(0), c.CalculateDiscount(499999), "below minimum earns nothing")
	assert.Equal(t, int64(50000), c.CalculateDiscount(500000), "minimum boundary is inclusive")
	assert.Equal(t, int64(100000), c.CalculateDiscount(1000000))
}

func TestCalculateDiscountCap(t *testing.T) {
	c := percentCoupon(50, 0, 200000)

	assert.Equal(t, int64(200000), c.CalculateDiscount(1000000), "cap holds the 50% discount at 2000.00")
	assert.Equal(t, int64(150000), c.CalculateDiscount(300000), "under the cap the raw percentage applies")
}

func TestCalculateDiscountFixed(t *testing.T) {
	c := &Coupon{
		DiscountType:  DiscountTypeFixed,
		DiscountValue: 800000,
	}

	assert.Equal(t, int64(600000), c.CalculateDiscount(600000), "fixed discount never exceeds the order")
	assert.Equal(t, int64(800000), c.CalculateDiscount(900000))
}
