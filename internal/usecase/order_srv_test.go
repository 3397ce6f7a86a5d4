package usecase

import (
	"context"
	"testing"

	"glam-commerce/internal/data/entity"
	"glam-commerce/internal/data/repository"
	"glam-commerce/internal/dto/request"
	"glam-commerce/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		Shipping: utils.ShippingConfig{
			Zones:       map[string]int64{"calabar": 100000, "lagos": 250000},
			DefaultCost: 300000,
		},
		Booking: utils.BookingConfig{
			OpenHour:  8,
			CloseHour: 18,
			Locations: []string{"calabar", "lagos"},
		},
	}
}

// stockLedger is an in-memory stand-in for the conditional SQL decrement.
type stockLedger struct {
	levels map[uuid.UUID]int64
}

func (l *stockLedger) reserve(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, qty int64) error {
	key := productID
	if variantID != nil {
		key = *variantID
	}
	if l.levels[key] < qty {
		return repository.ErrInsufficientStock
	}
	l.levels[key] -= qty
	return nil
}

func (l *stockLedger) release(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, qty int64) error {
	key := productID
	if variantID != nil {
		key = *variantID
	}
	l.levels[key] += qty
	return nil
}

func simpleProduct(price, stock int64) *entity.Product {
	p := &entity.Product{
		Name:     "Velvet Matte Lipstick",
		Slug:     "velvet-matte",
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
	p.ID = uuid.New()
	return p
}

func orderServiceWith(products map[uuid.UUID]*entity.Product, ledger *stockLedger, orders *fakeOrderRepo, coupon *entity.Coupon) OrderService {
	productRepo := &fakeProductRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
			return products[id], nil
		},
		reserveStock: ledger.reserve,
		releaseStock: ledger.release,
	}
	couponRepo := &fakeCouponRepo{
		findByCode: func(ctx context.Context, code string) (*entity.Coupon, error) {
			if coupon != nil && code == coupon.Code {
				return coupon, nil
			}
			return nil, nil
		},
	}
	repo := &repository.Repository{
		Product: productRepo,
		Order:   orders,
		Coupon:  couponRepo,
		Counter: &fakeCounterRepo{},
	}
	return NewOrderService(repo, NewCouponService(repo, zap.NewNop()), testConfig(), nil, nil, &fakeNotifier{}, zap.NewNop())
}

func guestOrderRequest(productID uuid.UUID, qty int64) *request.CreateOrderRequest {
	return &request.CreateOrderRequest{
		Items: []request.OrderItemRequest{
			{ProductID: productID.String(), Quantity: qty},
		},
		ShippingAddress: "12 Marian Road, Calabar",
		DeliveryZone:    "calabar",
		PaymentMethod:   "gateway",
		Guest: &request.GuestInfoRequest{
			Name:  "Ada Obi",
			Email: "ada@example.com",
			Phone: "08030000000",
		},
	}
}

func TestOrderCreateComputesTotals(t *testing.T) {
	product := simpleProduct(500000, 10)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 10}}

	var created *entity.Order
	orders := &fakeOrderRepo{
		create: func(ctx context.Context, order *entity.Order) error {
			created = order
			return nil
		},
	}
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{product.ID: product}, ledger, orders, nil)

	resp, err := svc.Create(context.Background(), nil, "", guestOrderRequest(product.ID, 2))
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, int64(1000000), resp.Subtotal)
	assert.Equal(t, int64(100000), resp.ShippingCost)
	assert.Equal(t, int64(1100000), resp.Total)
	assert.Equal(t, entity.OrderStatusPendingVerification, resp.Status)
	assert.Equal(t, int64(8), ledger.levels[product.ID])
	assert.Regexp(t, `^GLM-\d{8}-\d{4}$`, resp.OrderNumber)
}

func TestOrderCreateAppliesCoupon(t *testing.T) {
	product := simpleProduct(500000, 10)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 10}}
	orders := &fakeOrderRepo{create: func(ctx context.Context, order *entity.Order) error { return nil }}

	coupon := activeCoupon() // 10%, min 500000
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{product.ID: product}, ledger, orders, coupon)

	req := guestOrderRequest(product.ID, 2)
	req.CouponCode = "GLAM10"

	resp, err := svc.Create(context.Background(), nil, "", req)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), resp.Discount)
	assert.Equal(t, int64(1000000), resp.Subtotal)
	assert.Equal(t, int64(1000000), resp.Total) // 1000000 + 100000 - 100000
}

func TestOrderCreateOversellRejected(t *testing.T) {
	product := simpleProduct(500000, 1)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 1}}
	orders := &fakeOrderRepo{create: func(ctx context.Context, order *entity.Order) error { return nil }}
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{product.ID: product}, ledger, orders, nil)

	_, err := svc.Create(context.Background(), nil, "", guestOrderRequest(product.ID, 2))
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Equal(t, int64(1), ledger.levels[product.ID])
}

func TestOrderCreateRollsBackOnFailure(t *testing.T) {
	// Two lines: the second line's reserve fails, the first line's
	// reservation must be handed back.
	first := simpleProduct(500000, 5)
	second := simpleProduct(300000, 0)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{first.ID: 5, second.ID: 0}}
	orders := &fakeOrderRepo{create: func(ctx context.Context, order *entity.Order) error { return nil }}
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{first.ID: first, second.ID: second}, ledger, orders, nil)

	req := guestOrderRequest(first.ID, 2)
	req.Items = append(req.Items, request.OrderItemRequest{ProductID: second.ID.String(), Quantity: 1})

	_, err := svc.Create(context.Background(), nil, "", req)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Equal(t, int64(5), ledger.levels[first.ID])
}

func TestOrderCreateGuestRequiresContact(t *testing.T) {
	product := simpleProduct(500000, 10)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 10}}
	orders := &fakeOrderRepo{create: func(ctx context.Context, order *entity.Order) error { return nil }}
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{product.ID: product}, ledger, orders, nil)

	req := guestOrderRequest(product.ID, 1)
	req.Guest = nil

	_, err := svc.Create(context.Background(), nil, "", req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderCreateBankTransfer(t *testing.T) {
	product := simpleProduct(500000, 10)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 10}}
	orders := &fakeOrderRepo{create: func(ctx context.Context, order *entity.Order) error { return nil }}
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{product.ID: product}, ledger, orders, nil)

	req := guestOrderRequest(product.ID, 1)
	req.PaymentMethod = "bank_transfer"

	resp, err := svc.Create(context.Background(), nil, "", req)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPendingPayment, resp.Status)
	assert.Equal(t, entity.PaymentStatusAwaitingTransfer, resp.PaymentStatus)
	assert.NotNil(t, resp.BankDetails)
}

func TestOrderCreateUnknownZoneUsesDefaultShipping(t *testing.T) {
	product := simpleProduct(500000, 10)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 10}}
	orders := &fakeOrderRepo{create: func(ctx context.Context, order *entity.Order) error { return nil }}
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{product.ID: product}, ledger, orders, nil)

	req := guestOrderRequest(product.ID, 1)
	req.DeliveryZone = "abuja"

	resp, err := svc.Create(context.Background(), nil, "", req)
	require.NoError(t, err)
	assert.Equal(t, int64(300000), resp.ShippingCost)
}

func TestOrderCancelReleasesStock(t *testing.T) {
	product := simpleProduct(500000, 10)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 8}}

	userID := uuid.New()
	order := &entity.Order{
		OrderNumber: "GLM-20260830-0001",
		UserID:      &userID,
		Status:      entity.OrderStatusPending,
	}
	order.ID = uuid.New()

	items := []*entity.OrderItem{{
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  2,
	}}

	orders := &fakeOrderRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
			return order, nil
		},
		loadItems: func(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error) {
			return items, nil
		},
		markCancelled: func(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID, note string, eligible []entity.OrderStatus) (bool, error) {
			return true, nil
		},
	}
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{product.ID: product}, ledger, orders, nil)

	err := svc.Cancel(context.Background(), &userID, false, order.ID.String(), "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, int64(10), ledger.levels[product.ID])
}

func TestOrderCancelNotEligible(t *testing.T) {
	product := simpleProduct(500000, 10)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 8}}

	userID := uuid.New()
	order := &entity.Order{
		OrderNumber: "GLM-20260830-0002",
		UserID:      &userID,
		Status:      entity.OrderStatusShipped,
	}
	order.ID = uuid.New()

	orders := &fakeOrderRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
			return order, nil
		},
		markCancelled: func(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID, note string, eligible []entity.OrderStatus) (bool, error) {
			return false, nil // shipped is past the cancellation floor
		},
	}
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{product.ID: product}, ledger, orders, nil)

	err := svc.Cancel(context.Background(), &userID, false, order.ID.String(), "")
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.Equal(t, int64(8), ledger.levels[product.ID], "stock must not be released when cancel did not apply")
}

func TestOrderCancelForbiddenForOtherUser(t *testing.T) {
	product := simpleProduct(500000, 10)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 8}}

	owner := uuid.New()
	other := uuid.New()
	order := &entity.Order{UserID: &owner, Status: entity.OrderStatusPending}
	order.ID = uuid.New()

	orders := &fakeOrderRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
			return order, nil
		},
	}
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{product.ID: product}, ledger, orders, nil)

	err := svc.Cancel(context.Background(), &other, false, order.ID.String(), "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOrderCreateStampsTimestamps(t *testing.T) {
	product := simpleProduct(500000, 10)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 10}}

	var created *entity.Order
	orders := &fakeOrderRepo{
		create: func(ctx context.Context, order *entity.Order) error {
			created = order
			return nil
		},
	}
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{product.ID: product}, ledger, orders, nil)

	resp, err := svc.Create(context.Background(), nil, "", guestOrderRequest(product.ID, 2))
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
	require.NotEmpty(t, created.Items)
	for _, item := range created.Items {
		assert.False(t, item.CreatedAt.IsZero())
	}
	assert.False(t, resp.CreatedAt.IsZero())
}

func TestOrderCreateClearsUserCart(t *testing.T) {
	product := simpleProduct(500000, 10)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 10}}
	orders := &fakeOrderRepo{create: func(ctx context.Context, order *entity.Order) error { return nil }}

	cart := &fakeCartRepo{}
	repo := &repository.Repository{
		Product: &fakeProductRepo{
			findByID: func(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
				return product, nil
			},
			reserveStock: ledger.reserve,
			releaseStock: ledger.release,
		},
		Order:   orders,
		Cart:    cart,
		Counter: &fakeCounterRepo{},
	}
	svc := NewOrderService(repo, NewCouponService(repo, zap.NewNop()), testConfig(), nil, nil, &fakeNotifier{}, zap.NewNop())

	userID := uuid.New()
	req := guestOrderRequest(product.ID, 1)
	req.Guest = nil

	_, err := svc.Create(context.Background(), &userID, "ada@example.com", req)
	require.NoError(t, err)
	require.Len(t, cart.cleared, 1)
	assert.Equal(t, userID, cart.cleared[0])

	// Guest checkout has no cart to clear.
	_, err = svc.Create(context.Background(), nil, "", guestOrderRequest(product.ID, 1))
	require.NoError(t, err)
	assert.Len(t, cart.cleared, 1)
}

func TestOrderCreateRecordsInitialHistory(t *testing.T) {
	product := simpleProduct(500000, 10)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 10}}

	var trail []*entity.OrderStatusHistory
	orders := &fakeOrderRepo{
		create: func(ctx context.Context, order *entity.Order) error { return nil },
		appendHistory: func(ctx context.Context, h *entity.OrderStatusHistory) error {
			trail = append(trail, h)
			return nil
		},
	}
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{product.ID: product}, ledger, orders, nil)

	_, err := svc.Create(context.Background(), nil, "", guestOrderRequest(product.ID, 1))
	require.NoError(t, err)

	require.Len(t, trail, 1)
	assert.Equal(t, entity.OrderStatusPendingVerification, trail[0].Status)
	assert.False(t, trail[0].CreatedAt.IsZero())
}

func TestOrderCancelRecordsHistory(t *testing.T) {
	product := simpleProduct(500000, 10)
	ledger := &stockLedger{levels: map[uuid.UUID]int64{product.ID: 8}}

	userID := uuid.New()
	order := &entity.Order{
		OrderNumber: "GLM-20260830-0003",
		UserID:      &userID,
		Status:      entity.OrderStatusPending,
	}
	order.ID = uuid.New()

	var trail []*entity.OrderStatusHistory
	orders := &fakeOrderRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
			return order, nil
		},
		markCancelled: func(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID, note string, eligible []entity.OrderStatus) (bool, error) {
			return true, nil
		},
		appendHistory: func(ctx context.Context, h *entity.OrderStatusHistory) error {
			trail = append(trail, h)
			return nil
		},
	}
	svc := orderServiceWith(map[uuid.UUID]*entity.Product{product.ID: product}, ledger, orders, nil)

	require.NoError(t, svc.Cancel(context.Background(), &userID, false, order.ID.String(), "changed my mind"))

	require.Len(t, trail, 1)
	assert.Equal(t, entity.OrderStatusCancelled, trail[0].Status)
	assert.Equal(t, "changed my mind", trail[0].Note)
	require.NotNil(t, trail[0].ActorID)
	assert.Equal(t, userID, *trail[0].ActorID)
}
