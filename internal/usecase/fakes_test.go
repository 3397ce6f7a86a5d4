package usecase

import (
	"context"
	"time"

	"glam-commerce/internal/data/entity"
	"glam-commerce/pkg/gateway"

	"github.com/google/uuid"
)

// Function-field fakes: tests populate only the calls a path exercises.

type fakeProductRepo struct {
	findByID     func(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	reserveStock func(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int64) error
	releaseStock func(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int64) error
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error { return nil }
func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return f.findByID(ctx, id)
}
func (f *fakeProductRepo) FindAll(ctx context.Context, categoryID *uuid.UUID, activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) CountAll(ctx context.Context, categoryID *uuid.UUID, activeOnly bool) (int64, error) {
	return 0, nil
}
func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error { return nil }
func (f *fakeProductRepo) Deactivate(ctx context.Context, id uuid.UUID) error        { return nil }
func (f *fakeProductRepo) ReserveStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int64) error {
	return f.reserveStock(ctx, productID, variantID, quantity)
}
func (f *fakeProductRepo) ReleaseStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int64) error {
	if f.releaseStock == nil {
		return nil
	}
	return f.releaseStock(ctx, productID, variantID, quantity)
}

type fakeOrderRepo struct {
	create            func(ctx context.Context, order *entity.Order) error
	findByID          func(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	findByOrderNumber func(ctx context.Context, orderNumber string) (*entity.Order, error)
	loadItems         func(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error)
	markPaid          func(ctx context.Context, orderID uuid.UUID, reference string, paidAt time.Time) (bool, error)
	markCancelled     func(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID, note string, eligible []entity.OrderStatus) (bool, error)
	updateStatus      func(ctx context.Context, orderID uuid.UUID, from []entity.OrderStatus, to entity.OrderStatus) (bool, error)
	appendHistory     func(ctx context.Context, h *entity.OrderStatusHistory) error
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	return f.create(ctx, order)
}
func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return f.findByID(ctx, id)
}
func (f *fakeOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	return f.findByOrderNumber(ctx, orderNumber)
}
func (f *fakeOrderRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}
func (f *fakeOrderRepo) FindAll(ctx context.Context, status *entity.OrderStatus, limit, offset int) ([]*entity.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) CountAll(ctx context.Context, status *entity.OrderStatus) (int64, error) {
	return 0, nil
}
func (f *fakeOrderRepo) LoadItems(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error) {
	if f.loadItems == nil {
		return nil, nil
	}
	return f.loadItems(ctx, orderID)
}
func (f *fakeOrderRepo) LoadHistory(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderStatusHistory, error) {
	return nil, nil
}
func (f *fakeOrderRepo) AppendHistory(ctx context.Context, h *entity.OrderStatusHistory) error {
	if f.appendHistory == nil {
		return nil
	}
	return f.appendHistory(ctx, h)
}
func (f *fakeOrderRepo) MarkPaid(ctx context.Context, orderID uuid.UUID, reference string, paidAt time.Time) (bool, error) {
	return f.markPaid(ctx, orderID, reference, paidAt)
}
func (f *fakeOrderRepo) MarkCancelled(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID, note string, eligible []entity.OrderStatus) (bool, error) {
	return f.markCancelled(ctx, orderID, actorID, note, eligible)
}
func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, from []entity.OrderStatus, to entity.OrderStatus) (bool, error) {
	return f.updateStatus(ctx, orderID, from, to)
}

type fakeBookingRepo struct {
	create          func(ctx context.Context, booking *entity.Booking) error
	findByID        func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	occupiedSlots   func(ctx context.Context, date time.Time, location, artistType string) ([]string, error)
	markDepositPaid func(ctx context.Context, bookingID uuid.UUID, reference string, paidAt time.Time) (bool, error)
	markBalancePaid func(ctx context.Context, bookingID uuid.UUID, reference string, paidAt time.Time) (bool, error)
	markCancelled   func(ctx context.Context, bookingID uuid.UUID, actorID *uuid.UUID, reason, refundReference string) (bool, error)
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	return f.create(ctx, booking)
}
func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return f.findByID(ctx, id)
}
func (f *fakeBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}
func (f *fakeBookingRepo) FindAll(ctx context.Context, status *entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) CountAll(ctx context.Context, status *entity.BookingStatus) (int64, error) {
	return 0, nil
}
func (f *fakeBookingRepo) OccupiedSlots(ctx context.Context, date time.Time, location, artistType string) ([]string, error) {
	return f.occupiedSlots(ctx, date, location, artistType)
}
func (f *fakeBookingRepo) MarkDepositPaid(ctx context.Context, bookingID uuid.UUID, reference string, paidAt time.Time) (bool, error) {
	return f.markDepositPaid(ctx, bookingID, reference, paidAt)
}
func (f *fakeBookingRepo) MarkBalancePaid(ctx context.Context, bookingID uuid.UUID, reference string, paidAt time.Time) (bool, error) {
	return f.markBalancePaid(ctx, bookingID, reference, paidAt)
}
func (f *fakeBookingRepo) MarkCancelled(ctx context.Context, bookingID uuid.UUID, actorID *uuid.UUID, reason, refundReference string) (bool, error) {
	return f.markCancelled(ctx, bookingID, actorID, reason, refundReference)
}
func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	return nil
}

type fakeSalonServiceRepo struct {
	findByID      func(ctx context.Context, id uuid.UUID) (*entity.SalonService, error)
	findAllActive func(ctx context.Context) ([]*entity.SalonService, error)
}

func (f *fakeSalonServiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.SalonService, error) {
	return f.findByID(ctx, id)
}
func (f *fakeSalonServiceRepo) FindAllActive(ctx context.Context) ([]*entity.SalonService, error) {
	return f.findAllActive(ctx)
}

type fakeCouponRepo struct {
	findByCode       func(ctx context.Context, code string) (*entity.Coupon, error)
	countUsageByUser func(ctx context.Context, couponID, userID uuid.UUID) (int64, error)
	recordUsage      func(ctx context.Context, usage *entity.CouponUsage) error
}

func (f *fakeCouponRepo) Create(ctx context.Context, coupon *entity.Coupon) error { return nil }
func (f *fakeCouponRepo) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	return f.findByCode(ctx, code)
}
func (f *fakeCouponRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	return nil, nil
}
func (f *fakeCouponRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Coupon, error) {
	return nil, nil
}
func (f *fakeCouponRepo) CountAll(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeCouponRepo) Update(ctx context.Context, coupon *entity.Coupon) error { return nil }
func (f *fakeCouponRepo) Deactivate(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeCouponRepo) CountUsageByUser(ctx context.Context, couponID, userID uuid.UUID) (int64, error) {
	if f.countUsageByUser == nil {
		return 0, nil
	}
	return f.countUsageByUser(ctx, couponID, userID)
}
func (f *fakeCouponRepo) RecordUsage(ctx context.Context, usage *entity.CouponUsage) error {
	if f.recordUsage == nil {
		return nil
	}
	return f.recordUsage(ctx, usage)
}

type fakeTransactionRepo struct {
	create         func(ctx context.Context, txn *entity.Transaction) error
	findByRef      func(ctx context.Context, reference string) (*entity.Transaction, error)
	markVerified   func(ctx context.Context, reference string, status entity.TransactionStatus, rawPayload []byte, verifiedAt time.Time) (bool, error)
	createVerified func(ctx context.Context, txn *entity.Transaction) (bool, error)
}

func (f *fakeTransactionRepo) Create(ctx context.Context, txn *entity.Transaction) error {
	return f.create(ctx, txn)
}
func (f *fakeTransactionRepo) FindByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	return f.findByRef(ctx, reference)
}
func (f *fakeTransactionRepo) MarkVerified(ctx context.Context, reference string, status entity.TransactionStatus, rawPayload []byte, verifiedAt time.Time) (bool, error) {
	return f.markVerified(ctx, reference, status, rawPayload, verifiedAt)
}
func (f *fakeTransactionRepo) CreateVerified(ctx context.Context, txn *entity.Transaction) (bool, error) {
	return f.createVerified(ctx, txn)
}

type fakeCartRepo struct {
	cleared []uuid.UUID
}

func (f *fakeCartRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	return nil, nil
}
func (f *fakeCartRepo) Upsert(ctx context.Context, item *entity.CartItem) error { return nil }
func (f *fakeCartRepo) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return nil
}
func (f *fakeCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	f.cleared = append(f.cleared, userID)
	return nil
}

type fakeCounterRepo struct {
	next int64
}

func (f *fakeCounterRepo) Next(ctx context.Context, key string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeGateway struct {
	initialize func(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error)
	verify     func(ctx context.Context, reference string) (*gateway.VerifyResult, error)
	refund     func(ctx context.Context, req gateway.RefundRequest) (*gateway.RefundResult, error)
}

func (f *fakeGateway) Initialize(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error) {
	return f.initialize(ctx, req)
}
func (f *fakeGateway) Verify(ctx context.Context, reference string) (*gateway.VerifyResult, error) {
	return f.verify(ctx, reference)
}
func (f *fakeGateway) Refund(ctx context.Context, req gateway.RefundRequest) (*gateway.RefundResult, error) {
	return f.refund(ctx, req)
}
func (f *fakeGateway) ValidateWebhookSignature(rawBody []byte, signatureHeader string) bool {
	return true
}

type fakeNotifier struct {
	sent       []string
	recipients []string
}

func (f *fakeNotifier) Send(to, subject, body string) {
	f.sent = append(f.sent, subject)
	f.recipients = append(f.recipients, to)
}
