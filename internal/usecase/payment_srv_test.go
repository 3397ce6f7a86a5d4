package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"glam-commerce/internal/data/entity"
	"glam-commerce/internal/data/repository"
	"glam-commerce/internal/dto/request"
	"glam-commerce/pkg/gateway"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pendingOrder(total int64) *entity.Order {
	o := &entity.Order{
		OrderNumber:   "GLM-20260830-0007",
		Status:        entity.OrderStatusPendingVerification,
		PaymentStatus: entity.PaymentStatusPending,
		Total:         total,
		GuestEmail:    "ada@example.com",
	}
	o.ID = uuid.New()
	return o
}

func pendingBooking(price int64) *entity.Booking {
	b := &entity.Booking{
		BookingNumber: "BKG-20260830-0003",
		Status:        entity.BookingStatusPending,
		ServicePrice:  price,
		Deposit:       price / 2,
		Balance:       price - price/2,
		CustomerEmail: "ada@example.com",
	}
	b.ID = uuid.New()
	return b
}

func TestPaymentInitializeTagsMetadata(t *testing.T) {
	order := pendingOrder(1100000)

	var gotMeta gateway.Metadata
	gw := &fakeGateway{
		initialize: func(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error) {
			gotMeta = req.Metadata
			return &gateway.InitializeResult{
				AuthorizationURL: "https://checkout.example/abc",
				AccessCode:       "abc",
				Reference:        "ref-001",
			}, nil
		},
	}

	var storedTxn *entity.Transaction
	txns := &fakeTransactionRepo{
		create: func(ctx context.Context, txn *entity.Transaction) error {
			storedTxn = txn
			return nil
		},
	}
	orders := &fakeOrderRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Order, error) { return order, nil },
	}

	svc := NewPaymentService(&repository.Repository{Order: orders, Transaction: txns}, gw, nil, &fakeNotifier{}, zap.NewNop())

	resp, err := svc.Initialize(context.Background(), &request.InitializePaymentRequest{
		Type:        "order",
		ReferenceID: order.ID.String(),
		Amount:      1100000,
		Email:       "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "ref-001", resp.Reference)

	assert.Equal(t, "order", gotMeta.Type)
	assert.Equal(t, order.ID.String(), gotMeta.ReferenceID)
	assert.Equal(t, "order", gotMeta.Purpose)

	require.NotNil(t, storedTxn)
	assert.Equal(t, entity.PurposeOrder, storedTxn.Purpose)
	assert.Equal(t, int64(1100000), storedTxn.Amount)
}

func TestPaymentInitializeRejectsAmountMismatch(t *testing.T) {
	order := pendingOrder(1100000)
	orders := &fakeOrderRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Order, error) { return order, nil },
	}
	svc := NewPaymentService(&repository.Repository{Order: orders}, &fakeGateway{}, nil, &fakeNotifier{}, zap.NewNop())

	_, err := svc.Initialize(context.Background(), &request.InitializePaymentRequest{
		Type:        "order",
		ReferenceID: order.ID.String(),
		Amount:      100, // client lowballing the charge
		Email:       "ada@example.com",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPaymentVerifyMarksOrderPaidOnce(t *testing.T) {
	order := pendingOrder(1100000)

	txn := &entity.Transaction{
		Reference:  "ref-001",
		TargetType: "order",
		TargetID:   order.ID,
		Purpose:    entity.PurposeOrder,
		Amount:     1100000,
		Status:     entity.TransactionStatusPending,
	}

	verifiedOnce := false
	txns := &fakeTransactionRepo{
		findByRef: func(ctx context.Context, reference string) (*entity.Transaction, error) { return txn, nil },
		markVerified: func(ctx context.Context, reference string, status entity.TransactionStatus, rawPayload []byte, verifiedAt time.Time) (bool, error) {
			if verifiedOnce {
				return false, nil
			}
			verifiedOnce = true
			return true, nil
		},
	}

	markPaidCalls := 0
	orders := &fakeOrderRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Order, error) { return order, nil },
		markPaid: func(ctx context.Context, orderID uuid.UUID, reference string, paidAt time.Time) (bool, error) {
			markPaidCalls++
			return true, nil
		},
	}

	gw := &fakeGateway{
		verify: func(ctx context.Context, reference string) (*gateway.VerifyResult, error) {
			return &gateway.VerifyResult{Success: true, Amount: 1100000, Reference: reference}, nil
		},
	}

	notifier := &fakeNotifier{}
	svc := NewPaymentService(&repository.Repository{Order: orders, Transaction: txns}, gw, nil, notifier, zap.NewNop())

	// First verification applies the payment.
	resp, err := svc.Verify(context.Background(), "ref-001")
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 1, markPaidCalls)
	assert.Len(t, notifier.sent, 1)

	// A replay of the same reference is absorbed by the idempotency gate.
	_, err = svc.Verify(context.Background(), "ref-001")
	require.NoError(t, err)
	assert.Equal(t, 1, markPaidCalls, "replay must not touch the order again")
}

func TestPaymentWebhookFirstDelivery(t *testing.T) {
	// The webhook lands before any local verify: no transaction row exists,
	// so reconciliation falls back to the checkout metadata.
	booking := pendingBooking(800000)

	txns := &fakeTransactionRepo{
		findByRef: func(ctx context.Context, reference string) (*entity.Transaction, error) { return nil, nil },
		createVerified: func(ctx context.Context, txn *entity.Transaction) (bool, error) {
			return true, nil
		},
	}

	depositPaid := false
	bookings := &fakeBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) { return booking, nil },
		markDepositPaid: func(ctx context.Context, bookingID uuid.UUID, reference string, paidAt time.Time) (bool, error) {
			depositPaid = true
			return true, nil
		},
	}

	svc := NewPaymentService(&repository.Repository{Booking: bookings, Transaction: txns}, &fakeGateway{}, nil, &fakeNotifier{}, zap.NewNop())

	payload, _ := json.Marshal(map[string]any{
		"event": "charge.success",
		"data": map[string]any{
			"reference": "ref-wh-1",
			"amount":    booking.Deposit,
			"status":    "success",
			"metadata": map[string]any{
				"type":         "booking",
				"referenceId": booking.ID.String(),
				"payment_type": "deposit",
			},
		},
	})

	require.NoError(t, svc.HandleWebhook(context.Background(), payload))
	assert.True(t, depositPaid)
}

func TestPaymentWebhookIgnoresOtherEvents(t *testing.T) {
	svc := NewPaymentService(&repository.Repository{}, &fakeGateway{}, nil, &fakeNotifier{}, zap.NewNop())

	payload := []byte(`{"event":"transfer.success","data":{"reference":"x"}}`)
	assert.NoError(t, svc.HandleWebhook(context.Background(), payload))
}

func TestPaymentWebhookAmountFallback(t *testing.T) {
	// No purpose tag in the metadata: the amount decides which booking leg
	// this payment settles.
	booking := pendingBooking(800000)
	booking.DepositPaid = true

	txns := &fakeTransactionRepo{
		findByRef:      func(ctx context.Context, reference string) (*entity.Transaction, error) { return nil, nil },
		createVerified: func(ctx context.Context, txn *entity.Transaction) (bool, error) { return true, nil },
	}

	balancePaid := false
	bookings := &fakeBookingRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) { return booking, nil },
		markBalancePaid: func(ctx context.Context, bookingID uuid.UUID, reference string, paidAt time.Time) (bool, error) {
			balancePaid = true
			return true, nil
		},
	}

	svc := NewPaymentService(&repository.Repository{Booking: bookings, Transaction: txns}, &fakeGateway{}, nil, &fakeNotifier{}, zap.NewNop())

	payload, _ := json.Marshal(map[string]any{
		"event": "charge.success",
		"data": map[string]any{
			"reference": "ref-wh-2",
			"amount":    booking.Balance,
			"status":    "success",
			"metadata": map[string]any{
				"type":         "booking",
				"referenceId": booking.ID.String(),
			},
		},
	})

	require.NoError(t, svc.HandleWebhook(context.Background(), payload))
	assert.True(t, balancePaid)
}

func TestPaymentUnderpaymentLeavesOrderUnpaid(t *testing.T) {
	order := pendingOrder(1100000)

	txn := &entity.Transaction{
		Reference:  "ref-low",
		TargetType: "order",
		TargetID:   order.ID,
		Purpose:    entity.PurposeOrder,
	}
	txns := &fakeTransactionRepo{
		findByRef: func(ctx context.Context, reference string) (*entity.Transaction, error) { return txn, nil },
		markVerified: func(ctx context.Context, reference string, status entity.TransactionStatus, rawPayload []byte, verifiedAt time.Time) (bool, error) {
			return true, nil
		},
	}
	orders := &fakeOrderRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Order, error) { return order, nil },
		markPaid: func(ctx context.Context, orderID uuid.UUID, reference string, paidAt time.Time) (bool, error) {
			t.Fatal("underpaid order must not be marked paid")
			return false, nil
		},
	}

	gw := &fakeGateway{
		verify: func(ctx context.Context, reference string) (*gateway.VerifyResult, error) {
			return &gateway.VerifyResult{Success: true, Amount: 500, Reference: reference}, nil
		},
	}

	svc := NewPaymentService(&repository.Repository{Order: orders, Transaction: txns}, gw, nil, &fakeNotifier{}, zap.NewNop())

	_, err := svc.Verify(context.Background(), "ref-low")
	assert.Error(t, err)
}

func TestConfirmBankTransfer(t *testing.T) {
	order := pendingOrder(1100000)
	order.PaymentMethod = entity.PaymentMethodBankTransfer
	order.Status = entity.OrderStatusPendingPayment
	order.PaymentStatus = entity.PaymentStatusAwaitingTransfer

	inserted := false
	txns := &fakeTransactionRepo{
		createVerified: func(ctx context.Context, txn *entity.Transaction) (bool, error) {
			if inserted {
				return false, nil
			}
			inserted = true
			assert.Equal(t, "BT-"+order.OrderNumber, txn.Reference)
			return true, nil
		},
	}

	paid := false
	orders := &fakeOrderRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Order, error) { return order, nil },
		markPaid: func(ctx context.Context, orderID uuid.UUID, reference string, paidAt time.Time) (bool, error) {
			paid = true
			return true, nil
		},
	}

	svc := NewPaymentService(&repository.Repository{Order: orders, Transaction: txns}, &fakeGateway{}, nil, &fakeNotifier{}, zap.NewNop())

	adminID := uuid.New()
	require.NoError(t, svc.ConfirmBankTransfer(context.Background(), adminID, order.ID.String()))
	assert.True(t, paid)

	// Confirming twice is rejected by the reference upsert.
	err := svc.ConfirmBankTransfer(context.Background(), adminID, order.ID.String())
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestConfirmBankTransferRejectsGatewayOrders(t *testing.T) {
	order := pendingOrder(1100000)
	order.PaymentMethod = entity.PaymentMethodGateway

	orders := &fakeOrderRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*entity.Order, error) { return order, nil },
	}
	svc := NewPaymentService(&repository.Repository{Order: orders}, &fakeGateway{}, nil, &fakeNotifier{}, zap.NewNop())

	err := svc.ConfirmBankTransfer(context.Background(), uuid.New(), order.ID.String())
	assert.ErrorIs(t, err, ErrNotEligible)
}
