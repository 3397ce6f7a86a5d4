package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"glam-commerce/internal/data/entity"
	"glam-commerce/internal/data/repository"
	"glam-commerce/internal/dto/request"
	"glam-commerce/internal/dto/response"
	"glam-commerce/pkg/events"
	"glam-commerce/pkg/gateway"
	"glam-commerce/pkg/mailer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	// Initialize starts a gateway checkout for an order or a booking leg.
	// The charged amount is derived server-side from the target; the
	// client-sent amount is only checked for agreement.
	Initialize(ctx context.Context, req *request.InitializePaymentRequest) (*response.InitializePaymentResponse, error)

	// Verify confirms a reference with the gateway and reconciles it.
	// Safe to call any number of times for the same reference.
	Verify(ctx context.Context, reference string) (*response.VerifyPaymentResponse, error)

	// HandleWebhook reconciles a signature-checked gateway event. Errors
	// are for the caller's log only; the webhook endpoint still acks.
	HandleWebhook(ctx context.Context, rawBody []byte) error

	// ConfirmBankTransfer is the manual admin confirmation for offline
	// transfers. It runs through the same idempotent reconciliation.
	ConfirmBankTransfer(ctx context.Context, actorID uuid.UUID, orderID string) error
}

type paymentService struct {
	repo      *repository.Repository
	gateway   gateway.Client
	publisher *events.Publisher
	notifier  mailer.Notifier
	log       *zap.Logger
}

func NewPaymentService(
	repo *repository.Repository,
	gw gateway.Client,
	publisher *events.Publisher,
	notifier mailer.Notifier,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:      repo,
		gateway:   gw,
		publisher: publisher,
		notifier:  notifier,
		log:       log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) Initialize(ctx context.Context, req *request.InitializePaymentRequest) (*response.InitializePaymentResponse, error) {
	targetID, err := uuid.Parse(req.ReferenceID)
	if err != nil {
		return nil, fmt.Errorf("reference ID %s: %w", req.ReferenceID, ErrValidation)
	}

	amount, purpose, err := s.expectedCharge(ctx, req.Type, targetID, entity.PaymentPurpose(req.Purpose))
	if err != nil {
		return nil, err
	}
	if req.Amount != amount {
		return nil, fmt.Errorf("amount %d does not match expected charge %d: %w", req.Amount, amount, ErrValidation)
	}

	result, err := s.gateway.Initialize(ctx, gateway.InitializeRequest{
		Amount: amount,
		Email:  req.Email,
		Metadata: gateway.Metadata{
			Type:        req.Type,
			ReferenceID: targetID.String(),
			Purpose:     string(purpose),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize payment: %w: %v", ErrGateway, err)
	}

	txn := &entity.Transaction{
		Reference:  result.Reference,
		TargetType: req.Type,
		TargetID:   targetID,
		Purpose:    purpose,
		Amount:     amount,
		Currency:   "NGN",
		Status:     entity.TransactionStatusPending,
	}
	txn.Stamp(time.Now())

	if err := s.repo.Transaction.Create(ctx, txn); err != nil {
		if errors.Is(err, repository.ErrDuplicateReference) {
			return nil, fmt.Errorf("reference %s already initialized: %w", result.Reference, ErrValidation)
		}
		return nil, fmt.Errorf("record transaction %s: %w", result.Reference, err)
	}

	s.log.Info("Payment initialized",
		zap.String("reference", result.Reference),
		zap.String("target_type", req.Type),
		zap.String("purpose", string(purpose)),
		zap.Int64("amount", amount))

	return &response.InitializePaymentResponse{
		AuthorizationURL: result.AuthorizationURL,
		AccessCode:       result.AccessCode,
		Reference:        result.Reference,
	}, nil
}

// expectedCharge derives the amount a payment for this target must carry.
func (s *paymentService) expectedCharge(ctx context.Context, targetType string, targetID uuid.UUID, purpose entity.PaymentPurpose) (int64, entity.PaymentPurpose, error) {
	switch targetType {
	case "order":
		order, err := s.repo.Order.FindByID(ctx, targetID)
		if err != nil {
			return 0, "", fmt.Errorf("find order %s: %w", targetID, err)
		}
		if order == nil {
			return 0, "", fmt.Errorf("order %s: %w", targetID, ErrNotFound)
		}
		if order.PaymentStatus == entity.PaymentStatusPaid {
			return 0, "", fmt.Errorf("order %s already paid: %w", order.OrderNumber, ErrNotEligible)
		}
		if order.Status == entity.OrderStatusCancelled {
			return 0, "", fmt.Errorf("order %s is cancelled: %w", order.OrderNumber, ErrNotEligible)
		}
		return order.Total, entity.PurposeOrder, nil

	case "booking":
		booking, err := s.repo.Booking.FindByID(ctx, targetID)
		if err != nil {
			return 0, "", fmt.Errorf("find booking %s: %w", targetID, err)
		}
		if booking == nil {
			return 0, "", fmt.Errorf("booking %s: %w", targetID, ErrNotFound)
		}
		if booking.Status == entity.BookingStatusCancelled {
			return 0, "", fmt.Errorf("booking %s is cancelled: %w", booking.BookingNumber, ErrNotEligible)
		}

		if purpose == "" {
			if booking.DepositPaid {
				purpose = entity.PurposeBalance
			} else {
				purpose = entity.PurposeDeposit
			}
		}

		switch purpose {
		case entity.PurposeDeposit:
			if booking.DepositPaid {
				return 0, "", fmt.Errorf("booking %s deposit already paid: %w", booking.BookingNumber, ErrNotEligible)
			}
			return booking.Deposit, purpose, nil
		case entity.PurposeBalance:
			if !booking.DepositPaid {
				return 0, "", fmt.Errorf("booking %s deposit not paid yet: %w", booking.BookingNumber, ErrNotEligible)
			}
			if booking.BalancePaid {
				return 0, "", fmt.Errorf("booking %s balance already paid: %w", booking.BookingNumber, ErrNotEligible)
			}
			return booking.Balance, purpose, nil
		default:
			return 0, "", fmt.Errorf("purpose %s for booking: %w", purpose, ErrValidation)
		}

	default:
		return 0, "", fmt.Errorf("payment type %s: %w", targetType, ErrValidation)
	}
}

func (s *paymentService) Verify(ctx context.Context, reference string) (*response.VerifyPaymentResponse, error) {
	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w: %v", reference, ErrGateway, err)
	}

	if err := s.reconcile(ctx, result); err != nil {
		return nil, err
	}

	status := "failed"
	if result.Success {
		status = "success"
	}
	return &response.VerifyPaymentResponse{
		Reference: result.Reference,
		Status:    status,
		Amount:    result.Amount,
	}, nil
}

// webhookEvent is the shape of the provider's event envelope.
type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string           `json:"reference"`
		Amount    int64            `json:"amount"`
		Status    string           `json:"status"`
		Metadata  gateway.Metadata `json:"metadata"`
	} `json:"data"`
}

func (s *paymentService) HandleWebhook(ctx context.Context, rawBody []byte) error {
	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return fmt.Errorf("decode webhook payload: %w", err)
	}

	if event.Event != "charge.success" {
		s.log.Debug("Ignoring webhook event", zap.String("event", event.Event))
		return nil
	}
	if event.Data.Reference == "" {
		return fmt.Errorf("webhook charge.success without reference")
	}

	return s.reconcile(ctx, &gateway.VerifyResult{
		Success:    event.Data.Status == "success",
		Amount:     event.Data.Amount,
		Reference:  event.Data.Reference,
		Metadata:   event.Data.Metadata,
		RawPayload: rawBody,
	})
}

// reconcile is the single path every payment signal funnels through:
// gateway verify, webhook delivery and manual confirmation all end here.
// The transactions table is the idempotency gate; entity updates behind it
// are conditional, so a replay that slips past one guard stops at the next.
func (s *paymentService) reconcile(ctx context.Context, result *gateway.VerifyResult) error {
	status := entity.TransactionStatusFailed
	if result.Success {
		status = entity.TransactionStatusSuccess
	}

	txn, err := s.repo.Transaction.FindByReference(ctx, result.Reference)
	if err != nil {
		return fmt.Errorf("find transaction %s: %w", result.Reference, err)
	}

	now := time.Now()

	if txn != nil {
		applied, err := s.repo.Transaction.MarkVerified(ctx, result.Reference, status, result.RawPayload, now)
		if err != nil {
			return fmt.Errorf("mark transaction %s verified: %w", result.Reference, err)
		}
		if !applied {
			s.log.Info("Duplicate payment signal ignored", zap.String("reference", result.Reference))
			return nil
		}
		if !result.Success {
			s.log.Warn("Payment failed at gateway", zap.String("reference", result.Reference))
			return nil
		}
		return s.applyPayment(ctx, txn.TargetType, txn.TargetID, txn.Purpose, result, now)
	}

	// Reference never initialized locally: a webhook-first delivery. Fall
	// back to the metadata the checkout was tagged with.
	if !result.Success {
		s.log.Warn("Failed charge for unknown reference", zap.String("reference", result.Reference))
		return nil
	}

	targetType, targetID, purpose, err := s.classify(ctx, result)
	if err != nil {
		return err
	}

	newTxn := &entity.Transaction{
		Reference:  result.Reference,
		TargetType: targetType,
		TargetID:   targetID,
		Purpose:    purpose,
		Amount:     result.Amount,
		Currency:   "NGN",
		Status:     entity.TransactionStatusSuccess,
		RawPayload: result.RawPayload,
		VerifiedAt: &now,
	}
	newTxn.Stamp(now)

	inserted, err := s.repo.Transaction.CreateVerified(ctx, newTxn)
	if err != nil {
		return fmt.Errorf("record verified transaction %s: %w", result.Reference, err)
	}
	if !inserted {
		// Lost the race to a concurrent delivery of the same reference.
		s.log.Info("Duplicate payment signal ignored", zap.String("reference", result.Reference))
		return nil
	}

	return s.applyPayment(ctx, targetType, targetID, purpose, result, now)
}

// classify resolves what an uninitialized reference paid for. Metadata is
// authoritative; the amount comparison is only the fallback for events that
// arrive without it.
func (s *paymentService) classify(ctx context.Context, result *gateway.VerifyResult) (string, uuid.UUID, entity.PaymentPurpose, error) {
	meta := result.Metadata
	if meta.Type == "" || meta.ReferenceID == "" {
		return "", uuid.Nil, "", fmt.Errorf("reference %s carries no metadata, cannot reconcile", result.Reference)
	}

	targetID, err := uuid.Parse(meta.ReferenceID)
	if err != nil {
		return "", uuid.Nil, "", fmt.Errorf("metadata reference ID %s: %w", meta.ReferenceID, err)
	}

	switch meta.Type {
	case "order":
		return "order", targetID, entity.PurposeOrder, nil

	case "booking":
		if meta.Purpose != "" {
			return "booking", targetID, entity.PaymentPurpose(meta.Purpose), nil
		}

		booking, err := s.repo.Booking.FindByID(ctx, targetID)
		if err != nil {
			return "", uuid.Nil, "", fmt.Errorf("find booking %s: %w", targetID, err)
		}
		if booking == nil {
			return "", uuid.Nil, "", fmt.Errorf("booking %s: %w", targetID, ErrNotFound)
		}

		// Amount fallback for untagged booking payments.
		switch {
		case result.Amount == booking.Deposit && !booking.DepositPaid:
			return "booking", targetID, entity.PurposeDeposit, nil
		case result.Amount == booking.Balance && booking.DepositPaid:
			return "booking", targetID, entity.PurposeBalance, nil
		default:
			return "", uuid.Nil, "", fmt.Errorf("amount %d matches neither leg of booking %s", result.Amount, booking.BookingNumber)
		}

	default:
		return "", uuid.Nil, "", fmt.Errorf("metadata type %s for reference %s", meta.Type, result.Reference)
	}
}

// applyPayment performs the entity-side state transition for a verified
// charge. Each branch is conditional in SQL, so it is a no-op when the
// transition already happened.
func (s *paymentService) applyPayment(ctx context.Context, targetType string, targetID uuid.UUID, purpose entity.PaymentPurpose, result *gateway.VerifyResult, paidAt time.Time) error {
	switch targetType {
	case "order":
		return s.applyOrderPayment(ctx, targetID, result, paidAt)
	case "booking":
		return s.applyBookingPayment(ctx, targetID, purpose, result, paidAt)
	default:
		return fmt.Errorf("transaction %s has unknown target type %s", result.Reference, targetType)
	}
}

func (s *paymentService) applyOrderPayment(ctx context.Context, orderID uuid.UUID, result *gateway.VerifyResult, paidAt time.Time) error {
	order, err := s.repo.Order.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("find order %s: %w", orderID, err)
	}
	if order == nil {
		return fmt.Errorf("order %s for reference %s: %w", orderID, result.Reference, ErrNotFound)
	}

	if result.Amount < order.Total {
		s.log.Error("Underpayment, order left unpaid",
			zap.String("order_number", order.OrderNumber),
			zap.String("reference", result.Reference),
			zap.Int64("paid", result.Amount),
			zap.Int64("expected", order.Total))
		return fmt.Errorf("reference %s paid %d of %d for order %s", result.Reference, result.Amount, order.Total, order.OrderNumber)
	}

	applied, err := s.repo.Order.MarkPaid(ctx, orderID, result.Reference, paidAt)
	if err != nil {
		return fmt.Errorf("mark order %s paid: %w", order.OrderNumber, err)
	}
	if !applied {
		s.log.Info("Order already settled", zap.String("order_number", order.OrderNumber))
		return nil
	}

	history := &entity.OrderStatusHistory{
		OrderID: orderID,
		Status:  entity.OrderStatusProcessing,
		Note:    "payment confirmed, reference " + result.Reference,
	}
	history.Stamp(time.Now())
	if err := s.repo.Order.AppendHistory(ctx, history); err != nil {
		s.log.Error("Append order history failed", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	s.publisher.Publish(ctx, events.Event{
		Type:     events.OrderPaid,
		EntityID: orderID.String(),
		Number:   order.OrderNumber,
		Payload:  map[string]any{"reference": result.Reference, "amount": result.Amount},
	})

	if to := order.ContactEmail(""); to != "" {
		s.notifier.Send(to, "Payment received for "+order.OrderNumber,
			fmt.Sprintf("We received NGN %.2f for order %s. It is now being processed.",
				float64(result.Amount)/100, order.OrderNumber))
	}

	s.log.Info("Order paid",
		zap.String("order_number", order.OrderNumber),
		zap.String("reference", result.Reference))
	return nil
}

func (s *paymentService) applyBookingPayment(ctx context.Context, bookingID uuid.UUID, purpose entity.PaymentPurpose, result *gateway.VerifyResult, paidAt time.Time) error {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s for reference %s: %w", bookingID, result.Reference, ErrNotFound)
	}

	switch purpose {
	case entity.PurposeDeposit:
		applied, err := s.repo.Booking.MarkDepositPaid(ctx, bookingID, result.Reference, paidAt)
		if err != nil {
			return fmt.Errorf("mark booking %s deposit paid: %w", booking.BookingNumber, err)
		}
		if !applied {
			s.log.Info("Booking deposit already settled", zap.String("booking_number", booking.BookingNumber))
			return nil
		}

		s.publisher.Publish(ctx, events.Event{
			Type:     events.BookingConfirmed,
			EntityID: bookingID.String(),
			Number:   booking.BookingNumber,
			Payload:  map[string]any{"reference": result.Reference},
		})

		if booking.CustomerEmail != "" {
			s.notifier.Send(booking.CustomerEmail, "Booking confirmed "+booking.BookingNumber,
				fmt.Sprintf("Your deposit is in. See you on %s at %s.",
					booking.AppointmentDate.Format("Monday, 2 January 2006"), booking.SlotStart))
		}

		s.log.Info("Booking deposit paid",
			zap.String("booking_number", booking.BookingNumber),
			zap.String("reference", result.Reference))
		return nil

	case entity.PurposeBalance:
		applied, err := s.repo.Booking.MarkBalancePaid(ctx, bookingID, result.Reference, paidAt)
		if err != nil {
			return fmt.Errorf("mark booking %s balance paid: %w", booking.BookingNumber, err)
		}
		if !applied {
			s.log.Info("Booking balance already settled", zap.String("booking_number", booking.BookingNumber))
			return nil
		}

		s.log.Info("Booking balance paid",
			zap.String("booking_number", booking.BookingNumber),
			zap.String("reference", result.Reference))
		return nil

	default:
		return fmt.Errorf("reference %s has purpose %s for booking %s", result.Reference, purpose, booking.BookingNumber)
	}
}

func (s *paymentService) ConfirmBankTransfer(ctx context.Context, actorID uuid.UUID, orderID string) error {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return fmt.Errorf("order ID %s: %w", orderID, ErrValidation)
	}

	order, err := s.repo.Order.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find order %s: %w", orderID, err)
	}
	if order == nil {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if order.PaymentMethod != entity.PaymentMethodBankTransfer {
		return fmt.Errorf("order %s is not a bank transfer order: %w", order.OrderNumber, ErrNotEligible)
	}

	now := time.Now()
	reference := "BT-" + order.OrderNumber

	txn := &entity.Transaction{
		Reference:  reference,
		TargetType: "order",
		TargetID:   id,
		Purpose:    entity.PurposeOrder,
		Amount:     order.Total,
		Currency:   "NGN",
		Status:     entity.TransactionStatusSuccess,
		VerifiedAt: &now,
	}
	txn.Stamp(now)

	inserted, err := s.repo.Transaction.CreateVerified(ctx, txn)
	if err != nil {
		return fmt.Errorf("record bank transfer %s: %w", reference, err)
	}
	if !inserted {
		return fmt.Errorf("order %s transfer already confirmed: %w", order.OrderNumber, ErrNotEligible)
	}

	if err := s.applyOrderPayment(ctx, id, &gateway.VerifyResult{
		Success:   true,
		Amount:    order.Total,
		Reference: reference,
	}, now); err != nil {
		return err
	}

	s.log.Info("Bank transfer confirmed",
		zap.String("order_number", order.OrderNumber),
		zap.String("actor_id", actorID.String()))
	return nil
}
