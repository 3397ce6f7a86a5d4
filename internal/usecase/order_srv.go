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
	"glam-commerce/pkg/cache"
	"glam-commerce/pkg/events"
	"glam-commerce/pkg/mailer"
	"glam-commerce/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderService interface {
	// Create builds the order from live product data: prices are re-read
	// server-side and stock is reserved atomically per line before the
	// order row is written. Client-sent amounts are never trusted.
	Create(ctx context.Context, userID *uuid.UUID, userEmail string, req *request.CreateOrderRequest) (*response.OrderResponse, error)

	GetByID(ctx context.Context, userID *uuid.UUID, isAdmin bool, orderID string) (*response.OrderDetailResponse, error)
	// Track is the guest lookup: order number plus the email it was placed
	// under. Wrong email reads as not found to avoid leaking order data.
	Track(ctx context.Context, orderNumber, email string) (*response.OrderResponse, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error)

	// Cancel releases the reserved stock exactly once: only the caller whose
	// conditional cancel flipped the row performs the release.
	Cancel(ctx context.Context, userID *uuid.UUID, isAdmin bool, orderID, reason string) error

	// Admin.
	List(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, orderID string, req *request.UpdateOrderStatusRequest) error
}

type orderService struct {
	repo      *repository.Repository
	coupons   CouponService
	config    *utils.Config
	cache     *cache.Cache
	publisher *events.Publisher
	notifier  mailer.Notifier
	log       *zap.Logger
}

func NewOrderService(
	repo *repository.Repository,
	coupons CouponService,
	config *utils.Config,
	c *cache.Cache,
	publisher *events.Publisher,
	notifier mailer.Notifier,
	log *zap.Logger,
) OrderService {
	return &orderService{
		repo:      repo,
		coupons:   coupons,
		config:    config,
		cache:     c,
		publisher: publisher,
		notifier:  notifier,
		log:       log.With(zap.String("service", "order")),
	}
}

// reservation tracks one successful stock decrement so it can be undone if a
// later step fails.
type reservation struct {
	productID uuid.UUID
	variantID *uuid.UUID
	quantity  int64
}

func (s *orderService) Create(ctx context.Context, userID *uuid.UUID, userEmail string, req *request.CreateOrderRequest) (*response.OrderResponse, error) {
	if userID == nil && req.Guest == nil {
		return nil, fmt.Errorf("guest checkout requires contact details: %w", ErrValidation)
	}

	items, reserved, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	// Any failure past this point must hand the reserved units back.
	rollback := func() {
		s.releaseReservations(ctx, reserved)
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.Subtotal
	}

	shipping, ok := s.config.Shipping.Zones[strings.ToLower(req.DeliveryZone)]
	if !ok {
		shipping = s.config.Shipping.DefaultCost
	}

	var couponID *uuid.UUID
	var coupon *entity.Coupon
	var discount int64
	if req.CouponCode != "" {
		coupon, discount, err = s.coupons.Redeem(ctx, req.CouponCode, subtotal, userID)
		if err != nil {
			rollback()
			return nil, err
		}
		couponID = &coupon.ID
	}

	total := subtotal + shipping - discount
	if total < 0 {
		total = 0
	}

	now := time.Now()
	seq, err := s.repo.Counter.Next(ctx, "order:"+now.Format("20060102"))
	if err != nil {
		rollback()
		return nil, fmt.Errorf("next order sequence: %w", err)
	}

	order := &entity.Order{
		OrderNumber:     utils.FormatOrderNumber(now, seq),
		UserID:          userID,
		ShippingAddress: req.ShippingAddress,
		DeliveryZone:    strings.ToLower(req.DeliveryZone),
		Subtotal:        subtotal,
		ShippingCost:    shipping,
		Discount:        discount,
		Total:           total,
		CouponID:        couponID,
		PaymentMethod:   entity.PaymentMethod(req.PaymentMethod),
		Items:           items,
	}
	order.Stamp(now)

	if req.Guest != nil && userID == nil {
		order.GuestName = req.Guest.Name
		order.GuestEmail = req.Guest.Email
		order.GuestPhone = req.Guest.Phone
	}

	switch order.PaymentMethod {
	case entity.PaymentMethodBankTransfer:
		order.Status = entity.OrderStatusPendingPayment
		order.PaymentStatus = entity.PaymentStatusAwaitingTransfer
	default:
		order.Status = entity.OrderStatusPendingVerification
		order.PaymentStatus = entity.PaymentStatusPending
	}

	if err := s.repo.Order.Create(ctx, order); err != nil {
		rollback()
		return nil, fmt.Errorf("create order %s: %w", order.OrderNumber, err)
	}

	s.recordHistory(ctx, order, order.Status, "order placed", nil)

	// The order is durable; clearing the cart is best effort.
	if userID != nil {
		if err := s.repo.Cart.Clear(ctx, *userID); err != nil {
			s.log.Warn("Clear cart failed",
				zap.String("order_number", order.OrderNumber),
				zap.Error(err))
		}
	}

	if coupon != nil {
		usage := &entity.CouponUsage{
			CouponID:    coupon.ID,
			UserID:      userID,
			OrderNumber: order.OrderNumber,
		}
		usage.Stamp(now)
		if err := s.repo.Coupon.RecordUsage(ctx, usage); err != nil {
			// The order stands; usage accounting is repairable.
			s.log.Error("Record coupon usage failed",
				zap.String("order_number", order.OrderNumber),
				zap.String("coupon", coupon.Code),
				zap.Error(err))
		}
	}

	s.invalidateProducts(ctx, reserved)

	s.publisher.Publish(ctx, events.Event{
		Type:     events.OrderCreated,
		EntityID: order.ID.String(),
		Number:   order.OrderNumber,
		Payload: map[string]any{
			"total":          order.Total,
			"payment_method": string(order.PaymentMethod),
		},
	})

	s.sendOrderConfirmation(order, order.ContactEmail(userEmail))

	s.log.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("total", order.Total),
		zap.String("payment_method", string(order.PaymentMethod)))

	resp := response.OrderToResponse(order)
	if order.PaymentMethod == entity.PaymentMethodBankTransfer {
		resp.BankDetails = &response.BankDetailsResponse{
			BankName:      s.config.Bank.BankName,
			AccountName:   s.config.Bank.AccountName,
			AccountNumber: s.config.Bank.AccountNumber,
		}
	}
	return &resp, nil
}

// buildItems snapshots each requested line against live product data and
// reserves its stock. On any failure the reservations taken so far are
// released before returning.
func (s *orderService) buildItems(ctx context.Context, reqItems []request.OrderItemRequest) ([]*entity.OrderItem, []reservation, error) {
	items := make([]*entity.OrderItem, 0, len(reqItems))
	reserved := make([]reservation, 0, len(reqItems))
	now := time.Now()

	fail := func(err error) ([]*entity.OrderItem, []reservation, error) {
		s.releaseReservations(ctx, reserved)
		return nil, nil, err
	}

	for _, line := range reqItems {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return fail(fmt.Errorf("product ID %s: %w", line.ProductID, ErrValidation))
		}

		product, err := s.repo.Product.FindByID(ctx, productID)
		if err != nil {
			return fail(fmt.Errorf("find product %s: %w", line.ProductID, err))
		}
		if product == nil || !product.IsActive {
			return fail(fmt.Errorf("product %s: %w", line.ProductID, ErrNotFound))
		}

		unitPrice := product.Price
		variantLabel := ""
		var variantID *uuid.UUID

		if line.VariantID != "" {
			vid, err := uuid.Parse(line.VariantID)
			if err != nil {
				return fail(fmt.Errorf("variant ID %s: %w", line.VariantID, ErrValidation))
			}
			variant := product.VariantByID(vid)
			if variant == nil {
				return fail(fmt.Errorf("variant %s of product %s: %w", line.VariantID, product.Name, ErrNotFound))
			}
			unitPrice += variant.PriceAdjustment
			variantLabel = variant.VariantType + ": " + variant.Value
			variantID = &vid
		} else if product.HasVariants {
			return fail(fmt.Errorf("product %s requires a variant: %w", product.Name, ErrValidation))
		}

		if err := s.repo.Product.ReserveStock(ctx, productID, variantID, line.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return fail(fmt.Errorf("product %s: %w", product.Name, err))
			}
			return fail(fmt.Errorf("reserve stock for %s: %w", product.Name, err))
		}
		reserved = append(reserved, reservation{productID: productID, variantID: variantID, quantity: line.Quantity})

		item := &entity.OrderItem{
			ProductID:    productID,
			VariantID:    variantID,
			ProductName:  product.Name,
			VariantLabel: variantLabel,
			UnitPrice:    unitPrice,
			Quantity:     line.Quantity,
			Subtotal:     unitPrice * line.Quantity,
		}
		item.Stamp(now)
		items = append(items, item)
	}

	return items, reserved, nil
}

func (s *orderService) releaseReservations(ctx context.Context, reserved []reservation) {
	for _, r := range reserved {
		if err := s.repo.Product.ReleaseStock(ctx, r.productID, r.variantID, r.quantity); err != nil {
			s.log.Error("Release stock failed",
				zap.String("product_id", r.productID.String()),
				zap.Int64("quantity", r.quantity),
				zap.Error(err))
		}
	}
	s.invalidateProducts(ctx, reserved)
}

func (s *orderService) invalidateProducts(ctx context.Context, reserved []reservation) {
	for _, r := range reserved {
		s.cache.Invalidate(ctx, "product:"+r.productID.String())
	}
}

func (s *orderService) GetByID(ctx context.Context, userID *uuid.UUID, isAdmin bool, orderID string) (*response.OrderDetailResponse, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin {
		if userID == nil || order.UserID == nil || *order.UserID != *userID {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrForbidden)
		}
	}

	history, err := s.repo.Order.LoadHistory(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("load order history %s: %w", orderID, err)
	}

	detail := &response.OrderDetailResponse{OrderResponse: response.OrderToResponse(order)}
	for _, h := range history {
		detail.History = append(detail.History, response.OrderHistoryResponse{
			Status:    h.Status,
			Note:      h.Note,
			CreatedAt: h.CreatedAt,
		})
	}
	return detail, nil
}

func (s *orderService) Track(ctx context.Context, orderNumber, email string) (*response.OrderResponse, error) {
	order, err := s.repo.Order.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", orderNumber, err)
	}
	if order == nil || !strings.EqualFold(order.GuestEmail, email) {
		return nil, fmt.Errorf("order %s: %w", orderNumber, ErrNotFound)
	}

	items, err := s.repo.Order.LoadItems(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("load order items %s: %w", orderNumber, err)
	}
	order.Items = items

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	orders, err := s.repo.Order.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}

	total, err := s.repo.Order.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count user orders: %w", err)
	}

	return response.NewPaginatedResponse(s.toResponses(ctx, orders), req.Page, req.PerPage, total), nil
}

func (s *orderService) List(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	var filter *entity.OrderStatus
	if status != "" {
		st := entity.OrderStatus(status)
		filter = &st
	}

	orders, err := s.repo.Order.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	total, err := s.repo.Order.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	return response.NewPaginatedResponse(s.toResponses(ctx, orders), req.Page, req.PerPage, total), nil
}

func (s *orderService) Cancel(ctx context.Context, userID *uuid.UUID, isAdmin bool, orderID, reason string) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if !isAdmin {
		if userID == nil || order.UserID == nil || *order.UserID != *userID {
			return fmt.Errorf("order %s: %w", orderID, ErrForbidden)
		}
	}

	applied, err := s.repo.Order.MarkCancelled(ctx, order.ID, userID, reason, entity.CancellableStatuses)
	if err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	if !applied {
		return fmt.Errorf("order %s is not cancellable from %s: %w", order.OrderNumber, order.Status, ErrNotEligible)
	}

	// This caller owns the release: the conditional update above flipped the
	// row, so nobody else will hand these units back.
	reserved := make([]reservation, len(order.Items))
	for i, item := range order.Items {
		reserved[i] = reservation{productID: item.ProductID, variantID: item.VariantID, quantity: item.Quantity}
	}
	s.releaseReservations(ctx, reserved)

	s.recordHistory(ctx, order, entity.OrderStatusCancelled, reason, userID)

	s.publisher.Publish(ctx, events.Event{
		Type:     events.OrderCancelled,
		EntityID: order.ID.String(),
		Number:   order.OrderNumber,
		Payload:  map[string]any{"reason": reason},
	})

	s.log.Info("Order cancelled",
		zap.String("order_number", order.OrderNumber),
		zap.Bool("by_admin", isAdmin))

	if order.PaymentStatus == entity.PaymentStatusPaid {
		s.log.Warn("Cancelled order was already paid, refund required",
			zap.String("order_number", order.OrderNumber),
			zap.String("payment_reference", order.PaymentReference))
	}

	return nil
}

func (s *orderService) UpdateStatus(ctx context.Context, actorID uuid.UUID, orderID string, req *request.UpdateOrderStatusRequest) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}

	target := entity.OrderStatus(req.Status)
	from, ok := allowedTransitions[target]
	if !ok {
		return fmt.Errorf("status %s: %w", req.Status, ErrValidation)
	}

	applied, err := s.repo.Order.UpdateStatus(ctx, order.ID, from, target)
	if err != nil {
		return fmt.Errorf("update order status %s: %w", orderID, err)
	}
	if !applied {
		return fmt.Errorf("order %s cannot move from %s to %s: %w", order.OrderNumber, order.Status, target, ErrNotEligible)
	}

	s.recordHistory(ctx, order, target, req.Note, &actorID)

	return nil
}

// recordHistory appends a status trail row. The trail is advisory, so a
// failed append is logged rather than surfaced.
func (s *orderService) recordHistory(ctx context.Context, order *entity.Order, status entity.OrderStatus, note string, actorID *uuid.UUID) {
	history := &entity.OrderStatusHistory{
		OrderID: order.ID,
		Status:  status,
		Note:    note,
		ActorID: actorID,
	}
	history.Stamp(time.Now())
	if err := s.repo.Order.AppendHistory(ctx, history); err != nil {
		s.log.Error("Append order history failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}

// allowedTransitions maps each admin-settable status to the states it may be
// entered from. Paid-state transitions (to processing) and cancellation have
// their own guarded paths.
var allowedTransitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderStatusProcessing: {entity.OrderStatusPending},
	entity.OrderStatusShipped:    {entity.OrderStatusProcessing},
	entity.OrderStatusDelivered:  {entity.OrderStatusShipped},
}

func (s *orderService) loadOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("order ID %s: %w", orderID, ErrValidation)
	}

	order, err := s.repo.Order.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}

	items, err := s.repo.Order.LoadItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load order items %s: %w", orderID, err)
	}
	order.Items = items
	return order, nil
}

func (s *orderService) toResponses(ctx context.Context, orders []*entity.Order) []response.OrderResponse {
	items := make([]response.OrderResponse, len(orders))
	for i, o := range orders {
		loaded, err := s.repo.Order.LoadItems(ctx, o.ID)
		if err != nil {
			s.log.Warn("Load order items failed", zap.String("order_id", o.ID.String()), zap.Error(err))
		}
		o.Items = loaded
		items[i] = response.OrderToResponse(o)
	}
	return items
}

func (s *orderService) sendOrderConfirmation(order *entity.Order, to string) {
	if to == "" {
		return
	}

	body := fmt.Sprintf(
		"Thank you for your order %s.\n\nTotal: NGN %.2f\n",
		order.OrderNumber, float64(order.Total)/100,
	)
	if order.PaymentMethod == entity.PaymentMethodBankTransfer {
		body += fmt.Sprintf(
			"\nPlease transfer to:\n%s\n%s\n%s\n\nYour order ships once the transfer is confirmed.",
			s.config.Bank.BankName, s.config.Bank.AccountName, s.config.Bank.AccountNumber,
		)
	}

	s.notifier.Send(to, "Order confirmation "+order.OrderNumber, body)
}
