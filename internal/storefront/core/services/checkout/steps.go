package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// --- ValidateRequestStep ---

type validateRequestStep struct{}

func (validateRequestStep) Name() string { return "Validate_Request_Step" }

func (validateRequestStep) Execute(_ context.Context, r *run) error {
	return r.req.Validate()
}

// --- ResolveUserStep ---

type resolveUserStep struct {
	users ports.UserRepository
}

func (s *resolveUserStep) Name() string { return "Resolve_User_Step" }

func (s *resolveUserStep) Execute(ctx context.Context, r *run) error {
	u, err := s.users.GetByID(ctx, r.req.UserID)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}
	r.user = u
	return nil
}

// --- SaveAddressStep ---

// saveAddressStep copies the shipping address onto a profile that has none.
// Failing to save it does not stop the checkout.
type saveAddressStep struct {
	users ports.UserRepository
}

func (s *saveAddressStep) Name() string { return "Save_Address_Step" }

func (s *saveAddressStep) Execute(ctx context.Context, r *run) error {
	if r.user.Address != nil {
		return nil
	}
	stored, err := s.users.SetAddressIfEmpty(ctx, r.user.ID, *r.req.ShippingAddress)
	if err != nil {
		slog.WarnContext(ctx, "could not store default address", "user_id", r.user.ID, "error", err)
		r.note("address not stored: " + err.Error())
		return nil
	}
	if stored {
		r.user.Address = r.req.ShippingAddress
	}
	return nil
}

// --- PaymentChargeStep ---

// paymentChargeStep charges the snapshot total. Declines, transport errors and
// timeouts all become a failed payment; the order is recorded either way.
type paymentChargeStep struct {
	payments ports.PaymentGateway
	timeout  time.Duration
}

func (s *paymentChargeStep) Name() string { return "Payment_Charge_Step" }

func (s *paymentChargeStep) Execute(ctx context.Context, r *run) error {
	chargeCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		chargeCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.payments.Charge(chargeCtx, r.req.Total, r.req.PaymentMethod)
	if err != nil {
		slog.WarnContext(ctx, "payment call failed, recording a failed payment",
			"checkout_id", r.id,
			"error", err,
		)
		r.note("payment call failed: " + err.Error())
		res = entity.PaymentResult{Success: false, Message: "Payment failed"}
	}
	if !res.Success {
		r.note("payment declined: " + res.Message)
	}
	r.payment = res
	return nil
}

// --- PersistOrderStep ---

type persistOrderStep struct {
	orders ports.OrderRepository
	now    func() time.Time
}

func (s *persistOrderStep) Name() string { return "Persist_Order_Step" }

func (s *persistOrderStep) Execute(ctx context.Context, r *run) error {
	o := buildOrder(r, s.now().UTC())
	if err := s.orders.Create(ctx, o); err != nil {
		return fmt.Errorf("persist order: %w", err)
	}
	r.order = o
	return nil
}

// buildOrder snapshots the line items and folds the payment result into the
// order. Only product ID, quantity and price survive from each line.
func buildOrder(r *run, now time.Time) *entity.Order {
	items := make([]entity.OrderItem, len(r.req.Items))
	for i, line := range r.req.Items {
		items[i] = entity.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   r.id,
			ProductID: strings.TrimSpace(line.ProductID),
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
	}

	totals := ComputeTotals(r.req.Total)
	o := &entity.Order{
		ID:              r.id,
		UserID:          r.req.UserID,
		Items:           items,
		Subtotal:        totals.Subtotal,
		Shipping:        totals.Shipping,
		Tax:             totals.Tax,
		Total:           totals.Total,
		ShippingAddress: *r.req.ShippingAddress,
		BillingAddress:  *r.req.BillingAddress,
		PaymentMethod:   r.req.PaymentMethod,
		Status:          entity.OrderStatusFailed,
		PaymentStatus:   entity.PaymentStatusFailed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if r.payment.Success {
		o.Status = entity.OrderStatusConfirmed
		o.PaymentStatus = entity.PaymentStatusPaid
		id := r.payment.PaymentID
		o.PaymentID = &id
	}
	return o
}
