package paymentservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/pkg/randx"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// DefaultSuccessRate is the share of charges the simulator approves.
const DefaultSuccessRate = 0.9

const (
	base36        = "0123456789abcdefghijklmnopqrstuvwxyz"
	paymentSuffix = 9
)

// Simulator approves a charge with probability successRate. It never talks to
// a real processor.
type Simulator struct {
	rnd         randx.Source
	successRate float64
	now         func() time.Time
}

type SimulatorOption func(*Simulator)

func WithClock(now func() time.Time) SimulatorOption {
	return func(s *Simulator) { s.now = now }
}

func NewSimulator(rnd randx.Source, successRate float64, opts ...SimulatorOption) *Simulator {
	s := &Simulator{rnd: rnd, successRate: successRate, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.PaymentGateway = (*Simulator)(nil)

func (s *Simulator) Charge(ctx context.Context, _ decimal.Decimal, _ string) (entity.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return entity.PaymentResult{}, fmt.Errorf("payment: %w", err)
	}
	if s.rnd.Float64() >= s.successRate {
		return entity.PaymentResult{Success: false, Message: "Payment failed"}, nil
	}
	return entity.PaymentResult{
		Success:   true,
		PaymentID: s.paymentID(),
		Message:   "Payment processed successfully",
	}, nil
}

// paymentID has the form PAY-<unix millis>-<9 base-36 chars>.
func (s *Simulator) paymentID() string {
	var b strings.Builder
	b.Grow(paymentSuffix)
	for range paymentSuffix {
		b.WriteByte(base36[s.rnd.IntN(len(base36))])
	}
	return fmt.Sprintf("PAY-%d-%s", s.now().UnixMilli(), b.String())
}
