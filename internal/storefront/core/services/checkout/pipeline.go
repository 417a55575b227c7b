package checkout

import (
	"context"
	"log/slog"

	"github.com/jcmexdev/storefront/internal/storefront/core/checkoutlog"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// run is the state shared by the steps of one checkout.
type run struct {
	id      string
	req     Request
	user    *entity.User
	payment entity.PaymentResult
	order   *entity.Order
	// notes are attached to the next log entry and then cleared.
	notes []string
}

func (r *run) note(msg string) { r.notes = append(r.notes, msg) }

// step is a single unit of work in the checkout pipeline.
type step interface {
	Name() string
	Execute(ctx context.Context, r *run) error
}

// pipeline runs steps in order and stops at the first error. Nothing is
// compensated: the only step with external effects before persistence is the
// address side effect, which is not transactional with the order.
type pipeline struct {
	steps []step
	log   checkoutlog.Repository
}

func (p *pipeline) start(ctx context.Context, r *run) error {
	p.record(ctx, r, checkoutlog.StatusStarted, "")

	for _, s := range p.steps {
		if err := s.Execute(ctx, r); err != nil {
			slog.WarnContext(ctx, "checkout step failed",
				"checkout_id", r.id,
				"step", s.Name(),
				"error", err,
			)
			r.note(err.Error())
			p.record(ctx, r, checkoutlog.StatusFailed, s.Name())
			return err
		}
		p.record(ctx, r, checkoutlog.StatusStepDone, s.Name())
	}

	p.record(ctx, r, checkoutlog.StatusCompleted, "")
	return nil
}

// record appends to the audit log. A log write failure never fails checkout.
func (p *pipeline) record(ctx context.Context, r *run, status checkoutlog.Status, stepName string) {
	entry := checkoutlog.NewEntry(ctx, r.id, r.req.UserID, status, stepName, r.notes...)
	r.notes = nil
	if err := p.log.Append(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "checkout log write failed",
			"checkout_id", r.id,
			"status", status,
			"error", err,
		)
	}
}
