// Package checkoutlog is the append-only audit trail of checkout pipeline runs.
//
// Every run writes a STARTED row, one STEP_DONE row per completed step and a
// final COMPLETED or FAILED row. Rows carry the trace and span IDs of the
// request so a failed checkout can be found in the tracing backend.
package checkoutlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusStepDone  Status = "STEP_DONE"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Entry is a single row of the checkout log.
type Entry struct {
	// CheckoutID identifies one pipeline run. It becomes the order ID when the
	// run gets far enough to persist an order.
	CheckoutID string
	UserID     string
	Status     Status
	// Step is the name of the step that just finished or failed. Empty on
	// STARTED rows.
	Step    string
	Errors  []string
	TraceID string
	SpanID  string
	At      time.Time
}

// Repository persists log entries. Append never updates an existing row.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	History(ctx context.Context, checkoutID string) ([]Entry, error)
}

// NewEntry builds an entry stamped with the span active in ctx, if any.
func NewEntry(ctx context.Context, checkoutID, userID string, status Status, step string, errs ...string) *Entry {
	e := &Entry{
		CheckoutID: checkoutID,
		UserID:     userID,
		Status:     status,
		Step:       step,
		Errors:     errs,
		At:         time.Now().UTC(),
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		e.TraceID = sc.TraceID().String()
		e.SpanID = sc.SpanID().String()
	}
	return e
}
