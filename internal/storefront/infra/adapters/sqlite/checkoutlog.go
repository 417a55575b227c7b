package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jcmexdev/storefront/internal/storefront/core/checkoutlog"
)

// CheckoutLogRepository stores the checkout audit trail in checkout_logs.
type CheckoutLogRepository struct {
	db *sql.DB
}

func NewCheckoutLogRepository(db *DB) *CheckoutLogRepository {
	return &CheckoutLogRepository{db: db.db}
}

var _ checkoutlog.Repository = (*CheckoutLogRepository)(nil)

func (r *CheckoutLogRepository) Append(ctx context.Context, entry *checkoutlog.Entry) error {
	const q = `
		INSERT INTO checkout_logs
			(checkout_id, user_id, status, step, errors, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	errs := entry.Errors
	if errs == nil {
		errs = []string{}
	}
	errJSON, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("sqlite: encode checkout errors: %w", err)
	}

	_, err = r.db.ExecContext(ctx, q,
		entry.CheckoutID,
		entry.UserID,
		string(entry.Status),
		entry.Step,
		string(errJSON),
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.At),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append checkout log for %q: %w", entry.CheckoutID, err)
	}
	return nil
}

// History returns every entry of a checkout run in write order.
func (r *CheckoutLogRepository) History(ctx context.Context, checkoutID string) ([]checkoutlog.Entry, error) {
	const q = `
		SELECT checkout_id, user_id, status, step, errors, trace_id, span_id, created_at
		FROM   checkout_logs
		WHERE  checkout_id = ?
		ORDER  BY id`

	rows, err := r.db.QueryContext(ctx, q, checkoutID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: history of checkout %q: %w", checkoutID, err)
	}
	defer rows.Close()

	var entries []checkoutlog.Entry
	for rows.Next() {
		var (
			e       checkoutlog.Entry
			status  string
			errJSON string
			at      string
		)
		if err := rows.Scan(&e.CheckoutID, &e.UserID, &status, &e.Step, &errJSON, &e.TraceID, &e.SpanID, &at); err != nil {
			return nil, fmt.Errorf("sqlite: history of checkout %q: %w", checkoutID, err)
		}
		e.Status = checkoutlog.Status(status)
		if err := json.Unmarshal([]byte(errJSON), &e.Errors); err != nil {
			return nil, fmt.Errorf("sqlite: decode checkout errors: %w", err)
		}
		if e.At, err = parseTime(at); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: history of checkout %q: %w", checkoutID, err)
	}
	return entries, nil
}
