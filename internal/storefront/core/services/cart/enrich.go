package cart

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// Enrich looks up every item in the catalog concurrently. A failed lookup
// leaves that item's Product nil and never affects the others. The result has
// the same order as items.
func (s *Service) Enrich(ctx context.Context, items []entity.CartItem) []entity.EnrichedItem {
	out := make([]entity.EnrichedItem, len(items))

	// The group is used for its concurrency limit only; workers never return
	// an error, so one failure cannot cancel the rest.
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, item := range items {
		out[i] = entity.EnrichedItem{CartItem: item}
		g.Go(func() error {
			p, err := s.catalog.FetchByID(ctx, item.ProductID)
			if err != nil {
				slog.WarnContext(ctx, "cart item enrichment degraded",
					"product_id", item.ProductID,
					"error", err,
				)
				return nil
			}
			out[i].Product = p
			return nil
		})
	}
	_ = g.Wait()

	return out
}
