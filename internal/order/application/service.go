package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/microshop/microshop/internal/order/domain"
	"github.com/microshop/microshop/pkg/tracing"
)

// Service orchestrates order creation across the products service and the
// order store: validate and price every line item against a remote stock
// snapshot, reject the whole cart if anything is unavailable, then apply
// best-effort stock decrements and persist the priced order.
type Service struct {
	log  *slog.Logger
	repo OrderRepository
	inv  InventoryClient

	// Bound on each inventory round trip; a timed-out lookup makes the
	// item unavailable rather than stalling the cart.
	lookupTimeout time.Duration
	updateTimeout time.Duration
	maxInflight   int
}

func NewService(log *slog.Logger, repo OrderRepository, inv InventoryClient) *Service {
	return &Service{
		log:           log,
		repo:          repo,
		inv:           inv,
		lookupTimeout: 5 * time.Second,
		updateTimeout: 5 * time.Second,
		maxInflight:   8,
	}
}

// itemOutcome holds the classification of one line item after its lookup.
// Exactly one of priced/unavailable is set.
type itemOutcome struct {
	priced      *domain.PricedLineItem
	unavailable *UnavailableItem
}

// CreateOrder runs the validate-then-commit workflow. It returns the
// persisted order, or one of ErrInvalidIdentity, ErrInvalidLineItem,
// *RejectedError, or a repository error. Rejection happens before any
// inventory write; once the commit phase starts the call runs to
// completion even if the caller goes away.
func (s *Service) CreateOrder(ctx context.Context, identity domain.Identity, items []domain.LineItem) (domain.Order, error) {
	if !identity.Valid() {
		return domain.Order{}, ErrInvalidIdentity
	}
	merged, err := mergeLineItems(items)
	if err != nil {
		return domain.Order{}, err
	}

	outcomes := s.validateItems(ctx, merged)
	if err := ctx.Err(); err != nil {
		// Caller cancelled before the gate decision: nothing was mutated.
		return domain.Order{}, err
	}

	priced := make([]domain.PricedLineItem, 0, len(merged))
	var unavailable []UnavailableItem
	for _, out := range outcomes {
		if out.unavailable != nil {
			unavailable = append(unavailable, *out.unavailable)
			continue
		}
		priced = append(priced, *out.priced)
	}
	if len(unavailable) > 0 {
		return domain.Order{}, &RejectedError{Unavailable: unavailable}
	}

	// Commit phase. Detached from caller cancellation: once the decision
	// is made, every decrement is attempted and the order is persisted.
	commitCtx := context.WithoutCancel(ctx)
	s.applyDecrements(commitCtx, priced)

	o := domain.NewOrder(identity, priced)
	created, err := s.repo.AppendWithOutbox(commitCtx, o, tracing.Traceparent(ctx))
	if err != nil {
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}
	s.log.Info("order created",
		"order_id", created.ID,
		"user_email", created.UserEmail,
		"total_cents", created.TotalCents,
		"items", len(created.Items),
	)
	return created, nil
}

// validateItems fans out one lookup per line item. Lookups are independent:
// a slow or failing product never blocks classification of the others, and
// the gate decision waits for all of them.
func (s *Service) validateItems(ctx context.Context, items []domain.LineItem) []itemOutcome {
	outcomes := make([]itemOutcome, len(items))

	g := new(errgroup.Group)
	g.SetLimit(s.maxInflight)
	for i, item := range items {
		g.Go(func() error {
			outcomes[i] = s.lookupItem(ctx, item)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (s *Service) lookupItem(ctx context.Context, item domain.LineItem) itemOutcome {
	callCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	rec, err := s.inv.Fetch(callCtx, item.ProductID)
	switch {
	case errors.Is(err, ErrProductNotFound):
		return itemOutcome{unavailable: &UnavailableItem{ProductID: item.ProductID, Reason: ReasonNotFound}}
	case err != nil:
		s.log.Warn("inventory lookup failed", "product_id", item.ProductID, "err", err)
		return itemOutcome{unavailable: &UnavailableItem{ProductID: item.ProductID, Reason: ReasonUnreachable}}
	case rec.Stock < item.Quantity:
		return itemOutcome{unavailable: &UnavailableItem{ProductID: item.ProductID, Reason: ReasonInsufficientStock}}
	}

	return itemOutcome{priced: &domain.PricedLineItem{
		ProductID:      item.ProductID,
		Quantity:       item.Quantity,
		UnitPriceCents: rec.PriceCents,
		StockBefore:    rec.Stock,
		StockAfter:     rec.Stock - item.Quantity,
	}}
}

// applyDecrements writes the new stock value for every accepted item. The
// writes are best-effort: each one is attempted exactly once, failures are
// logged and counted but never fail the order, and there is no early abort
// once the phase begins.
func (s *Service) applyDecrements(ctx context.Context, items []domain.PricedLineItem) {
	failures := make([]error, len(items))

	g := new(errgroup.Group)
	g.SetLimit(s.maxInflight)
	for i, li := range items {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, s.updateTimeout)
			defer cancel()
			failures[i] = s.inv.UpdateStock(callCtx, li.ProductID, li.StockAfter)
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for i, err := range failures {
		if err == nil {
			continue
		}
		failed++
		s.log.Error("stock decrement failed after acceptance",
			"product_id", items[i].ProductID,
			"new_stock", items[i].StockAfter,
			"err", err,
		)
	}
	if failed > 0 {
		s.log.Error("order commit left inventory partially updated", "failed_decrements", failed, "total_items", len(items))
	}
}

// mergeLineItems validates quantities and folds duplicate product ids into
// one line, so each distinct product gets exactly one lookup.
func mergeLineItems(items []domain.LineItem) ([]domain.LineItem, error) {
	if len(items) == 0 {
		return nil, ErrInvalidLineItem
	}

	index := make(map[string]int, len(items))
	merged := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, ErrInvalidLineItem
		}
		if at, ok := index[item.ProductID]; ok {
			merged[at].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}
