package client

import (
	"context"
	"fmt"

	"github.com/02priyeshraj/Restaurant_POS_Backend/models"
)

// Syncer drives the per-table state machine
// (available -> engaged -> available) and keeps the server and the cache
// updated in the same step, so the UI never shows a status inconsistent with
// the last known server response. Failed server calls roll the optimistic
// cache transition back.
type Syncer struct {
	api   *APIClient
	cache *TableCache
}

func NewSyncer(api *APIClient, cache *TableCache) *Syncer {
	return &Syncer{api: api, cache: cache}
}

// RefreshTables pulls the table list, skipping the network when the last
// successful refresh is still within the cache window. force bypasses the
// throttle for explicit user actions.
func (s *Syncer) RefreshTables(ctx context.Context, force bool) ([]TableEntry, error) {
	if !force && !s.cache.ShouldRefresh() {
		return s.cache.Tables(), nil
	}

	tables, err := s.api.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.ApplyTables(tables)
	s.cache.MarkFetched()
	return s.cache.Tables(), nil
}

// CreateTable registers a table and refreshes the list past the throttle.
func (s *Syncer) CreateTable(ctx context.Context, tableNumber, capacity int) (*models.Table, error) {
	table, err := s.api.CreateTable(ctx, tableNumber, capacity)
	if err != nil {
		return nil, err
	}
	if _, err := s.RefreshTables(ctx, true); err != nil {
		return table, err
	}
	return table, nil
}

// PlaceOrder submits the table's drafted cart as a server order. On success
// the table is engaged on both sides; on failure the entry is restored and the
// error surfaced.
func (s *Syncer) PlaceOrder(ctx context.Context, tableNumber int, servedBy string) (*models.Order, error) {
	entry := s.cache.Entry(tableNumber)
	if entry == nil || entry.Order == nil || len(entry.Order.Items) == 0 {
		return nil, fmt.Errorf("%w: no items drafted for table %d", ErrInvalidInput, tableNumber)
	}
	if !entry.Order.ID.IsZero() {
		return nil, fmt.Errorf("%w: table %d already has an open order", ErrInvalidInput, tableNumber)
	}

	snapshot := s.cache.Entry(tableNumber)
	tag := s.cache.CurrentTag()

	order, err := s.api.CreateOrder(ctx, OrderRequest{
		TableNumber: tableNumber,
		Items:       entry.Order.Items,
		ServedBy:    servedBy,
	})
	if err != nil {
		s.cache.RestoreEntry(snapshot)
		return nil, err
	}

	// A stale response must not touch the cache after a table switch; the
	// next refresh reconciles it
	if s.cache.StillCurrent(tag) {
		s.cache.AttachOrder(tableNumber, order)
	}
	return order, nil
}

// SettleBill persists the drafted item list, completes the order and releases
// the table, all against the server, then mirrors the transition locally.
func (s *Syncer) SettleBill(ctx context.Context, tableNumber int, paymentMethod string) (*models.Order, error) {
	entry := s.cache.Entry(tableNumber)
	if entry == nil || entry.Order == nil || len(entry.Order.Items) == 0 {
		return nil, fmt.Errorf("%w: nothing to settle for table %d", ErrInvalidInput, tableNumber)
	}

	// A cart never sent to the server becomes an order first
	if entry.Order.ID.IsZero() {
		if _, err := s.PlaceOrder(ctx, tableNumber, entry.Order.ServedBy); err != nil {
			return nil, err
		}
		entry = s.cache.Entry(tableNumber)
	}

	snapshot := s.cache.Entry(tableNumber)
	tag := s.cache.CurrentTag()

	order, err := s.api.UpdateOrder(ctx, OrderUpdate{
		OrderId:       entry.Order.ID.Hex(),
		Items:         entry.Order.Items,
		PaymentMethod: paymentMethod,
		Status:        models.OrderCompleted,
		PaymentStatus: models.PaymentCompleted,
	})
	if err != nil {
		s.cache.RestoreEntry(snapshot)
		return nil, err
	}

	if s.cache.StillCurrent(tag) {
		s.cache.ReleaseTable(tableNumber)
	}
	return order, nil
}

// ClearTable releases a table, completing its open order as a side effect.
// Clearing a table without an order is a no-op.
func (s *Syncer) ClearTable(ctx context.Context, tableNumber int) error {
	entry := s.cache.Entry(tableNumber)
	if entry == nil || entry.Order == nil || len(entry.Order.Items) == 0 {
		return nil
	}

	if entry.Order.ID.IsZero() {
		// Drafted locally only; nothing server-side to complete
		s.cache.ReleaseTable(tableNumber)
		return nil
	}

	if _, err := s.SettleBill(ctx, tableNumber, entry.Order.PaymentMethod); err != nil {
		return err
	}
	return nil
}
