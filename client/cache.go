package client

import (
	"encoding/json"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/02priyeshraj/Restaurant_POS_Backend/helper"
	"github.com/02priyeshraj/Restaurant_POS_Backend/models"
)

const (
	// snapshotTTL bounds how long a parked order stays resolvable by id.
	snapshotTTL = 5 * time.Minute
	// refreshWindow throttles full table-list refreshes.
	refreshWindow = 5 * time.Minute
	// snapshotLimit bounds the id->order snapshot cache.
	snapshotLimit = 32
)

// TableEntry mirrors one server table plus its resolved current order. The
// order is always a resolved object or nil; a bare order id from the server is
// parked in PendingOrderID until the entry is activated.
type TableEntry struct {
	TableNumber    int           `json:"tableNumber"`
	Capacity       int           `json:"capacity"`
	Status         string        `json:"status"`
	Order          *models.Order `json:"order"`
	PendingOrderID string        `json:"pendingOrderId,omitempty"`
	FetchedAt      time.Time     `json:"fetchedAt"`
}

type orderSnapshot struct {
	Order    models.Order `json:"order"`
	CachedAt time.Time    `json:"cachedAt"`
}

// Tag identifies the table and session epoch a request was issued under. A
// response whose tag no longer matches current state is discarded instead of
// being applied to the wrong table.
type Tag struct {
	TableNumber int
	Epoch       uint64
}

// cacheState is the persisted form of the cache.
type cacheState struct {
	Tables      map[int]*TableEntry      `json:"tables"`
	ActiveTable int                      `json:"activeTable"`
	Snapshots   map[string]orderSnapshot `json:"snapshots"`
	LastFetch   time.Time                `json:"lastFetch"`
}

// TableCache is the client-side mirror of tables and their open orders. Every
// mutation is written through to a JSON file so a restarted session picks up
// where it left off.
type TableCache struct {
	mu          sync.Mutex
	path        string
	hydrated    bool
	epoch       uint64
	tables      map[int]*TableEntry
	activeTable int
	snapshots   map[string]orderSnapshot
	lastFetch   time.Time
	now         func() time.Time
}

func NewTableCache(path string) *TableCache {
	return &TableCache{
		path:      path,
		tables:    map[int]*TableEntry{},
		snapshots: map[string]orderSnapshot{},
		now:       time.Now,
	}
}

// Hydrate loads the persisted state. It runs at most once per session; later
// calls are no-ops.
func (c *TableCache) Hydrate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hydrated {
		return nil
	}
	c.hydrated = true

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var state cacheState
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt snapshot must not take the session down; start fresh.
		return nil
	}

	if state.Tables != nil {
		c.tables = state.Tables
	}
	if state.Snapshots != nil {
		c.snapshots = state.Snapshots
	}
	c.activeTable = state.ActiveTable
	c.lastFetch = state.LastFetch
	return nil
}

func (c *TableCache) persistLocked() {
	state := cacheState{
		Tables:      c.tables,
		ActiveTable: c.activeTable,
		Snapshots:   c.snapshots,
		LastFetch:   c.lastFetch,
	}
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	// Persistence failures leave the in-memory state authoritative
	_ = os.WriteFile(c.path, data, 0644)
}

func (c *TableCache) entryLocked(tableNumber int) *TableEntry {
	entry, ok := c.tables[tableNumber]
	if !ok {
		entry = &TableEntry{
			TableNumber: tableNumber,
			Status:      models.TableAvailable,
		}
		c.tables[tableNumber] = entry
	}
	return entry
}

func newPendingOrder(tableNumber int) *models.Order {
	n := tableNumber
	return &models.Order{
		TableNumber:   &n,
		Items:         []models.OrderItem{},
		Status:        models.OrderActive,
		PaymentStatus: models.PaymentPending,
	}
}

func copyOrder(o *models.Order) *models.Order {
	if o == nil {
		return nil
	}
	dup := *o
	dup.Items = append([]models.OrderItem(nil), o.Items...)
	if o.TableNumber != nil {
		n := *o.TableNumber
		dup.TableNumber = &n
	}
	return &dup
}

// SetActiveTable switches the UI's single active table. The outgoing table's
// order is snapshotted into the id cache; the incoming table's order is
// resolved from a pending id (within the TTL) or materialized as an empty
// pending order so callers never see undefined state.
func (c *TableCache) SetActiveTable(tableNumber int) *TableEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activeTable == tableNumber {
		return c.entryLocked(tableNumber)
	}

	if outgoing, ok := c.tables[c.activeTable]; ok && outgoing.Order != nil && !outgoing.Order.ID.IsZero() {
		c.snapshotLocked(outgoing.Order)
	}

	c.activeTable = tableNumber
	c.epoch++

	entry := c.entryLocked(tableNumber)
	c.resolveLocked(entry)
	c.persistLocked()
	return entry
}

func (c *TableCache) snapshotLocked(order *models.Order) {
	c.snapshots[order.ID.Hex()] = orderSnapshot{
		Order:    *copyOrder(order),
		CachedAt: c.now(),
	}
	c.pruneSnapshotsLocked()
}

func (c *TableCache) pruneSnapshotsLocked() {
	cutoff := c.now().Add(-snapshotTTL)
	for id, snap := range c.snapshots {
		if snap.CachedAt.Before(cutoff) {
			delete(c.snapshots, id)
		}
	}
	// Drop oldest entries past the bound
	for len(c.snapshots) > snapshotLimit {
		oldestID := ""
		var oldestAt time.Time
		for id, snap := range c.snapshots {
			if oldestID == "" || snap.CachedAt.Before(oldestAt) {
				oldestID = id
				oldestAt = snap.CachedAt
			}
		}
		delete(c.snapshots, oldestID)
	}
}

// resolveLocked guarantees the entry holds a resolved order object.
func (c *TableCache) resolveLocked(entry *TableEntry) {
	if entry.Order != nil {
		return
	}
	if entry.PendingOrderID != "" {
		if snap, ok := c.snapshots[entry.PendingOrderID]; ok && c.now().Sub(snap.CachedAt) < snapshotTTL {
			resolved := snap.Order
			entry.Order = copyOrder(&resolved)
			entry.PendingOrderID = ""
			return
		}
		entry.PendingOrderID = ""
	}
	entry.Order = newPendingOrder(entry.TableNumber)
}

func (c *TableCache) ActiveTable() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeTable
}

// ActiveOrder returns the canonical current-order reference: the active
// entry's order itself, never a diverging copy.
func (c *TableCache) ActiveOrder() *models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.tables[c.activeTable]
	if !ok {
		return nil
	}
	return entry.Order
}

// AddItem applies an optimistic cart mutation: an existing line's quantity is
// incremented, otherwise a new line is appended with quantity 1 and the price
// snapshotted at add time. Totals are recomputed before any server round-trip.
func (c *TableCache) AddItem(tableNumber int, productID, name string, price float64) *models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entryLocked(tableNumber)
	c.resolveLocked(entry)

	order := entry.Order
	found := false
	for i := range order.Items {
		if order.Items[i].Product == productID {
			order.Items[i].Quantity++
			order.Items[i].Subtotal = helper.LineSubtotal(order.Items[i].Price, order.Items[i].Quantity)
			found = true
			break
		}
	}
	if !found {
		order.Items = append(order.Items, models.OrderItem{
			Product:  productID,
			Name:     name,
			Quantity: 1,
			Price:    price,
			Subtotal: price,
		})
	}

	c.recomputeLocked(order)
	c.persistLocked()
	return order
}

// UpdateQuantity sets a line's quantity; zero or below removes the line.
func (c *TableCache) UpdateQuantity(tableNumber int, productID string, quantity int) *models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.tables[tableNumber]
	if !ok || entry.Order == nil {
		return nil
	}

	order := entry.Order
	for i := range order.Items {
		if order.Items[i].Product != productID {
			continue
		}
		if quantity <= 0 {
			order.Items = append(order.Items[:i], order.Items[i+1:]...)
		} else {
			order.Items[i].Quantity = quantity
			order.Items[i].Subtotal = helper.LineSubtotal(order.Items[i].Price, quantity)
		}
		break
	}

	c.recomputeLocked(order)
	c.persistLocked()
	return order
}

// RemoveItem drops a line entirely.
func (c *TableCache) RemoveItem(tableNumber int, productID string) *models.Order {
	return c.UpdateQuantity(tableNumber, productID, 0)
}

func (c *TableCache) recomputeLocked(order *models.Order) {
	bill := helper.CalculateBill(order.Items)
	order.Subtotal = bill.Subtotal
	order.Gst = bill.Gst
	order.Total = bill.Total
}

// Entry returns a deep copy of a table's cache entry, or nil if absent.
func (c *TableCache) Entry(tableNumber int) *TableEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.tables[tableNumber]
	if !ok {
		return nil
	}
	dup := *entry
	dup.Order = copyOrder(entry.Order)
	return &dup
}

// RestoreEntry puts back a snapshot taken with Entry; the sync layer uses it
// to roll back an optimistic transition after a failed server call.
func (c *TableCache) RestoreEntry(entry *TableEntry) {
	if entry == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	dup := *entry
	dup.Order = copyOrder(entry.Order)
	c.tables[entry.TableNumber] = &dup
	c.persistLocked()
}

// AttachOrder installs the server's order record on a table entry and marks it
// engaged.
func (c *TableCache) AttachOrder(tableNumber int, order *models.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entryLocked(tableNumber)
	entry.Order = copyOrder(order)
	entry.PendingOrderID = ""
	entry.Status = models.TableEngaged
	c.persistLocked()
}

// ReleaseTable clears a table after its order is settled. The settled order is
// snapshotted so a late lookup by id still resolves within the TTL.
func (c *TableCache) ReleaseTable(tableNumber int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entryLocked(tableNumber)
	if entry.Order != nil && !entry.Order.ID.IsZero() {
		c.snapshotLocked(entry.Order)
	}
	entry.Order = nil
	entry.PendingOrderID = ""
	entry.Status = models.TableAvailable
	c.persistLocked()
}

// ApplyTables reconciles the cache with a server table list. Locally drafted
// carts that the server does not know about yet are kept.
func (c *TableCache) ApplyTables(tables []models.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := map[int]bool{}
	for _, table := range tables {
		if table.TableNumber == nil {
			continue
		}
		n := *table.TableNumber
		seen[n] = true

		entry := c.entryLocked(n)
		if table.Capacity != nil {
			entry.Capacity = *table.Capacity
		}
		entry.Status = table.Status
		entry.FetchedAt = c.now()

		switch {
		case table.CurrentOrder == nil:
			// Server knows no order; keep a locally drafted cart, drop a
			// stale server order
			if entry.Order != nil && !entry.Order.ID.IsZero() {
				c.snapshotLocked(entry.Order)
				entry.Order = nil
			}
			entry.PendingOrderID = ""
		case entry.Order != nil && entry.Order.ID.Hex() == *table.CurrentOrder:
			// Already resolved
		default:
			if snap, ok := c.snapshots[*table.CurrentOrder]; ok && c.now().Sub(snap.CachedAt) < snapshotTTL {
				resolved := snap.Order
				entry.Order = copyOrder(&resolved)
				entry.PendingOrderID = ""
			} else if entry.Order == nil || entry.Order.ID.IsZero() {
				// Bare id awaiting resolution on activation
				entry.PendingOrderID = *table.CurrentOrder
			}
		}
	}

	// Drop tables the server no longer lists (soft-deleted)
	for n := range c.tables {
		if !seen[n] {
			delete(c.tables, n)
		}
	}

	c.persistLocked()
}

// Tables returns the cached entries sorted by table number.
func (c *TableCache) Tables() []TableEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]TableEntry, 0, len(c.tables))
	for _, entry := range c.tables {
		dup := *entry
		dup.Order = copyOrder(entry.Order)
		out = append(out, dup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableNumber < out[j].TableNumber })
	return out
}

// ShouldRefresh reports whether the refresh throttle window has elapsed.
func (c *TableCache) ShouldRefresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Sub(c.lastFetch) >= refreshWindow
}

// MarkFetched stamps a successful table-list refresh.
func (c *TableCache) MarkFetched() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastFetch = c.now()
	c.persistLocked()
}

// CurrentTag captures the table and epoch a request is issued under.
func (c *TableCache) CurrentTag() Tag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Tag{TableNumber: c.activeTable, Epoch: c.epoch}
}

// StillCurrent reports whether a response tagged at issue time may still be
// applied, i.e. the user has not switched tables since.
func (c *TableCache) StillCurrent(tag Tag) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return tag.Epoch == c.epoch && tag.TableNumber == c.activeTable
}
