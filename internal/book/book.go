// Package book implements the order book: two keyed priority queues
// (bids, asks) with price-time priority, plus an id index so orders
// can be found and cancelled without a linear scan.
//
// Each side is a btree.BTreeG of price levels; each price level holds
// its resting orders in arrival order, which gives time priority
// within a level for free via slice append/front-pop.
package book

import (
	"errors"

	"github.com/tidwall/btree"

	"matchbook/internal/order"
	"matchbook/internal/side"
)

var (
	// ErrNotPending is returned by Insert when the order is not ready
	// to rest (wrong status or zero quantity).
	ErrNotPending = errors.New("book: order must have quantity > 0 and status Pending to be inserted")
)

// PriceLevel holds every resting order sharing the same limit price
// on one side of the book, oldest first.
type PriceLevel struct {
	Price  float64
	Orders []*order.Order
}

type levels = btree.BTreeG[*PriceLevel]

// location records where an order currently sits, so Find/Remove can
// jump straight to its price level instead of scanning the tree.
type location struct {
	side  side.Side
	level *PriceLevel
}

// Book is the two-sided order book.
type Book struct {
	bids *levels // ordered highest price first
	asks *levels // ordered lowest price first

	index map[string]location // order id -> location, O(1) expected
}

// New constructs an empty order book.
func New() *Book {
	bids := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price > b.Price // descending: Min() yields the highest bid
	})
	asks := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price < b.Price // ascending: Min() yields the lowest ask
	})
	return &Book{
		bids:  bids,
		asks:  asks,
		index: make(map[string]location),
	}
}

func (b *Book) treeFor(s side.Side) *levels {
	if s == side.Bid {
		return b.bids
	}
	return b.asks
}

// Peek returns the top resting order of side s without mutating the
// book, or nil if that side is empty.
func (b *Book) Peek(s side.Side) *order.Order {
	lvl, ok := b.treeFor(s).Min()
	if !ok || len(lvl.Orders) == 0 {
		return nil
	}
	return lvl.Orders[0]
}

// Pop removes and returns the top resting order of side s, or nil if
// that side is empty.
func (b *Book) Pop(s side.Side) *order.Order {
	top := b.Peek(s)
	if top == nil {
		return nil
	}
	b.removeFromLevel(s, top.ID)
	return top
}

// Insert places a genuinely new order o into the side indicated by
// o.Side, behind any sibling orders already resting at its price. o
// must have Quantity > 0 and Status Pending.
func (b *Book) Insert(o *order.Order) error {
	return b.place(o, false)
}

// ReinsertFront puts a partially-filled resting order o back at the
// front of its price level, preserving its original timestamp's
// priority over siblings that arrived later. It must be used instead
// of Insert whenever o was already resting (and thus already holds
// time priority) rather than freshly built.
func (b *Book) ReinsertFront(o *order.Order) error {
	return b.place(o, true)
}

func (b *Book) place(o *order.Order, front bool) error {
	if o.Quantity == 0 || o.Status != order.Pending {
		return ErrNotPending
	}

	tree := b.treeFor(o.Side)
	probe := &PriceLevel{Price: o.Limit}
	lvl, ok := tree.Get(probe)
	if !ok {
		lvl = &PriceLevel{Price: o.Limit}
		tree.Set(lvl)
	}
	if front {
		lvl.Orders = append([]*order.Order{o}, lvl.Orders...)
	} else {
		lvl.Orders = append(lvl.Orders, o)
	}
	b.index[o.ID] = location{side: o.Side, level: lvl}
	return nil
}

// Find returns the resting order with the given id, or nil.
func (b *Book) Find(id string) *order.Order {
	loc, ok := b.index[id]
	if !ok {
		return nil
	}
	for _, o := range loc.level.Orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Remove removes and returns the order with the given id from
// whichever side it is on, or nil if it is not resting.
func (b *Book) Remove(id string) *order.Order {
	loc, ok := b.index[id]
	if !ok {
		return nil
	}
	return b.removeFromLevel(loc.side, id)
}

// removeFromLevel splices id out of its price level, deleting the
// level from the tree if it becomes empty, and drops the id index
// entry. Returns the removed order, or nil if id was not indexed.
func (b *Book) removeFromLevel(s side.Side, id string) *order.Order {
	loc, ok := b.index[id]
	if !ok {
		return nil
	}

	lvl := loc.level
	var removed *order.Order
	for i, o := range lvl.Orders {
		if o.ID == id {
			removed = o
			lvl.Orders = append(lvl.Orders[:i], lvl.Orders[i+1:]...)
			break
		}
	}
	delete(b.index, id)

	if len(lvl.Orders) == 0 {
		b.treeFor(s).Delete(lvl)
	}
	return removed
}

// IsEmpty reports whether side s has no resting orders.
func (b *Book) IsEmpty(s side.Side) bool {
	return b.treeFor(s).Len() == 0
}

// FilterByAccount returns a snapshot of all resting orders belonging
// to accountID. Order of the result is unspecified.
func (b *Book) FilterByAccount(accountID string) []*order.Order {
	var out []*order.Order
	for id, loc := range b.index {
		for _, o := range loc.level.Orders {
			if o.ID == id && o.AccountID.String() == accountID {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

// Levels returns a snapshot of the price levels on side s, in
// priority order, for diagnostics and tests. The returned slice and
// its PriceLevel pointers must not be mutated by callers.
func (b *Book) Levels(s side.Side) []*PriceLevel {
	var out []*PriceLevel
	b.treeFor(s).Scan(func(lvl *PriceLevel) bool {
		out = append(out, lvl)
		return true
	})
	return out
}
