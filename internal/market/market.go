// Package market implements the matching engine: it owns the order
// book, the accounts ledger and the processed-orders journal, runs the
// price-time-priority match loop, and serializes every operation
// behind a single exclusive writer lock (the "envelope", C7).
package market

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"matchbook/internal/account"
	"matchbook/internal/book"
	"matchbook/internal/journal"
	"matchbook/internal/order"
	"matchbook/internal/side"
)

var (
	// ErrAccountNotFound is returned by CheckAccountUUID's callers when
	// the raw id does not name a stored account.
	ErrAccountNotFound = errors.New("market: account does not exist")
	// ErrOrderNotFound is returned by GetOrder when the order id names
	// neither a resting nor a journalled order, and by Cancel when it
	// names no resting order.
	ErrOrderNotFound = errors.New("market: order does not exist")
	// ErrInsufficientBalance is the solvency pre-check rejection.
	ErrInsufficientBalance = errors.New("market: account balance insufficient for order")
)

// Market is the single-writer owner of the book, accounts and
// journal. Every exported method acquires the envelope lock for its
// entire duration; the matching loop never releases it between steps.
type Market struct {
	mu sync.Mutex

	book     *book.Book
	accounts *account.Accounts
	journal  *journal.Journal

	metrics *Metrics
	logger  zerolog.Logger
}

// Option configures a Market at construction.
type Option func(*Market)

// WithJournalCapacity overrides the processed-orders journal capacity
// (default journal.DefaultCapacity).
func WithJournalCapacity(capacity int) Option {
	return func(m *Market) { m.journal = journal.New(capacity) }
}

// WithMetrics attaches a Metrics recorder (default: an unregistered
// recorder).
func WithMetrics(metrics *Metrics) Option {
	return func(m *Market) { m.metrics = metrics }
}

// New constructs an empty Market.
func New(opts ...Option) *Market {
	m := &Market{
		book:     book.New(),
		accounts: account.New(),
		journal:  journal.New(journal.DefaultCapacity),
		metrics:  NewMetrics(nil),
		logger:   log.With().Str("component", "market").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewAccount creates a new account and returns its handle.
func (m *Market) NewAccount(balance float64, position int32) (account.AccountId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.accounts.CreateNew(balance, position)
	if err != nil {
		m.logger.Warn().Err(err).Msg("rejected new account")
		return account.AccountId{}, err
	}
	m.logger.Info().Str("account_id", id.String()).Msg("account created")
	return id, nil
}

// CheckAccountUUID resolves a raw account identifier (as received from
// an HTTP header, say) into a live AccountId, iff that account exists.
func (m *Market) CheckAccountUUID(raw string) (account.AccountId, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.accounts.Lookup(raw)
}

// GetAccount returns the view of the account behind id.
func (m *Market) GetAccount(id account.AccountId) account.View {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.accounts.Get(id).View()
}

// Quote returns the current best ask and best bid, if any.
func (m *Market) Quote() (ask, bid *order.View) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if top := m.book.Peek(side.Ask); top != nil {
		v := top.View()
		ask = &v
	}
	if top := m.book.Peek(side.Bid); top != nil {
		v := top.View()
		bid = &v
	}
	return ask, bid
}

// ValidateOrder runs the solvency pre-check for o before it is
// admitted to the matching loop. o must already be structurally valid
// (order.Build's job); accountID must name the account o was built
// for.
func (m *Market) ValidateOrder(o *order.Order, accountID account.AccountId) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.accounts.CheckSufficientBalance(accountID, o.Side, o.Limit, o.Quantity) {
		m.metrics.RecordRejection()
		return ErrInsufficientBalance
	}
	return nil
}

// Submit runs the match loop for a freshly built, validated order and
// either journals it as Executed or rests the residual in the book.
// It returns the final view of the (now Pending or Executed) order.
func (m *Market) Submit(o *order.Order) order.View {
	m.mu.Lock()
	defer m.mu.Unlock()

	o.Status = order.Pending
	m.match(o)
	return o.View()
}

// match walks the opposite side of the book, producing fills for as
// long as incoming crosses the best counter order, then rests any
// residual quantity. It must be called with m.mu held; the loop does
// not release the lock between steps.
func (m *Market) match(incoming *order.Order) {
	other := incoming.Side.Opposite()
	sign := float64(incoming.Side.Sign())

	for {
		best := m.book.Peek(other)
		if best == nil {
			break
		}
		if best.Limit*sign > incoming.Limit*sign {
			break
		}

		m.book.Pop(other)

		qty := min(incoming.Quantity, best.Quantity)
		tradePrice := incoming.Limit

		m.accounts.HandleTransaction(incoming.AccountID, best.AccountID, incoming.Side, tradePrice, qty)
		m.metrics.RecordFill()

		incoming.Quantity -= qty
		best.Quantity -= qty

		m.logger.Debug().
			Str("aggressor", incoming.ID).
			Str("counterparty", best.ID).
			Float64("price", tradePrice).
			Uint64("quantity", qty).
			Msg("fill")

		if best.Quantity == 0 {
			best.Status = order.Executed
			m.journal.Push(best)
		} else {
			// best keeps its original timestamp, so it must go back to
			// the front of its level, ahead of any sibling orders that
			// arrived later and would otherwise leapfrog it.
			_ = m.book.ReinsertFront(best)
		}

		if incoming.Quantity == 0 {
			incoming.Status = order.Executed
			m.journal.Push(incoming)
			return
		}
	}

	if incoming.Quantity > 0 {
		_ = m.book.Insert(incoming)
	}
}

// Cancel removes a resting order from the book and journals it as
// Cancelled. It returns the cancelled order's view, or ErrOrderNotFound
// if id names no resting order (including if it is already terminal).
func (m *Market) Cancel(id string) (order.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o := m.book.Remove(id)
	if o == nil {
		return order.View{}, ErrOrderNotFound
	}
	o.Status = order.Cancelled
	m.journal.Push(o)
	m.metrics.RecordCancel()
	return o.View(), nil
}

// GetOrder looks up an order by id, checking the live book first and
// the journal second.
func (m *Market) GetOrder(id string) (order.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o := m.book.Find(id); o != nil {
		return o.View(), nil
	}
	if o := m.journal.Find(id); o != nil {
		return o.View(), nil
	}
	return order.View{}, ErrOrderNotFound
}

// GetOrdersByAccount returns every order (resting or journalled)
// belonging to accountID.
func (m *Market) GetOrdersByAccount(accountID account.AccountId) []order.View {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw := accountID.String()
	resting := m.book.FilterByAccount(raw)
	terminal := m.journal.FilterByAccount(raw)

	views := make([]order.View, 0, len(resting)+len(terminal))
	for _, o := range resting {
		views = append(views, o.View())
	}
	for _, o := range terminal {
		views = append(views, o.View())
	}
	return views
}
