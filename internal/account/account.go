// Package account implements the Accounts registry: account creation,
// the AccountId handle, and the ledger mutations applied per fill.
package account

import (
	"errors"
	"math"
	"sync"

	"github.com/google/uuid"

	"matchbook/internal/side"
)

// ErrInvalidBalance is returned by CreateNew when balance is NaN or
// non-finite.
var ErrInvalidBalance = errors.New("account: balance must be a finite number")

// AccountId is an opaque handle to an account. Two AccountIds compare
// equal iff they refer to the same account. Only Accounts may mint
// one, and only for an account it already stores.
type AccountId struct {
	raw string
}

// String returns the handle's backing identifier, for logging and
// view rendering.
func (id AccountId) String() string {
	return id.raw
}

// Account is owned exclusively by the Accounts registry.
type Account struct {
	ID      string
	Balance float64
	// Position is signed inventory; may be negative (short allowed).
	Position int32
}

// View is the immutable external snapshot of an Account.
type View struct {
	ID       string  `json:"id"`
	Balance  float64 `json:"account_balance"`
	Position int32   `json:"position"`
}

// View produces the JSON-facing snapshot of a.
func (a *Account) View() View {
	return View{ID: a.ID, Balance: a.Balance, Position: a.Position}
}

// Accounts is an insertion-only registry mapping AccountId to Account.
type Accounts struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

// New constructs an empty Accounts registry.
func New() *Accounts {
	return &Accounts{accounts: make(map[string]*Account)}
}

// CreateNew inserts a new account with a fresh id and returns its
// handle.
func (a *Accounts) CreateNew(balance float64, position int32) (AccountId, error) {
	if math.IsNaN(balance) || math.IsInf(balance, 0) {
		return AccountId{}, ErrInvalidBalance
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	acc := &Account{ID: uuid.NewString(), Balance: balance, Position: position}
	a.accounts[acc.ID] = acc
	return AccountId{raw: acc.ID}, nil
}

// Lookup returns the handle for raw iff an account with that raw
// identifier exists.
func (a *Accounts) Lookup(raw string) (AccountId, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if _, ok := a.accounts[raw]; !ok {
		return AccountId{}, false
	}
	return AccountId{raw: raw}, true
}

// Get returns the account for id. id must have been minted by this
// registry; this is infallible for any such handle because Accounts
// never deletes accounts.
func (a *Accounts) Get(id AccountId) *Account {
	a.mu.RLock()
	defer a.mu.RUnlock()

	acc, ok := a.accounts[id.raw]
	if !ok {
		// An AccountId minted by this registry referring to a missing
		// account is an invariant violation: Accounts never deletes.
		panic("account: AccountId refers to an account no longer in the registry")
	}
	return acc
}

// CheckSufficientBalance is the solvency pre-check run before an order
// is admitted to the book. For a Bid, the account must be able to
// cover the full notional. For an Ask that would leave the account
// short, it must be able to cover 50% of the shortfall notional at the
// order's limit price; pre-existing long positions large enough to
// cover the order never trip this check.
func (a *Accounts) CheckSufficientBalance(id AccountId, s side.Side, limit float64, quantity uint64) bool {
	acc := a.Get(id)

	if s == side.Bid {
		return acc.Balance >= limit*float64(quantity)
	}

	resultingPosition := acc.Position - int32(quantity)
	if resultingPosition >= 0 {
		return true
	}
	shortfall := limit * float64(-resultingPosition) * 0.5
	return acc.Balance >= shortfall
}

// HandleTransaction atomically applies one fill's ledger effect. side
// is the aggressor's side: for a Bid aggressor, the aggressor gains
// inventory and pays cash while the counterparty does the opposite.
func (a *Accounts) HandleTransaction(aggressorID, counterpartyID AccountId, s side.Side, price float64, quantity uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	aggressor := a.accounts[aggressorID.raw]
	counterparty := a.accounts[counterpartyID.raw]

	sign := float64(s.Sign())
	qty := float64(quantity)

	aggressor.Position += int32(quantity) * int32(s.Sign())
	aggressor.Balance -= qty * price * sign

	counterparty.Position -= int32(quantity) * int32(s.Sign())
	counterparty.Balance += qty * price * sign
}
