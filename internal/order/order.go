// Package order implements the central Order entity: construction,
// validation, status transitions and the external view shape.
//
// An order exists in exactly one of three places at any time: the live
// order book (status Pending), the processed-orders journal (status
// Executed or Cancelled), or neither (status Created, pre-submission).
package order

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"matchbook/internal/account"
	"matchbook/internal/side"
)

// Status is the order's position in its lifecycle.
type Status int

const (
	Created Status = iota
	Pending
	Executed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Created:
		return "Created"
	case Pending:
		return "Pending"
	case Executed:
		return "Executed"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

var (
	// ErrInvalidLimit is returned when limit is NaN, non-finite, or <= 0.
	ErrInvalidLimit = errors.New("order: limit must be a finite, positive number")
	// ErrInvalidQuantity is returned when quantity is zero.
	ErrInvalidQuantity = errors.New("order: quantity must be greater than zero")
)

// Order is the central matching-engine entity. Fields other than
// Quantity and Status are fixed at construction; Quantity is the
// mutable residual quantity decremented by fills, and Status advances
// through the lifecycle above.
type Order struct {
	ID        string
	AccountID account.AccountId
	Side      side.Side
	Limit     float64
	Quantity  uint64
	Timestamp float64
	Status    Status
}

// Build constructs a new Created order with a fresh id and timestamp.
// It rejects structurally invalid input; it does not check account
// solvency or existence, which is the caller's (Market's) job.
func Build(limit float64, quantity uint64, s side.Side, accountID account.AccountId) (*Order, error) {
	if math.IsNaN(limit) || math.IsInf(limit, 0) || limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if quantity == 0 {
		return nil, ErrInvalidQuantity
	}

	return &Order{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Side:      s,
		Limit:     limit,
		Quantity:  quantity,
		Timestamp: nowSeconds(),
		Status:    Created,
	}, nil
}

// nowSeconds returns monotonic-enough wall-clock seconds since the
// Unix epoch, with resolution sufficient to distinguish orders
// arriving at least 1 microsecond apart. Ties, if they ever occur, are
// broken by insertion order within the order book (see internal/book).
func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// View is the immutable external snapshot of an Order.
type View struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Side      side.Side `json:"side"`
	Limit     float64   `json:"limit"`
	Quantity  uint64    `json:"quantity"`
	Timestamp float64   `json:"timestamp"`
	Status    string    `json:"status"`
}

// View produces the JSON-facing snapshot of o.
func (o *Order) View() View {
	return View{
		ID:        o.ID,
		AccountID: o.AccountID.String(),
		Side:      o.Side,
		Limit:     o.Limit,
		Quantity:  o.Quantity,
		Timestamp: o.Timestamp,
		Status:    o.Status.String(),
	}
}

// Equal compares orders by id only.
func (o *Order) Equal(other *Order) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.ID == other.ID
}
