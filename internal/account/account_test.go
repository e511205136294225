package account

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbook/internal/side"
)

func TestCreateNew_Valid(t *testing.T) {
	a := New()
	id, err := a.CreateNew(1000, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, id.String())

	acc := a.Get(id)
	assert.Equal(t, 1000.0, acc.Balance)
	assert.Equal(t, int32(0), acc.Position)
}

func TestCreateNew_RejectsNonFiniteBalance(t *testing.T) {
	a := New()
	for _, balance := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := a.CreateNew(balance, 0)
		assert.ErrorIs(t, err, ErrInvalidBalance)
	}
}

func TestLookup(t *testing.T) {
	a := New()
	id, err := a.CreateNew(500, 0)
	require.NoError(t, err)

	found, ok := a.Lookup(id.String())
	assert.True(t, ok)
	assert.Equal(t, id, found)

	_, ok = a.Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestGet_PanicsOnUnknownHandle(t *testing.T) {
	a := New()
	assert.Panics(t, func() {
		a.Get(AccountId{raw: "bogus"})
	})
}

func TestCheckSufficientBalance_Bid(t *testing.T) {
	a := New()
	id, err := a.CreateNew(100, 0)
	require.NoError(t, err)

	assert.True(t, a.CheckSufficientBalance(id, side.Bid, 10, 10))
	assert.False(t, a.CheckSufficientBalance(id, side.Bid, 10, 11))
}

func TestCheckSufficientBalance_AskWithSufficientLongPosition(t *testing.T) {
	a := New()
	id, err := a.CreateNew(0, 10)
	require.NoError(t, err)

	assert.True(t, a.CheckSufficientBalance(id, side.Ask, 50, 10))
}

func TestCheckSufficientBalance_AskRequiringShortfallMargin(t *testing.T) {
	a := New()
	// position 0, selling 10 leaves a short position of -10; margin
	// required is 50% of the shortfall notional at the order's limit.
	id, err := a.CreateNew(249, 0)
	require.NoError(t, err)

	assert.False(t, a.CheckSufficientBalance(id, side.Ask, 50, 10))

	id2, err := a.CreateNew(251, 0)
	require.NoError(t, err)
	assert.True(t, a.CheckSufficientBalance(id2, side.Ask, 50, 10))
}

func TestHandleTransaction_BidAggressorGainsInventorySpendsCash(t *testing.T) {
	a := New()
	buyer, err := a.CreateNew(1000, 0)
	require.NoError(t, err)
	seller, err := a.CreateNew(0, 5)
	require.NoError(t, err)

	a.HandleTransaction(buyer, seller, side.Bid, 10, 3)

	buyerAcc := a.Get(buyer)
	sellerAcc := a.Get(seller)

	assert.Equal(t, 970.0, buyerAcc.Balance)
	assert.Equal(t, int32(3), buyerAcc.Position)
	assert.Equal(t, 30.0, sellerAcc.Balance)
	assert.Equal(t, int32(2), sellerAcc.Position)
}

func TestHandleTransaction_AskAggressorSellsInventoryReceivesCash(t *testing.T) {
	a := New()
	seller, err := a.CreateNew(0, 5)
	require.NoError(t, err)
	buyer, err := a.CreateNew(1000, 0)
	require.NoError(t, err)

	a.HandleTransaction(seller, buyer, side.Ask, 10, 3)

	sellerAcc := a.Get(seller)
	buyerAcc := a.Get(buyer)

	assert.Equal(t, 30.0, sellerAcc.Balance)
	assert.Equal(t, int32(2), sellerAcc.Position)
	assert.Equal(t, 970.0, buyerAcc.Balance)
	assert.Equal(t, int32(3), buyerAcc.Position)
}

func TestHandleTransaction_ConservesBalanceAndPosition(t *testing.T) {
	a := New()
	x, err := a.CreateNew(500, 2)
	require.NoError(t, err)
	y, err := a.CreateNew(500, -2)
	require.NoError(t, err)

	totalBalanceBefore := a.Get(x).Balance + a.Get(y).Balance
	totalPositionBefore := a.Get(x).Position + a.Get(y).Position

	a.HandleTransaction(x, y, side.Bid, 7.5, 4)

	totalBalanceAfter := a.Get(x).Balance + a.Get(y).Balance
	totalPositionAfter := a.Get(x).Position + a.Get(y).Position

	assert.Equal(t, totalBalanceBefore, totalBalanceAfter)
	assert.Equal(t, totalPositionBefore, totalPositionAfter)
}
