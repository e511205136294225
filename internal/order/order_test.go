package order

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbook/internal/account"
	"matchbook/internal/side"
)

func testAccountID(t *testing.T) account.AccountId {
	t.Helper()
	id, err := account.New().CreateNew(1e5, 0)
	require.NoError(t, err)
	return id
}

func TestBuild_Valid(t *testing.T) {
	acc := testAccountID(t)
	o, err := Build(20.0, 10, side.Ask, acc)
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, Created, o.Status)
	assert.Equal(t, uint64(10), o.Quantity)
	assert.Greater(t, o.Timestamp, 0.0)
}

func TestBuild_RejectsInvalidLimit(t *testing.T) {
	acc := testAccountID(t)

	for _, limit := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Build(limit, 10, side.Bid, acc)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	}
}

func TestBuild_RejectsZeroQuantity(t *testing.T) {
	acc := testAccountID(t)
	_, err := Build(10, 0, side.Bid, acc)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestEqual_ByIDOnly(t *testing.T) {
	acc := testAccountID(t)
	o1, _ := Build(10, 5, side.Bid, acc)
	o2, _ := Build(10, 5, side.Bid, acc)

	assert.True(t, o1.Equal(o1))
	assert.False(t, o1.Equal(o2))
}

func TestView_RendersStatusString(t *testing.T) {
	acc := testAccountID(t)
	o, _ := Build(10, 5, side.Ask, acc)
	o.Status = Executed

	v := o.View()
	assert.Equal(t, "Executed", v.Status)
	assert.Equal(t, "Ask", string(mustMarshalSide(t, v.Side)))
}

func mustMarshalSide(t *testing.T, s side.Side) []byte {
	t.Helper()
	b, err := s.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	// strip quotes for the simple string comparison above
	return b[1 : len(b)-1]
}
