package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbook/internal/account"
	"matchbook/internal/order"
	"matchbook/internal/side"
)

func terminalOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	id, err := account.New().CreateNew(1e5, 0)
	require.NoError(t, err)
	o, err := order.Build(10, 1, side.Bid, id)
	require.NoError(t, err)
	o.Status = status
	return o
}

func TestPushAndFind(t *testing.T) {
	j := New(4)
	o := terminalOrder(t, order.Executed)
	j.Push(o)

	found := j.Find(o.ID)
	require.NotNil(t, found)
	assert.True(t, found.Equal(o))
	assert.Equal(t, 1, j.Len())
}

func TestFind_UnknownIDReturnsNil(t *testing.T) {
	j := New(4)
	assert.Nil(t, j.Find("unknown"))
}

func TestPush_EvictsOldestAtCapacity(t *testing.T) {
	j := New(2)
	first := terminalOrder(t, order.Executed)
	second := terminalOrder(t, order.Executed)
	third := terminalOrder(t, order.Executed)

	j.Push(first)
	j.Push(second)
	j.Push(third)

	assert.Equal(t, 2, j.Len(), "length never exceeds capacity")
	assert.Nil(t, j.Find(first.ID), "oldest entry silently evicted")
	assert.NotNil(t, j.Find(second.ID))
	assert.NotNil(t, j.Find(third.ID))
}

func TestLen_NeverExceedsCapacityAcrossManyPushes(t *testing.T) {
	j := New(3)
	for i := 0; i < 50; i++ {
		j.Push(terminalOrder(t, order.Cancelled))
		assert.LessOrEqual(t, j.Len(), 3)
	}
	assert.Equal(t, 3, j.Len())
}

func TestFilterByAccount(t *testing.T) {
	j := New(8)
	acc, err := account.New().CreateNew(1e5, 0)
	require.NoError(t, err)

	o1, err := order.Build(10, 1, side.Bid, acc)
	require.NoError(t, err)
	o1.Status = order.Executed
	o2, err := order.Build(20, 2, side.Ask, acc)
	require.NoError(t, err)
	o2.Status = order.Cancelled
	other := terminalOrder(t, order.Executed)

	j.Push(o1)
	j.Push(o2)
	j.Push(other)

	got := j.FilterByAccount(acc.String())
	assert.Len(t, got, 2)
}

func TestNew_NonPositiveCapacityFallsBackToDefault(t *testing.T) {
	j := New(0)
	assert.Equal(t, DefaultCapacity, j.capacity)
}
