package utils

import (
	"slices"
	"testing"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/stretchr/testify/require"
)

func TestCircularQueueOverwritesOldest(t *testing.T) {
	q := NewCircularQueue[int](3)
	for i := 1; i <= 3; i++ {
		_, dropped, err := q.Append(i)
		require.NoError(t, err)
		require.False(t, dropped)
	}
	old, dropped, err := q.Append(4)
	require.NoError(t, err)
	require.True(t, dropped)
	require.Equal(t, 1, old)
	require.Equal(t, []int{2, 3, 4}, slices.Collect(q.Iter()))

	first, ok := q.Peek()
	require.True(t, ok)
	require.Equal(t, 2, first)
	last, ok := q.Last()
	require.True(t, ok)
	require.Equal(t, 4, last)
}

func TestCircularQueuePop(t *testing.T) {
	q := NewCircularQueue[string](2)
	_, _, _ = q.Append("a")
	_, _, _ = q.Append("b")
	_, _, _ = q.Append("c")

	v, ok := q.PopLast()
	require.True(t, ok)
	require.Equal(t, "c", v)
	v, ok = q.Pop()
	require.True(t, ok)
	require.Equal(t, "b", v)
	_, ok = q.Pop()
	require.False(t, ok)
	_, ok = q.PopLast()
	require.False(t, ok)

	_, _, _ = q.Append("d")
	require.Equal(t, []string{"d"}, slices.Collect(q.Iter()))
}

func TestCircularQueueClear(t *testing.T) {
	q := NewCircularQueue[int](4)
	for i := range 6 {
		_, _, _ = q.Append(i)
	}
	require.Equal(t, 4, q.Len())

	q.Clear()
	require.Zero(t, q.Len())
	require.Equal(t, 4, q.Cap())
	_, ok := q.Last()
	require.False(t, ok)
}

func TestCircularQueueZeroCapacity(t *testing.T) {
	q := NewCircularQueue[int](0)
	_, _, err := q.Append(1)
	require.Error(t, err)
}

func TestOrderedMapToString(t *testing.T) {
	m := orderedmap.NewOrderedMap[string, any]()
	m.Set("ts", 1.5)
	m.Set("mode", "falling")
	require.Equal(t, "[ts=1.5 mode=falling]", OrderedMapToString(m))
	require.Equal(t, "[]", OrderedMapToString(nil))
}

func TestFlags(t *testing.T) {
	require.Equal(t, uint8(0x11), SetFlag(0x01, 0x10, true))
	require.Equal(t, uint8(0x01), SetFlag(0x11, 0x10, false))
	require.True(t, HasFlag(0x11, 0x10))
	require.False(t, HasFlag(0x01, 0x10))
}
