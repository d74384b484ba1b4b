package reorder_test

import (
	"math/rand"
	"testing"

	"github.com/duneanalytics/block-to-payload/lib/reorder"
	"github.com/stretchr/testify/require"
)

func TestBufferHoldsEarlyItems(t *testing.T) {
	buf := reorder.New[string](0)
	buf.Add(2, "c")
	buf.Add(1, "b")

	_, ok := buf.Next()
	require.False(t, ok)
	require.Equal(t, 2, buf.Pending())
	require.Equal(t, 0, buf.NextIndex())

	buf.Add(0, "a")
	require.Equal(t, []string{"a", "b", "c"}, buf.Drain())
	require.Equal(t, 0, buf.Pending())
	require.Equal(t, 3, buf.NextIndex())
}

func TestBufferGap(t *testing.T) {
	buf := reorder.New[int](5)
	buf.Add(5, 50)
	buf.Add(7, 70)
	require.Equal(t, []int{50}, buf.Drain())
	require.Equal(t, 1, buf.Pending())
	buf.Add(6, 60)
	require.Equal(t, []int{60, 70}, buf.Drain())
}

func TestBufferShuffled(t *testing.T) {
	const n = 1000
	order := rand.Perm(n)
	buf := reorder.New[int](0)
	released := make([]int, 0, n)
	for _, i := range order {
		buf.Add(i, i*10)
		released = append(released, buf.Drain()...)
	}
	require.Len(t, released, n)
	for i, v := range released {
		require.Equal(t, i*10, v)
	}
}
