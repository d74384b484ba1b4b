package reorder

import (
	"sync"

	pq "github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/emirpasic/gods/utils"
)

// Buffer releases values strictly in index order. Values that arrive ahead of their turn
// are held until every lower index has been released.
type Buffer[T any] struct {
	priorityQueue pq.Queue // structure not thread safe
	mutex         sync.Mutex
	next          int
}

type Item[T any] struct {
	Index int
	Value T
}

func New[T any](start int) *Buffer[T] {
	return &Buffer[T]{priorityQueue: *pq.NewWith(byIndex[T]), next: start}
}

// Comparator function (sort by index in ascending order)
func byIndex[T any](a, b interface{}) int {
	return utils.IntComparator(a.(Item[T]).Index, b.(Item[T]).Index)
}

func (b *Buffer[T]) Add(index int, value T) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.priorityQueue.Enqueue(Item[T]{Index: index, Value: value})
}

// Next returns the value for the next index in sequence, if it has arrived.
func (b *Buffer[T]) Next() (value T, ok bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	peek, ok := b.priorityQueue.Peek()
	if !ok || peek.(Item[T]).Index != b.next {
		return value, false
	}
	item, _ := b.priorityQueue.Dequeue()
	b.next++
	return item.(Item[T]).Value, true
}

// Drain releases every value that is ready, in order.
func (b *Buffer[T]) Drain() []T {
	var out []T
	for v, ok := b.Next(); ok; v, ok = b.Next() {
		out = append(out, v)
	}
	return out
}

// NextIndex is the index the buffer is waiting for.
func (b *Buffer[T]) NextIndex() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.next
}

func (b *Buffer[T]) Pending() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.priorityQueue.Size()
}
