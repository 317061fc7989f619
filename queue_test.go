package taskgraph

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskQueue_PushPopBack_LIFO(t *testing.T) {
	q := newTaskQueue(4)
	t1, t2, t3 := &Task{}, &Task{}, &Task{}
	q.pushBack(t1)
	q.pushBack(t2)
	q.pushBack(t3)

	require.Same(t, t3, q.popBack())
	require.Same(t, t2, q.popBack())
	require.Same(t, t1, q.popBack())
	require.Nil(t, q.popBack())
}

func TestTaskQueue_PopFront_FIFO(t *testing.T) {
	q := newTaskQueue(4)
	t1, t2, t3 := &Task{}, &Task{}, &Task{}
	q.pushBack(t1)
	q.pushBack(t2)
	q.pushBack(t3)

	require.Same(t, t1, q.popFront())
	require.Same(t, t2, q.popFront())
	require.Same(t, t3, q.popFront())
	require.Nil(t, q.popFront())
}

func TestTaskQueue_StealFromEmpty_ReturnsNilNeverBlocks(t *testing.T) {
	q := newTaskQueue(4)
	require.Nil(t, q.popFront())
}

func TestTaskQueue_PushAtCapacity_Panics(t *testing.T) {
	q := newTaskQueue(2)
	q.pushBack(&Task{})
	q.pushBack(&Task{})
	require.Panics(t, func() { q.pushBack(&Task{}) })
}

func TestTaskQueue_Clear_DropsEverything(t *testing.T) {
	q := newTaskQueue(4)
	q.pushBack(&Task{})
	q.pushBack(&Task{})
	q.clear()
	require.Equal(t, 0, q.len())
	require.Nil(t, q.popBack())
	require.Nil(t, q.popFront())
}

func TestTaskQueue_NoDuplicatesUnderConcurrentSteal(t *testing.T) {
	const n = 500
	q := newTaskQueue(n)
	seen := make([]*Task, n)
	for i := 0; i < n; i++ {
		seen[i] = &Task{}
		q.pushBack(seen[i])
	}

	var mu sync.Mutex
	taken := make(map[*Task]int)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				tk := q.popFront()
				if tk == nil {
					return
				}
				mu.Lock()
				taken[tk]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, taken, n)
	for _, count := range taken {
		require.Equal(t, 1, count)
	}
}
