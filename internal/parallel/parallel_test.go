package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForCoversAllIndices(t *testing.T) {
	for _, threads := range []int{0, 1, 3, 16} {
		const n = 1000
		var hits [n]int32
		For(n, threads, func(i int) {
			atomic.AddInt32(&hits[i], 1)
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("threads=%d index %d visited %d times", threads, i, h)
			}
		}
	}
}

func TestForEmpty(t *testing.T) {
	called := false
	For(0, 4, func(i int) { called = true })
	For(-1, 4, func(i int) { called = true })
	if called {
		t.Error("fn must not run for empty ranges")
	}
}

func TestForMoreWorkersThanItems(t *testing.T) {
	var count int32
	For(3, 64, func(i int) { atomic.AddInt32(&count, 1) })
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestForSingleWorkerOrdered(t *testing.T) {
	var order []int
	For(5, 1, func(i int) { order = append(order, i) })
	for i, v := range order {
		if v != i {
			t.Fatalf("single worker out of order: %v", order)
		}
	}
}
