// Package parallel provides the worker fan-out used by the batch geometry
// operations. All workloads are CPU-bound and embarrassingly parallel, so a
// static block partition over a fixed worker count is sufficient.
package parallel

import (
	"runtime"
	"sync"
)

// For runs fn(i) for every i in [0, n), distributed over a pool of workers.
// threads selects the worker count; threads <= 0 uses one worker per
// available CPU. Results must be written by distinct index: For gives no
// ordering guarantee between elements, only that all calls have returned
// when it does.
func For(n, threads int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := threads
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			// Static block partition, matching element order to
			// worker rank so neighbouring indices stay together.
			start := w * n / workers
			end := (w + 1) * n / workers
			for i := start; i < end; i++ {
				fn(i)
			}
		}(w)
	}
	wg.Wait()
}
