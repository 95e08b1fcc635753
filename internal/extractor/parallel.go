package extractor

import (
	"runtime"
	"sync"
)

// parallelFor runs fn(i) over i in [0, n) using up to workers goroutines.
// workers <= 0 means GOMAXPROCS. Work is distributed by striding so that
// slow files early in the listing do not starve a single worker.
func parallelFor(n, workers int, fn func(i int)) {
	if n <= 0 {
		return
	}
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
		w := w
		go func() {
			defer wg.Done()
			for i := w; i < n; i += workers {
				fn(i)
			}
		}()
	}

	wg.Wait()
}
