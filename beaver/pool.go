//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package beaver

import (
	"sync"
)

func numWindows(n, size int) int {
	return (n + size - 1) / size
}

// results collects the outputs of concurrent workers keyed by window
// index.
type results[T any] struct {
	m        sync.Mutex
	byWindow map[int][]T
	err      error
}

func (r *results[T]) set(w int, values []T, err error) {
	r.m.Lock()
	defer r.m.Unlock()
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return
	}
	r.byWindow[w] = values
}

// flatten concatenates the window outputs in window order.
func (r *results[T]) flatten(count, n int) []T {
	result := make([]T, 0, n)
	for w := 0; w < count; w++ {
		result = append(result, r.byWindow[w]...)
	}
	return result
}

// Parallel splits n elements into windows of the engine's batch size
// and runs fn for each window on a pool of worker goroutines. The
// arguments from and to give the window's element range. The window
// outputs are returned concatenated in window order, independent of
// the workers' completion order.
func Parallel[T any](e *Engine, n int,
	fn func(w, from, to int) ([]T, error)) ([]T, error) {

	size := e.params.BatchSize
	count := numWindows(n, size)

	res := &results[T]{
		byWindow: make(map[int][]T),
	}
	jobs := make(chan int)

	threads := e.params.Threads
	if threads > count {
		threads = count
	}

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range jobs {
				from := w * size
				to := from + size
				if to > n {
					to = n
				}
				values, err := fn(w, from, to)
				res.set(w, values, err)
			}
		}()
	}
	for w := 0; w < count; w++ {
		jobs <- w
	}
	close(jobs)
	wg.Wait()

	if res.err != nil {
		return nil, res.err
	}
	return res.flatten(count, n), nil
}
