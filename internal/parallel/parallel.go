// Package parallel provides the fork-join loops used by the neighbor
// searchers and the particle solvers.
//
// Every call splits its range into contiguous slices, runs one slice per
// goroutine (the last one on the calling goroutine) and returns only after
// all slices finished. There is no ordering between slices, so callbacks
// must only write memory owned by their own indices.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// minChunk is the smallest slice worth a goroutine.
const minChunk = 64

var maxThreads atomic.Int64

func init() {
	maxThreads.Store(int64(runtime.NumCPU()))
}

// SetMaxThreads caps the number of slices per loop. Values below one mean one.
func SetMaxThreads(n int) {
	if n < 1 {
		n = 1
	}
	maxThreads.Store(int64(n))
}

func MaxThreads() int {
	return int(maxThreads.Load())
}

// For calls fn(i) for every i in [begin, end).
func For(begin, end int, fn func(i int)) {
	RangeFor(begin, end, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			fn(i)
		}
	})
}

// RangeFor hands each slice of [begin, end) to fn exactly once.
func RangeFor(begin, end int, fn func(lo, hi int)) {
	n := end - begin
	if n <= 0 {
		return
	}

	workers := MaxThreads()
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		fn(begin, end)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers-1; w++ {
		lo := begin + w*chunkSize
		hi := lo + chunkSize
		if lo >= end {
			break
		}
		if hi > end {
			hi = end
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(lo, hi)
	}

	if lo := begin + (workers-1)*chunkSize; lo < end {
		fn(lo, end)
	}

	wg.Wait()
}
