package compute

import (
	"runtime"
	"sync"
)

// minRowsPerWorker keeps tiny grids on the calling goroutine.
const minRowsPerWorker = 16

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func NewCPUBackendWorkers(n int) *CPUBackend {
	if n < 1 {
		n = 1
	}
	return &CPUBackend{workers: n}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Workers() int    { return c.workers }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) ForRows(rows int, fn func(start, end int)) {
	if rows <= 0 {
		return
	}

	workers := c.workers
	if limit := rows / minRowsPerWorker; workers > limit {
		workers = limit
	}
	if workers <= 1 {
		fn(0, rows)
		return
	}

	var wg sync.WaitGroup
	chunkSize := (rows + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > rows {
			end = rows
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}

	wg.Wait()
}
