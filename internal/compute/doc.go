// Package compute provides the execution backends for grid sweeps.
//
// A sweep is split into disjoint row ranges:
//
//   - Serial: one range covering every row, run on the caller
//   - CPU: contiguous chunks, one goroutine each, joined before returning
//
// # Usage
//
//	backend := compute.GetBackend()
//	backend.ForRows(rows, func(start, end int) {
//		for j := start; j < end; j++ {
//			// update row j into the next buffer
//		}
//	})
//
// Because every row writes only its own cells of the destination buffer,
// the parallel result is identical to the serial one.
package compute
