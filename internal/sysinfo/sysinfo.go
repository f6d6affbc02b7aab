// Package sysinfo reports host capacity used to size worker pools and to
// warn before loading a database that will not fit in memory.
package sysinfo

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"seqsearch/internal/errors"
)

// NumCPU is the number of logical CPUs, falling back to the Go runtime's
// view when the OS query fails.
func NumCPU() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Memory returns total and available physical memory in bytes.
func Memory() (total, available uint64, err error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to get memory stats")
	}
	return v.Total, v.Available, nil
}

// ExceedsAvailable reports whether size bytes is more than the available
// memory. It is false when memory cannot be queried.
func ExceedsAvailable(size int64) (bool, uint64) {
	if size <= 0 {
		return false, 0
	}
	_, avail, err := Memory()
	if err != nil || avail == 0 {
		return false, 0
	}
	return uint64(size) > avail, avail
}
