// Package affinity is the processor-affinity facility the scheduler
// consumes as an external collaborator: it can query the process's allowed
// cores and pin the calling OS thread to a subset of them. Core discovery
// and pinning are grounded on
// bgp59-victoriametrics-importer/vmi/internal/available_cpus_linux.go and
// process_unix.go, which use golang.org/x/sys/unix's sched_getaffinity /
// sched_setaffinity wrappers.
package affinity

import "runtime"

// Mask is an immutable set of CPU indices.
type Mask struct {
	bits map[int]struct{}
}

// All returns a mask containing every CPU index runtime.NumCPU() reports,
// used as the default when no affinity is requested.
func All() Mask {
	n := runtime.NumCPU()
	cpus := make([]int, n)
	for i := range cpus {
		cpus[i] = i
	}
	return FromCPUs(cpus...)
}

// FromCPUs builds a mask from an explicit set of CPU indices.
func FromCPUs(cpus ...int) Mask {
	bits := make(map[int]struct{}, len(cpus))
	for _, c := range cpus {
		bits[c] = struct{}{}
	}
	return Mask{bits: bits}
}

// Empty reports whether the mask contains no CPUs.
func (m Mask) Empty() bool { return len(m.bits) == 0 }

// Len reports how many CPUs are in the mask.
func (m Mask) Len() int { return len(m.bits) }

// Intersect returns the mask containing CPUs present in both m and other.
func (m Mask) Intersect(other Mask) Mask {
	out := make(map[int]struct{})
	for c := range m.bits {
		if _, ok := other.bits[c]; ok {
			out[c] = struct{}{}
		}
	}
	return Mask{bits: out}
}

// CPUs returns the mask's CPU indices in ascending order.
func (m Mask) CPUs() []int {
	out := make([]int, 0, len(m.bits))
	for c := range m.bits {
		out = append(out, c)
	}
	// Simple insertion sort: core counts are small (tens to low hundreds),
	// so this avoids pulling in sort for one call site per Initialize.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
